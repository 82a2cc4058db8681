// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This file covers the two post-normalization passes: the transition policy
// that breaks up runs of identical transitions, and the pronunciation
// lexicon applied to narration.
package commands_test

import (
	"testing"

	"github.com/zeebo/assert"

	"github.com/reelworks/go-scene-script/internal/core/commands"
	"github.com/reelworks/go-scene-script/internal/core/model"
)

func transitionScenes(values ...model.Transition) []*model.Scene {
	scenes := make([]*model.Scene, 0, len(values))
	for i, v := range values {
		scenes = append(scenes, &model.Scene{Index: i + 1, Transition: v})
	}
	return scenes
}

func TestTransitionPolicyBreaksRuns(t *testing.T) {
	scenes := transitionScenes(
		model.TransitionFade, model.TransitionFade, model.TransitionFade, model.TransitionFade)
	commands.ApplyTransitionPolicy(scenes)

	assert.Equal(t, model.TransitionFade, scenes[0].Transition)
	assert.Equal(t, model.TransitionFade, scenes[1].Transition)
	// The third repeat rotates to the next transition; the fourth scene then
	// no longer completes a run of three.
	assert.Equal(t, model.TransitionSlide, scenes[2].Transition)
	assert.Equal(t, model.TransitionFade, scenes[3].Transition)
}

func TestTransitionPolicyCompliantListUntouched(t *testing.T) {
	scenes := transitionScenes(
		model.TransitionFade, model.TransitionFade, model.TransitionSlide, model.TransitionFade)
	commands.ApplyTransitionPolicy(scenes)

	assert.Equal(t, model.TransitionFade, scenes[0].Transition)
	assert.Equal(t, model.TransitionFade, scenes[1].Transition)
	assert.Equal(t, model.TransitionSlide, scenes[2].Transition)
	assert.Equal(t, model.TransitionFade, scenes[3].Transition)
}

func TestTransitionPolicyWrapsRotation(t *testing.T) {
	scenes := transitionScenes(
		model.TransitionWipe, model.TransitionWipe, model.TransitionWipe)
	commands.ApplyTransitionPolicy(scenes)
	// Wipe is the last value in the rotation, so the replacement wraps to fade.
	assert.Equal(t, model.TransitionFade, scenes[2].Transition)
}

func TestTransitionPolicyShortLists(t *testing.T) {
	scenes := transitionScenes(model.TransitionZoom, model.TransitionZoom)
	commands.ApplyTransitionPolicy(scenes)
	assert.Equal(t, model.TransitionZoom, scenes[0].Transition)
	assert.Equal(t, model.TransitionZoom, scenes[1].Transition)

	commands.ApplyTransitionPolicy(nil)
}

func TestApplyLexiconNarrationOnly(t *testing.T) {
	scenes := []*model.Scene{
		{Index: 1, NarrationText: "GCS にアップロードします。", SubtitleText: "GCS にアップロードします。"},
	}
	commands.ApplyLexicon(scenes, map[string]string{"GCS": "ジーシーエス"})

	assert.Equal(t, "ジーシーエス にアップロードします。", scenes[0].NarrationText)
	// Subtitles keep the original spelling for on-screen display.
	assert.Equal(t, "GCS にアップロードします。", scenes[0].SubtitleText)
}

func TestApplyLexiconLongestKeyFirst(t *testing.T) {
	scenes := []*model.Scene{{Index: 1, NarrationText: "BigQuery ML is fast."}}
	commands.ApplyLexicon(scenes, map[string]string{
		"BigQuery":    "ビッグクエリ",
		"BigQuery ML": "ビッグクエリエムエル",
	})
	assert.Equal(t, "ビッグクエリエムエル is fast.", scenes[0].NarrationText)
}

func TestApplyLexiconEmpty(t *testing.T) {
	scenes := []*model.Scene{{Index: 1, NarrationText: "unchanged"}}
	commands.ApplyLexicon(scenes, nil)
	assert.Equal(t, "unchanged", scenes[0].NarrationText)
}
