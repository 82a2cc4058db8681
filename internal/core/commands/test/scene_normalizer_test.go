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

// This file covers the scene normalizer: exact scene count for any input,
// contiguous renumbering, narration backfill, field defaults, and
// idempotence on already normalized scenes.
package commands_test

import (
	"fmt"
	"testing"

	"github.com/zeebo/assert"

	"github.com/reelworks/go-scene-script/internal/core/commands"
	"github.com/reelworks/go-scene-script/internal/core/model"
)

func rawScene(index int, narration string) *model.RawScene {
	return &model.RawScene{
		Index:           index,
		NarrationText:   narration,
		ImagePrompt:     fmt.Sprintf("prompt %d", index),
		Emotion:         "happy",
		Transition:      "slide",
		DurationSeconds: 10,
	}
}

func TestNormalizeScenesExactCount(t *testing.T) {
	raw := []*model.RawScene{rawScene(1, "one"), rawScene(2, "two"), rawScene(3, "three")}
	scenes := commands.NormalizeScenes(raw, 3, 30)
	assert.Equal(t, 3, len(scenes))
	for i, scene := range scenes {
		assert.Equal(t, i+1, scene.Index)
	}
}

func TestNormalizeScenesTruncatesExtras(t *testing.T) {
	raw := make([]*model.RawScene, 0, 7)
	for i := 1; i <= 7; i++ {
		raw = append(raw, rawScene(i, fmt.Sprintf("scene %d", i)))
	}
	scenes := commands.NormalizeScenes(raw, 5, 60)
	assert.Equal(t, 5, len(scenes))
	assert.Equal(t, "scene 5", scenes[4].NarrationText)
	for i, scene := range scenes {
		assert.Equal(t, i+1, scene.Index)
	}
}

func TestNormalizeScenesPadsByDuplicatingLast(t *testing.T) {
	raw := []*model.RawScene{rawScene(1, "only scene")}
	scenes := commands.NormalizeScenes(raw, 3, 30)
	assert.Equal(t, 3, len(scenes))
	assert.Equal(t, "only scene", scenes[1].NarrationText)
	assert.Equal(t, "only scene", scenes[2].NarrationText)
	// The duplicates are distinct values, not shared pointers.
	scenes[1].NarrationText = "mutated"
	assert.Equal(t, "only scene", scenes[2].NarrationText)
}

func TestNormalizeScenesEmptyInputYieldsPlaceholders(t *testing.T) {
	scenes := commands.NormalizeScenes(nil, 4, 40)
	assert.Equal(t, 4, len(scenes))
	for i, scene := range scenes {
		assert.Equal(t, i+1, scene.Index)
		assert.Equal(t, fmt.Sprintf("シーン %d", i+1), scene.SubtitleText)
		assert.Equal(t, model.DefaultImagePrompt, scene.ImagePrompt)
		assert.Equal(t, model.EmotionNeutral, scene.Emotion)
		assert.Equal(t, model.TransitionFade, scene.Transition)
		assert.Equal(t, 10.0, scene.DurationSeconds)
	}
}

func TestNormalizeScenesBackfillsNarration(t *testing.T) {
	raw := []*model.RawScene{
		rawScene(1, "spoken first"),
		{Index: 2, ImagePrompt: "prompt 2"},
	}
	scenes := commands.NormalizeScenes(raw, 2, 20)
	// A silent scene inherits the preceding scene's narration, and its
	// subtitle follows its own narration.
	assert.Equal(t, "spoken first", scenes[1].NarrationText)
	assert.Equal(t, "spoken first", scenes[1].SubtitleText)
}

func TestNormalizeScenesFirstSceneSilent(t *testing.T) {
	raw := []*model.RawScene{{Index: 1, ImagePrompt: "prompt 1"}}
	scenes := commands.NormalizeScenes(raw, 1, 10)
	// No preceding scene to inherit from, so the placeholder applies.
	assert.Equal(t, "シーン 1", scenes[0].NarrationText)
	assert.Equal(t, "シーン 1", scenes[0].SubtitleText)
}

func TestNormalizeScenesDefaultsAndClamps(t *testing.T) {
	raw := []*model.RawScene{
		{
			Index:         9,
			NarrationText: "  padded  ",
			Emotion:       "furious",
			Transition:    "spin",
			EmphasisWords: []string{"one", "", "two", "three", "four"},
			SoundEffects: []*model.SoundEffect{
				{Keyword: "crowd", Volume: 3.2},
				{Keyword: ""},
				nil,
			},
		},
	}
	scenes := commands.NormalizeScenes(raw, 1, 12)
	scene := scenes[0]
	assert.Equal(t, 1, scene.Index)
	assert.Equal(t, "padded", scene.NarrationText)
	assert.Equal(t, model.EmotionNeutral, scene.Emotion)
	assert.Equal(t, model.TransitionFade, scene.Transition)
	assert.Equal(t, 12.0, scene.DurationSeconds)
	// At most three non-blank emphasis words survive.
	assert.DeepEqual(t, []string{"one", "two", "three"}, scene.EmphasisWords)
	// Blank-keyword and nil effects are dropped, volumes are clamped.
	assert.Equal(t, 1, len(scene.SoundEffects))
	assert.Equal(t, 1.0, scene.SoundEffects[0].Volume)
}

func TestNormalizeScenesIdempotent(t *testing.T) {
	raw := []*model.RawScene{rawScene(1, "one"), {Index: 2}, rawScene(7, "seven")}
	first := commands.NormalizeScenes(raw, 5, 50)

	// Feed the normalized output back through as raw scenes.
	again := make([]*model.RawScene, 0, len(first))
	for _, scene := range first {
		again = append(again, &model.RawScene{
			Index:           scene.Index,
			DurationSeconds: scene.DurationSeconds,
			NarrationText:   scene.NarrationText,
			SubtitleText:    scene.SubtitleText,
			ImagePrompt:     scene.ImagePrompt,
			Emotion:         string(scene.Emotion),
			Transition:      string(scene.Transition),
			EmphasisWords:   scene.EmphasisWords,
			SoundEffects:    scene.SoundEffects,
		})
	}
	second := commands.NormalizeScenes(again, 5, 50)

	assert.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Index, second[i].Index)
		assert.Equal(t, first[i].NarrationText, second[i].NarrationText)
		assert.Equal(t, first[i].SubtitleText, second[i].SubtitleText)
		assert.Equal(t, first[i].ImagePrompt, second[i].ImagePrompt)
		assert.Equal(t, first[i].Emotion, second[i].Emotion)
		assert.Equal(t, first[i].Transition, second[i].Transition)
		assert.Equal(t, first[i].DurationSeconds, second[i].DurationSeconds)
	}
}

func TestNormalizeScenesGuardsDegenerateArguments(t *testing.T) {
	scenes := commands.NormalizeScenes(nil, 0, -5)
	assert.Equal(t, 1, len(scenes))
	assert.True(t, scenes[0].DurationSeconds > 0)
}
