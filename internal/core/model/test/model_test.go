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

// Package model_test covers the domain model: request defaults and
// validation, script identity, enum parsing fallbacks, and the alias
// handling of the raw decode targets.
package model_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelworks/go-scene-script/internal/core/model"
)

func TestGenerationRequestDefaults(t *testing.T) {
	request := &model.GenerationRequest{SourceText: "a theme"}
	request.ApplyDefaults()
	assert.Equal(t, 5, request.SceneCount)
	assert.Equal(t, "cinematic", request.Style)
	assert.InDelta(t, 60.0, request.TargetDurationSeconds, 0.001)

	// Explicit values survive.
	request = &model.GenerationRequest{SourceText: "a theme", SceneCount: 8, Style: "documentary", TargetDurationSeconds: 90}
	request.ApplyDefaults()
	assert.Equal(t, 8, request.SceneCount)
	assert.Equal(t, "documentary", request.Style)
	assert.InDelta(t, 90.0, request.TargetDurationSeconds, 0.001)
}

func TestGenerationRequestValidation(t *testing.T) {
	err := (&model.GenerationRequest{SourceText: "   ", SceneCount: 3}).Validate()
	var validationErr *model.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "source_text", validationErr.Field)

	err = (&model.GenerationRequest{SourceText: "theme", SceneCount: 0}).Validate()
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "scene_count", validationErr.Field)

	assert.NoError(t, (&model.GenerationRequest{SourceText: "theme", SceneCount: 1}).Validate())
}

func TestNewScriptDeterministicId(t *testing.T) {
	first := model.NewScript("the same theme")
	second := model.NewScript("the same theme")
	other := model.NewScript("a different theme")

	assert.Equal(t, first.Id, second.Id)
	assert.NotEqual(t, first.Id, other.Id)
	assert.Equal(t, "the same theme", first.Theme)
	assert.NotNil(t, first.Scenes)
}

func TestParseEmotionFallback(t *testing.T) {
	assert.Equal(t, model.EmotionExcited, model.ParseEmotion("excited"))
	assert.Equal(t, model.EmotionNeutral, model.ParseEmotion("furious"))
	assert.Equal(t, model.EmotionNeutral, model.ParseEmotion(""))
}

func TestParseTransitionFallback(t *testing.T) {
	assert.Equal(t, model.TransitionWipe, model.ParseTransition("wipe"))
	assert.Equal(t, model.TransitionFade, model.ParseTransition("crossfade"))
	assert.Equal(t, model.TransitionFade, model.ParseTransition(""))
}

func TestRawSceneCanonicalKeyWins(t *testing.T) {
	in := `{"index": 3, "scene_index": 9, "narration_text": "canonical", "narration": "alias", "duration_seconds": 5, "duration": 99}`
	scene := &model.RawScene{}
	require.NoError(t, json.Unmarshal([]byte(in), scene))
	assert.Equal(t, 3, scene.Index)
	assert.Equal(t, "canonical", scene.NarrationText)
	assert.InDelta(t, 5.0, scene.DurationSeconds, 0.001)
}

func TestSceneCloneIsDeep(t *testing.T) {
	scene := model.GetExampleScene()
	clone := scene.Clone()

	clone.NarrationText = "changed"
	clone.EmphasisWords[0] = "changed"
	clone.SoundEffects[0].Keyword = "changed"

	assert.NotEqual(t, scene.NarrationText, clone.NarrationText)
	assert.NotEqual(t, scene.EmphasisWords[0], clone.EmphasisWords[0])
	assert.NotEqual(t, scene.SoundEffects[0].Keyword, clone.SoundEffects[0].Keyword)
}
