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

// This file covers the deterministic fallback splitter: sentence boundary
// handling for Japanese and Latin punctuation, the ceiling-division chunk
// assignment, and placeholder synthesis past the available material.
package commands_test

import (
	"testing"

	"github.com/zeebo/assert"

	"github.com/reelworks/go-scene-script/internal/core/commands"
	"github.com/reelworks/go-scene-script/internal/core/model"
)

func TestSplitBySentencesCeilingDivision(t *testing.T) {
	scenes := commands.SplitBySentences("今日は良い天気です。公園に行きました。犬を見ました。", 2, 20)
	assert.Equal(t, 2, len(scenes))
	// Three sentences over two scenes: the first scene takes two.
	assert.Equal(t, "今日は良い天気です。公園に行きました。", scenes[0].NarrationText)
	assert.Equal(t, "犬を見ました。", scenes[1].NarrationText)
	assert.Equal(t, 1, scenes[0].Index)
	assert.Equal(t, 2, scenes[1].Index)
	assert.Equal(t, 10.0, scenes[0].DurationSeconds)
}

func TestSplitBySentencesOnePerScene(t *testing.T) {
	scenes := commands.SplitBySentences("One. Two! Three?", 3, 30)
	assert.Equal(t, 3, len(scenes))
	assert.Equal(t, "One.", scenes[0].NarrationText)
	assert.Equal(t, "Two!", scenes[1].NarrationText)
	assert.Equal(t, "Three?", scenes[2].NarrationText)
}

func TestSplitBySentencesNewlineBoundaries(t *testing.T) {
	scenes := commands.SplitBySentences("first line\nsecond line\n\nthird line", 3, 30)
	assert.Equal(t, 3, len(scenes))
	assert.Equal(t, "first line", scenes[0].NarrationText)
	assert.Equal(t, "second line", scenes[1].NarrationText)
	assert.Equal(t, "third line", scenes[2].NarrationText)
}

func TestSplitBySentencesPlaceholdersPastMaterial(t *testing.T) {
	scenes := commands.SplitBySentences("一文だけです。", 3, 30)
	assert.Equal(t, 3, len(scenes))
	assert.Equal(t, "一文だけです。", scenes[0].NarrationText)
	assert.Equal(t, "シーン 2", scenes[1].NarrationText)
	assert.Equal(t, "シーン 3", scenes[2].NarrationText)
}

func TestSplitBySentencesEmptyInput(t *testing.T) {
	scenes := commands.SplitBySentences("", 4, 60)
	assert.Equal(t, 4, len(scenes))
	for i, scene := range scenes {
		assert.Equal(t, i+1, scene.Index)
		assert.Equal(t, model.PlaceholderSubtitle(i+1), scene.SubtitleText)
		assert.Equal(t, model.DefaultImagePrompt, scene.ImagePrompt)
		assert.Equal(t, model.EmotionNeutral, scene.Emotion)
		assert.Equal(t, model.TransitionFade, scene.Transition)
		assert.Equal(t, 15.0, scene.DurationSeconds)
	}
}

func TestSplitBySentencesNoTerminators(t *testing.T) {
	scenes := commands.SplitBySentences("a single unterminated fragment", 2, 20)
	assert.Equal(t, 2, len(scenes))
	assert.Equal(t, "a single unterminated fragment", scenes[0].NarrationText)
	assert.Equal(t, "シーン 2", scenes[1].NarrationText)
}

func TestSplitBySentencesDeterministic(t *testing.T) {
	first := commands.SplitBySentences("One. Two. Three. Four. Five.", 3, 45)
	second := commands.SplitBySentences("One. Two. Three. Four. Five.", 3, 45)
	assert.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].NarrationText, second[i].NarrationText)
		assert.Equal(t, first[i].DurationSeconds, second[i].DurationSeconds)
	}
}
