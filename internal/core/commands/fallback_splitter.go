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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface. This file defines the
// deterministic fallback path: when the generative capability fails, times
// out, or returns unparseable output, the source text is split mechanically
// into the requested number of scenes by sentence boundaries.
//
// Logic Flow:
//  1. Split the source text on sentence-terminal punctuation (Japanese and
//     Latin full stops, question and exclamation marks) and newlines,
//     keeping the terminator attached to its sentence.
//  2. Discard empty fragments.
//  3. Compute chunkSize = ceil(sentenceCount / requestedCount) and assign
//     each scene its consecutive slice of sentences, joined in order.
//  4. Scenes past the available material get the placeholder subtitle and
//     the generic image prompt.
//
// The splitter is the guaranteed-availability path: it performs no I/O,
// calls no capability, and succeeds for any input including the empty
// string. Its output satisfies every invariant of the normalizer's output.
package commands

import (
	"strings"

	"github.com/reelworks/go-scene-script/internal/core/model"
)

// sentenceTerminators is the set of runes that end a sentence in the source
// languages the pipeline serves. Newlines count as terminators so pre-split
// line-per-sentence input works too.
var sentenceTerminators = map[rune]bool{
	'。': true,
	'．': true,
	'！': true,
	'？': true,
	'!':  true,
	'?':  true,
	'.':  true,
	'\n': true,
}

// SplitBySentences mechanically splits sourceText into exactly requestedCount
// scenes. It is a total function with no side effects: same input, same
// output, no capability calls.
//
// Inputs:
//   - sourceText: The raw theme or transcript text to split.
//   - requestedCount: The exact number of scenes to produce.
//   - targetDurationSeconds: The whole-video duration budget, divided evenly.
//
// Outputs:
//   - []*model.Scene: Exactly requestedCount scenes with indices 1..N.
func SplitBySentences(sourceText string, requestedCount int, targetDurationSeconds float64) []*model.Scene {
	if requestedCount < 1 {
		requestedCount = 1
	}
	if targetDurationSeconds <= 0 {
		targetDurationSeconds = model.DefaultTargetDurationSeconds
	}
	duration := targetDurationSeconds / float64(requestedCount)

	sentences := splitSentences(sourceText)

	// Ceiling division: the leading scenes absorb the larger share when the
	// sentence count does not divide evenly.
	chunkSize := (len(sentences) + requestedCount - 1) / requestedCount
	if chunkSize < 1 {
		chunkSize = 1
	}

	scenes := make([]*model.Scene, 0, requestedCount)
	for i := 0; i < requestedCount; i++ {
		index := i + 1
		start := i * chunkSize
		end := start + chunkSize
		if end > len(sentences) {
			end = len(sentences)
		}

		if start >= len(sentences) {
			// Past the available material: placeholder scene.
			scenes = append(scenes, placeholderScene(index, duration))
			continue
		}

		text := strings.Join(sentences[start:end], "")
		scenes = append(scenes, &model.Scene{
			Index:           index,
			DurationSeconds: duration,
			NarrationText:   text,
			SubtitleText:    text,
			ImagePrompt:     model.DefaultImagePrompt,
			Emotion:         model.EmotionNeutral,
			Transition:      model.TransitionFade,
		})
	}

	return scenes
}

// splitSentences breaks the text into sentences, keeping each terminator
// attached to the sentence it ends and discarding empty fragments.
func splitSentences(in string) []string {
	sentences := make([]string, 0)
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if len(s) > 0 {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for _, r := range in {
		if sentenceTerminators[r] {
			if r != '\n' {
				current.WriteRune(r)
			}
			flush()
			continue
		}
		current.WriteRune(r)
	}
	flush()

	return sentences
}
