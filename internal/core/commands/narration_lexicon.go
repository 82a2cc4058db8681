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
// Responsibility (COR) pattern's Command interface. This file applies the
// pronunciation lexicon to narration text: a configured table of verbatim
// text substitutions (names, loanwords, product terms) that the speech
// renderer would otherwise mispronounce. Subtitles keep the original
// spelling; only the spoken narration is rewritten.
package commands

import (
	"sort"
	"strings"

	"github.com/reelworks/go-scene-script/internal/core/model"
)

// ApplyLexicon rewrites each scene's narration with the configured
// pronunciation substitutions. Substitutions are applied in order of
// decreasing key length so a longer term is never clobbered by one of its
// substrings. Nil or empty lexicons are no-ops.
//
// Inputs:
//   - scenes: The scene list whose narration will be rewritten.
//   - lexicon: The reading substitutions, original spelling to spoken form.
func ApplyLexicon(scenes []*model.Scene, lexicon map[string]string) {
	if len(lexicon) == 0 {
		return
	}

	keys := make([]string, 0, len(lexicon))
	for k := range lexicon {
		if len(k) > 0 {
			keys = append(keys, k)
		}
	}
	// Sort by length descending, ties lexicographic, so the result does not
	// depend on map iteration order.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	for _, scene := range scenes {
		for _, k := range keys {
			scene.NarrationText = strings.ReplaceAll(scene.NarrationText, k, lexicon[k])
		}
	}
}
