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

// This file defines the untrusted intermediate representation of a
// generative-model response. Every field is optional: the model is prompted
// for an exact shape but does not reliably produce it, so the parser decodes
// into these loose structs and the normalizer backfills whatever is missing.
package model

import "encoding/json"

// RawScript is the loosely-typed decode target for a script response. A
// response without a scenes array is a parse failure, never a zero-scene
// success.
type RawScript struct {
	Scenes []*RawScene `json:"scenes"`
}

// RawScene mirrors Scene with every field optional. It tolerates the key
// aliases the generative model and older clients are known to emit
// (scene_index for index, avatar_script for narration, subtitle for
// subtitle_text, and so on).
type RawScene struct {
	Index           int
	DurationSeconds float64
	NarrationText   string
	SubtitleText    string
	ImagePrompt     string
	Emotion         string
	Transition      string
	EmphasisWords   []string
	SoundEffects    []*SoundEffect
}

// rawSceneAliases carries every accepted spelling of each field. Pointer
// fields distinguish "absent" from zero.
type rawSceneAliases struct {
	Index           *int           `json:"index"`
	SceneIndex      *int           `json:"scene_index"`
	DurationSeconds *float64       `json:"duration_seconds"`
	Duration        *float64       `json:"duration"`
	NarrationText   string         `json:"narration_text"`
	Narration       string         `json:"narration"`
	AvatarScript    string         `json:"avatar_script"`
	SubtitleText    string         `json:"subtitle_text"`
	Subtitle        string         `json:"subtitle"`
	ImagePrompt     string         `json:"image_prompt"`
	Emotion         string         `json:"emotion"`
	Transition      string         `json:"transition"`
	EmphasisWords   []string       `json:"emphasis_words"`
	SoundEffects    []*SoundEffect `json:"sound_effects"`
}

// UnmarshalJSON decodes a scene object accepting field aliases. For each
// field the canonical key wins over its aliases when both are present.
func (s *RawScene) UnmarshalJSON(data []byte) error {
	var aux rawSceneAliases
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	switch {
	case aux.Index != nil:
		s.Index = *aux.Index
	case aux.SceneIndex != nil:
		s.Index = *aux.SceneIndex
	}
	switch {
	case aux.DurationSeconds != nil:
		s.DurationSeconds = *aux.DurationSeconds
	case aux.Duration != nil:
		s.DurationSeconds = *aux.Duration
	}
	s.NarrationText = firstNonEmpty(aux.NarrationText, aux.Narration, aux.AvatarScript)
	s.SubtitleText = firstNonEmpty(aux.SubtitleText, aux.Subtitle)
	s.ImagePrompt = aux.ImagePrompt
	s.Emotion = aux.Emotion
	s.Transition = aux.Transition
	s.EmphasisWords = aux.EmphasisWords
	s.SoundEffects = aux.SoundEffects
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if len(v) > 0 {
			return v
		}
	}
	return ""
}
