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

// Package model defines the core data structures of the scene-script
// pipeline: the Scene unit entity, the Script aggregate that is persisted and
// archived, and the loosely-typed raw forms used while coercing generative
// model output into the strict schema.
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Emotion is the per-scene emotional register used for narration delivery
// and for the lighting guidance of the image-prompt enhancement pass.
type Emotion string

const (
	EmotionNeutral    Emotion = "neutral"
	EmotionHappy      Emotion = "happy"
	EmotionSerious    Emotion = "serious"
	EmotionExcited    Emotion = "excited"
	EmotionThoughtful Emotion = "thoughtful"
)

// Emotions lists every valid emotion value, in the order presented to the
// generative model.
var Emotions = []Emotion{EmotionNeutral, EmotionHappy, EmotionSerious, EmotionExcited, EmotionThoughtful}

// ParseEmotion maps a free-form string to a valid Emotion, falling back to
// neutral for anything unrecognized.
func ParseEmotion(in string) Emotion {
	for _, e := range Emotions {
		if string(e) == in {
			return e
		}
	}
	return EmotionNeutral
}

// Transition is the visual cut between a scene and its successor.
type Transition string

const (
	TransitionFade  Transition = "fade"
	TransitionSlide Transition = "slide"
	TransitionZoom  Transition = "zoom"
	TransitionWipe  Transition = "wipe"
)

// Transitions lists every valid transition value. The order matters: the
// transition policy pass rotates through this slice when breaking up runs.
var Transitions = []Transition{TransitionFade, TransitionSlide, TransitionZoom, TransitionWipe}

// ParseTransition maps a free-form string to a valid Transition, falling back
// to fade for anything unrecognized.
func ParseTransition(in string) Transition {
	for _, t := range Transitions {
		if string(t) == in {
			return t
		}
	}
	return TransitionFade
}

// SoundEffectType categorizes a sound-effect cue.
type SoundEffectType string

const (
	SoundEffectAmbient    SoundEffectType = "ambient"
	SoundEffectAction     SoundEffectType = "action"
	SoundEffectTransition SoundEffectType = "transition"
	SoundEffectEmotion    SoundEffectType = "emotion"
)

// EffectTiming positions a sound-effect cue within its scene.
type EffectTiming string

const (
	TimingStart      EffectTiming = "start"
	TimingMiddle     EffectTiming = "middle"
	TimingEnd        EffectTiming = "end"
	TimingThroughout EffectTiming = "throughout"
)

// SoundEffect is a single sound cue attached to a scene. Volume is clamped to
// [0.0, 1.0] during normalization.
type SoundEffect struct {
	Type    SoundEffectType `json:"type" bigquery:"type"`
	Keyword string          `json:"keyword" bigquery:"keyword"`
	Timing  EffectTiming    `json:"timing" bigquery:"timing"`
	Volume  float64         `json:"volume" bigquery:"volume"`
}

// Defaults used when the generative model omits required fields and when the
// fallback splitter synthesizes scenes past the available source material.
const (
	DefaultImagePrompt = "abstract modern background with soft lighting"
	DefaultStyle       = "cinematic"
)

// PlaceholderSubtitle returns the placeholder display text for a synthesized
// scene, matching the wording the rendering layer expects.
func PlaceholderSubtitle(index int) string {
	return fmt.Sprintf("シーン %d", index)
}

// Scene is the unit entity produced and consumed throughout the pipeline.
// Index is the identity and ordering key: within a normalized script the
// indices are exactly 1..N, sequential, with no gaps.
type Scene struct {
	Index           int            `json:"index" bigquery:"sequence"`
	DurationSeconds float64        `json:"duration_seconds" bigquery:"duration_seconds"`
	NarrationText   string         `json:"narration_text" bigquery:"narration_text"`
	SubtitleText    string         `json:"subtitle_text" bigquery:"subtitle_text"`
	ImagePrompt     string         `json:"image_prompt" bigquery:"image_prompt"`
	Emotion         Emotion        `json:"emotion" bigquery:"emotion"`
	Transition      Transition     `json:"transition" bigquery:"transition"`
	EmphasisWords   []string       `json:"emphasis_words,omitempty" bigquery:"emphasis_words"`
	SoundEffects    []*SoundEffect `json:"sound_effects,omitempty" bigquery:"sound_effects"`
}

// Clone returns a deep copy of the scene. Used when the normalizer pads a
// short scene list by duplicating the last scene, so later per-scene edits
// never alias.
func (s *Scene) Clone() *Scene {
	out := *s
	if s.EmphasisWords != nil {
		out.EmphasisWords = make([]string, len(s.EmphasisWords))
		copy(out.EmphasisWords, s.EmphasisWords)
	}
	if s.SoundEffects != nil {
		out.SoundEffects = make([]*SoundEffect, 0, len(s.SoundEffects))
		for _, fx := range s.SoundEffects {
			c := *fx
			out.SoundEffects = append(out.SoundEffects, &c)
		}
	}
	return &out
}

// ScriptSource records which path produced a script, so callers can tell
// AI-authored content from mechanically-split fallback content.
type ScriptSource string

const (
	SourceGenerative ScriptSource = "ai"
	SourceFallback   ScriptSource = "fallback"
)

// Script is the aggregate handed to the persistence and rendering
// collaborators: an ordered scene list plus the request metadata that
// produced it.
type Script struct {
	Id                    string       `json:"id" bigquery:"id"`
	Theme                 string       `json:"theme" bigquery:"theme"`
	Style                 string       `json:"style" bigquery:"style"`
	Source                ScriptSource `json:"source" bigquery:"source"`
	TargetDurationSeconds float64      `json:"target_duration_seconds" bigquery:"target_duration_seconds"`
	ArchiveUrl            string       `json:"archive_url,omitempty" bigquery:"archive_url"`
	CreateDate            time.Time    `json:"create_date" bigquery:"create_date"`
	Scenes                []*Scene     `json:"scenes" bigquery:"scenes"`
}

// NewScript creates a Script whose ID is the UUIDv5 hash of the theme, so
// regenerating a script for the same theme replaces the prior row rather than
// accumulating duplicates.
func NewScript(theme string) *Script {
	return &Script{
		Id:         uuid.NewSHA1(uuid.NameSpaceURL, []byte(theme)).String(),
		Theme:      theme,
		Style:      DefaultStyle,
		CreateDate: time.Now(),
		Scenes:     make([]*Scene, 0),
	}
}
