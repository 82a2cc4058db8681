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
// normalization step that coerces whatever the generative model returned
// into a scene list that honors the structural contract downstream renderers
// depend on.
//
// Logic Flow:
// The generative model is asked for an exact shape but does not reliably
// produce it: it returns too few scenes, too many, scenes with missing
// narration, indices starting at zero, durations of zero, invented enum
// values. Normalization is a total function over all of that:
//
//  1. Pad a short list by duplicating the last scene (all fields except
//     index), or synthesize placeholder scenes when the list is empty.
//  2. Truncate a long list to the first `requestedCount` entries.
//  3. Re-number every index to exactly 1..N in final order.
//  4. Backfill missing required fields with documented defaults: narration
//     from the nearest preceding scene, subtitle from the scene's own
//     narration, the generic image prompt, neutral emotion, fade transition.
//  5. Clamp numeric fields (duration, sound-effect volume) into range.
//
// The result always has exactly `requestedCount` scenes. Running the
// normalizer over its own output is a no-op.
package commands

import (
	"strings"

	"github.com/reelworks/go-scene-script/internal/core/cor"
	"github.com/reelworks/go-scene-script/internal/core/model"
)

// maxEmphasisWords bounds the per-scene emphasis list.
const maxEmphasisWords = 3

// SceneNormalizer is a command that normalizes a parsed RawScript into a
// strict scene list.
type SceneNormalizer struct {
	cor.BaseCommand
	requestParam string // The context key holding the model.GenerationRequest.
}

// NewSceneNormalizer is the constructor for the SceneNormalizer command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - requestParam: The context key where the generation request is stored.
//   - outputParamName: The context key where the normalized scene list will be stored.
//
// Outputs:
//   - *SceneNormalizer: A pointer to the newly instantiated command.
func NewSceneNormalizer(name string, requestParam string, outputParamName string) *SceneNormalizer {
	out := &SceneNormalizer{BaseCommand: *cor.NewBaseCommand(name), requestParam: requestParam}
	out.OutputParamName = outputParamName
	return out
}

// Execute normalizes the RawScript present in the context against the
// request's scene count and duration budget.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (s *SceneNormalizer) Execute(context cor.Context) {
	raw := context.Get(s.GetInputParam()).(*model.RawScript)
	request := context.Get(s.requestParam).(*model.GenerationRequest)

	scenes := NormalizeScenes(raw.Scenes, request.SceneCount, request.TargetDurationSeconds)

	s.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(s.GetOutputParam(), scenes)
	context.Add(cor.CtxOut, scenes)
}

// NormalizeScenes coerces a raw scene list into exactly requestedCount
// well-formed scenes. It is a total function: any input, including nil,
// produces a valid result. targetDurationSeconds sizes the default per-scene
// duration for scenes that arrived without one.
//
// Inputs:
//   - raw: The loosely-typed scenes recovered from the model response.
//   - requestedCount: The exact number of scenes the caller asked for.
//   - targetDurationSeconds: The whole-video duration budget.
//
// Outputs:
//   - []*model.Scene: Exactly requestedCount scenes with indices 1..N.
func NormalizeScenes(raw []*model.RawScene, requestedCount int, targetDurationSeconds float64) []*model.Scene {
	if requestedCount < 1 {
		requestedCount = 1
	}
	if targetDurationSeconds <= 0 {
		targetDurationSeconds = model.DefaultTargetDurationSeconds
	}
	defaultDuration := targetDurationSeconds / float64(requestedCount)

	// First convert every usable raw scene in arrival order, dropping nils.
	scenes := make([]*model.Scene, 0, requestedCount)
	for _, r := range raw {
		if r == nil {
			continue
		}
		scenes = append(scenes, coerceScene(r, defaultDuration))
		if len(scenes) == requestedCount {
			// Truncate: discard the tail verbatim, no redistribution.
			break
		}
	}

	// Pad a short list. With at least one scene available, duplicate the
	// last one; an empty list gets neutral placeholders.
	for len(scenes) < requestedCount {
		if len(scenes) > 0 {
			scenes = append(scenes, scenes[len(scenes)-1].Clone())
		} else {
			scenes = append(scenes, placeholderScene(len(scenes)+1, defaultDuration))
		}
	}

	// Re-number to exactly 1..N and backfill required text fields. Narration
	// falls back to the nearest preceding scene's narration, so the running
	// previousNarration is threaded through the loop.
	previousNarration := ""
	for i, scene := range scenes {
		scene.Index = i + 1
		if len(strings.TrimSpace(scene.NarrationText)) == 0 {
			if len(previousNarration) > 0 {
				scene.NarrationText = previousNarration
			} else {
				scene.NarrationText = model.PlaceholderSubtitle(scene.Index)
			}
		}
		previousNarration = scene.NarrationText
		if len(strings.TrimSpace(scene.SubtitleText)) == 0 {
			scene.SubtitleText = scene.NarrationText
		}
		if len(strings.TrimSpace(scene.ImagePrompt)) == 0 {
			scene.ImagePrompt = model.DefaultImagePrompt
		}
	}

	return scenes
}

// coerceScene converts one raw scene into the strict form, parsing enums with
// safe fallbacks and clamping numeric fields.
func coerceScene(r *model.RawScene, defaultDuration float64) *model.Scene {
	out := &model.Scene{
		Index:           r.Index,
		DurationSeconds: r.DurationSeconds,
		NarrationText:   strings.TrimSpace(r.NarrationText),
		SubtitleText:    strings.TrimSpace(r.SubtitleText),
		ImagePrompt:     strings.TrimSpace(r.ImagePrompt),
		Emotion:         model.ParseEmotion(r.Emotion),
		Transition:      model.ParseTransition(r.Transition),
	}
	if out.DurationSeconds <= 0 {
		out.DurationSeconds = defaultDuration
	}

	if len(r.EmphasisWords) > 0 {
		words := make([]string, 0, maxEmphasisWords)
		for _, w := range r.EmphasisWords {
			if len(strings.TrimSpace(w)) == 0 {
				continue
			}
			words = append(words, w)
			if len(words) == maxEmphasisWords {
				break
			}
		}
		if len(words) > 0 {
			out.EmphasisWords = words
		}
	}

	for _, fx := range r.SoundEffects {
		if fx == nil || len(strings.TrimSpace(fx.Keyword)) == 0 {
			continue
		}
		c := *fx
		c.Volume = clampVolume(c.Volume)
		out.SoundEffects = append(out.SoundEffects, &c)
	}

	return out
}

// placeholderScene synthesizes a neutral scene for requests where the model
// produced nothing at all.
func placeholderScene(index int, duration float64) *model.Scene {
	text := model.PlaceholderSubtitle(index)
	return &model.Scene{
		Index:           index,
		DurationSeconds: duration,
		NarrationText:   text,
		SubtitleText:    text,
		ImagePrompt:     model.DefaultImagePrompt,
		Emotion:         model.EmotionNeutral,
		Transition:      model.TransitionFade,
	}
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
