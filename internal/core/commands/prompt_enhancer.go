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
// optional second pipeline stage: enriching per-scene image prompts with
// whole-video visual context.
//
// Logic Flow:
//  1. It receives a `model.EnhancementContext` from the context: the theme,
//     the aspect ratio, and a read-only view of every scene's prompt,
//     narration, emotion, and camera effect.
//  2. It renders the enhancement prompt template, translating each scene's
//     emotion into lighting/color-tone guidance and its camera effect into
//     composition guidance via fixed lookup tables.
//  3. It issues exactly ONE capability call for the whole batch. Per-scene
//     fan-out would be faster but destroys cross-scene visual consistency,
//     so the batch call is the contract.
//  4. It parses the response for an `enhanced_prompts` array and outputs the
//     enhancements. Any failure marks the context so the caller keeps the
//     original prompts; enhancement never blocks the primary pipeline.
//
// The merge back into a scene list (`MergeEnhancedPrompts`) replaces only
// `imagePrompt` on scenes with a matching index and never adds, removes, or
// reorders scenes.
package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/reelworks/go-scene-script/internal/cloud"
	"github.com/reelworks/go-scene-script/internal/core/cor"
	"github.com/reelworks/go-scene-script/internal/core/model"
)

// emotionLighting maps each emotion to the lighting and color-tone guidance
// injected into the enhancement prompt. Initialized once, never mutated.
var emotionLighting = map[model.Emotion]string{
	model.EmotionNeutral:    "balanced natural lighting, neutral color palette",
	model.EmotionHappy:      "warm golden-hour lighting, saturated cheerful tones",
	model.EmotionSerious:    "low-key directional lighting, desaturated cool tones",
	model.EmotionExcited:    "high-contrast vivid lighting, bold energetic colors",
	model.EmotionThoughtful: "soft diffused lighting, muted contemplative tones",
}

// effectComposition maps each camera effect to composition guidance so the
// generated still frames the motion the renderer will apply.
var effectComposition = map[model.ImageEffect]string{
	model.EffectZoomIn:   "centered subject with generous margins for a slow push-in",
	model.EffectZoomOut:  "tight detail framing that reveals context on pull-back",
	model.EffectPanLeft:  "horizontally extended composition weighted to the right",
	model.EffectPanRight: "horizontally extended composition weighted to the left",
	model.EffectStatic:   "fully balanced standalone composition",
}

// PromptEnhancer is a command that produces enriched image prompts for a
// finished scene list in a single batched capability call.
type PromptEnhancer struct {
	cor.BaseCommand
	capability cloud.TextCapability // The injected text generation boundary.
	template   *template.Template   // The Go template for the enhancement prompt.
}

// NewPromptEnhancer is the constructor for the PromptEnhancer command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - capability: The text generation capability to invoke.
//   - template: A parsed Go template for the enhancement prompt.
//
// Outputs:
//   - *PromptEnhancer: A pointer to the newly instantiated command.
func NewPromptEnhancer(name string, capability cloud.TextCapability, template *template.Template) *PromptEnhancer {
	return &PromptEnhancer{
		BaseCommand: *cor.NewBaseCommand(name),
		capability:  capability,
		template:    template,
	}
}

// GenerateParams creates the map of dynamic data to be injected into the
// enhancement prompt template.
//
// Inputs:
//   - ec: The enhancement context for this batch.
//
// Outputs:
//   - map[string]interface{}: A map of keys and values for template substitution.
//   - error: An error if the scene views cannot be serialized.
func (t *PromptEnhancer) GenerateParams(ec *model.EnhancementContext) (map[string]interface{}, error) {
	params := make(map[string]interface{})
	params["THEME"] = ec.Theme
	params["ASPECT_RATIO"] = string(ec.AspectRatio)
	params["TOTAL_SCENES"] = ec.TotalScenes

	// Render each scene as one block of the prompt, with the emotion and
	// effect already translated into concrete visual guidance.
	var sceneBlocks strings.Builder
	for _, view := range ec.Scenes {
		lighting := emotionLighting[view.Emotion]
		if len(lighting) == 0 {
			lighting = emotionLighting[model.EmotionNeutral]
		}
		composition := effectComposition[view.ImageEffect]
		if len(composition) == 0 {
			composition = effectComposition[model.EffectStatic]
		}
		fmt.Fprintf(&sceneBlocks, "Scene %d:\n  prompt: %s\n  narration: %s\n  lighting: %s\n  composition: %s\n",
			view.SceneIndex, view.OriginalPrompt, view.NarrationText, lighting, composition)
	}
	params["SCENES"] = sceneBlocks.String()

	// Few-shot example of the expected response shape.
	example := struct {
		EnhancedPrompts []*model.EnhancedPrompt `json:"enhanced_prompts"`
	}{EnhancedPrompts: []*model.EnhancedPrompt{model.GetExampleEnhancedPrompt()}}
	exampleJSON, err := json.Marshal(&example)
	if err != nil {
		return nil, err
	}
	params["EXAMPLE_JSON"] = string(exampleJSON)
	return params, nil
}

// Execute runs the batched enhancement call for the context's scene views.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (t *PromptEnhancer) Execute(context cor.Context) {
	ec := context.Get(t.GetInputParam()).(*model.EnhancementContext)

	params, err := t.GenerateParams(ec)
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to build enhancement params: %w", err))
		return
	}

	var buffer bytes.Buffer
	if err := t.template.Execute(&buffer, params); err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to execute enhancement template: %w", err))
		return
	}

	out, err := t.capability.Generate(context.GetContext(), buffer.String(), cloud.ResponseFormatJSON)
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("enhancement capability request failed: %w", err))
		return
	}

	enhancements, err := ParseEnhancementResponse(out)
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to parse enhancement response: %w", err))
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), enhancements)
}

// ParseEnhancementResponse recovers the enhanced prompt list from a raw model
// response, using the same tolerant extraction strategies as the script
// parser. A response without an enhanced_prompts array is a failure.
//
// Inputs:
//   - in: The raw response text from the generative model.
//
// Outputs:
//   - []*model.EnhancedPrompt: The parsed enhancements.
//   - error: An error when no usable document can be recovered.
func ParseEnhancementResponse(in string) ([]*model.EnhancedPrompt, error) {
	trimmed := strings.TrimSpace(in)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrNoScriptJSON)
	}

	candidates := []string{trimmed}
	if fenced, ok := extractFencedBlock(trimmed); ok {
		candidates = append(candidates, fenced)
	}
	if balanced, ok := extractBalancedObject(trimmed); ok {
		candidates = append(candidates, balanced)
	}

	for _, candidate := range candidates {
		doc := &model.EnhancementResponse{}
		if err := json.Unmarshal([]byte(candidate), doc); err != nil {
			continue
		}
		if doc.EnhancedPrompts != nil {
			return doc.EnhancedPrompts, nil
		}
	}
	return nil, ErrNoScriptJSON
}

// MergeEnhancedPrompts applies enhancements to a scene list in place. A
// scene's imagePrompt is replaced only when an enhancement with a matching
// sceneIndex exists and carries a non-empty enhanced value; every other
// field is untouched, and scene count and order are preserved exactly.
//
// Inputs:
//   - scenes: The scene list to update.
//   - enhancements: The enhancement results keyed by scene index.
func MergeEnhancedPrompts(scenes []*model.Scene, enhancements []*model.EnhancedPrompt) {
	if len(enhancements) == 0 {
		return
	}
	byIndex := make(map[int]*model.EnhancedPrompt, len(enhancements))
	for _, e := range enhancements {
		if e != nil {
			byIndex[e.SceneIndex] = e
		}
	}
	for _, scene := range scenes {
		if e, ok := byIndex[scene.Index]; ok && len(strings.TrimSpace(e.Enhanced)) > 0 {
			scene.ImagePrompt = e.Enhanced
		}
	}
}
