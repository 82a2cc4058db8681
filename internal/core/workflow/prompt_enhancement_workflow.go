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

// Package workflow defines the high-level business logic orchestrations,
// combining various commands into coherent pipelines. This file implements
// the optional image-prompt enhancement pass.
package workflow

import (
	"log"
	"text/template"

	"github.com/reelworks/go-scene-script/internal/cloud"
	"github.com/reelworks/go-scene-script/internal/core/commands"
	"github.com/reelworks/go-scene-script/internal/core/cor"
	"github.com/reelworks/go-scene-script/internal/core/model"
)

// enhancementOutputParamName is the context key the enhancement list lands
// on. The chain clears cor.CtxOut after its last command, so the enhancer
// writes to a named parameter the workflow reads back.
const enhancementOutputParamName = "__enhancement_output__"

// PromptEnhancementWorkflow runs the batched image-prompt enhancement pass
// over a finished scene list. Enhancement is strictly additive: every
// failure mode (capability error, unparseable response) leaves the scene
// list exactly as it was, and the workflow reports which outcome occurred
// rather than an error.
type PromptEnhancementWorkflow struct {
	cor.BaseCommand
	capability cloud.TextCapability
	template   *template.Template
	chain      cor.Chain
}

// EnhanceScenes attempts to enrich the image prompts of the supplied scenes
// using the whole-video context. On success the enhanced prompts are merged
// in place and the method returns true; on any failure the scenes are left
// untouched and it returns false.
//
// Inputs:
//   - goCtx: The chain context carrying cancellation and tracing. Its Go
//     context bounds the single capability call.
//   - theme: The overall video theme.
//   - aspectRatio: The target frame shape.
//   - scenes: The scene list to enhance, modified in place on success.
//   - effects: Optional per-scene camera effects keyed by scene index.
//
// Outputs:
//   - bool: Whether the enhancement was applied.
func (m *PromptEnhancementWorkflow) EnhanceScenes(
	goCtx cor.Context,
	theme string,
	aspectRatio model.AspectRatio,
	scenes []*model.Scene,
	effects map[int]model.ImageEffect) bool {

	views := make([]*model.ScenePromptView, 0, len(scenes))
	for _, scene := range scenes {
		effect := model.EffectStatic
		if e, ok := effects[scene.Index]; ok {
			effect = e
		}
		views = append(views, &model.ScenePromptView{
			SceneIndex:     scene.Index,
			OriginalPrompt: scene.ImagePrompt,
			NarrationText:  scene.NarrationText,
			Emotion:        scene.Emotion,
			ImageEffect:    effect,
		})
	}

	ec := &model.EnhancementContext{
		Theme:       theme,
		AspectRatio: aspectRatio,
		TotalScenes: len(scenes),
		Scenes:      views,
	}

	// Run the enhancement chain in isolation so its failures never leak
	// into the caller's context.
	aiCtx := cor.NewBaseContext()
	aiCtx.SetContext(goCtx.GetContext())
	aiCtx.Add(cor.CtxIn, ec)
	m.chain.Execute(aiCtx)

	if aiCtx.HasErrors() {
		for name, err := range aiCtx.GetErrors() {
			log.Printf("prompt enhancement discarded: %s: %v", name, err)
		}
		return false
	}

	enhancements, ok := aiCtx.Get(enhancementOutputParamName).([]*model.EnhancedPrompt)
	if !ok {
		return false
	}

	commands.MergeEnhancedPrompts(scenes, enhancements)
	m.GetSuccessCounter().Add(goCtx.GetContext(), 1)
	return true
}

// Execute satisfies the Command interface so the workflow can be nested in
// other chains. It expects a *model.EnhancementContext as input and outputs
// the enhancement list, or nothing when the pass fails.
//
// Inputs:
//   - context: The chain of responsibility context for this execution.
func (m *PromptEnhancementWorkflow) Execute(context cor.Context) {
	m.chain.Execute(context)
}

// initializeChain builds the single-command enhancement chain. This method
// is called by the constructor.
func (m *PromptEnhancementWorkflow) initializeChain() {
	out := cor.NewBaseChain(m.GetName())
	enhancer := commands.NewPromptEnhancer("enhance-image-prompts", m.capability, m.template)
	enhancer.OutputParamName = enhancementOutputParamName
	out.AddCommand(enhancer)
	m.chain = out
}

// NewPromptEnhancementWorkflow is the constructor for the
// PromptEnhancementWorkflow. It compiles the enhancement prompt template and
// initializes the command chain.
//
// Inputs:
//   - config: The application's overall configuration.
//   - capability: The generative text capability backing the pass.
//
// Returns:
//   - A pointer to a newly created and fully initialized PromptEnhancementWorkflow.
func NewPromptEnhancementWorkflow(
	config *cloud.Config,
	capability cloud.TextCapability) *PromptEnhancementWorkflow {

	enhancementTemplate, err := template.New("enhancement-template").Parse(config.PromptTemplates.EnhancementPrompt)
	if err != nil {
		panic(err)
	}

	pipeline := &PromptEnhancementWorkflow{
		BaseCommand: *cor.NewBaseCommand("prompt-enhancement-pipeline"),
		capability:  capability,
		template:    enhancementTemplate,
	}
	pipeline.initializeChain()
	return pipeline
}
