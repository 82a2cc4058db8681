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
// the primary scene-script generation workflow.
package workflow

import (
	"log"
	"text/template"

	"github.com/reelworks/go-scene-script/internal/cloud"
	"github.com/reelworks/go-scene-script/internal/core/commands"
	"github.com/reelworks/go-scene-script/internal/core/cor"
	"github.com/reelworks/go-scene-script/internal/core/model"
)

// Context parameter names shared by the generation workflow and the
// workflows that nest it.
const (
	// ScriptRequestParamName is the context key the generation request is
	// pinned under so commands past the head of the chain can still see it.
	ScriptRequestParamName = "__script_request__"
	// ScriptOutputParamName is the context key the finished model.Script is
	// stored under.
	ScriptOutputParamName = "__script_output__"
	// sceneOutputParamName is the key the normalizer's scene list lands on.
	sceneOutputParamName = "__scene_output__"
)

// ScriptGenerationWorkflow turns a generation request into a finished
// script. The AI path runs as a Chain of Responsibility (prompt build,
// capability call, tolerant parse, normalization); any failure along that
// chain degrades to the deterministic sentence splitter instead of failing
// the workflow. Once input validation has passed, this workflow always
// produces a script.
type ScriptGenerationWorkflow struct {
	cor.BaseCommand
	config         *cloud.Config
	capability     cloud.TextCapability
	promptTemplate *template.Template
	chain          cor.Chain // The AI-path chain of commands.
}

// Execute runs the generation workflow for the request in the context.
//
// The AI chain executes on its own isolated chain context: its errors are
// the signal to fall back, not failures of this workflow. The outer context
// only ever receives the finished script.
//
// Inputs:
//   - context: The chain of responsibility context for this execution.
func (m *ScriptGenerationWorkflow) Execute(context cor.Context) {
	request := context.Get(m.GetInputParam()).(*model.GenerationRequest)

	// Run the AI path in isolation.
	aiCtx := cor.NewBaseContext()
	aiCtx.SetContext(context.GetContext())
	aiCtx.Add(ScriptRequestParamName, request)
	aiCtx.Add(cor.CtxIn, request)
	m.chain.Execute(aiCtx)

	var scenes []*model.Scene
	source := model.SourceGenerative
	if aiCtx.HasErrors() {
		// Capability or parse failure: log and degrade to the splitter.
		for name, err := range aiCtx.GetErrors() {
			log.Printf("script generation degraded to fallback: %s: %v", name, err)
		}
		scenes = commands.SplitBySentences(request.SourceText, request.SceneCount, request.TargetDurationSeconds)
		source = model.SourceFallback
	} else {
		scenes = aiCtx.Get(sceneOutputParamName).([]*model.Scene)
	}

	// Post-normalization passes: break up transition runs, then apply the
	// configured pronunciation substitutions to narration.
	commands.ApplyTransitionPolicy(scenes)
	commands.ApplyLexicon(scenes, m.config.Pronunciations)

	script := model.NewScript(request.SourceText)
	script.Style = request.Style
	script.Source = source
	script.TargetDurationSeconds = request.TargetDurationSeconds
	script.Scenes = scenes

	m.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(m.GetOutputParam(), script)
	context.Add(cor.CtxOut, script)
}

// initializeChain builds the AI-path command sequence. Each command is an
// atomic unit of work whose output feeds the next. This method is called by
// the constructor.
func (m *ScriptGenerationWorkflow) initializeChain() {
	out := cor.NewBaseChain(m.GetName())

	// Step 1: Render the script prompt from the generation request.
	out.AddCommand(commands.NewScriptPromptBuilder("build-script-prompt", m.promptTemplate))

	// Step 2: Send the prompt to the generative text capability, asking for
	// a JSON response.
	out.AddCommand(commands.NewScriptGenerator("generate-script", m.capability))

	// Step 3: Recover a RawScript from whatever text came back, tolerating
	// fences and surrounding prose.
	out.AddCommand(commands.NewScriptJsonToStruct("parse-script-response", cor.CtxOut))

	// Step 4: Normalize to exactly the requested scene count with indices
	// 1..N and every required field backfilled.
	out.AddCommand(commands.NewSceneNormalizer("normalize-scenes", ScriptRequestParamName, sceneOutputParamName))

	m.chain = out
}

// NewScriptGenerationWorkflow is the constructor for the
// ScriptGenerationWorkflow. It compiles the prompt template and initializes
// the command chain.
//
// Inputs:
//   - config: The application's overall configuration.
//   - capability: The generative text capability backing the AI path.
//
// Returns:
//   - A pointer to a newly created and fully initialized ScriptGenerationWorkflow.
func NewScriptGenerationWorkflow(
	config *cloud.Config,
	capability cloud.TextCapability) *ScriptGenerationWorkflow {

	// Parse the script prompt template from the configuration file.
	promptTemplate, err := template.New("script-template").Parse(config.PromptTemplates.ScriptPrompt)
	if err != nil {
		panic(err) // Panic on failure, as the app cannot run without valid templates.
	}

	pipeline := &ScriptGenerationWorkflow{
		BaseCommand:    *cor.NewBaseCommand("script-generation-pipeline"),
		config:         config,
		capability:     capability,
		promptTemplate: promptTemplate,
	}
	pipeline.OutputParamName = ScriptOutputParamName
	pipeline.initializeChain()
	return pipeline
}
