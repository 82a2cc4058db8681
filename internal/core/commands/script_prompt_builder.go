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
// first command of the script generation pipeline: building the prompt that
// asks the generative model for a structured scene script.
//
// Logic Flow:
//  1. It receives a `model.GenerationRequest` from the context, carrying the
//     source text (theme or transcript), the requested scene count, the
//     visual style, and the target video duration.
//  2. It executes a Go template over that request, injecting the enumerated
//     emotion and transition vocabularies and a complete, well-formed JSON
//     example of the expected response shape (few-shot prompting).
//  3. It places the rendered prompt string into the context for the
//     generator command that follows.
package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/reelworks/go-scene-script/internal/core/cor"
	"github.com/reelworks/go-scene-script/internal/core/model"
)

// ScriptPromptBuilder is a command that renders the scene-script prompt from
// a generation request.
type ScriptPromptBuilder struct {
	cor.BaseCommand
	template *template.Template // The Go template for building the prompt.
}

// NewScriptPromptBuilder is the constructor for the ScriptPromptBuilder command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - template: A parsed Go template for the prompt.
//
// Outputs:
//   - *ScriptPromptBuilder: A pointer to the newly instantiated command.
func NewScriptPromptBuilder(name string, template *template.Template) *ScriptPromptBuilder {
	return &ScriptPromptBuilder{
		BaseCommand: *cor.NewBaseCommand(name),
		template:    template,
	}
}

// GenerateParams creates the map of dynamic data to be injected into the
// prompt template.
//
// Inputs:
//   - request: The generation request driving this pipeline run.
//
// Outputs:
//   - map[string]interface{}: A map of keys and values for template substitution.
func (t *ScriptPromptBuilder) GenerateParams(request *model.GenerationRequest) map[string]interface{} {
	params := make(map[string]interface{})
	params["SOURCE_TEXT"] = request.SourceText
	params["SCENE_COUNT"] = request.SceneCount
	params["STYLE"] = request.Style
	params["TARGET_DURATION"] = request.TargetDurationSeconds
	// The per-scene duration hint keeps the model from front-loading all the
	// time into the first scene.
	params["SCENE_DURATION"] = request.TargetDurationSeconds / float64(request.SceneCount)

	// Present the closed vocabularies so the model picks valid values instead
	// of inventing its own.
	emotions := make([]string, 0, len(model.Emotions))
	for _, e := range model.Emotions {
		emotions = append(emotions, string(e))
	}
	params["EMOTIONS"] = strings.Join(emotions, ", ")

	transitions := make([]string, 0, len(model.Transitions))
	for _, tr := range model.Transitions {
		transitions = append(transitions, string(tr))
	}
	params["TRANSITIONS"] = strings.Join(transitions, ", ")

	// Provide a complete, well-formed JSON example in the prompt. This technique
	// (few-shot prompting) significantly improves the reliability and structure
	// of the model's output.
	example := struct {
		Scenes []*model.Scene `json:"scenes"`
	}{Scenes: model.GetExampleSceneList()}
	exampleScript, _ := json.Marshal(&example)
	params["EXAMPLE_JSON"] = string(exampleScript)
	return params
}

// Execute renders the prompt template for the request present in the context.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (t *ScriptPromptBuilder) Execute(context cor.Context) {
	// Retrieve the generation request from the context.
	request := context.Get(t.GetInputParam()).(*model.GenerationRequest)

	// Use a buffer to execute the Go template, substituting the dynamic params.
	var buffer bytes.Buffer
	err := t.template.Execute(&buffer, t.GenerateParams(request))
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to execute prompt template: %w", err))
		return
	}

	// On success, place the rendered prompt into the context for the
	// generator command.
	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), buffer.String())
}
