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
// command that sends the rendered prompt to the generative text capability.
//
// Logic Flow:
//  1. It receives the prompt string built by `ScriptPromptBuilder` from the
//     context.
//  2. It invokes the injected `cloud.TextCapability` requesting a JSON
//     response. The capability boundary keeps this command oblivious to
//     which model (or test double) is answering.
//  3. It places the raw response text into the context for the parsing
//     command (`ScriptJsonToStruct`) to interpret. No validation happens
//     here: a garbage response is the parser's problem, and ultimately the
//     fallback splitter's.
package commands

import (
	"fmt"

	"github.com/reelworks/go-scene-script/internal/cloud"
	"github.com/reelworks/go-scene-script/internal/core/cor"
)

// ScriptGenerator is a command that runs the prompt through the generative
// text capability.
type ScriptGenerator struct {
	cor.BaseCommand
	capability cloud.TextCapability // The injected text generation boundary.
}

// NewScriptGenerator is the constructor for the ScriptGenerator command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - capability: The text generation capability to invoke.
//
// Outputs:
//   - *ScriptGenerator: A pointer to the newly instantiated command.
func NewScriptGenerator(name string, capability cloud.TextCapability) *ScriptGenerator {
	return &ScriptGenerator{
		BaseCommand: *cor.NewBaseCommand(name),
		capability:  capability,
	}
}

// Execute sends the prompt to the capability and stores the raw response.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (t *ScriptGenerator) Execute(context cor.Context) {
	// Retrieve the rendered prompt from the context.
	prompt := context.Get(t.GetInputParam()).(string)

	out, err := t.capability.Generate(context.GetContext(), prompt, cloud.ResponseFormatJSON)
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("text capability request failed: %w", err))
		return
	}

	// On success, update the success counter and place the raw response
	// text into the context for the parser command.
	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), out)
}
