// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface. This file defines the
// tolerant parsing step that turns the raw model response into a
// strongly-typed `model.RawScript`.
//
// Logic Flow:
// Generative models do not reliably emit bare JSON: responses arrive wrapped
// in Markdown fences, prefixed with prose, or trailed by commentary. The
// extraction here tries progressively more forgiving strategies before
// giving up:
//
//  1. Parse the whole trimmed response as JSON.
//  2. Look for a ```json fenced block (or a bare ``` fence) and parse its
//     contents.
//  3. Scan for the first balanced top-level JSON object and parse that.
//
// A response that defeats all three strategies, or that parses to a script
// with no scenes array, is a parse failure. Parse failures are recorded on
// the context and the workflow falls back to the sentence splitter; they are
// never surfaced to the caller as errors.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/reelworks/go-scene-script/internal/core/cor"
	"github.com/reelworks/go-scene-script/internal/core/model"
)

// ErrNoScriptJSON is returned when no parseable script document can be
// recovered from a model response.
var ErrNoScriptJSON = errors.New("no parseable script JSON in model response")

// ScriptJsonToStruct is a command that parses a raw model response into a
// RawScript struct.
type ScriptJsonToStruct struct {
	cor.BaseCommand // Embeds the BaseCommand for common functionality.
}

// NewScriptJsonToStruct is the constructor for the ScriptJsonToStruct command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - outputParamName: The context key where the resulting struct will be stored.
//
// Outputs:
//   - *ScriptJsonToStruct: A pointer to the newly instantiated command.
func NewScriptJsonToStruct(name string, outputParamName string) *ScriptJsonToStruct {
	out := ScriptJsonToStruct{BaseCommand: *cor.NewBaseCommand(name)}
	// Set the specific output parameter name for this command instance.
	out.OutputParamName = outputParamName
	return &out
}

// Execute parses the raw response text present in the context.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (s *ScriptJsonToStruct) Execute(context cor.Context) {
	// Retrieve the raw response string from the context, which was the output
	// of the generator command.
	in := context.Get(s.GetInputParam()).(string)

	doc, err := ExtractScriptJSON(in)
	if err != nil {
		s.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(s.GetName(), fmt.Errorf("failed to parse script response: %w", err))
		return
	}

	// If parsing is successful, increment the success counter.
	s.GetSuccessCounter().Add(context.GetContext(), 1)

	// Place the parsed struct into the designated output parameter in the context.
	context.Add(s.GetOutputParam(), doc)

	// Also place it in the general-purpose output slot for the next command in the chain.
	context.Add(cor.CtxOut, doc)
}

// ExtractScriptJSON recovers a RawScript from a model response using
// progressively more tolerant strategies: direct parse, fenced-block parse,
// then a balanced-brace scan. It returns ErrNoScriptJSON (wrapped) when all
// strategies fail or when the recovered document has no scenes.
//
// Inputs:
//   - in: The raw response text from the generative model.
//
// Outputs:
//   - *model.RawScript: The parsed script document.
//   - error: An error when no usable document can be recovered.
func ExtractScriptJSON(in string) (*model.RawScript, error) {
	trimmed := strings.TrimSpace(in)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrNoScriptJSON)
	}

	// Strategy 1: the whole response is the document.
	if doc, ok := decodeScript(trimmed); ok {
		return doc, nil
	}

	// Strategy 2: the document is inside a Markdown code fence.
	if fenced, ok := extractFencedBlock(trimmed); ok {
		if doc, ok := decodeScript(fenced); ok {
			return doc, nil
		}
	}

	// Strategy 3: scan for the first balanced top-level JSON object.
	if candidate, ok := extractBalancedObject(trimmed); ok {
		if doc, ok := decodeScript(candidate); ok {
			return doc, nil
		}
	}

	return nil, ErrNoScriptJSON
}

// decodeScript attempts a strict decode of the candidate text. A document
// without a scenes array is rejected: downstream stages require at least an
// empty-but-present scene list to distinguish "model answered" from
// "model rambled".
func decodeScript(candidate string) (*model.RawScript, bool) {
	doc := &model.RawScript{}
	if err := json.Unmarshal([]byte(candidate), doc); err != nil {
		return nil, false
	}
	if doc.Scenes == nil {
		return nil, false
	}
	return doc, true
}

// extractFencedBlock returns the contents of the first Markdown code fence
// in the response, preferring a ```json fence over a bare ``` fence.
func extractFencedBlock(in string) (string, bool) {
	for _, marker := range []string{"```json", "```"} {
		start := strings.Index(in, marker)
		if start < 0 {
			continue
		}
		rest := in[start+len(marker):]
		end := strings.Index(rest, "```")
		if end < 0 {
			// An unterminated fence still frequently holds the document.
			return strings.TrimSpace(rest), true
		}
		return strings.TrimSpace(rest[:end]), true
	}
	return "", false
}

// extractBalancedObject scans for the first '{' and returns the substring up
// to its matching '}', tracking string literals and escapes so braces inside
// JSON strings do not confuse the count.
func extractBalancedObject(in string) (string, bool) {
	start := strings.IndexByte(in, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(in); i++ {
		c := in[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return in[start : i+1], true
				}
			}
		}
	}
	return "", false
}
