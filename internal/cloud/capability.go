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

// Package cloud provides components for interacting with Google Cloud services.
// This file defines the text generation capability boundary. The pipeline
// commands depend on the small TextCapability interface rather than on the
// Vertex AI client directly, so tests can substitute a canned implementation
// and the production wiring can swap models without touching the pipeline.
//
// Structs:
//   - GenerativeTextCapability: The production implementation backed by a
//     rate-limited Gemini model.
//
// Functions:
//   - NewGenerativeTextCapability: Constructor for the production capability.
package cloud

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// ResponseFormat expresses the output shape requested from the capability.
type ResponseFormat string

const (
	ResponseFormatJSON ResponseFormat = "json" // The model should emit a JSON document.
	ResponseFormatText ResponseFormat = "text" // The model should emit plain text.
)

// MIMEType maps the format to the response MIME type the Vertex AI API expects.
func (f ResponseFormat) MIMEType() string {
	if f == ResponseFormatJSON {
		return "application/json"
	}
	return "text/plain"
}

// TextCapability is the seam between the scene-script pipeline and whatever
// generative model backs it. Implementations must honor ctx cancellation and
// return the raw response text without further interpretation.
type TextCapability interface {
	Generate(ctx context.Context, prompt string, format ResponseFormat) (string, error)
}

// GenerativeTextCapability implements TextCapability on top of a quota-aware
// Gemini model. A second wrapper with a plain-text response format is derived
// at construction time so both formats can be served from one configured model.
type GenerativeTextCapability struct {
	jsonModel          *QuotaAwareGenerativeAIModel
	textModel          *QuotaAwareGenerativeAIModel
	inputTokenCounter  metric.Int64Counter
	outputTokenCounter metric.Int64Counter
	retryCounter       metric.Int64Counter
}

// NewGenerativeTextCapability creates the production text capability.
//
// Inputs:
//   - model: The rate-limited generative model to issue requests through.
//
// Outputs:
//   - *GenerativeTextCapability: The configured capability.
//   - error: An error if the telemetry counters cannot be registered.
func NewGenerativeTextCapability(model *QuotaAwareGenerativeAIModel) (*GenerativeTextCapability, error) {
	meter := otel.Meter(model.ModelName)
	inputTokenCounter, err := meter.Int64Counter("counter.tokens.input")
	if err != nil {
		return nil, err
	}
	outputTokenCounter, err := meter.Int64Counter("counter.tokens.output")
	if err != nil {
		return nil, err
	}
	retryCounter, err := meter.Int64Counter("counter.generate.retries")
	if err != nil {
		return nil, err
	}
	return &GenerativeTextCapability{
		jsonModel:          model.WithResponseFormat(ResponseFormatJSON.MIMEType()),
		textModel:          model.WithResponseFormat(ResponseFormatText.MIMEType()),
		inputTokenCounter:  inputTokenCounter,
		outputTokenCounter: outputTokenCounter,
		retryCounter:       retryCounter,
	}, nil
}

// Generate sends the prompt to the model configured for the requested format
// and returns the raw response text with any Markdown fences stripped.
func (g *GenerativeTextCapability) Generate(ctx context.Context, prompt string, format ResponseFormat) (string, error) {
	model := g.textModel
	if format == ResponseFormatJSON {
		model = g.jsonModel
	}
	return GenerateTextResponse(
		ctx,
		g.inputTokenCounter,
		g.outputTokenCounter,
		g.retryCounter,
		0,
		model,
		NewTextPart(prompt))
}
