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

// Package cor (Chain of Responsibility) provides the building blocks used to
// assemble the script-generation pipelines. A workflow is a Chain of Commands
// sharing a Context; each Command reads its input from the Context, does one
// unit of work, and writes its output back for the next Command.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the reserved context keys that carry the primary data
// flow between adjacent commands in a chain.
const (
	// CtxIn is the default key a command reads its primary input from. The
	// BaseChain populates it with the previous command's output.
	CtxIn = "__IN__"
	// CtxOut is the default key a command writes its primary output to.
	CtxOut = "__OUT__"
)

// Context is the shared state object passed through a chain of commands. It
// carries arbitrary key-value data, the errors any command recorded, and the
// standard Go context used for cancellation and trace propagation.
type Context interface {
	// SetContext sets the standard Go context.Context carried by this chain
	// context, used for cancellation signals and OpenTelemetry spans.
	SetContext(context context.Context)

	// GetContext retrieves the standard Go context.Context.
	GetContext() context.Context

	// Add stores a key-value pair. Returns the Context for chaining.
	Add(key string, value interface{}) Context

	// AddError records an error produced by a command. The key is normally
	// the name of the command that failed.
	AddError(key string, err error)

	// GetErrors returns every error recorded during the workflow.
	GetErrors() map[string]error

	// Get retrieves a value by key, or nil when absent.
	Get(key string) interface{}

	// Remove deletes a key-value pair.
	Remove(key string)

	// HasErrors reports whether any command recorded an error.
	HasErrors() bool
}

// Executable is anything with a core execution step.
type Executable interface {
	// Execute runs the primary logic, reading inputs from and writing
	// outputs to the supplied Context.
	Execute(context Context)
}

// Command is an atomic, testable unit of work in a pipeline.
type Command interface {
	Executable

	// GetName returns the command's unique name, used in logs and telemetry.
	GetName() string

	// GetInputParam returns the context key this command reads its primary
	// input from.
	GetInputParam() string

	// GetOutputParam returns the context key this command stores its primary
	// output under.
	GetOutputParam() string

	// IsExecutable reports whether the command's preconditions hold for the
	// current Context state.
	IsExecutable(context Context) bool

	// GetTracer returns the OpenTelemetry tracer for this command.
	GetTracer() trace.Tracer

	// GetMeter returns the OpenTelemetry meter for this command.
	GetMeter() metric.Meter

	// GetSuccessCounter returns the counter incremented on success.
	GetSuccessCounter() metric.Int64Counter

	// GetErrorCounter returns the counter incremented on failure.
	GetErrorCounter() metric.Int64Counter
}

// Chain is an ordered sequence of commands. A Chain is itself a Command, so
// chains may be nested (the transcript ingestion workflow nests the script
// generation workflow this way).
type Chain interface {
	Command

	// ContinueOnFailure configures whether the chain keeps executing
	// subsequent commands after one of them records an error.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the execution sequence.
	AddCommand(command Command) Chain
}
