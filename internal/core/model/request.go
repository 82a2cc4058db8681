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

package model

import (
	"fmt"
	"strings"
)

// Request defaults applied by ApplyDefaults when the caller omits a value.
const (
	DefaultSceneCount            = 5
	DefaultTargetDurationSeconds = 60
)

// GenerationRequest is the input to one pipeline invocation. It is
// constructed once per call and never mutated after ApplyDefaults.
type GenerationRequest struct {
	SourceText            string  `json:"source_text"`
	SceneCount            int     `json:"scene_count"`
	Style                 string  `json:"style"`
	TargetDurationSeconds float64 `json:"target_duration_seconds"`
}

// ApplyDefaults fills the optional fields the caller left zero-valued.
// SourceText is deliberately untouched: an empty theme is a validation
// failure, not a defaultable value.
func (r *GenerationRequest) ApplyDefaults() {
	if r.SceneCount <= 0 {
		r.SceneCount = DefaultSceneCount
	}
	if len(strings.TrimSpace(r.Style)) == 0 {
		r.Style = DefaultStyle
	}
	if r.TargetDurationSeconds <= 0 {
		r.TargetDurationSeconds = DefaultTargetDurationSeconds
	}
}

// Validate checks the request invariants. It returns a *ValidationError,
// the only error class the orchestrator surfaces to callers as a hard
// failure.
func (r *GenerationRequest) Validate() error {
	if len(strings.TrimSpace(r.SourceText)) == 0 {
		return &ValidationError{Field: "source_text", Reason: "empty theme"}
	}
	if r.SceneCount < 1 {
		return &ValidationError{Field: "scene_count", Reason: "must be a positive integer"}
	}
	return nil
}

// ValidationError reports a malformed GenerationRequest. Unlike capability
// and parse failures, which degrade to the fallback splitter, a validation
// error is fatal to the current call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid generation request: %s: %s", e.Field, e.Reason)
}
