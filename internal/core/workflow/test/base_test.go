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

// Package workflow_test contains the tests for the core application
// workflows. This file, `base_test.go`, provides the shared setup for all
// tests in the package: an in-memory configuration with the prompt templates
// the pipelines compile, and a scripted TextCapability implementation that
// stands in for the generative model so the pipelines can be exercised
// without any cloud dependency.
package workflow_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"go.opentelemetry.io/contrib/bridges/otelslog"

	"github.com/reelworks/go-scene-script/internal/cloud"
	"github.com/reelworks/go-scene-script/internal/telemetry"
	test "github.com/reelworks/go-scene-script/internal/testutil"
)

// config holds the shared in-memory configuration for the whole suite.
var config *cloud.Config

// logger routes suite-level log lines through the OTel slog bridge, matching
// how the rest of the application logs.
var logger = otelslog.NewLogger("github.com/reelworks/go-scene-script/tests/workflow")

// errCapabilityDown simulates an unreachable generative model.
var errCapabilityDown = errors.New("model endpoint unavailable")

// fakeTextCapability is a scripted TextCapability. It records every prompt
// it receives and returns a canned response or error.
type fakeTextCapability struct {
	response string
	err      error
	prompts  []string
	formats  []cloud.ResponseFormat
}

func (f *fakeTextCapability) Generate(_ context.Context, prompt string, format cloud.ResponseFormat) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.formats = append(f.formats, format)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

// TestMain sets up the shared configuration and logging before running the
// suite.
//
// Inputs:
//   - m: A pointer to testing.M, which provides access to the test suite and
//     allows running the tests via m.Run().
func TestMain(m *testing.M) {
	config = test.NewTestConfig()
	telemetry.SetupLogging()
	logger.Info("completed test setup")
	os.Exit(m.Run())
}
