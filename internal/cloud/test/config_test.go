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

// This file covers hierarchical configuration loading: the base .env.toml
// values and the .env.test.toml overrides layered on top of them.
package cloud_test

import (
	"testing"

	"github.com/zeebo/assert"

	test "github.com/reelworks/go-scene-script/internal/testutil"
)

func TestLoadConfigAppliesTestOverrides(t *testing.T) {
	handleSetup(t)
	config := test.GetConfig()

	// Overridden by .env.test.toml.
	assert.Equal(t, "scene-script-service-test", config.Application.Name)
	assert.Equal(t, "transcript_input_resources_test", config.Storage.TranscriptInputBucket)
	assert.Equal(t, "scene_script_archive_test", config.Storage.ScriptArchiveBucket)
	assert.Equal(t, "scene_scripts_test", config.BigQueryDataSource.DatasetName)
	assert.Equal(t, 30, config.Generation.CapabilityTimeoutSeconds)

	sub, ok := config.TopicSubscriptions["TranscriptTopic"]
	assert.True(t, ok)
	assert.Equal(t, "transcript-ingest-sub-test", sub.Name)
	assert.Equal(t, 60, sub.TimeoutInSeconds)
}

func TestLoadConfigKeepsBaseValues(t *testing.T) {
	handleSetup(t)
	config := test.GetConfig()

	// Untouched by the test overrides, so still from .env.toml.
	assert.Equal(t, "creative-flash", config.Generation.AgentModel)
	assert.Equal(t, 5, config.Generation.SceneCount)
	assert.Equal(t, "cinematic", config.Generation.Style)
	assert.Equal(t, "scripts", config.BigQueryDataSource.ScriptTable)
	assert.Equal(t, "ジーシーエス", config.Pronunciations["GCS"])

	agent, ok := config.AgentModels[config.Generation.AgentModel]
	assert.True(t, ok)
	assert.Equal(t, "gemini-2.0-flash", agent.Model)
	assert.True(t, len(config.PromptTemplates.ScriptPrompt) > 0)
	assert.True(t, len(config.PromptTemplates.EnhancementPrompt) > 0)
}

// handleSetup points the loader at the test configuration files and fails
// the test if the environment cannot be prepared.
func handleSetup(t *testing.T) {
	test.HandleErr(test.SetupOS(), t)
}
