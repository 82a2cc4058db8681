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

// Package test provides utility functions and mock data to support the
// application's test suite. It helps in setting up a consistent test
// environment, loading test-specific configurations, and providing sample
// transcripts and Pub/Sub payloads for the workflows and services.
package test

import (
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/reelworks/go-scene-script/internal/cloud"
)

// StateManager acts as a simple in-memory cache for the application
// configuration during test runs, so the TOML files are read only once per
// test binary.
type StateManager struct {
	config *cloud.Config
}

// state holds the singleton instance of StateManager.
var state = &StateManager{}

// HandleErr is a simple test helper that checks if an error is not nil.
// If an error exists, it fails the test by calling t.Errorf.
//
// Inputs:
//   - err: The error to check.
//   - t: The *testing.T object from the current test.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("Error reading config file: %v", err)
	}
}

// GetTestTranscript returns a short transcript with mixed Japanese and ASCII
// sentence terminators, suitable for exercising both the generative path and
// the fallback splitter.
//
// Returns:
//   - A string containing the transcript text.
func GetTestTranscript() string {
	return "今日は新製品の発表会に行ってきました。会場はとても広く、大勢の来場者で賑わっていました！" +
		"最初のデモでは音声認識の精度が紹介されました。続いて、リアルタイム翻訳の実演がありました。" +
		"The closing keynote covered the product roadmap. Questions from the audience went on for an hour."
}

// GetTestTranscriptMessageText returns a hardcoded JSON string that simulates
// a Pub/Sub notification message from Google Cloud Storage for a transcript
// file finalized in the transcript input bucket. This mock data is used to
// test the transcript ingestion workflow trigger.
//
// Returns:
//   - A string containing the JSON payload of a GCS notification.
func GetTestTranscriptMessageText() string {
	return `{
  "kind": "storage#object",
  "id": "transcript_input_resources/product-launch-001.txt/1728615848664286",
  "selfLink": "https://www.googleapis.com/storage/v1/b/transcript_input_resources/o/product-launch-001.txt",
  "name": "product-launch-001.txt",
  "bucket": "transcript_input_resources",
  "generation": "1728615848664286",
  "metageneration": "1",
  "contentType": "text/plain",
  "timeCreated": "2024-10-11T03:04:08.672Z",
  "updated": "2024-10-11T03:04:08.672Z",
  "storageClass": "STANDARD",
  "timeStorageClassUpdated": "2024-10-11T03:04:08.672Z",
  "size": "1843",
  "md5Hash": "67c1rAU+1RYZzK5zp8iBkA==",
  "mediaLink": "https://storage.googleapis.com/download/storage/v1/b/transcript_input_resources/o/product-launch-001.txt?generation=1728615848664286&alt=media",
  "metadata": { "touch": "3" },
  "crc32c": "IYeSTw==",
  "etag": "CN658+yrhYkDEAE="
}`
}

// NewTestConfig builds an in-memory configuration with the prompt templates
// and generation defaults the pipelines need, without touching the file
// system or any cloud service. Tests that exercise the pure pipeline logic
// with a fake text capability should use this instead of GetConfig.
//
// Returns:
//   - A pointer to a fully populated cloud.Config.
func NewTestConfig() *cloud.Config {
	config := cloud.NewConfig()
	config.Application.Name = "scene-script-test"
	config.Generation.AgentModel = "creative-flash"
	config.Generation.SceneCount = 5
	config.Generation.TargetDurationSeconds = 60
	config.Generation.Style = "cinematic"
	config.Generation.CapabilityTimeoutSeconds = 30
	config.PromptTemplates.ScriptPrompt = "Create a {{.STYLE}} scene script with {{.SCENE_COUNT}} scenes " +
		"of about {{.SCENE_DURATION}} seconds each from the following text. " +
		"Valid emotions: {{.EMOTIONS}}. Valid transitions: {{.TRANSITIONS}}. " +
		"Respond with JSON shaped like: {{.EXAMPLE_JSON}}\n\n{{.SOURCE_TEXT}}"
	config.PromptTemplates.EnhancementPrompt = "Theme: {{.THEME}}\nAspect ratio: {{.ASPECT_RATIO}}\n" +
		"Rewrite the image prompts for all {{.TOTAL_SCENES}} scenes below. " +
		"Respond with JSON shaped like: {{.EXAMPLE_JSON}}\n\n{{.SCENES}}"
	config.Pronunciations["GCS"] = "ジーシーエス"
	return config
}

// SetupOS configures the environment variables that the configuration loader
// depends on, directing it to the test-specific configuration files
// (e.g. `configs/.env.test.toml`).
//
// Returns:
//   - An error if setting any environment variable fails.
func SetupOS() (err error) {
	// Tests run with the package directory as the working directory, so walk
	// up toward the module root until the configs directory appears.
	prefix := "configs"
	for i := 0; i < 6; i++ {
		if _, statErr := os.Stat(prefix); statErr == nil {
			break
		}
		prefix = filepath.Join("..", prefix)
	}
	err = os.Setenv(cloud.EnvConfigFilePrefix, prefix)
	if err != nil {
		return err
	}
	// Set the runtime environment identifier to "test". This causes the loader
	// to look for a file named ".env.test.toml" for overrides.
	err = os.Setenv(cloud.EnvConfigRuntime, "test")
	return err
}

// GetConfig is a singleton accessor for the test configuration loaded from
// the TOML files. Tests that talk to live cloud services should use this so
// they pick up project and bucket names from the test overrides.
//
// Returns:
//   - A pointer to the loaded and cached cloud.Config struct.
func GetConfig() *cloud.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(config)
		state.config = config
	}
	return state.config
}
