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

// Package cloud wires the application to its external collaborators: the
// Vertex AI generative models, Cloud Storage, Pub/Sub, and BigQuery. This
// file defines the TOML-backed configuration structs for all of them,
// including the prompt templates the pipeline feeds to the generative model.
package cloud

import "google.golang.org/genai"

// DefaultSafetySettings are the content safety thresholds applied to every
// generative model. The pipeline's inputs are operator-supplied themes and
// transcripts, so all categories pass through unblocked.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// BigQueryDataSource configures the dataset and table generated scripts are
// streamed into.
type BigQueryDataSource struct {
	DatasetName string `toml:"dataset"`      // The name of the BigQuery dataset.
	ScriptTable string `toml:"script_table"` // The table holding generated scripts.
}

// PromptTemplates holds the Go text/template sources for the two generative
// passes. Keeping them in configuration lets operators tune prompt wording
// without a rebuild.
type PromptTemplates struct {
	ScriptPrompt      string `toml:"script"`      // Template for scene-script generation.
	EnhancementPrompt string `toml:"enhancement"` // Template for the image-prompt enhancement pass.
}

// VertexAiLLMModel configures one Vertex AI large language model.
type VertexAiLLMModel struct {
	Model              string  `toml:"model"`               // The model name, e.g. "gemini-2.0-flash".
	SystemInstructions string  `toml:"system_instructions"` // System instructions applied to every request.
	Temperature        float32 `toml:"temperature"`
	TopP               float32 `toml:"top_p"`
	TopK               float32 `toml:"top_k"`
	MaxTokens          int32   `toml:"max_tokens"`
	OutputFormat       string  `toml:"output_format"` // Default response MIME type.
	RateLimit          int     `toml:"rate_limit"`    // Requests per second.
}

// TopicSubscription configures a single Pub/Sub subscription.
type TopicSubscription struct {
	Name             string `toml:"name"`
	DeadLetterTopic  string `toml:"dead_letter_topic"`
	TimeoutInSeconds int    `toml:"timeout_in_seconds"`
}

// Storage configures the GCS buckets the service touches: where uploaded
// transcripts land and where finished script documents are archived.
type Storage struct {
	TranscriptInputBucket string `toml:"transcript_input_bucket"`
	ScriptArchiveBucket   string `toml:"script_archive_bucket"`
}

// Generation holds the pipeline defaults applied when a request leaves a
// field unset, plus the capability call timeout after which the orchestrator
// abandons the generative path and falls back to sentence splitting.
type Generation struct {
	AgentModel               string  `toml:"agent_model"` // Key into AgentModels for the script model.
	SceneCount               int     `toml:"scene_count"`
	TargetDurationSeconds    float64 `toml:"target_duration_seconds"`
	Style                    string  `toml:"style"`
	CapabilityTimeoutSeconds int     `toml:"capability_timeout_seconds"`
}

// Config is the root configuration aggregate, loaded from TOML files.
type Config struct {
	Application struct {
		Name                      string `toml:"name"`
		GoogleProjectId           string `toml:"google_project_id"`
		GoogleLocation            string `toml:"location"`
		SignerServiceAccountEmail string `toml:"signer_service_account_email"` // Service account used for signing archive URLs.
	} `toml:"application"`
	Storage            Storage                      `toml:"storage"`
	BigQueryDataSource BigQueryDataSource           `toml:"big_query_data_source"`
	PromptTemplates    PromptTemplates              `toml:"prompt_templates"`
	Generation         Generation                   `toml:"generation"`
	TopicSubscriptions map[string]TopicSubscription `toml:"topic_subscriptions"`
	AgentModels        map[string]VertexAiLLMModel  `toml:"agent_models"`
	Pronunciations     map[string]string            `toml:"pronunciations"` // Narration reading substitutions, applied verbatim.
}

// NewConfig creates a Config with its map fields initialized so the TOML
// decoder can populate them directly.
func NewConfig() *Config {
	return &Config{
		TopicSubscriptions: make(map[string]TopicSubscription),
		AgentModels:        make(map[string]VertexAiLLMModel),
		Pronunciations:     make(map[string]string),
	}
}
