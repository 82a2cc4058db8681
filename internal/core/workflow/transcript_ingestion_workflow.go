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

// Package workflow defines the high-level business logic orchestrations,
// combining various commands into coherent pipelines. This file implements
// the transcript ingestion workflow: the background path that turns an
// uploaded transcript file into a persisted, archived script.
package workflow

import (
	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"
	"github.com/reelworks/go-scene-script/internal/cloud"
	"github.com/reelworks/go-scene-script/internal/core/commands"
	"github.com/reelworks/go-scene-script/internal/core/cor"
)

// TranscriptIngestionWorkflow orchestrates the end-to-end processing of an
// uploaded transcript. It is triggered by a Pub/Sub message published when a
// transcript file lands in the input bucket, and it nests the script
// generation workflow as one step of its chain.
type TranscriptIngestionWorkflow struct {
	cor.BaseCommand
	config         *cloud.Config
	bigqueryClient *bigquery.Client
	storageClient  *storage.Client
	generation     *ScriptGenerationWorkflow
	chain          cor.Chain // The underlying chain of commands to be executed.
}

// Execute runs the entire ingestion workflow by invoking the underlying
// chain. The context arrives holding the raw Pub/Sub trigger message and
// accumulates state as the commands run.
//
// Inputs:
//   - context: The chain of responsibility context for this execution.
func (m *TranscriptIngestionWorkflow) Execute(context cor.Context) {
	m.chain.Execute(context)
}

// initializeChain builds the sequence of commands that make up this
// workflow. This method is called by the constructor.
func (m *TranscriptIngestionWorkflow) initializeChain() {
	out := cor.NewBaseChain(m.GetName())

	// Step 1: Parse the incoming Pub/Sub message (a GCS notification in
	// JSON) into a structured GCS object reference.
	out.AddCommand(commands.NewTranscriptTriggerToGCSObject("transcript-trigger-to-gcs-object"))

	// Step 2: Read the transcript text out of GCS and wrap it in a
	// generation request using the configured defaults.
	out.AddCommand(commands.NewTranscriptLoader("load-transcript", m.storageClient, m.config.Generation))

	// Step 3: Run the nested script generation workflow. Whatever happens on
	// its AI path, it emits a finished script under ScriptOutputParamName.
	out.AddCommand(m.generation)

	// Step 4: Archive the full script document to the archive bucket. This
	// runs before persistence so the BigQuery row carries the archive URL.
	out.AddCommand(commands.NewScriptArchiveWriter(
		"archive-script",
		m.storageClient,
		m.config.Storage.ScriptArchiveBucket,
		ScriptOutputParamName))

	// Step 5: Persist the script row to BigQuery for the query service.
	out.AddCommand(commands.NewScriptPersistToBigQuery(
		"write-to-bigquery",
		m.bigqueryClient,
		m.config.BigQueryDataSource.DatasetName,
		m.config.BigQueryDataSource.ScriptTable,
		ScriptOutputParamName))

	m.chain = out
}

// NewTranscriptIngestionWorkflow is the constructor for the
// TranscriptIngestionWorkflow. It wires the storage and BigQuery clients and
// nests a fresh script generation workflow.
//
// Inputs:
//   - config: The application's overall configuration.
//   - serviceClients: A struct containing initialized clients for GCP services.
//   - capability: The generative text capability backing the nested AI path.
//
// Returns:
//   - A pointer to a newly created and fully initialized TranscriptIngestionWorkflow.
func NewTranscriptIngestionWorkflow(
	config *cloud.Config,
	serviceClients *cloud.ServiceClients,
	capability cloud.TextCapability) *TranscriptIngestionWorkflow {

	pipeline := &TranscriptIngestionWorkflow{
		BaseCommand:    *cor.NewBaseCommand("transcript-ingestion-pipeline"),
		config:         config,
		bigqueryClient: serviceClients.BigQueryClient,
		storageClient:  serviceClients.StorageClient,
		generation:     NewScriptGenerationWorkflow(config, capability),
	}
	pipeline.initializeChain()
	return pipeline
}
