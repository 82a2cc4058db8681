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
// command responsible for persisting a finished script to BigQuery.
//
// Logic Flow:
// This command is the persistence step at the end of the ingestion workflow.
// It takes the fully assembled `model.Script`, scenes and all, and streams
// it as a new row into the configured BigQuery table, making it available to
// the query service.
//
//  1. It retrieves the complete `model.Script` object from the context.
//  2. It gets a BigQuery `Inserter`, the streaming interface for the table,
//     which is more efficient than individual `INSERT` statements.
//  3. It uses the inserter's `Put` method; the client library maps the
//     struct fields to table columns via the `bigquery` struct tags.
//  4. It performs error handling and updates telemetry counters.
package commands

import (
	"fmt"
	"log"

	"cloud.google.com/go/bigquery"
	"github.com/reelworks/go-scene-script/internal/core/cor"
	"github.com/reelworks/go-scene-script/internal/core/model"
)

// ScriptPersistToBigQuery is a command that saves a Script object to a
// BigQuery table.
type ScriptPersistToBigQuery struct {
	cor.BaseCommand
	client      *bigquery.Client // The client for interacting with the BigQuery service.
	dataset     string           // The name of the BigQuery dataset.
	table       string           // The name of the target table within the dataset.
	scriptParam string           // The context key for the input `model.Script` object.
}

// NewScriptPersistToBigQuery is the constructor for the ScriptPersistToBigQuery command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - client: An initialized *bigquery.Client.
//   - dataset: The name of the BigQuery dataset.
//   - table: The name of the target table.
//   - scriptParam: The name of the context parameter holding the `model.Script` to be saved.
//
// Outputs:
//   - *ScriptPersistToBigQuery: A pointer to the newly instantiated command.
func NewScriptPersistToBigQuery(name string, client *bigquery.Client, dataset string, table string, scriptParam string) *ScriptPersistToBigQuery {
	return &ScriptPersistToBigQuery{BaseCommand: *cor.NewBaseCommand(name), client: client, dataset: dataset, table: table, scriptParam: scriptParam}
}

// IsExecutable overrides the default behavior to ensure that the Script
// object to be persisted exists in the context before execution.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
//
// Outputs:
//   - bool: True if the Script object exists in the context, otherwise false.
func (s *ScriptPersistToBigQuery) IsExecutable(context cor.Context) bool {
	return context != nil && context.Get(s.scriptParam) != nil
}

// Execute contains the core logic for writing the data to BigQuery.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (s *ScriptPersistToBigQuery) Execute(context cor.Context) {
	log.Println("Persisting script to BigQuery...")

	// Retrieve the fully assembled Script object from the context.
	script := context.Get(s.scriptParam).(*model.Script)

	// Get an Inserter for the target table. This provides a streaming
	// interface for inserting rows into BigQuery.
	i := s.client.Dataset(s.dataset).Table(s.table).Inserter()

	// Use the Put method to insert the Script object. The BigQuery client
	// library automatically maps the fields of the struct to the table columns.
	if err := i.Put(context.GetContext(), script); err != nil {
		log.Printf("failed to write script to database. theme %s error %s\n", script.Theme, err)
		s.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(s.GetName(), fmt.Errorf("bigquery insert failed for script '%s': %w", script.Id, err))
		return
	}

	// On success, update telemetry and pass the script object to the next command.
	s.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(cor.CtxOut, script)
	log.Printf("Successfully persisted script '%s' (%d scenes)", script.Id, len(script.Scenes))
}
