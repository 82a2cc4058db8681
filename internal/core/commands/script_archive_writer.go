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
// command that archives a finished script document to Google Cloud Storage.
//
// Logic Flow:
// The BigQuery row is the queryable record; the archive object is the full
// JSON document the rendering layer downloads. This command marshals the
// `model.Script` and streams it to the archive bucket under the script's ID.
//
//  1. It retrieves the complete `model.Script` object from the context.
//  2. It marshals the script to JSON.
//  3. It writes the JSON to `<bucket>/<script-id>.json` with a JSON content
//     type, and records the gs:// location on the script's ArchiveUrl field
//     so the persistence step stores it alongside the row.
package commands

import (
	"encoding/json"
	"fmt"
	"log"

	"cloud.google.com/go/storage"
	"github.com/reelworks/go-scene-script/internal/core/cor"
	"github.com/reelworks/go-scene-script/internal/core/model"
)

// ScriptArchiveWriter is a command that writes a script's JSON document to a
// GCS archive bucket.
type ScriptArchiveWriter struct {
	cor.BaseCommand                 // Embeds the BaseCommand for common functionality like naming and metrics.
	client          *storage.Client // The GCS client for interacting with the storage service.
	bucket          string          // The name of the destination archive bucket.
	scriptParam     string          // The context key for the input `model.Script` object.
}

// NewScriptArchiveWriter is the constructor for creating a new
// ScriptArchiveWriter command.
//
// Inputs:
//   - name: A string name for this command instance, used for logging and telemetry.
//   - client: An initialized *storage.Client for communicating with GCS.
//   - bucket: The name of the target archive bucket.
//   - scriptParam: The name of the context parameter holding the `model.Script`.
//
// Outputs:
//   - *ScriptArchiveWriter: A pointer to the newly instantiated command.
func NewScriptArchiveWriter(name string, client *storage.Client, bucket string, scriptParam string) *ScriptArchiveWriter {
	return &ScriptArchiveWriter{BaseCommand: *cor.NewBaseCommand(name), client: client, bucket: bucket, scriptParam: scriptParam}
}

// ArchiveObjectName returns the object name a script is archived under.
func ArchiveObjectName(scriptId string) string {
	return fmt.Sprintf("%s.json", scriptId)
}

// IsExecutable ensures the Script object exists in the context before
// execution.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
//
// Outputs:
//   - bool: True if the Script object exists in the context, otherwise false.
func (c *ScriptArchiveWriter) IsExecutable(context cor.Context) bool {
	return context != nil && context.Get(c.scriptParam) != nil
}

// Execute marshals the script and streams it to the archive bucket.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (c *ScriptArchiveWriter) Execute(context cor.Context) {
	script := context.Get(c.scriptParam).(*model.Script)

	data, err := json.Marshal(script)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to marshal script '%s': %w", script.Id, err))
		return
	}

	objectName := ArchiveObjectName(script.Id)
	obj := c.client.Bucket(c.bucket).Object(objectName)

	// Create a new writer for the GCS object. This opens a stream to GCS.
	writer := obj.NewWriter(context.GetContext())
	writer.ContentType = "application/json"

	if _, err := writer.Write(data); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to write archive gs://%s/%s: %w", c.bucket, objectName, err))
		_ = writer.Close()
		return
	}

	// Closing the writer finalizes the upload. An error here means the
	// object may not exist, so it fails the command.
	if err := writer.Close(); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to finalize archive gs://%s/%s: %w", c.bucket, objectName, err))
		return
	}

	script.ArchiveUrl = fmt.Sprintf("gs://%s/%s", c.bucket, objectName)

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(cor.CtxOut, script)
	log.Printf("Successfully archived script to %s", script.ArchiveUrl)
}
