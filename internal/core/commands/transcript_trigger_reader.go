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
// entry command of the transcript ingestion workflow.
//
// Logic Flow:
// When a transcript file lands in the input bucket, GCS publishes a detailed
// notification message to a Pub/Sub topic. This command parses that message
// down to the three facts the rest of the workflow needs.
//
//  1. The command receives the raw Pub/Sub message data as a JSON string
//     from the context.
//  2. It unmarshals the JSON into a `cloud.GCSPubSubNotification`, the full
//     notification structure.
//  3. It extracts the bucket name, object name, and content type into a
//     simplified `cloud.GCSObject`.
//  4. It places the `GCSObject` back into the context under a well-known key
//     so subsequent commands can locate the transcript without understanding
//     the notification format.
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/reelworks/go-scene-script/internal/cloud"
	"github.com/reelworks/go-scene-script/internal/core/cor"
)

// TranscriptTriggerToGCSObject is a command that parses a GCS Pub/Sub
// notification and extracts key file information into a simplified GCSObject.
type TranscriptTriggerToGCSObject struct {
	cor.BaseCommand // Embeds the BaseCommand for common functionality.
}

// NewTranscriptTriggerToGCSObject is the constructor for the
// TranscriptTriggerToGCSObject command.
//
// Inputs:
//   - name: A string name for this command instance.
//
// Outputs:
//   - *TranscriptTriggerToGCSObject: A pointer to the newly instantiated command.
func NewTranscriptTriggerToGCSObject(name string) *TranscriptTriggerToGCSObject {
	return &TranscriptTriggerToGCSObject{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute contains the core logic for parsing the GCS notification message.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution, containing
//     the raw message data in the input parameter.
func (c *TranscriptTriggerToGCSObject) Execute(context cor.Context) {
	// Retrieve the raw JSON message string from the context.
	in := context.Get(c.GetInputParam()).(string)

	var out cloud.GCSPubSubNotification
	err := json.Unmarshal([]byte(in), &out)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to unmarshal GCS notification: %w", err))
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)

	// Create a new, simplified GCSObject containing only the essential
	// information needed by downstream commands.
	msg := &cloud.GCSObject{Bucket: out.Bucket, Name: out.Name, MIMEType: out.ContentType}

	// Add the simplified GCSObject to the context using a well-known key
	// so that other commands can easily access it.
	context.Add(cloud.GetGCSObjectName(), msg)

	// Also add the GCSObject to the default output parameter so it becomes
	// the input for the very next command in the chain.
	context.Add(c.GetOutputParam(), msg)
}
