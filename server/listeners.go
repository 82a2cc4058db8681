// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package main contains the logic for setting up and starting the Pub/Sub
// message listeners. These listeners initiate backend processing workflows in
// response to events, such as new transcript uploads to Google Cloud Storage.
//
// Functions:
//   - SetupListeners: Initializes and starts the listener for the transcript
//     topic, attaching the full ingestion workflow.
package main

import (
	"context"

	"github.com/reelworks/go-scene-script/internal/cloud"
	"github.com/reelworks/go-scene-script/internal/core/workflow"
)

// TranscriptTopic is the configuration key of the subscription that receives
// GCS notifications for the transcript input bucket.
const TranscriptTopic = "TranscriptTopic"

// SetupListeners configures and starts the background Pub/Sub listeners.
// It creates the transcript ingestion workflow and attaches it to the
// transcript topic listener.
//
// Inputs:
//   - config: The application's configuration, containing settings for storage, topics, etc.
//   - cloudClients: A struct containing all the initialized Google Cloud service clients.
//   - capability: The generative text capability backing the ingestion pipeline.
//   - ctx: The application's root context, used to manage the lifecycle of the listeners.
//
// Outputs:
//   - This function does not return any value. It starts the listeners as background goroutines.
func SetupListeners(config *cloud.Config, cloudClients *cloud.ServiceClients, capability cloud.TextCapability, ctx context.Context) {
	// Create the workflow that turns an uploaded transcript into a persisted,
	// archived scene script.
	transcriptIngestion := workflow.NewTranscriptIngestionWorkflow(config, cloudClients, capability)

	// Assign the ingestion workflow as the command to be executed by the
	// listener for the transcript topic.
	cloudClients.PubSubListeners[TranscriptTopic].SetCommand(transcriptIngestion)
	// Start the listener in a background goroutine. It will now begin receiving
	// and processing messages from its subscription.
	cloudClients.PubSubListeners[TranscriptTopic].Listen(ctx)
}
