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
// command that reads an uploaded transcript object out of GCS and turns it
// into a generation request for the script pipeline.
//
// Logic Flow:
//  1. It receives the `cloud.GCSObject` identifying the uploaded transcript.
//  2. It streams the object's content from GCS. Transcripts are small text
//     files, so unlike media processing there is no temp-file staging: the
//     content is read straight into memory.
//  3. It builds a `model.GenerationRequest` around the transcript text using
//     the configured generation defaults and places it into the context for
//     the nested script generation workflow.
package commands

import (
	"fmt"
	"io"
	"log"

	"cloud.google.com/go/storage"
	"github.com/reelworks/go-scene-script/internal/cloud"
	"github.com/reelworks/go-scene-script/internal/core/cor"
	"github.com/reelworks/go-scene-script/internal/core/model"
)

// TranscriptLoader is a command that reads a transcript object from GCS and
// produces the generation request that will drive the script pipeline.
type TranscriptLoader struct {
	cor.BaseCommand
	client     *storage.Client  // The GCS client for interacting with the storage service.
	generation cloud.Generation // The configured pipeline defaults for ingested transcripts.
}

// NewTranscriptLoader is the constructor for creating a new TranscriptLoader
// command.
//
// Inputs:
//   - name: A string name for this command instance, used for logging and telemetry.
//   - client: An initialized *storage.Client for communicating with GCS.
//   - generation: The generation defaults applied to ingested transcripts.
//
// Outputs:
//   - *TranscriptLoader: A pointer to the newly instantiated command.
func NewTranscriptLoader(name string, client *storage.Client, generation cloud.Generation) *TranscriptLoader {
	return &TranscriptLoader{
		BaseCommand: *cor.NewBaseCommand(name),
		client:      client,
		generation:  generation,
	}
}

// Execute reads the transcript content and emits a generation request.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (c *TranscriptLoader) Execute(context cor.Context) {
	// Retrieve the GCS object metadata from the context's input parameter.
	msg := context.Get(c.GetInputParam()).(*cloud.GCSObject)

	obj := c.client.Bucket(msg.Bucket).Object(msg.Name)

	// Create a new reader to stream the object's data from GCS.
	reader, err := obj.NewReader(context.GetContext())
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to create GCS reader for gs://%s/%s: %w", msg.Bucket, msg.Name, err))
		return
	}
	defer func(reader *storage.Reader) {
		err := reader.Close()
		if err != nil {
			log.Printf("failed to close GCS reader: %v\n", err)
		}
	}(reader)

	data, err := io.ReadAll(reader)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to read transcript gs://%s/%s: %w", msg.Bucket, msg.Name, err))
		return
	}

	request := &model.GenerationRequest{
		SourceText:            string(data),
		SceneCount:            c.generation.SceneCount,
		Style:                 c.generation.Style,
		TargetDurationSeconds: c.generation.TargetDurationSeconds,
	}
	request.ApplyDefaults()

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(c.GetOutputParam(), request)
	log.Printf("loaded transcript gs://%s/%s (%d bytes)", msg.Bucket, msg.Name, len(data))
}
