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

// This file covers the first step of the transcript ingestion chain: parsing
// the GCS object-finalize notification into the lightweight object reference
// the rest of the chain loads from.
package commands_test

import (
	"context"
	"testing"

	"github.com/zeebo/assert"

	"github.com/reelworks/go-scene-script/internal/cloud"
	"github.com/reelworks/go-scene-script/internal/core/commands"
	"github.com/reelworks/go-scene-script/internal/core/cor"
	test "github.com/reelworks/go-scene-script/internal/testutil"
)

func triggerContext(payload string) cor.Context {
	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(context.Background())
	chainCtx.Add(cor.CtxIn, payload)
	return chainCtx
}

func TestTranscriptTriggerParsesNotification(t *testing.T) {
	chainCtx := triggerContext(test.GetTestTranscriptMessageText())
	cmd := commands.NewTranscriptTriggerToGCSObject("parse-transcript-trigger")

	assert.True(t, cmd.IsExecutable(chainCtx))
	cmd.Execute(chainCtx)
	assert.False(t, chainCtx.HasErrors())

	obj, ok := chainCtx.Get(cor.CtxOut).(*cloud.GCSObject)
	assert.True(t, ok)
	assert.Equal(t, "transcript_input_resources", obj.Bucket)
	assert.Equal(t, "product-launch-001.txt", obj.Name)
	assert.Equal(t, "text/plain", obj.MIMEType)

	// The object reference is also published under its well-known key so
	// later commands can find it after the in/out piping moves on.
	named, ok := chainCtx.Get(cloud.GetGCSObjectName()).(*cloud.GCSObject)
	assert.True(t, ok)
	assert.Equal(t, obj.Bucket, named.Bucket)
	assert.Equal(t, obj.Name, named.Name)
}

func TestTranscriptTriggerRejectsMalformedPayload(t *testing.T) {
	chainCtx := triggerContext("not a notification")
	cmd := commands.NewTranscriptTriggerToGCSObject("parse-transcript-trigger")

	cmd.Execute(chainCtx)
	assert.True(t, chainCtx.HasErrors())
	assert.Nil(t, chainCtx.Get(cor.CtxOut))
}
