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

// Package commands_test contains the tests for the individual pipeline
// commands. This file covers the tolerant script response parser: direct
// JSON, fenced JSON, JSON buried in prose, and the typed failure for
// responses with no usable document.
package commands_test

import (
	"errors"
	"testing"

	"github.com/zeebo/assert"

	"github.com/reelworks/go-scene-script/internal/core/commands"
)

const validScenesJSON = `{"scenes": [
  {"index": 1, "narration_text": "First.", "image_prompt": "a stage", "emotion": "happy", "transition": "fade"},
  {"index": 2, "narration_text": "Second.", "image_prompt": "a crowd", "emotion": "neutral", "transition": "slide"}
]}`

func TestExtractScriptJSONDirect(t *testing.T) {
	raw, err := commands.ExtractScriptJSON(validScenesJSON)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(raw.Scenes))
	assert.Equal(t, "First.", raw.Scenes[0].NarrationText)
}

func TestExtractScriptJSONFenced(t *testing.T) {
	in := "Here is the script you asked for:\n```json\n" + validScenesJSON + "\n```\nLet me know if you need changes."
	raw, err := commands.ExtractScriptJSON(in)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(raw.Scenes))
}

func TestExtractScriptJSONBareFence(t *testing.T) {
	in := "```\n" + validScenesJSON + "\n```"
	raw, err := commands.ExtractScriptJSON(in)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(raw.Scenes))
}

func TestExtractScriptJSONUnterminatedFence(t *testing.T) {
	in := "```json\n" + validScenesJSON
	raw, err := commands.ExtractScriptJSON(in)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(raw.Scenes))
}

func TestExtractScriptJSONBuriedInProse(t *testing.T) {
	in := "Sure! The script below has two scenes. " + validScenesJSON + " Each scene runs a few seconds."
	raw, err := commands.ExtractScriptJSON(in)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(raw.Scenes))
}

func TestExtractScriptJSONBracesInsideStrings(t *testing.T) {
	in := `preamble {"scenes": [{"index": 1, "narration_text": "A \"quoted\" brace } inside.", "image_prompt": "x"}]} trailer`
	raw, err := commands.ExtractScriptJSON(in)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(raw.Scenes))
	assert.Equal(t, `A "quoted" brace } inside.`, raw.Scenes[0].NarrationText)
}

func TestExtractScriptJSONNoJSON(t *testing.T) {
	_, err := commands.ExtractScriptJSON("I'm sorry, I can't produce that script.")
	assert.True(t, errors.Is(err, commands.ErrNoScriptJSON))
}

func TestExtractScriptJSONEmptyInput(t *testing.T) {
	_, err := commands.ExtractScriptJSON("   \n\t ")
	assert.True(t, errors.Is(err, commands.ErrNoScriptJSON))
}

func TestExtractScriptJSONMissingScenesKey(t *testing.T) {
	_, err := commands.ExtractScriptJSON(`{"script": "not the shape we asked for"}`)
	assert.True(t, errors.Is(err, commands.ErrNoScriptJSON))
}

func TestExtractScriptJSONAliases(t *testing.T) {
	in := `{"scenes": [
	  {"scene_index": 4, "avatar_script": "Spoken line.", "subtitle": "On screen", "duration": 7.5}
	]}`
	raw, err := commands.ExtractScriptJSON(in)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(raw.Scenes))
	assert.Equal(t, 4, raw.Scenes[0].Index)
	assert.Equal(t, "Spoken line.", raw.Scenes[0].NarrationText)
	assert.Equal(t, "On screen", raw.Scenes[0].SubtitleText)
	assert.Equal(t, 7.5, raw.Scenes[0].DurationSeconds)
}
