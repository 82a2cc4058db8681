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

// This file covers the enhancement response parser and the merge step that
// writes enhanced image prompts back onto the scene list.
package commands_test

import (
	"testing"

	"github.com/zeebo/assert"

	"github.com/reelworks/go-scene-script/internal/core/commands"
	"github.com/reelworks/go-scene-script/internal/core/model"
)

func mergeScenes() []*model.Scene {
	return []*model.Scene{
		{Index: 1, ImagePrompt: "first prompt", NarrationText: "first"},
		{Index: 2, ImagePrompt: "second prompt", NarrationText: "second"},
		{Index: 3, ImagePrompt: "third prompt", NarrationText: "third"},
	}
}

func TestParseEnhancementResponseSnakeCase(t *testing.T) {
	out, err := commands.ParseEnhancementResponse(`{"enhanced_prompts": [{"scene_index": 1, "original": "a", "enhanced": "b"}]}`)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out))
	assert.Equal(t, "b", out[0].Enhanced)
}

func TestParseEnhancementResponseCamelCase(t *testing.T) {
	out, err := commands.ParseEnhancementResponse(`{"enhancedPrompts": [{"scene_index": 2, "enhanced": "c"}]}`)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out))
	assert.Equal(t, 2, out[0].SceneIndex)
}

func TestParseEnhancementResponseFenced(t *testing.T) {
	in := "Here you go:\n```json\n{\"enhanced_prompts\": []}\n```"
	out, err := commands.ParseEnhancementResponse(in)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(out))
}

func TestParseEnhancementResponseGarbage(t *testing.T) {
	_, err := commands.ParseEnhancementResponse("no json here at all")
	assert.Error(t, err)
}

func TestParseEnhancementResponseWrongShape(t *testing.T) {
	_, err := commands.ParseEnhancementResponse(`{"scenes": []}`)
	assert.Error(t, err)
}

func TestMergeEnhancedPromptsSelective(t *testing.T) {
	scenes := mergeScenes()
	commands.MergeEnhancedPrompts(scenes, []*model.EnhancedPrompt{
		{SceneIndex: 1, Enhanced: "replaced first"},
		{SceneIndex: 3, Enhanced: "replaced third"},
		{SceneIndex: 99, Enhanced: "no such scene"},
	})
	assert.Equal(t, "replaced first", scenes[0].ImagePrompt)
	assert.Equal(t, "second prompt", scenes[1].ImagePrompt)
	assert.Equal(t, "replaced third", scenes[2].ImagePrompt)
	// Narration is never touched by the merge.
	assert.Equal(t, "first", scenes[0].NarrationText)
}

func TestMergeEnhancedPromptsSkipsBlank(t *testing.T) {
	scenes := mergeScenes()
	commands.MergeEnhancedPrompts(scenes, []*model.EnhancedPrompt{
		{SceneIndex: 1, Enhanced: "  "},
		{SceneIndex: 2, Enhanced: ""},
		nil,
	})
	assert.Equal(t, "first prompt", scenes[0].ImagePrompt)
	assert.Equal(t, "second prompt", scenes[1].ImagePrompt)
}

func TestMergeEnhancedPromptsEmptyList(t *testing.T) {
	scenes := mergeScenes()
	commands.MergeEnhancedPrompts(scenes, nil)
	assert.Equal(t, "first prompt", scenes[0].ImagePrompt)
	assert.Equal(t, 3, len(scenes))
}
