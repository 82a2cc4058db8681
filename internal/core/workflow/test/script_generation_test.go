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

// This file tests the script generation workflow end to end against the
// scripted capability: the generative path with a well-formed and a sloppy
// model response, and the degradation to the sentence splitter when the
// capability fails outright.
package workflow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelworks/go-scene-script/internal/core/cor"
	"github.com/reelworks/go-scene-script/internal/core/model"
	"github.com/reelworks/go-scene-script/internal/core/workflow"
	test "github.com/reelworks/go-scene-script/internal/testutil"
)

// runGeneration executes the workflow for a request and returns the script
// it placed on the outer context.
func runGeneration(t *testing.T, capability *fakeTextCapability, request *model.GenerationRequest) *model.Script {
	t.Helper()
	pipeline := workflow.NewScriptGenerationWorkflow(config, capability)

	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(context.Background())
	chainCtx.Add(cor.CtxIn, request)
	pipeline.Execute(chainCtx)

	require.False(t, chainCtx.HasErrors(), "generation workflow must not fail the outer context")
	script, ok := chainCtx.Get(workflow.ScriptOutputParamName).(*model.Script)
	require.True(t, ok, "workflow must output a script")
	return script
}

func TestScriptGenerationGenerativePath(t *testing.T) {
	capability := &fakeTextCapability{
		response: `{"scenes": [
			{"index": 1, "narration_text": "The launch event opened today.", "subtitle_text": "Launch day", "image_prompt": "a bright keynote stage", "emotion": "excited", "transition": "fade", "duration_seconds": 10},
			{"index": 2, "narration": "Attendees tried the GCS demo.", "image_prompt": "crowd around a demo booth", "emotion": "happy", "transition": "slide", "duration_seconds": 12},
			{"index": 3, "avatar_script": "The roadmap closed the show.", "emotion": "thoughtful", "transition": "zoom", "duration_seconds": 8}
		]}`,
	}
	request := &model.GenerationRequest{
		SourceText: "A product launch event.",
		SceneCount: 3,
	}

	script := runGeneration(t, capability, request)

	assert.Equal(t, model.SourceGenerative, script.Source)
	assert.Equal(t, "A product launch event.", script.Theme)
	require.Len(t, script.Scenes, 3)

	// One JSON capability call carrying the source text.
	require.Len(t, capability.prompts, 1)
	assert.Contains(t, capability.prompts[0], "A product launch event.")
	assert.Contains(t, capability.prompts[0], "3 scenes")

	// Scene indices are contiguous from one and aliases were honored.
	for i, scene := range script.Scenes {
		assert.Equal(t, i+1, scene.Index)
		assert.NotEmpty(t, scene.NarrationText)
		assert.NotEmpty(t, scene.SubtitleText)
		assert.NotEmpty(t, scene.ImagePrompt)
	}
	assert.Equal(t, "The roadmap closed the show.", script.Scenes[2].NarrationText)
	// Scene 3 carried no image prompt, so it gets the default.
	assert.Equal(t, model.DefaultImagePrompt, script.Scenes[2].ImagePrompt)
	// The lexicon rewrites narration but leaves subtitles alone.
	assert.Contains(t, script.Scenes[1].NarrationText, "ジーシーエス")
}

func TestScriptGenerationPadsShortResponse(t *testing.T) {
	capability := &fakeTextCapability{
		response: "```json\n" + `{"scenes": [
			{"index": 1, "narration_text": "Only one scene came back.", "image_prompt": "a lone presenter", "emotion": "serious", "transition": "fade", "duration_seconds": 12}
		]}` + "\n```",
	}
	request := &model.GenerationRequest{
		SourceText: "Short response handling.",
		SceneCount: 4,
	}

	script := runGeneration(t, capability, request)

	assert.Equal(t, model.SourceGenerative, script.Source)
	require.Len(t, script.Scenes, 4)
	for i, scene := range script.Scenes {
		assert.Equal(t, i+1, scene.Index)
	}
	// Padding duplicates the last real scene, then the transition policy
	// breaks up the run of identical transitions.
	assert.Equal(t, "Only one scene came back.", script.Scenes[3].NarrationText)
	transitions := make(map[model.Transition]bool)
	for _, scene := range script.Scenes {
		transitions[scene.Transition] = true
	}
	assert.True(t, len(transitions) > 1, "transition policy must break up a four-scene run")
}

func TestScriptGenerationFallsBackOnCapabilityError(t *testing.T) {
	capability := &fakeTextCapability{err: errCapabilityDown}
	request := &model.GenerationRequest{
		SourceText: "最初の文です。二番目の文です。三番目の文です。",
		SceneCount: 3,
	}

	script := runGeneration(t, capability, request)

	assert.Equal(t, model.SourceFallback, script.Source)
	require.Len(t, script.Scenes, 3)
	assert.Equal(t, "最初の文です。", script.Scenes[0].NarrationText)
	assert.Equal(t, "二番目の文です。", script.Scenes[1].NarrationText)
	assert.Equal(t, "三番目の文です。", script.Scenes[2].NarrationText)
	for i, scene := range script.Scenes {
		assert.Equal(t, i+1, scene.Index)
		assert.Equal(t, model.DefaultImagePrompt, scene.ImagePrompt)
		assert.Equal(t, model.EmotionNeutral, scene.Emotion)
	}
}

func TestScriptGenerationFallsBackOnUnparseableResponse(t *testing.T) {
	capability := &fakeTextCapability{response: "I am sorry, I cannot help with that."}
	request := &model.GenerationRequest{
		SourceText: "Only prose came back. No JSON at all.",
		SceneCount: 2,
	}

	script := runGeneration(t, capability, request)

	assert.Equal(t, model.SourceFallback, script.Source)
	require.Len(t, script.Scenes, 2)
}

func TestScriptGenerationSplitsMixedLanguageTranscript(t *testing.T) {
	capability := &fakeTextCapability{err: errCapabilityDown}
	request := &model.GenerationRequest{
		SourceText: test.GetTestTranscript(),
		SceneCount: 3,
	}

	script := runGeneration(t, capability, request)

	assert.Equal(t, model.SourceFallback, script.Source)
	require.Len(t, script.Scenes, 3)
	// Six sentences over three scenes, two apiece in transcript order.
	assert.Contains(t, script.Scenes[0].NarrationText, "今日は新製品の発表会に行ってきました。")
	assert.Contains(t, script.Scenes[1].NarrationText, "最初のデモでは音声認識の精度が紹介されました。")
	assert.Contains(t, script.Scenes[2].NarrationText, "Questions from the audience went on for an hour.")
	for _, scene := range script.Scenes {
		assert.NotEmpty(t, scene.NarrationText)
		assert.Equal(t, scene.NarrationText, scene.SubtitleText)
	}
}

func TestScriptGenerationAppliesRequestDefaults(t *testing.T) {
	capability := &fakeTextCapability{err: errCapabilityDown}
	request := &model.GenerationRequest{SourceText: "Defaults only."}
	request.ApplyDefaults()

	script := runGeneration(t, capability, request)

	assert.Len(t, script.Scenes, 5)
	assert.Equal(t, "cinematic", script.Style)
	assert.InDelta(t, 60.0, script.TargetDurationSeconds, 0.001)
}
