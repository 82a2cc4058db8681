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

// This file tests the image-prompt enhancement workflow: the single batched
// capability call, the merge back into the scene list, and the guarantee
// that a failed pass leaves the scenes untouched.
package workflow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelworks/go-scene-script/internal/core/cor"
	"github.com/reelworks/go-scene-script/internal/core/model"
	"github.com/reelworks/go-scene-script/internal/core/workflow"
)

func enhancementScenes() []*model.Scene {
	return []*model.Scene{
		{Index: 1, NarrationText: "Opening shot.", ImagePrompt: "a city at dawn", Emotion: model.EmotionNeutral, Transition: model.TransitionFade},
		{Index: 2, NarrationText: "The reveal.", ImagePrompt: "a product on a table", Emotion: model.EmotionExcited, Transition: model.TransitionSlide},
		{Index: 3, NarrationText: "Closing words.", ImagePrompt: "a sunset skyline", Emotion: model.EmotionThoughtful, Transition: model.TransitionFade},
	}
}

func TestPromptEnhancementReplacesPrompts(t *testing.T) {
	capability := &fakeTextCapability{
		response: `{"enhanced_prompts": [
			{"scene_index": 1, "original": "a city at dawn", "enhanced": "a sprawling city at golden dawn, soft even lighting, 16:9 wide framing"},
			{"scene_index": 3, "original": "a sunset skyline", "enhanced": "a dramatic sunset skyline, warm directional light"}
		]}`,
	}
	pipeline := workflow.NewPromptEnhancementWorkflow(config, capability)
	scenes := enhancementScenes()

	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(context.Background())
	applied := pipeline.EnhanceScenes(chainCtx, "city launch video", model.AspectLandscape, scenes, map[int]model.ImageEffect{2: model.EffectZoomIn})

	require.True(t, applied)
	// One batched call covering every scene.
	require.Len(t, capability.prompts, 1)
	assert.Contains(t, capability.prompts[0], "city launch video")
	assert.Contains(t, capability.prompts[0], "16:9")
	assert.Contains(t, capability.prompts[0], "a product on a table")

	// Matched indices are replaced, the unmatched scene keeps its prompt.
	assert.Equal(t, "a sprawling city at golden dawn, soft even lighting, 16:9 wide framing", scenes[0].ImagePrompt)
	assert.Equal(t, "a product on a table", scenes[1].ImagePrompt)
	assert.Equal(t, "a dramatic sunset skyline, warm directional light", scenes[2].ImagePrompt)

	// Only the image prompt changes.
	assert.Equal(t, "Opening shot.", scenes[0].NarrationText)
	assert.Equal(t, model.TransitionFade, scenes[0].Transition)
}

func TestPromptEnhancementKeepsScenesOnFailure(t *testing.T) {
	capability := &fakeTextCapability{err: errCapabilityDown}
	pipeline := workflow.NewPromptEnhancementWorkflow(config, capability)
	scenes := enhancementScenes()

	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(context.Background())
	applied := pipeline.EnhanceScenes(chainCtx, "city launch video", model.AspectPortrait, scenes, nil)

	assert.False(t, applied)
	assert.False(t, chainCtx.HasErrors(), "a failed pass must not fail the caller's context")
	assert.Equal(t, "a city at dawn", scenes[0].ImagePrompt)
	assert.Equal(t, "a product on a table", scenes[1].ImagePrompt)
	assert.Equal(t, "a sunset skyline", scenes[2].ImagePrompt)
}

func TestPromptEnhancementKeepsScenesOnGarbageResponse(t *testing.T) {
	capability := &fakeTextCapability{response: "not json"}
	pipeline := workflow.NewPromptEnhancementWorkflow(config, capability)
	scenes := enhancementScenes()

	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(context.Background())
	applied := pipeline.EnhanceScenes(chainCtx, "city launch video", model.AspectLandscape, scenes, nil)

	assert.False(t, applied)
	assert.Equal(t, "a city at dawn", scenes[0].ImagePrompt)
}

func TestPromptEnhancementIgnoresBlankEnhancements(t *testing.T) {
	capability := &fakeTextCapability{
		response: `{"enhancedPrompts": [
			{"scene_index": 1, "original": "a city at dawn", "enhanced": "   "},
			{"scene_index": 2, "original": "a product on a table", "enhanced": "a hero shot of the product, crisp studio lighting"}
		]}`,
	}
	pipeline := workflow.NewPromptEnhancementWorkflow(config, capability)
	scenes := enhancementScenes()

	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(context.Background())
	applied := pipeline.EnhanceScenes(chainCtx, "city launch video", model.AspectLandscape, scenes, nil)

	require.True(t, applied)
	assert.Equal(t, "a city at dawn", scenes[0].ImagePrompt)
	assert.Equal(t, "a hero shot of the product, crisp studio lighting", scenes[1].ImagePrompt)
}
