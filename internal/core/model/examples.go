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

// This file provides hardcoded example instances used for few-shot prompting.
// Embedding a concrete, well-formed example of the expected JSON inside the
// prompt is the single most effective lever for getting the generative model
// to return a parseable response.
package model

// GetExampleScene creates a sample Scene demonstrating every field the model
// is expected to fill, including sound-effect cues and emphasis words.
func GetExampleScene() *Scene {
	return &Scene{
		Index:           1,
		DurationSeconds: 12,
		NarrationText:   "朝の光が街を包み、新しい一日が始まります。",
		SubtitleText:    "新しい一日の始まり",
		ImagePrompt:     "golden morning light over a quiet city street, soft haze, cinematic wide shot",
		Emotion:         EmotionHappy,
		Transition:      TransitionFade,
		EmphasisWords:   []string{"新しい一日"},
		SoundEffects: []*SoundEffect{
			{Type: SoundEffectAmbient, Keyword: "city morning birds", Timing: TimingThroughout, Volume: 0.3},
		},
	}
}

// GetExampleSceneList creates a two-scene list showing the model that
// indices are sequential, durations vary, and transitions alternate.
func GetExampleSceneList() []*Scene {
	second := &Scene{
		Index:           2,
		DurationSeconds: 10,
		NarrationText:   "人々は足早に駅へと向かいます。",
		SubtitleText:    "駅へ向かう人々",
		ImagePrompt:     "commuters walking toward a train station at sunrise, long shadows, medium shot",
		Emotion:         EmotionNeutral,
		Transition:      TransitionSlide,
		SoundEffects: []*SoundEffect{
			{Type: SoundEffectAction, Keyword: "footsteps crowd", Timing: TimingStart, Volume: 0.4},
		},
	}
	return []*Scene{GetExampleScene(), second}
}

// GetExampleEnhancedPrompt creates a sample EnhancedPrompt for the
// enhancement pass's few-shot example.
func GetExampleEnhancedPrompt() *EnhancedPrompt {
	return &EnhancedPrompt{
		SceneIndex: 1,
		Original:   "golden morning light over a quiet city street",
		Enhanced:   "golden morning light over a quiet city street, warm amber tones, gentle rim lighting, slow push-in framing with generous headroom, 16:9 cinematic composition",
	}
}
