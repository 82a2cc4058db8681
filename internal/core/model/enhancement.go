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

package model

import "encoding/json"

// AspectRatio is the target frame shape of the rendered video.
type AspectRatio string

const (
	AspectLandscape AspectRatio = "16:9"
	AspectPortrait  AspectRatio = "9:16"
)

// ImageEffect is the camera motion applied to a scene's still image by the
// rendering layer. The enhancement pass translates it into composition
// guidance for the image prompt.
type ImageEffect string

const (
	EffectZoomIn   ImageEffect = "zoomIn"
	EffectZoomOut  ImageEffect = "zoomOut"
	EffectPanLeft  ImageEffect = "panLeft"
	EffectPanRight ImageEffect = "panRight"
	EffectStatic   ImageEffect = "static"
)

// ScenePromptView is the read-only slice of a scene the enhancement pass is
// allowed to see: enough to write a better image prompt, nothing it could
// mutate.
type ScenePromptView struct {
	SceneIndex     int         `json:"scene_index"`
	OriginalPrompt string      `json:"original_prompt"`
	NarrationText  string      `json:"narration_text"`
	Emotion        Emotion     `json:"emotion"`
	ImageEffect    ImageEffect `json:"image_effect"`
}

// EnhancementContext carries the whole-video visual context for one batched
// enhancement call.
type EnhancementContext struct {
	Theme       string             `json:"theme"`
	AspectRatio AspectRatio        `json:"aspect_ratio"`
	TotalScenes int                `json:"total_scenes"`
	Scenes      []*ScenePromptView `json:"scenes"`
}

// EnhancedPrompt is one scene's enhancement result, keyed back to the scene
// list by SceneIndex.
type EnhancedPrompt struct {
	SceneIndex int    `json:"scene_index"`
	Original   string `json:"original"`
	Enhanced   string `json:"enhanced"`
}

// EnhancementResponse is the decode target for the enhancement pass's model
// response. Both the snake_case key the prompt requests and the camelCase
// alias the model occasionally emits are accepted.
type EnhancementResponse struct {
	EnhancedPrompts []*EnhancedPrompt
}

func (r *EnhancementResponse) UnmarshalJSON(data []byte) error {
	var aux struct {
		Snake []*EnhancedPrompt `json:"enhanced_prompts"`
		Camel []*EnhancedPrompt `json:"enhancedPrompts"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Snake != nil {
		r.EnhancedPrompts = aux.Snake
	} else {
		r.EnhancedPrompts = aux.Camel
	}
	return nil
}
