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
// Responsibility (COR) pattern's Command interface. This file enforces the
// transition variety rule: no transition value may appear three times in a
// row across the scene list. The generation prompt asks the model to vary
// transitions, but the model cannot be trusted to comply, so the rule is
// enforced structurally here as a separate pass after normalization.
package commands

import "github.com/reelworks/go-scene-script/internal/core/model"

// ApplyTransitionPolicy rewrites transitions in place so no value repeats
// three times consecutively. When scene i would be the third repeat, its
// transition is replaced with the next value in the model.Transitions
// rotation that differs from the repeated one. Deterministic: the same input
// list always produces the same result, and a compliant list is untouched.
//
// Inputs:
//   - scenes: The normalized scene list to adjust.
func ApplyTransitionPolicy(scenes []*model.Scene) {
	for i := 2; i < len(scenes); i++ {
		t := scenes[i].Transition
		if scenes[i-1].Transition != t || scenes[i-2].Transition != t {
			continue
		}
		scenes[i].Transition = nextTransition(t)
	}
}

// nextTransition returns the value following t in the canonical rotation,
// wrapping around at the end. Unknown values map to the first alternative.
func nextTransition(t model.Transition) model.Transition {
	for i, candidate := range model.Transitions {
		if candidate == t {
			return model.Transitions[(i+1)%len(model.Transitions)]
		}
	}
	return model.Transitions[0]
}
