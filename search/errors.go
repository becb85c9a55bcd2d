// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package search

import "errors"

var (
	// ErrIngredientRepositoryRequired is returned when an ingredient repository is not provided.
	ErrIngredientRepositoryRequired = errors.New("ingredient repository required")

	// ErrChunkRepositoryRequired is returned when a chunk repository is not provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrSearchUnavailable is returned when every enabled strategy failed
	// against its backend. It is distinct from an empty result list, which
	// means the search ran and nothing matched.
	ErrSearchUnavailable = errors.New("search unavailable: all strategies failed")

	// ErrNoStrategiesEnabled is returned when the options disable every
	// strategy. Rejected before any backend call.
	ErrNoStrategiesEnabled = errors.New("no search strategies enabled")

	// ErrInvalidTopK is returned when topK is zero or negative.
	ErrInvalidTopK = errors.New("topK must be positive")

	// ErrInvalidThreshold is returned when the score threshold is outside [0, 1].
	ErrInvalidThreshold = errors.New("score threshold must be in [0, 1]")

	// ErrInvalidFuzzyThreshold is returned when the fuzzy acceptance
	// threshold is outside [0, 1].
	ErrInvalidFuzzyThreshold = errors.New("fuzzy threshold must be in [0, 1]")

	// ErrInvalidWeights is returned when the semantic or keyword weight is
	// outside [0, 1].
	ErrInvalidWeights = errors.New("strategy weights must be in [0, 1]")

	// ErrInvalidBoost is returned when a per-strategy boost is negative.
	ErrInvalidBoost = errors.New("strategy boost must be non-negative")
)
