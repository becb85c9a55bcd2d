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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidIngredient indicates an Ingredient failed validation.
	ErrInvalidIngredient = errors.New("invalid ingredient")

	// ErrEmptyCode indicates the Code field is empty.
	ErrEmptyCode = errors.New("ingredient code cannot be empty")

	// ErrInvalidLocalizedField indicates a Localized map key is not a known field name.
	ErrInvalidLocalizedField = errors.New("localized key is not a canonical field name")

	// ErrNegativeCost indicates a numeric cost value below zero.
	ErrNegativeCost = errors.New("cost cannot be negative")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyChunkText indicates the chunk Text field is empty.
	ErrEmptyChunkText = errors.New("chunk text cannot be empty")

	// ErrInvalidChunkType indicates an unknown ChunkType value.
	ErrInvalidChunkType = errors.New("invalid chunk type")

	// ErrInvalidPriority indicates a chunk priority outside [0,1].
	ErrInvalidPriority = errors.New("chunk priority must be between 0 and 1")
)
