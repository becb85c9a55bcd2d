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

import (
	"fmt"
	"strconv"
	"strings"
)

var canonicalFields = map[string]bool{
	FieldCode: true, FieldTradeName: true, FieldINCIName: true,
	FieldSupplier: true, FieldCompany: true, FieldCost: true,
	FieldBenefits: true, FieldDetails: true, FieldCategory: true,
	FieldFunction: true,
}

// ValidateIngredient validates an Ingredient according to domain rules.
//
// Validation rules:
//   - Code must not be empty
//   - Localized map keys must be canonical field names
//   - Cost, when it parses as a number, must not be negative
//
// NOT validated (populated during ingestion):
//   - ID (0 is valid before ingest assigns the content-based ID)
//   - Timestamps
func ValidateIngredient(ingredient *Ingredient) error {
	if ingredient == nil {
		return fmt.Errorf("%w: ingredient is nil", ErrInvalidIngredient)
	}

	if ingredient.Code == "" {
		return fmt.Errorf("%w: %w", ErrInvalidIngredient, ErrEmptyCode)
	}

	for field := range ingredient.Localized {
		if !canonicalFields[field] {
			return fmt.Errorf("%w: %w: %q", ErrInvalidIngredient, ErrInvalidLocalizedField, field)
		}
	}

	if cost, ok := NumericCost(ingredient.Cost); ok && cost < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidIngredient, ErrNegativeCost)
	}

	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Type must be a known chunk type
//   - Priority must be within [0,1]
//
// NOT validated (populated by the embedding pipeline):
//   - Vector (can be empty until embedded)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyChunkText)
	}

	if chunk.Type < ChunkPrimaryIdentifier || chunk.Type > ChunkLocale {
		return fmt.Errorf("%w: %w: value %d", ErrInvalidChunk, ErrInvalidChunkType, chunk.Type)
	}

	if chunk.Priority < 0 || chunk.Priority > 1 {
		return fmt.Errorf("%w: %w: value %f", ErrInvalidChunk, ErrInvalidPriority, chunk.Priority)
	}

	return nil
}

// NumericCost extracts the leading numeric value from a free-text cost,
// e.g. "1200 THB/kg" yields 1200. The second return is false when the cost
// does not start with a number.
func NumericCost(cost string) (float64, bool) {
	cost = strings.TrimSpace(cost)
	if cost == "" {
		return 0, false
	}
	end := 0
	for end < len(cost) {
		ch := cost[end]
		if (ch >= '0' && ch <= '9') || ch == '.' || (end == 0 && ch == '-') {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return 0, false
	}
	value, err := strconv.ParseFloat(cost[:end], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
