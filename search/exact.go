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

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/ingrid/core"
	"github.com/poiesic/ingrid/storage"
)

// Exact-match scores, by how the term matched.
const (
	exactCodeScore      = 1.0
	exactTradeNameScore = 0.95
	exactINCIScore      = 0.9
	exactBaseScore      = 0.8
)

// ExactExecutor matches extracted codes and names against the code,
// trade-name and INCI-name fields, case-insensitively. A code equality is
// a full-confidence hit; field containment scores lower.
type ExactExecutor struct {
	ingredients storage.IngredientRepository
	logger      *slog.Logger
}

// NewExactExecutor creates the exact-match strategy over the ingredient
// collection.
func NewExactExecutor(ingredients storage.IngredientRepository, logger *slog.Logger) *ExactExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExactExecutor{ingredients: ingredients, logger: logger}
}

func (e *ExactExecutor) Strategy() core.Strategy {
	return core.StrategyExact
}

func (e *ExactExecutor) Execute(ctx context.Context, classification *core.QueryClassification, opts *Options) ([]*core.Candidate, error) {
	terms := queryTerms(classification)
	if len(terms) == 0 {
		return nil, nil
	}

	byId := make(map[core.ID]*core.Candidate)

	// Codes get a direct indexed lookup before the scan.
	for _, code := range classification.Codes {
		ingredient, err := e.ingredients.GetIngredientByCode(ctx, code)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("exact code lookup: %w", err)
		}
		if excluded(ingredient, opts) {
			continue
		}
		byId[ingredient.MergeKey()] = newCandidate(ingredient, core.StrategyExact, exactCodeScore, ingredient.DisplayName(), map[string]string{
			"matched_field": core.FieldCode,
			"matched_term":  code,
		})
	}

	matches, err := e.ingredients.Find(ctx, func(ingredient *core.Ingredient) bool {
		for _, term := range terms {
			if matchesExactFields(ingredient, term) {
				return true
			}
		}
		return false
	}, opts.TopK*2)
	if err != nil {
		return nil, fmt.Errorf("exact field scan: %w", err)
	}

	for _, ingredient := range matches {
		if excluded(ingredient, opts) {
			continue
		}
		id := ingredient.MergeKey()
		score, field, term := scoreExactMatch(ingredient, terms)
		if existing, ok := byId[id]; ok {
			if score > existing.Score {
				existing.Score = score
				existing.Metadata["matched_field"] = field
				existing.Metadata["matched_term"] = term
			}
			continue
		}
		byId[id] = newCandidate(ingredient, core.StrategyExact, score, ingredient.DisplayName(), map[string]string{
			"matched_field": field,
			"matched_term":  term,
		})
	}

	candidates := make([]*core.Candidate, 0, len(byId))
	for _, candidate := range byId {
		candidates = append(candidates, candidate)
	}
	sortCandidatesByScore(candidates)
	if len(candidates) > opts.TopK {
		candidates = candidates[:opts.TopK]
	}
	return candidates, nil
}

func matchesExactFields(ingredient *core.Ingredient, term string) bool {
	return equalsFoldTrim(ingredient.Code, term) ||
		containsTermInsensitive(ingredient.Code, term) ||
		containsTermInsensitive(ingredient.TradeName, term) ||
		containsTermInsensitive(ingredient.INCIName, term)
}

// scoreExactMatch returns the best score across terms with the field and
// term that produced it: code equality 1.0, trade-name containment 0.95,
// INCI containment 0.9, any other field hit 0.8.
func scoreExactMatch(ingredient *core.Ingredient, terms []string) (float32, string, string) {
	var bestScore float32
	var bestField, bestTerm string
	for _, term := range terms {
		var score float32
		var field string
		switch {
		case equalsFoldTrim(ingredient.Code, term):
			score, field = exactCodeScore, core.FieldCode
		case containsTermInsensitive(ingredient.TradeName, term):
			score, field = exactTradeNameScore, core.FieldTradeName
		case containsTermInsensitive(ingredient.INCIName, term):
			score, field = exactINCIScore, core.FieldINCIName
		case containsTermInsensitive(ingredient.Code, term):
			score, field = exactBaseScore, core.FieldCode
		default:
			continue
		}
		if score > bestScore {
			bestScore, bestField, bestTerm = score, field, term
		}
	}
	if bestScore == 0 {
		return exactBaseScore, "", strings.Join(terms, " ")
	}
	return bestScore, bestField, bestTerm
}
