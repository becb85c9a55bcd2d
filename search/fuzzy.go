package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xrash/smetrics"

	"github.com/poiesic/ingrid/core"
	"github.com/poiesic/ingrid/storage"
)

// Field weights for fuzzy similarity: an almost-right code is worth more
// than an almost-right INCI name.
const (
	fuzzyCodeWeight      = 1.0
	fuzzyTradeNameWeight = 0.9
	fuzzyINCIWeight      = 0.85

	// fuzzyScanLimit caps how many records one fuzzy pass will score.
	fuzzyScanLimit = 500
)

// FuzzyExecutor scores edit-distance-tolerant similarity between the
// query terms and the code, trade-name and INCI-name fields, keeping
// matches above the configured acceptance threshold. It catches typos
// and partial recollections that exact matching misses.
type FuzzyExecutor struct {
	ingredients storage.IngredientRepository
	logger      *slog.Logger
}

// NewFuzzyExecutor creates the fuzzy-match strategy over the ingredient
// collection.
func NewFuzzyExecutor(ingredients storage.IngredientRepository, logger *slog.Logger) *FuzzyExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FuzzyExecutor{ingredients: ingredients, logger: logger}
}

func (e *FuzzyExecutor) Strategy() core.Strategy {
	return core.StrategyFuzzy
}

func (e *FuzzyExecutor) Execute(ctx context.Context, classification *core.QueryClassification, opts *Options) ([]*core.Candidate, error) {
	terms := queryTerms(classification)
	if len(terms) == 0 {
		return nil, nil
	}

	records, err := e.ingredients.Find(ctx, nil, fuzzyScanLimit)
	if err != nil {
		return nil, fmt.Errorf("fuzzy scan: %w", err)
	}

	candidates := make([]*core.Candidate, 0, len(records))
	for _, ingredient := range records {
		if excluded(ingredient, opts) {
			continue
		}
		score, field := fuzzyScore(ingredient, terms)
		if score <= opts.FuzzyThreshold {
			continue
		}
		candidates = append(candidates, newCandidate(ingredient, core.StrategyFuzzy, score, ingredient.DisplayName(), map[string]string{
			"matched_field": field,
		}))
	}

	sortCandidatesByScore(candidates)
	if len(candidates) > opts.TopK {
		candidates = candidates[:opts.TopK]
	}
	return candidates, nil
}

// fuzzyScore returns the best weighted Jaro-Winkler similarity across
// terms and priority fields, with the field that produced it.
func fuzzyScore(ingredient *core.Ingredient, terms []string) (float32, string) {
	fields := []struct {
		name   string
		value  string
		weight float32
	}{
		{core.FieldCode, ingredient.Code, fuzzyCodeWeight},
		{core.FieldTradeName, ingredient.TradeName, fuzzyTradeNameWeight},
		{core.FieldINCIName, ingredient.INCIName, fuzzyINCIWeight},
	}

	var bestScore float32
	var bestField string
	for _, term := range terms {
		termLower := strings.ToLower(term)
		for _, field := range fields {
			if field.value == "" {
				continue
			}
			similarity := float32(smetrics.JaroWinkler(termLower, strings.ToLower(field.value), 0.7, 4))
			weighted := similarity * field.weight
			if weighted > bestScore {
				bestScore, bestField = weighted, field.name
			}
		}
	}
	return bestScore, bestField
}
