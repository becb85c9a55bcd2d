package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/ingrid/core"
	"github.com/poiesic/ingrid/storage"
)

// metadataScore is the flat score for a structured-filter match. Lower
// specificity than a real relevance signal, and further weighted down by
// the metadata penalty during final ranking.
const metadataScore = 0.8

// MetadataExecutor applies structured filters against the record
// collection: extracted codes as a code-in-list filter, plus the
// request's category and supplier restrictions. Every match gets the
// same flat score.
type MetadataExecutor struct {
	ingredients storage.IngredientRepository
	logger      *slog.Logger
}

// NewMetadataExecutor creates the metadata-filter strategy over the
// ingredient collection.
func NewMetadataExecutor(ingredients storage.IngredientRepository, logger *slog.Logger) *MetadataExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &MetadataExecutor{ingredients: ingredients, logger: logger}
}

func (e *MetadataExecutor) Strategy() core.Strategy {
	return core.StrategyMetadata
}

func (e *MetadataExecutor) Execute(ctx context.Context, classification *core.QueryClassification, opts *Options) ([]*core.Candidate, error) {
	// Without codes or request filters there is nothing structured to
	// filter on; matching everything would just be noise.
	if len(classification.Codes) == 0 && opts.Category == "" && opts.Supplier == "" {
		return nil, nil
	}

	matches, err := e.ingredients.Find(ctx, func(ingredient *core.Ingredient) bool {
		return matchesMetadataFilters(ingredient, classification.Codes, opts)
	}, opts.TopK*2)
	if err != nil {
		return nil, fmt.Errorf("metadata filter scan: %w", err)
	}

	candidates := make([]*core.Candidate, 0, len(matches))
	for _, ingredient := range matches {
		if excluded(ingredient, opts) {
			continue
		}
		candidates = append(candidates, newCandidate(ingredient, core.StrategyMetadata, metadataScore, ingredient.DisplayName(), map[string]string{
			"filter_category": opts.Category,
			"filter_supplier": opts.Supplier,
		}))
	}
	sortCandidatesByScore(candidates)
	if len(candidates) > opts.TopK {
		candidates = candidates[:opts.TopK]
	}
	return candidates, nil
}

func matchesMetadataFilters(ingredient *core.Ingredient, codes []string, opts *Options) bool {
	if len(codes) > 0 {
		found := false
		for _, code := range codes {
			if equalsFoldTrim(ingredient.Code, code) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if opts.Category != "" && !equalsFoldTrim(ingredient.Category, opts.Category) {
		return false
	}
	if opts.Supplier != "" && !equalsFoldTrim(ingredient.Supplier, opts.Supplier) {
		return false
	}
	return true
}
