package search

import (
	"context"
	"sort"

	"github.com/poiesic/ingrid/core"
)

// Executor is one independent retrieval strategy. Executors run
// concurrently and are independent failure domains: an error from one
// never fails the overall search, it only removes that strategy's
// contribution from the merge.
type Executor interface {
	// Strategy identifies the executor for tagging, boosts and logging.
	Strategy() core.Strategy

	// Execute returns scored candidates for the classified query.
	// Scores are raw strategy scores; weighting and clamping happen in
	// the final ranking stage.
	Execute(ctx context.Context, classification *core.QueryClassification, opts *Options) ([]*core.Candidate, error)
}

// queryTerms returns the terms a keyword strategy should match: the
// extracted codes and names, or the raw query when extraction found
// nothing.
func queryTerms(classification *core.QueryClassification) []string {
	terms := make([]string, 0, len(classification.Codes)+len(classification.Names))
	terms = append(terms, classification.Codes...)
	terms = append(terms, classification.Names...)
	if len(terms) == 0 && classification.Query != "" {
		terms = append(terms, classification.Query)
	}
	return terms
}

// newCandidate builds a candidate for an ingredient found by a single
// strategy.
func newCandidate(ingredient *core.Ingredient, strategy core.Strategy, score float32, content string, metadata map[string]string) *core.Candidate {
	return &core.Candidate{
		DocumentId: ingredient.MergeKey(),
		Ingredient: ingredient,
		Content:    content,
		Metadata:   metadata,
		Score:      score,
		Strategies: []core.Strategy{strategy},
	}
}

// sortCandidatesByScore orders candidates by raw score descending, then
// by strategy priority and document id so equal scores sort the same way
// every run.
func sortCandidatesByScore(candidates []*core.Candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		pi, pj := candidates[i].BestStrategy().Priority(), candidates[j].BestStrategy().Priority()
		if pi != pj {
			return pi > pj
		}
		return candidates[i].DocumentId < candidates[j].DocumentId
	})
}

// excluded reports whether the ingredient's code is on the exclusion list.
func excluded(ingredient *core.Ingredient, opts *Options) bool {
	for _, code := range opts.ExcludeCodes {
		if ingredient.Code != "" && equalsFoldTrim(ingredient.Code, code) {
			return true
		}
	}
	return false
}
