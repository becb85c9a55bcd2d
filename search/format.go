package search

import (
	"context"
	"fmt"
	"strings"
)

// SearchAndFormat runs the pipeline and renders the outcome as plain
// text for a chat or UI caller. The empty cases are worded differently
// so a caller can tell "nothing matched" from "matches existed but all
// scored below the threshold".
func (s *Searcher) SearchAndFormat(ctx context.Context, query string, opts *Options) (string, error) {
	outcome, err := s.Search(ctx, query, opts)
	if err != nil {
		return "", err
	}
	return FormatOutcome(query, outcome), nil
}

// FormatOutcome renders a search outcome as plain text.
func FormatOutcome(query string, outcome *Outcome) string {
	if outcome.FilteredOut() {
		return fmt.Sprintf("No results for %q passed the relevance threshold (%d candidates considered).", query, outcome.CandidateCount)
	}
	if outcome.Empty() {
		return fmt.Sprintf("No matching ingredients found for %q.", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d matching ingredient(s) for %q:\n", len(outcome.Results), query)
	for i, candidate := range outcome.Results {
		ingredient := candidate.Ingredient
		if ingredient == nil {
			continue
		}
		fmt.Fprintf(&b, "\n%d. %s", i+1, ingredient.DisplayName())
		if ingredient.Code != "" {
			fmt.Fprintf(&b, " [%s]", ingredient.Code)
		}
		fmt.Fprintf(&b, " (score %.2f, %s)\n", candidate.FinalScore, candidate.StrategyTag())
		if ingredient.INCIName != "" && ingredient.INCIName != ingredient.DisplayName() {
			fmt.Fprintf(&b, "   INCI: %s\n", ingredient.INCIName)
		}
		if ingredient.Category != "" {
			fmt.Fprintf(&b, "   Category: %s\n", ingredient.Category)
		}
		if ingredient.Supplier != "" {
			fmt.Fprintf(&b, "   Supplier: %s\n", ingredient.Supplier)
		}
		if ingredient.Benefits != "" {
			fmt.Fprintf(&b, "   Benefits: %s\n", truncateForDisplay(ingredient.Benefits, 160))
		}
	}
	return b.String()
}

func truncateForDisplay(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "…"
}
