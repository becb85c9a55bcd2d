package search

import (
	"strings"

	"github.com/poiesic/ingrid/core"
)

// Personalization boosts. They compound: a candidate matching all three
// signals is scaled by at most 1.2 × 1.1 × 1.15. No clamping happens
// here; the final ranker clamps.
const (
	categoryBoost   = 1.2
	interestBoost   = 1.1
	complexityBoost = 1.15
)

// Personalize applies multiplicative preference boosts to each
// candidate's combined score. Nil preferences leave scores unchanged.
func Personalize(candidates []*core.Candidate, preferences *core.UserPreferences) {
	if preferences == nil {
		return
	}
	for _, candidate := range candidates {
		if candidate.Ingredient == nil {
			continue
		}
		if matchesCategory(candidate.Ingredient, preferences.PreferredCategories) {
			candidate.CombinedScore *= categoryBoost
		}
		if matchesInterest(candidate, preferences.Interests) {
			candidate.CombinedScore *= interestBoost
		}
		if matchesComplexity(candidate.Ingredient, preferences.Complexity) {
			candidate.CombinedScore *= complexityBoost
		}
	}
}

func matchesCategory(ingredient *core.Ingredient, categories []string) bool {
	if ingredient.Category == "" {
		return false
	}
	for _, category := range categories {
		if equalsFoldTrim(ingredient.Category, category) {
			return true
		}
	}
	return false
}

func matchesInterest(candidate *core.Candidate, interests []string) bool {
	ingredient := candidate.Ingredient
	haystack := strings.Join([]string{
		candidate.Content, ingredient.Benefits, ingredient.Function, ingredient.Details,
	}, " ")
	for _, interest := range interests {
		if containsTermInsensitive(haystack, interest) {
			return true
		}
	}
	return false
}

// matchesComplexity pairs a "technical" preference with records carrying
// structured technical content, and "simple" with records whose value is
// in their plain-language benefits.
func matchesComplexity(ingredient *core.Ingredient, complexity string) bool {
	switch strings.ToLower(strings.TrimSpace(complexity)) {
	case "technical":
		return ingredient.INCIName != "" && ingredient.Details != ""
	case "simple":
		return ingredient.Benefits != ""
	default:
		return false
	}
}
