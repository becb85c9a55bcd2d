package search

import "strings"

// Stop words filtered out before keyword and overlap matching.
// Thai queries arrive unsegmented, so only a few standalone particles are
// worth filtering; the rest of a Thai query survives as whole tokens.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "what": true, "which": true,
	"ที่": true, "และ": true, "หรือ": true, "ของ": true, "ใน": true,
}

// tokenizeAndFilter splits text into words, lowercases, trims punctuation,
// and removes stop words.
func tokenizeAndFilter(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))
		if cleaned != "" && !stopWords[cleaned] {
			filtered = append(filtered, cleaned)
		}
	}

	return filtered
}

// termOverlap returns the fraction of query terms that appear in the
// document, in [0, 1]. Thai terms, which are not space-segmented, count
// as present when the document contains them as a substring.
func termOverlap(document, query string) float32 {
	queryTerms := tokenizeAndFilter(query)
	if len(queryTerms) == 0 {
		return 0
	}

	docLower := strings.ToLower(document)
	docTerms := tokenizeAndFilter(document)
	docSet := make(map[string]bool, len(docTerms))
	for _, term := range docTerms {
		docSet[term] = true
	}

	matched := 0
	for _, term := range queryTerms {
		if docSet[term] || strings.Contains(docLower, term) {
			matched++
		}
	}

	return float32(matched) / float32(len(queryTerms))
}

// equalsFoldTrim compares two strings ignoring case and surrounding
// whitespace.
func equalsFoldTrim(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// containsTermInsensitive reports whether text contains the term,
// ignoring case.
func containsTermInsensitive(text, term string) bool {
	if text == "" || term == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(term))
}
