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
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/ingrid/core"
)

var (
	// codePattern matches ingredient identifiers: a short alphabetic prefix
	// followed by at least three digits, e.g. "RM000123" or "EX1021".
	codePattern = regexp.MustCompile(`\b[A-Za-z]{1,4}[0-9]{3,}\b`)

	// namePattern matches capitalized multi-word phrases, the shape of
	// trade names like "Aqua Soothe" or "Sepimax Zen".
	namePattern = regexp.MustCompile(`\b[A-Z][a-z]+(?: [A-Z][a-z]+)+\b`)
)

// maxSynonymsPerKeyword bounds query expansion per significant keyword.
const maxSynonymsPerKeyword = 3

// defaultSynonyms maps significant query keywords to domain synonyms,
// bilingual where the catalog carries Thai field content. The table is
// fixed so expansion is deterministic.
var defaultSynonyms = map[string][]string{
	"moisturizing": {"hydrating", "humectant", "ให้ความชุ่มชื้น"},
	"moisturizer":  {"humectant", "hydrating agent", "มอยส์เจอไรเซอร์"},
	"hydrating":    {"moisturizing", "humectant", "ให้ความชุ่มชื้น"},
	"soothing":     {"calming", "anti-irritant", "ปลอบประโลมผิว"},
	"brightening":  {"whitening", "tone-evening", "ปรับผิวกระจ่างใส"},
	"whitening":    {"brightening", "tone-evening", "ไวท์เทนนิ่ง"},
	"anti-aging":   {"antiwrinkle", "firming", "ลดเลือนริ้วรอย"},
	"firming":      {"anti-aging", "elasticity", "กระชับผิว"},
	"thickener":    {"rheology modifier", "viscosity builder", "สารเพิ่มความหนืด"},
	"emulsifier":   {"emulsifying agent", "surfactant", "อิมัลซิไฟเออร์"},
	"surfactant":   {"cleansing agent", "foaming agent", "สารลดแรงตึงผิว"},
	"preservative": {"antimicrobial", "broad spectrum preservative", "สารกันเสีย"},
	"exfoliant":    {"peeling agent", "aha", "สารผลัดเซลล์ผิว"},
	"sunscreen":    {"uv filter", "spf booster", "กันแดด"},
	"antioxidant":  {"free radical scavenger", "vitamin e", "สารต้านอนุมูลอิสระ"},
	"fragrance":    {"parfum", "scent", "น้ำหอม"},

	"ชุ่มชื้น":  {"moisturizing", "hydrating", "humectant"},
	"กระจ่างใส": {"brightening", "whitening"},
	"กันแดด":    {"sunscreen", "uv filter"},
	"กันเสีย":   {"preservative", "antimicrobial"},
	"ริ้วรอย":   {"anti-aging", "antiwrinkle"},
}

// Classifier parses raw queries into a QueryClassification: extracted
// identifiers, a primary query type, and deterministic expansions for
// semantic recall.
type Classifier struct {
	synonyms map[string][]string
	logger   *slog.Logger
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithSynonyms replaces the built-in synonym table.
func WithSynonyms(synonyms map[string][]string) ClassifierOption {
	return func(c *Classifier) {
		if synonyms != nil {
			c.synonyms = synonyms
		}
	}
}

// WithClassifierLogger sets a custom logger.
// Default is slog.Default().
func WithClassifierLogger(logger *slog.Logger) ClassifierOption {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClassifier creates a classifier with the built-in synonym table.
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		synonyms: defaultSynonyms,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify parses the query. It never fails: any extraction problem
// degrades to a natural-language classification carrying only the raw
// query, so a broken query can still reach the semantic strategy.
func (c *Classifier) Classify(query string) (classification *core.QueryClassification) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("query classification failed, falling back to natural language", "query", query, "panic", r)
			classification = fallbackClassification(query)
		}
	}()

	query = strings.TrimSpace(query)
	if query == "" {
		return fallbackClassification(query)
	}

	codes := extractCodes(query)
	names := extractNames(query)

	classification = &core.QueryClassification{
		Query: query,
		Codes: codes,
		Names: names,
	}

	remainder := stripEntities(query, codes, names)
	hasFreeText := len(tokenizeAndFilter(remainder)) > 0

	switch {
	case len(codes) > 0 && !hasFreeText && len(names) == 0:
		classification.QueryType = core.QueryTypeExactCode
		classification.Confidence = 0.95
	case (len(codes) > 0 || len(names) > 0) && hasFreeText:
		classification.QueryType = core.QueryTypeMixed
		classification.Confidence = 0.8
	case len(names) > 0:
		classification.QueryType = core.QueryTypeMixed
		classification.Confidence = 0.75
	default:
		classification.QueryType = core.QueryTypeNaturalLanguage
		classification.Confidence = 0.6
	}

	classification.ExpandedQueries = c.expandQuery(query)
	return classification
}

func fallbackClassification(query string) *core.QueryClassification {
	return &core.QueryClassification{
		Query:           query,
		QueryType:       core.QueryTypeNaturalLanguage,
		ExpandedQueries: []string{query},
		Confidence:      0.3,
	}
}

// extractCodes returns code-like identifiers, uppercased and deduplicated
// in order of appearance.
func extractCodes(query string) []string {
	var codes []string
	seen := make(map[string]bool)
	for _, match := range codePattern.FindAllString(query, -1) {
		code := strings.ToUpper(match)
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	return codes
}

// extractNames returns capitalized multi-word phrases, deduplicated in
// order of appearance. Phrases that are nothing but codes are skipped.
func extractNames(query string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, match := range namePattern.FindAllString(query, -1) {
		if codePattern.MatchString(match) {
			continue
		}
		if !seen[match] {
			seen[match] = true
			names = append(names, match)
		}
	}
	return names
}

// stripEntities removes extracted codes and names, leaving the
// free-text remainder used to decide between exact and mixed queries.
func stripEntities(query string, codes, names []string) string {
	remainder := query
	for _, name := range names {
		remainder = strings.ReplaceAll(remainder, name, " ")
	}
	remainder = codePattern.ReplaceAllString(remainder, " ")
	return remainder
}

// expandQuery generates the semantic query variants: the raw query first,
// then one variant per known synonym of each significant keyword, in
// keyword appearance order. Deduplicated, deterministic.
func (c *Classifier) expandQuery(query string) []string {
	expanded := []string{query}
	seen := map[string]bool{query: true}

	for _, token := range tokenizeAndFilter(query) {
		if utf8.RuneCountInString(token) <= 3 {
			continue
		}
		synonyms, ok := c.synonyms[token]
		if !ok {
			continue
		}
		if len(synonyms) > maxSynonymsPerKeyword {
			synonyms = synonyms[:maxSynonymsPerKeyword]
		}
		for _, synonym := range synonyms {
			variant := replaceTokenInsensitive(query, token, synonym)
			if !seen[variant] {
				seen[variant] = true
				expanded = append(expanded, variant)
			}
		}
	}

	return expanded
}

// replaceTokenInsensitive replaces the first case-insensitive occurrence
// of token in query with replacement.
func replaceTokenInsensitive(query, token, replacement string) string {
	idx := strings.Index(strings.ToLower(query), token)
	if idx < 0 {
		return query + " " + replacement
	}
	return query[:idx] + replacement + query[idx+len(token):]
}
