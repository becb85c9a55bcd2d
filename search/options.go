package search

import "github.com/poiesic/ingrid/core"

// Default option values. See Options for what each controls.
const (
	DefaultTopK           = 10
	DefaultThreshold      = 0.3
	DefaultFuzzyThreshold = 0.6
	DefaultSemanticWeight = 0.6
	DefaultKeywordWeight  = 0.4

	// shortCircuitScore is the exact-match score at or above which the
	// remaining strategies are skipped when short-circuiting is enabled.
	shortCircuitScore = 0.95
)

// Options configures a single search request. The zero value is not
// usable; start from DefaultOptions and override fields as needed.
type Options struct {
	// TopK caps the number of returned results.
	TopK int

	// Threshold drops results whose final score falls below it.
	Threshold float32

	// Per-strategy enable flags. At least one must be set.
	ExactEnabled    bool
	MetadataEnabled bool
	FuzzyEnabled    bool
	SemanticEnabled bool

	// Boosts multiplies each strategy's raw scores before merging.
	// A missing entry means 1.0.
	Boosts map[core.Strategy]float32

	// FuzzyThreshold is the minimum fuzzy similarity to accept a match.
	FuzzyThreshold float32

	// SemanticWeight and KeywordWeight scale semantic-tagged and
	// keyword-tagged scores during final ranking. Note that with the
	// defaults (0.6/0.4) a metadata-only hit, weighted at 0.9, can
	// outrank an exact-only one: 0.8×0.9 = 0.72 versus 1.0×0.4 = 0.4.
	// Raise KeywordWeight when code and name matches should always win.
	SemanticWeight float32
	KeywordWeight  float32

	// Rerank enables the second-pass relevance scoring stage.
	Rerank bool

	// ShortCircuitExact skips the remaining strategies when an exact match
	// scores at or above 0.95. Cheaper, but a document the vector store
	// would have ranked higher can never surface past a confident exact hit.
	ShortCircuitExact bool

	// Category restricts metadata and semantic matches to one category.
	Category string

	// Supplier restricts metadata matches to one supplier.
	Supplier string

	// ExcludeCodes drops the listed ingredient codes from all strategies,
	// used to keep a caller's own submissions out of their results.
	ExcludeCodes []string

	// Preferences carries personalization signals. Nil disables the
	// personalization stage.
	Preferences *core.UserPreferences
}

// DefaultOptions returns the documented defaults: all strategies enabled,
// topK 10, threshold 0.3, short-circuiting on, reranking off.
func DefaultOptions() Options {
	return Options{
		TopK:              DefaultTopK,
		Threshold:         DefaultThreshold,
		ExactEnabled:      true,
		MetadataEnabled:   true,
		FuzzyEnabled:      true,
		SemanticEnabled:   true,
		FuzzyThreshold:    DefaultFuzzyThreshold,
		SemanticWeight:    DefaultSemanticWeight,
		KeywordWeight:     DefaultKeywordWeight,
		ShortCircuitExact: true,
	}
}

// Validate rejects unusable option combinations before any backend call.
func (o *Options) Validate() error {
	if o.TopK <= 0 {
		return ErrInvalidTopK
	}
	if o.Threshold < 0 || o.Threshold > 1 {
		return ErrInvalidThreshold
	}
	if o.FuzzyThreshold < 0 || o.FuzzyThreshold > 1 {
		return ErrInvalidFuzzyThreshold
	}
	if o.SemanticWeight < 0 || o.SemanticWeight > 1 || o.KeywordWeight < 0 || o.KeywordWeight > 1 {
		return ErrInvalidWeights
	}
	for _, boost := range o.Boosts {
		if boost < 0 {
			return ErrInvalidBoost
		}
	}
	if !o.ExactEnabled && !o.MetadataEnabled && !o.FuzzyEnabled && !o.SemanticEnabled {
		return ErrNoStrategiesEnabled
	}
	return nil
}

// Boost returns the configured boost for the strategy, defaulting to 1.0.
func (o *Options) Boost(s core.Strategy) float32 {
	if o.Boosts == nil {
		return 1.0
	}
	if boost, ok := o.Boosts[s]; ok {
		return boost
	}
	return 1.0
}

// Enabled reports whether the given strategy is enabled.
func (o *Options) Enabled(s core.Strategy) bool {
	switch s {
	case core.StrategyExact:
		return o.ExactEnabled
	case core.StrategyMetadata:
		return o.MetadataEnabled
	case core.StrategyFuzzy:
		return o.FuzzyEnabled
	case core.StrategySemantic:
		return o.SemanticEnabled
	default:
		return false
	}
}
