package core

import (
	"encoding/binary"
	"sort"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Ingredient and chunk IDs are content-based so that re-ingestion of an
// unchanged record is idempotent.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Strategy identifies one independent retrieval technique.
type Strategy int

const (
	// StrategyExact matches extracted codes and names against indexed fields.
	StrategyExact Strategy = iota + 1
	// StrategyMetadata applies structured filters (code lists, category, source).
	StrategyMetadata
	// StrategyFuzzy scores edit-distance-tolerant similarity against priority fields.
	StrategyFuzzy
	// StrategySemantic queries the vector backend with embedded query expansions.
	StrategySemantic
)

// String returns the strategy tag used in logs and result metadata.
func (s Strategy) String() string {
	switch s {
	case StrategyExact:
		return "exact"
	case StrategyMetadata:
		return "metadata"
	case StrategyFuzzy:
		return "fuzzy"
	case StrategySemantic:
		return "semantic"
	default:
		return "unknown"
	}
}

// Priority orders strategies for deterministic tie-breaking:
// exact > metadata > fuzzy > semantic.
func (s Strategy) Priority() int {
	switch s {
	case StrategyExact:
		return 4
	case StrategyMetadata:
		return 3
	case StrategyFuzzy:
		return 2
	case StrategySemantic:
		return 1
	default:
		return 0
	}
}

// QueryType classifies a raw query.
type QueryType int

const (
	// QueryTypeExactCode means the query is a bare product code.
	QueryTypeExactCode QueryType = iota + 1
	// QueryTypeNaturalLanguage means the query carries no identifiers.
	QueryTypeNaturalLanguage
	// QueryTypeMixed means identifiers coexist with free text.
	QueryTypeMixed
)

func (q QueryType) String() string {
	switch q {
	case QueryTypeExactCode:
		return "exact_code"
	case QueryTypeNaturalLanguage:
		return "natural_language"
	case QueryTypeMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// Canonical field names used for chunk provenance and localized renderings.
const (
	FieldCode      = "code"
	FieldTradeName = "trade_name"
	FieldINCIName  = "inci_name"
	FieldSupplier  = "supplier"
	FieldCompany   = "company"
	FieldCost      = "cost"
	FieldBenefits  = "benefits"
	FieldDetails   = "details"
	FieldCategory  = "category"
	FieldFunction  = "function"
)

// Ingredient is a source record in the knowledge base: one raw material or
// cosmetic ingredient with its commercial and technical attributes.
// Records are immutable once chunked for an index generation; a changed
// record is re-ingested, which re-chunks and re-indexes it wholesale.
type Ingredient struct {
	Id         ID
	Code       string // unique primary identifier, e.g. "RM000123"
	TradeName  string
	INCIName   string
	Supplier   string
	Company    string
	Cost       string // free-text supplier quote, e.g. "1200 THB/kg"
	Benefits   string
	Details    string
	Category   string
	Function   string
	Localized  map[string]string // second-language renderings keyed by canonical field name
	Extra      map[string]string // vendor-specific fields, preserved but not interpreted
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// MergeKey returns the stable identity used to deduplicate candidates
// across strategies: the stored ID, the code hash as fallback, or a hash
// of the descriptive content as last resort.
func (i *Ingredient) MergeKey() ID {
	if i.Id != 0 {
		return i.Id
	}
	if i.Code != "" {
		return IDFromContent(i.Code)
	}
	return IDFromContent(i.TradeName + "|" + i.INCIName + "|" + i.Benefits)
}

// DisplayName returns the most presentable name for the ingredient.
func (i *Ingredient) DisplayName() string {
	if i.TradeName != "" {
		return i.TradeName
	}
	if i.INCIName != "" {
		return i.INCIName
	}
	return i.Code
}

// ChunkType identifies the retrieval purpose a chunk was built for.
type ChunkType int

const (
	// ChunkPrimaryIdentifier concatenates code, trade name and INCI name.
	ChunkPrimaryIdentifier ChunkType = iota + 1
	// ChunkCodeExact is the minimal code + trade name chunk for exact lookups.
	ChunkCodeExact
	// ChunkTechnicalSpecs covers INCI name, category, function and trade name.
	ChunkTechnicalSpecs
	// ChunkCommercialInfo covers code, supplier, company and cost.
	ChunkCommercialInfo
	// ChunkDescriptive covers benefits and details free text.
	ChunkDescriptive
	// ChunkCombinedContext is the single broad-recall chunk over all fields.
	ChunkCombinedContext
	// ChunkLocale is the second-language rendering of the primary fields.
	ChunkLocale
)

func (c ChunkType) String() string {
	switch c {
	case ChunkPrimaryIdentifier:
		return "primary_identifier"
	case ChunkCodeExact:
		return "code_exact"
	case ChunkTechnicalSpecs:
		return "technical_specs"
	case ChunkCommercialInfo:
		return "commercial_info"
	case ChunkDescriptive:
		return "descriptive"
	case ChunkCombinedContext:
		return "combined_context"
	case ChunkLocale:
		return "locale"
	default:
		return "unknown"
	}
}

// Chunk is a derived, indexable text unit produced from an ingredient for
// one retrieval purpose. Chunks are write-once: an index generation's
// chunks are replaced wholesale when the record is re-ingested.
type Chunk struct {
	Id           ID
	IngredientId ID
	Code         string // parent ingredient code, carried for metadata filtering
	Category     string // parent ingredient category, carried for metadata filtering
	Text         string
	SourceFields []string // canonical field names the text was built from
	Type         ChunkType
	Priority     float32 // relative importance in [0,1], from the builder's priority table
	CharCount    int
	SplitIndex   int  // position within a split sequence, 0 when not split
	IsSplit      bool // true when the chunk is one window of a split field
	Vector       []float32
	InsertedAt   time.Time
	UpdatedAt    time.Time
}

// QueryClassification is the classifier's per-request output.
// It is never persisted.
type QueryClassification struct {
	Query           string
	QueryType       QueryType
	Codes           []string // extracted code-like identifiers
	Names           []string // extracted capitalized name phrases
	ExpandedQueries []string // paraphrases for semantic recall, includes the raw query
	Confidence      float32
}

// HasEntities reports whether the classifier extracted any identifiers.
func (qc *QueryClassification) HasEntities() bool {
	return len(qc.Codes) > 0 || len(qc.Names) > 0
}

// Candidate is a scored match produced by a strategy executor and refined
// by the merge, rerank, personalization and ranking stages.
type Candidate struct {
	DocumentId ID // merge key: the matched ingredient's identity
	Ingredient *Ingredient
	Content    string            // matched text, chunk text for semantic hits
	Metadata   map[string]string // strategy-specific match annotations
	Score      float32           // raw strategy score
	Strategies []Strategy        // strategies that found this document, sorted by priority

	RerankScore   *float32 // second-pass relevance, nil when reranking was skipped
	CombinedScore float32  // rerank blend of the raw score, equals Score when no rerank
	FinalScore    float32  // weighted, clamped score in [0,1] after final ranking
}

// Hybrid reports whether more than one strategy found this document.
func (c *Candidate) Hybrid() bool {
	return len(c.Strategies) > 1
}

// HasStrategy reports whether the given strategy found this document.
func (c *Candidate) HasStrategy(s Strategy) bool {
	for _, t := range c.Strategies {
		if t == s {
			return true
		}
	}
	return false
}

// AddStrategy records a strategy tag, keeping the set unique and ordered
// by descending priority so tie-breaking is deterministic.
func (c *Candidate) AddStrategy(s Strategy) {
	if c.HasStrategy(s) {
		return
	}
	c.Strategies = append(c.Strategies, s)
	sort.Slice(c.Strategies, func(i, j int) bool {
		return c.Strategies[i].Priority() > c.Strategies[j].Priority()
	})
}

// BestStrategy returns the highest-priority strategy tag, or 0 when untagged.
func (c *Candidate) BestStrategy() Strategy {
	if len(c.Strategies) == 0 {
		return 0
	}
	return c.Strategies[0]
}

// StrategyTag returns the tag for result metadata: "hybrid" when more than
// one strategy found the document, otherwise the single strategy's name.
func (c *Candidate) StrategyTag() string {
	if c.Hybrid() {
		return "hybrid"
	}
	return c.BestStrategy().String()
}

// UserPreferences carries caller-supplied personalization signals.
type UserPreferences struct {
	UserId              string
	PreferredCategories []string
	Interests           []string
	Complexity          string // "simple" or "technical"
}
