package chunking

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/ingrid/core"
)

// truncationMark closes a chunk whose source text exceeded the window.
const truncationMark = " [truncated]"

// thaiLabels are the second-language field labels used by locale chunks.
var thaiLabels = map[string]string{
	core.FieldCode:      "รหัสวัตถุดิบ",
	core.FieldTradeName: "ชื่อการค้า",
	core.FieldINCIName:  "ชื่อ INCI",
	core.FieldBenefits:  "คุณประโยชน์",
	core.FieldCategory:  "หมวดหมู่",
	core.FieldFunction:  "หน้าที่",
}

// englishLabels are the labels used by every other chunk type.
var englishLabels = map[string]string{
	core.FieldCode:      "Code",
	core.FieldTradeName: "Trade Name",
	core.FieldINCIName:  "INCI Name",
	core.FieldSupplier:  "Supplier",
	core.FieldCompany:   "Company",
	core.FieldCost:      "Cost",
	core.FieldBenefits:  "Benefits",
	core.FieldDetails:   "Details",
	core.FieldCategory:  "Category",
	core.FieldFunction:  "Function",
}

// combinedOrder is the fixed field-priority order of the combined-context chunk.
var combinedOrder = []string{
	core.FieldCode, core.FieldTradeName, core.FieldINCIName,
	core.FieldCategory, core.FieldFunction, core.FieldBenefits,
	core.FieldSupplier, core.FieldCompany, core.FieldCost,
	core.FieldDetails,
}

// Builder turns ingredient records into chunks for indexing. Each chunk
// targets one retrieval purpose and carries a priority weight from the
// configured table. Chunking is deterministic: the same record and
// configuration always produce the same chunk set.
type Builder struct {
	config *Config
	logger *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithConfig sets the chunking parameters.
// Default is DefaultConfig().
func WithConfig(config *Config) Option {
	return func(b *Builder) error {
		if config == nil {
			config = DefaultConfig()
		}
		if err := config.Validate(); err != nil {
			return err
		}
		b.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBuilder creates a new chunk builder.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// ChunkRecord builds the full chunk set for one ingredient. The count is
// bounded: one chunk per strategy plus at most MaxSplits windows for a
// long details field.
func (b *Builder) ChunkRecord(ingredient *core.Ingredient) ([]*core.Chunk, error) {
	if err := core.ValidateIngredient(ingredient); err != nil {
		return nil, err
	}

	var chunks []*core.Chunk
	chunks = append(chunks, b.primaryIdentifier(ingredient)...)
	chunks = append(chunks, b.codeExact(ingredient)...)
	chunks = append(chunks, b.technicalSpecs(ingredient)...)
	chunks = append(chunks, b.commercialInfo(ingredient)...)
	chunks = append(chunks, b.descriptive(ingredient)...)
	chunks = append(chunks, b.combinedContext(ingredient)...)
	chunks = append(chunks, b.locale(ingredient)...)

	b.logger.Debug("chunked ingredient", "code", ingredient.Code, "chunks", len(chunks))
	return chunks, nil
}

// primaryIdentifier concatenates code, trade name and INCI name, each in a
// labeled and a raw form so both structured and loose matching hit it.
func (b *Builder) primaryIdentifier(ingredient *core.Ingredient) []*core.Chunk {
	var parts []string
	var fields []string
	for _, field := range []string{core.FieldCode, core.FieldTradeName, core.FieldINCIName} {
		value := fieldValue(ingredient, field)
		if value == "" {
			continue
		}
		parts = append(parts, englishLabels[field]+": "+value, value)
		fields = append(fields, field)
	}
	if len(parts) == 0 {
		return nil
	}
	text := truncateRunes(strings.Join(parts, "\n"), b.config.MaxChunkSize)
	return []*core.Chunk{b.newChunk(ingredient, core.ChunkPrimaryIdentifier, text, fields, 0, false)}
}

// codeExact is the minimal chunk optimized purely for exact lookups.
func (b *Builder) codeExact(ingredient *core.Ingredient) []*core.Chunk {
	if ingredient.Code == "" {
		return nil
	}
	text := ingredient.Code
	fields := []string{core.FieldCode}
	if ingredient.TradeName != "" {
		text += " " + ingredient.TradeName
		fields = append(fields, core.FieldTradeName)
	}
	return []*core.Chunk{b.newChunk(ingredient, core.ChunkCodeExact, text, fields, 0, false)}
}

func (b *Builder) technicalSpecs(ingredient *core.Ingredient) []*core.Chunk {
	return b.labeledChunk(ingredient, core.ChunkTechnicalSpecs, []string{
		core.FieldINCIName, core.FieldCategory, core.FieldFunction, core.FieldTradeName,
	}, 1)
}

// commercialInfo requires at least two of its fields; a bare code says
// nothing commercially useful.
func (b *Builder) commercialInfo(ingredient *core.Ingredient) []*core.Chunk {
	return b.labeledChunk(ingredient, core.ChunkCommercialInfo, []string{
		core.FieldCode, core.FieldSupplier, core.FieldCompany, core.FieldCost,
	}, 2)
}

// labeledChunk emits one chunk with "Label: value" lines for the present
// fields, or nothing when fewer than minFields are present.
func (b *Builder) labeledChunk(ingredient *core.Ingredient, chunkType core.ChunkType, fieldNames []string, minFields int) []*core.Chunk {
	var lines []string
	var fields []string
	for _, field := range fieldNames {
		value := fieldValue(ingredient, field)
		if value == "" {
			continue
		}
		lines = append(lines, englishLabels[field]+": "+value)
		fields = append(fields, field)
	}
	if len(fields) < minFields {
		return nil
	}
	text := truncateRunes(strings.Join(lines, "\n"), b.config.MaxChunkSize)
	return []*core.Chunk{b.newChunk(ingredient, chunkType, text, fields, 0, false)}
}

// descriptive emits the benefits as one chunk and window-splits a long
// details field. Split windows beyond MaxSplits are dropped; the combined
// context chunk still carries the head of the details text, so recall
// degrades gracefully instead of the index growing without bound.
func (b *Builder) descriptive(ingredient *core.Ingredient) []*core.Chunk {
	var chunks []*core.Chunk

	if ingredient.Benefits != "" {
		text := truncateRunes(ingredient.Benefits, b.config.MaxChunkSize)
		chunks = append(chunks, b.newChunk(ingredient, core.ChunkDescriptive, text, []string{core.FieldBenefits}, 0, false))
	}

	if ingredient.Details != "" {
		windows := splitWindows(ingredient.Details, b.config.MaxChunkSize, b.config.Overlap, b.config.MaxSplits)
		split := len(windows) > 1
		for i, window := range windows {
			chunks = append(chunks, b.newChunk(ingredient, core.ChunkDescriptive, window, []string{core.FieldDetails}, i, split))
		}
	}

	return chunks
}

// combinedContext is the single broad-recall chunk: every present field in
// a fixed priority order, truncated to the window with a marker.
func (b *Builder) combinedContext(ingredient *core.Ingredient) []*core.Chunk {
	var lines []string
	var fields []string
	for _, field := range combinedOrder {
		value := fieldValue(ingredient, field)
		if value == "" {
			continue
		}
		lines = append(lines, englishLabels[field]+": "+value)
		fields = append(fields, field)
	}
	if len(lines) == 0 {
		return nil
	}
	return []*core.Chunk{b.newChunk(ingredient, core.ChunkCombinedContext, truncateRunes(strings.Join(lines, "\n"), b.config.MaxChunkSize), fields, 0, false)}
}

// locale renders the primary fields with second-language labels, mixing in
// the localized values where the record carries them. Emitted only when
// the record has locale-specific content.
func (b *Builder) locale(ingredient *core.Ingredient) []*core.Chunk {
	if len(ingredient.Localized) == 0 {
		return nil
	}

	var lines []string
	var fields []string
	for _, field := range []string{core.FieldCode, core.FieldTradeName, core.FieldINCIName, core.FieldCategory, core.FieldFunction, core.FieldBenefits} {
		value := ingredient.Localized[field]
		if value == "" {
			value = fieldValue(ingredient, field)
		}
		if value == "" {
			continue
		}
		label := thaiLabels[field]
		if label == "" {
			label = englishLabels[field]
		}
		lines = append(lines, label+": "+value)
		fields = append(fields, field)
	}
	if len(lines) == 0 {
		return nil
	}
	return []*core.Chunk{b.newChunk(ingredient, core.ChunkLocale, truncateRunes(strings.Join(lines, "\n"), b.config.MaxChunkSize), fields, 0, false)}
}

// newChunk assembles a chunk with a deterministic content-based ID so that
// re-chunking an unchanged record is idempotent. The source fields are
// part of the identity: two chunks of the same type built from different
// fields (benefits and a one-window details) must not collide.
func (b *Builder) newChunk(ingredient *core.Ingredient, chunkType core.ChunkType, text string, fields []string, splitIndex int, isSplit bool) *core.Chunk {
	identity := fmt.Sprintf("%s|%s|%s|%d", strings.ToUpper(ingredient.Code), chunkType, strings.Join(fields, ","), splitIndex)
	return &core.Chunk{
		Id:           core.IDFromContent(identity),
		IngredientId: ingredient.MergeKey(),
		Code:         ingredient.Code,
		Category:     ingredient.Category,
		Text:         text,
		SourceFields: fields,
		Type:         chunkType,
		Priority:     b.config.priority(chunkType),
		CharCount:    len([]rune(text)),
		SplitIndex:   splitIndex,
		IsSplit:      isSplit,
	}
}

func fieldValue(ingredient *core.Ingredient, field string) string {
	switch field {
	case core.FieldCode:
		return ingredient.Code
	case core.FieldTradeName:
		return ingredient.TradeName
	case core.FieldINCIName:
		return ingredient.INCIName
	case core.FieldSupplier:
		return ingredient.Supplier
	case core.FieldCompany:
		return ingredient.Company
	case core.FieldCost:
		return ingredient.Cost
	case core.FieldBenefits:
		return ingredient.Benefits
	case core.FieldDetails:
		return ingredient.Details
	case core.FieldCategory:
		return ingredient.Category
	case core.FieldFunction:
		return ingredient.Function
	default:
		return ""
	}
}

// splitWindows cuts text into fixed windows of size runes stepping by
// size-overlap, returning at most maxWindows windows.
func splitWindows(text string, size, overlap, maxWindows int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	step := size - overlap
	var windows []string
	for start := 0; start < len(runes) && len(windows) < maxWindows; start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		windows = append(windows, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return windows
}

// truncateRunes caps text at size runes, appending the truncation marker
// when anything was cut.
func truncateRunes(text string, size int) string {
	runes := []rune(text)
	if len(runes) <= size {
		return text
	}
	keep := size - len([]rune(truncationMark))
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]) + truncationMark
}
