package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/ingrid/core"
)

func TestClassify_ExactCode(t *testing.T) {
	classifier := NewClassifier()

	c := classifier.Classify("RM000001")
	assert.Equal(t, core.QueryTypeExactCode, c.QueryType)
	assert.Equal(t, []string{"RM000001"}, c.Codes)
	assert.Empty(t, c.Names)
	assert.True(t, c.HasEntities())
	assert.GreaterOrEqual(t, c.Confidence, float32(0.9))
}

func TestClassify_LowercaseCodeIsUppercased(t *testing.T) {
	classifier := NewClassifier()

	c := classifier.Classify("rm000123")
	assert.Equal(t, []string{"RM000123"}, c.Codes)
	assert.Equal(t, core.QueryTypeExactCode, c.QueryType)
}

func TestClassify_MultipleCodes(t *testing.T) {
	classifier := NewClassifier()

	c := classifier.Classify("RM000001 EX1021")
	assert.Equal(t, []string{"RM000001", "EX1021"}, c.Codes)
	assert.Equal(t, core.QueryTypeExactCode, c.QueryType)
}

func TestClassify_Mixed(t *testing.T) {
	classifier := NewClassifier()

	c := classifier.Classify("something moisturizing like RM000001")
	assert.Equal(t, core.QueryTypeMixed, c.QueryType)
	assert.Equal(t, []string{"RM000001"}, c.Codes)
}

func TestClassify_NameExtraction(t *testing.T) {
	classifier := NewClassifier()

	c := classifier.Classify("is Aqua Soothe a humectant")
	assert.Equal(t, []string{"Aqua Soothe"}, c.Names)
	assert.Equal(t, core.QueryTypeMixed, c.QueryType)
}

func TestClassify_NaturalLanguage(t *testing.T) {
	classifier := NewClassifier()

	c := classifier.Classify("gentle cleanser for sensitive skin")
	assert.Equal(t, core.QueryTypeNaturalLanguage, c.QueryType)
	assert.False(t, c.HasEntities())
	assert.NotEmpty(t, c.ExpandedQueries)
	assert.Equal(t, "gentle cleanser for sensitive skin", c.ExpandedQueries[0])
}

func TestClassify_ThaiQuery(t *testing.T) {
	classifier := NewClassifier()

	c := classifier.Classify("ให้ความชุ่มชื่น")
	assert.Equal(t, core.QueryTypeNaturalLanguage, c.QueryType)
	assert.False(t, c.HasEntities())
	require.NotEmpty(t, c.ExpandedQueries)
	assert.Equal(t, "ให้ความชุ่มชื่น", c.ExpandedQueries[0])
}

func TestClassify_ExpansionIsDeterministic(t *testing.T) {
	classifier := NewClassifier()

	first := classifier.Classify("moisturizing cream for dry skin")
	for range 10 {
		again := classifier.Classify("moisturizing cream for dry skin")
		assert.Equal(t, first.ExpandedQueries, again.ExpandedQueries)
	}
}

func TestClassify_ExpansionVariants(t *testing.T) {
	classifier := NewClassifier()

	c := classifier.Classify("moisturizing agent")
	// Raw query first, then one variant per synonym, capped at three.
	require.NotEmpty(t, c.ExpandedQueries)
	assert.Equal(t, "moisturizing agent", c.ExpandedQueries[0])
	assert.LessOrEqual(t, len(c.ExpandedQueries), 1+maxSynonymsPerKeyword)
	assert.Contains(t, c.ExpandedQueries, "hydrating agent")
}

func TestClassify_ShortKeywordsNotExpanded(t *testing.T) {
	synonyms := map[string][]string{"aha": {"alpha hydroxy acid"}}
	classifier := NewClassifier(WithSynonyms(synonyms))

	c := classifier.Classify("aha peel")
	assert.Equal(t, []string{"aha peel"}, c.ExpandedQueries)
}

func TestClassify_EmptyQueryFallsBack(t *testing.T) {
	classifier := NewClassifier()

	c := classifier.Classify("   ")
	assert.Equal(t, core.QueryTypeNaturalLanguage, c.QueryType)
	assert.False(t, c.HasEntities())
	assert.Len(t, c.ExpandedQueries, 1)
}

func TestTokenizeAndFilter(t *testing.T) {
	tokens := tokenizeAndFilter("The Moisturizing, cream!")
	assert.Equal(t, []string{"moisturizing", "cream"}, tokens)
}

func TestTermOverlap(t *testing.T) {
	assert.Equal(t, float32(1.0), termOverlap("hyaluronic acid serum", "hyaluronic serum"))
	assert.Equal(t, float32(0.5), termOverlap("hyaluronic acid", "hyaluronic retinol"))
	assert.Equal(t, float32(0), termOverlap("glycerin", "retinol"))
}

func TestTermOverlap_ThaiSubstring(t *testing.T) {
	// Thai is not space-segmented; substring containment counts as a hit.
	overlap := termOverlap("สารให้ความชุ่มชื้นสำหรับผิวแห้ง", "ชุ่มชื้น")
	assert.Equal(t, float32(1.0), overlap)
}
