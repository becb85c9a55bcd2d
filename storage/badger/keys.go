package badger

import (
	"encoding/binary"
	"strings"

	"github.com/poiesic/ingrid/core"
)

// Key prefixes for different data types
const (
	ingredientPrefix         = "ingrec"
	ingredientCodePrefix     = "ingcode"
	ingredientCategoryPrefix = "ingcat"
	chunkPrefix              = "chkrec"
	chunkIngredientPrefix    = "chking"
)

// makeIngredientKey generates a key for an ingredient by ID.
// The ID is written in BigEndian order so lexicographic iteration visits
// ingredients in ascending ID order (required by ListIngredients).
func makeIngredientKey(id core.ID) []byte {
	prefix := ingredientPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeCodeKey generates a key for the unique code index.
// Codes are indexed upper-cased so lookups are case-insensitive.
// Format: prefix:CODE
func makeCodeKey(code string) []byte {
	return []byte(ingredientCodePrefix + ":" + strings.ToUpper(code))
}

// makeCategoryKey generates a composite key for the category index.
// Format: prefix:category:id
func makeCategoryKey(category string, id core.ID) []byte {
	prefix := ingredientCategoryPrefix + ":" + strings.ToLower(category) + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialCategoryKey generates a prefix for category scans.
func makePartialCategoryKey(category string) []byte {
	return []byte(ingredientCategoryPrefix + ":" + strings.ToLower(category) + ":")
}

// makeChunkKey generates a key for a chunk by ID.
func makeChunkKey(id core.ID) []byte {
	prefix := chunkPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeChunkIngredientKey generates a composite key for the per-ingredient
// chunk index. Format: prefix:ingredientID:chunkID
func makeChunkIngredientKey(ingredientID, chunkID core.ID) []byte {
	prefix := chunkIngredientPrefix + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(ingredientID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(chunkID))
	return buf
}

// makePartialChunkIngredientKey generates a prefix for per-ingredient chunk scans.
func makePartialChunkIngredientKey(ingredientID core.ID) []byte {
	prefix := chunkIngredientPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(ingredientID))
	return buf
}
