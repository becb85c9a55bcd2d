package storage

import (
	"context"

	"github.com/poiesic/ingrid/core"
)

// Predicate filters ingredients during a Find scan.
// It must be side-effect free; the backend may call it concurrently.
type Predicate func(*core.Ingredient) bool

// VectorFilter restricts a vector query before similarity scoring.
// Zero-value fields apply no restriction.
type VectorFilter struct {
	// Codes restricts matches to chunks of the listed ingredient codes.
	Codes []string
	// Category restricts matches to chunks of ingredients in the category.
	Category string
	// ExcludeCodes drops chunks of the listed ingredient codes, used to
	// keep a caller's own submissions out of their results.
	ExcludeCodes []string
}

// VectorMatch is a chunk match from vector similarity search.
type VectorMatch struct {
	Chunk *core.Chunk
	Score float32
}

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// IngredientRepository provides operations over the ingredient record
// collection. It is the backend for the exact, metadata and fuzzy
// strategies.
type IngredientRepository interface {
	Repository

	// PutIngredients inserts or replaces ingredients by their content-based
	// ID (derived from the code). Sets InsertedAt on first write and
	// refreshes UpdatedAt on replacement.
	// Returns the ingredients with IDs and timestamps populated.
	PutIngredients(ctx context.Context, ingredients ...*core.Ingredient) ([]*core.Ingredient, error)

	// DeleteIngredients removes ingredients by their IDs.
	// Also removes associated indices.
	// Returns ErrNotFound if any ingredient doesn't exist.
	DeleteIngredients(ctx context.Context, ids ...core.ID) error

	// GetIngredient retrieves a single ingredient by ID.
	// Returns ErrNotFound if the ingredient doesn't exist.
	GetIngredient(ctx context.Context, id core.ID) (*core.Ingredient, error)

	// GetIngredients retrieves multiple ingredients by their IDs.
	// Returns only the ingredients that exist (no error for missing ones).
	GetIngredients(ctx context.Context, ids ...core.ID) ([]*core.Ingredient, error)

	// GetIngredientByCode retrieves an ingredient by its unique code.
	// The lookup is case-insensitive.
	// Returns ErrNotFound if no ingredient carries the code.
	GetIngredientByCode(ctx context.Context, code string) (*core.Ingredient, error)

	// Find scans the collection and returns ingredients matching the
	// predicate, up to limit results. A nil predicate matches everything.
	Find(ctx context.Context, pred Predicate, limit int) ([]*core.Ingredient, error)

	// ListIngredients returns up to limit ingredients with ID greater than
	// afterID, ordered by ID. Use afterID=0 to start from the beginning.
	// This is the iteration primitive for reindexing.
	ListIngredients(ctx context.Context, afterID core.ID, limit int) ([]*core.Ingredient, error)

	// CountIngredients returns the number of stored ingredients.
	CountIngredients(ctx context.Context) (int, error)
}

// ChunkRepository provides operations over the chunk/vector index.
// It is the backend for the semantic strategy.
type ChunkRepository interface {
	Repository

	// UpsertChunks inserts or replaces chunks by their content-based IDs.
	// Sets InsertedAt on first write and refreshes UpdatedAt on replacement.
	UpsertChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// DeleteChunksForIngredient removes every chunk of the given ingredient.
	// This is how an index generation is replaced wholesale on re-ingest.
	DeleteChunksForIngredient(ctx context.Context, ingredientID core.ID) error

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error)

	// GetChunksForIngredient retrieves all chunks of an ingredient.
	// Returns an empty slice when the ingredient has no chunks.
	GetChunksForIngredient(ctx context.Context, ingredientID core.ID) ([]*core.Chunk, error)

	// Query finds chunks similar to the given vector, restricted by the
	// filter when non-nil. Returns up to topK matches ordered by similarity
	// score (highest first). Chunks without vectors are skipped.
	Query(ctx context.Context, vector []float32, topK int, filter *VectorFilter) ([]*VectorMatch, error)

	// CountChunks returns the number of stored chunks.
	CountChunks(ctx context.Context) (int, error)
}
