package reindex

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/ingrid/ai"
	"github.com/poiesic/ingrid/chunking"
	"github.com/poiesic/ingrid/core"
	"github.com/poiesic/ingrid/storage"
)

// BatchProcessor rebuilds the chunks of a batch of ingredients: re-chunk,
// re-embed with retry, then replace each ingredient's index entries.
type BatchProcessor struct {
	chunks         storage.ChunkRepository
	builder        *chunking.Builder
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(chunks storage.ChunkRepository, builder *chunking.Builder, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		chunks:         chunks,
		builder:        builder,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process rebuilds the index entries for a batch of ingredients.
// Vectors are normalized after embedding so dot-product similarity
// equals cosine similarity.
func (bp *BatchProcessor) Process(ctx context.Context, ingredients []*core.Ingredient) error {
	if len(ingredients) == 0 {
		return nil
	}

	// Chunk the whole batch first so one embedding call covers it.
	var texts []string
	chunksPerIngredient := make([][]*core.Chunk, len(ingredients))
	for i, ingredient := range ingredients {
		chunks, err := bp.builder.ChunkRecord(ingredient)
		if err != nil {
			return fmt.Errorf("chunking %s: %w", ingredient.Code, err)
		}
		chunksPerIngredient[i] = chunks
		for _, chunk := range chunks {
			texts = append(texts, chunk.Text)
		}
	}
	if len(texts) == 0 {
		return nil
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}
	if len(embeddings) != len(texts) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(texts), len(embeddings))
	}

	next := 0
	for i, ingredient := range ingredients {
		chunks := chunksPerIngredient[i]
		for _, chunk := range chunks {
			chunk.Vector = core.NormalizeVector(embeddings[next])
			next++
		}

		if err := bp.chunks.DeleteChunksForIngredient(ctx, ingredient.Id); err != nil {
			return fmt.Errorf("clearing chunks for %s: %w", ingredient.Code, err)
		}
		if len(chunks) == 0 {
			continue
		}
		if _, err := bp.chunks.UpsertChunks(ctx, chunks...); err != nil {
			return fmt.Errorf("storing chunks for %s: %w", ingredient.Code, err)
		}
	}

	return nil
}
