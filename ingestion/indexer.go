package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/poiesic/ingrid/ai"
	"github.com/poiesic/ingrid/chunking"
	"github.com/poiesic/ingrid/core"
	"github.com/poiesic/ingrid/storage"
)

// indexer chunks ingredients, embeds the chunk texts and replaces the
// ingredient's chunks in the vector index.
type indexer struct {
	ingredients storage.IngredientRepository
	chunks      storage.ChunkRepository
	builder     *chunking.Builder
	embedder    ai.Embedder
	logger      *slog.Logger
}

func newIndexer(ingredients storage.IngredientRepository, chunks storage.ChunkRepository, builder *chunking.Builder, embedder ai.Embedder, logger *slog.Logger) (*indexer, error) {
	if ingredients == nil {
		return nil, fmt.Errorf("ingredient repository required")
	}
	if chunks == nil {
		return nil, fmt.Errorf("chunk repository required")
	}
	if builder == nil {
		return nil, fmt.Errorf("chunk builder required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &indexer{
		ingredients: ingredients,
		chunks:      chunks,
		builder:     builder,
		embedder:    embedder,
		logger:      logger.With("processor", "indexer"),
	}, nil
}

// process indexes the ingredients identified by the given IDs.
func (ix *indexer) process(ctx context.Context, ids ...core.ID) error {
	ix.logger.Info("indexing ingredients", "count", len(ids))

	slices.Sort(ids)
	ingredients, err := ix.ingredients.GetIngredients(ctx, ids...)
	if err != nil {
		ix.logger.Error("error retrieving ingredients", "err", err)
		return err
	}

	for _, ingredient := range ingredients {
		if err := ix.index(ctx, ingredient); err != nil {
			return fmt.Errorf("indexing %s: %w", ingredient.Code, err)
		}
	}
	return nil
}

// index replaces one ingredient's chunks wholesale: chunk, embed,
// delete the old generation, upsert the new one.
func (ix *indexer) index(ctx context.Context, ingredient *core.Ingredient) error {
	chunks, err := ix.builder.ChunkRecord(ingredient)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		ix.logger.Warn("ingredient produced no chunks", "code", ingredient.Code)
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	ix.logger.Debug("generating embeddings", "code", ingredient.Code, "chunks", len(texts))
	embeddings, err := ix.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return err
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(chunks), len(embeddings))
	}

	for i := range embeddings {
		chunks[i].Vector = core.NormalizeVector(embeddings[i])
	}

	if err := ix.chunks.DeleteChunksForIngredient(ctx, ingredient.Id); err != nil {
		return err
	}
	_, err = ix.chunks.UpsertChunks(ctx, chunks...)
	return err
}
