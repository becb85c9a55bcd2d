package badger

import (
	"context"
	"testing"

	"github.com/poiesic/ingrid/core"
	"github.com/poiesic/ingrid/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChunks(ingredientID core.ID, code, category string) []*core.Chunk {
	return []*core.Chunk{
		{
			Id:           core.IDFromContent(code + ":code_exact:0"),
			IngredientId: ingredientID,
			Code:         code,
			Category:     category,
			Text:         "Code: " + code,
			Type:         core.ChunkCodeExact,
			Priority:     1.0,
			Vector:       []float32{1, 0, 0},
		},
		{
			Id:           core.IDFromContent(code + ":descriptive:0"),
			IngredientId: ingredientID,
			Code:         code,
			Category:     category,
			Text:         "Benefits: hydration",
			Type:         core.ChunkDescriptive,
			Priority:     0.6,
			Vector:       []float32{0, 1, 0},
		},
	}
}

func TestUpsertAndGetChunks(t *testing.T) {
	ingredientRepo, chunkRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chunkRepo.Close()
		ingredientRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	ingredientID := core.IDFromContent("RM000001")
	chunks := newTestChunks(ingredientID, "RM000001", "humectant")

	stored, err := chunkRepo.UpsertChunks(ctx, chunks...)
	require.NoError(t, err)
	require.Len(t, stored, 2)

	got, err := chunkRepo.GetChunk(ctx, chunks[0].Id)
	require.NoError(t, err)
	assert.Equal(t, chunks[0].Text, got.Text)

	byIngredient, err := chunkRepo.GetChunksForIngredient(ctx, ingredientID)
	require.NoError(t, err)
	assert.Len(t, byIngredient, 2)

	count, err := chunkRepo.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestUpsertChunks_ReplaceIsIdempotent(t *testing.T) {
	ingredientRepo, chunkRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chunkRepo.Close()
		ingredientRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	ingredientID := core.IDFromContent("RM000001")

	_, err = chunkRepo.UpsertChunks(ctx, newTestChunks(ingredientID, "RM000001", "humectant")...)
	require.NoError(t, err)
	_, err = chunkRepo.UpsertChunks(ctx, newTestChunks(ingredientID, "RM000001", "humectant")...)
	require.NoError(t, err)

	count, err := chunkRepo.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "re-upserting the same chunks must not duplicate")
}

func TestDeleteChunksForIngredient(t *testing.T) {
	ingredientRepo, chunkRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chunkRepo.Close()
		ingredientRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	keepID := core.IDFromContent("RM000001")
	dropID := core.IDFromContent("RM000002")

	_, err = chunkRepo.UpsertChunks(ctx, newTestChunks(keepID, "RM000001", "humectant")...)
	require.NoError(t, err)
	_, err = chunkRepo.UpsertChunks(ctx, newTestChunks(dropID, "RM000002", "active")...)
	require.NoError(t, err)

	require.NoError(t, chunkRepo.DeleteChunksForIngredient(ctx, dropID))

	gone, err := chunkRepo.GetChunksForIngredient(ctx, dropID)
	require.NoError(t, err)
	assert.Empty(t, gone)

	kept, err := chunkRepo.GetChunksForIngredient(ctx, keepID)
	require.NoError(t, err)
	assert.Len(t, kept, 2)

	count, err := chunkRepo.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestQuery_OrderAndTopK(t *testing.T) {
	ingredientRepo, chunkRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chunkRepo.Close()
		ingredientRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	ingredientID := core.IDFromContent("RM000001")
	_, err = chunkRepo.UpsertChunks(ctx, newTestChunks(ingredientID, "RM000001", "humectant")...)
	require.NoError(t, err)

	// Closest to the descriptive chunk's vector.
	matches, err := chunkRepo.Query(ctx, []float32{0.1, 0.9, 0}, 10, nil)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, core.ChunkDescriptive, matches[0].Chunk.Type)
	assert.Greater(t, matches[0].Score, matches[1].Score)

	limited, err := chunkRepo.Query(ctx, []float32{0.1, 0.9, 0}, 1, nil)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestQuery_Filters(t *testing.T) {
	ingredientRepo, chunkRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chunkRepo.Close()
		ingredientRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	_, err = chunkRepo.UpsertChunks(ctx, newTestChunks(core.IDFromContent("RM000001"), "RM000001", "humectant")...)
	require.NoError(t, err)
	_, err = chunkRepo.UpsertChunks(ctx, newTestChunks(core.IDFromContent("RM000002"), "RM000002", "active")...)
	require.NoError(t, err)

	t.Run("category filter", func(t *testing.T) {
		matches, err := chunkRepo.Query(ctx, []float32{1, 1, 0}, 10, &storage.VectorFilter{Category: "active"})
		require.NoError(t, err)
		require.NotEmpty(t, matches)
		for _, m := range matches {
			assert.Equal(t, "active", m.Chunk.Category)
		}
	})

	t.Run("code filter", func(t *testing.T) {
		matches, err := chunkRepo.Query(ctx, []float32{1, 1, 0}, 10, &storage.VectorFilter{Codes: []string{"rm000001"}})
		require.NoError(t, err)
		require.NotEmpty(t, matches)
		for _, m := range matches {
			assert.Equal(t, "RM000001", m.Chunk.Code)
		}
	})

	t.Run("exclude filter", func(t *testing.T) {
		matches, err := chunkRepo.Query(ctx, []float32{1, 1, 0}, 10, &storage.VectorFilter{ExcludeCodes: []string{"RM000001"}})
		require.NoError(t, err)
		require.NotEmpty(t, matches)
		for _, m := range matches {
			assert.NotEqual(t, "RM000001", m.Chunk.Code)
		}
	})
}

func TestDotProduct(t *testing.T) {
	assert.InDelta(t, 1.0, dotProduct([]float32{1, 0}, []float32{1, 0}), 1e-6)
	assert.InDelta(t, 0.0, dotProduct([]float32{1, 0}, []float32{0, 1}), 1e-6)
	// Mismatched lengths use the shorter vector.
	assert.InDelta(t, 0.5, dotProduct([]float32{0.5}, []float32{1, 1}), 1e-6)
}
