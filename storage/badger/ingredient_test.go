package badger

import (
	"context"
	"strings"
	"testing"

	"github.com/poiesic/ingrid/core"
	"github.com/poiesic/ingrid/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIngredients() []*core.Ingredient {
	return []*core.Ingredient{
		{
			Code:      "RM000001",
			TradeName: "Aqua Soothe",
			INCIName:  "Sodium Hyaluronate",
			Supplier:  "Siam Chemical Trading",
			Category:  "humectant",
			Benefits:  "deep hydration",
		},
		{
			Code:      "RM000002",
			TradeName: "Brighten Plus",
			INCIName:  "Niacinamide",
			Category:  "active",
			Benefits:  "brightening, reduces dark spots",
		},
		{
			Code:      "AX500",
			TradeName: "Silk Feel",
			INCIName:  "Dimethicone",
			Category:  "emollient",
		},
	}
}

func TestPutAndGetIngredient(t *testing.T) {
	ingredientRepo, chunkRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chunkRepo.Close()
		ingredientRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	stored, err := ingredientRepo.PutIngredients(ctx, newTestIngredients()...)
	require.NoError(t, err)
	require.Len(t, stored, 3)

	for _, ingredient := range stored {
		assert.NotZero(t, ingredient.Id)
		assert.False(t, ingredient.InsertedAt.IsZero())
		assert.False(t, ingredient.UpdatedAt.IsZero())

		got, err := ingredientRepo.GetIngredient(ctx, ingredient.Id)
		require.NoError(t, err)
		assert.Equal(t, ingredient.Code, got.Code)
		assert.Equal(t, ingredient.TradeName, got.TradeName)
	}
}

func TestPutIngredient_Invalid(t *testing.T) {
	ingredientRepo, chunkRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chunkRepo.Close()
		ingredientRepo.Close()
		backend.Close()
	}()

	_, err = ingredientRepo.PutIngredients(context.Background(), &core.Ingredient{TradeName: "No Code"})
	assert.ErrorIs(t, err, core.ErrEmptyCode)
}

func TestPutIngredient_ReplaceKeepsInsertedAt(t *testing.T) {
	ingredientRepo, chunkRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chunkRepo.Close()
		ingredientRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	first, err := ingredientRepo.PutIngredients(ctx, &core.Ingredient{Code: "RM000001", TradeName: "Aqua Soothe"})
	require.NoError(t, err)
	insertedAt := first[0].InsertedAt

	second, err := ingredientRepo.PutIngredients(ctx, &core.Ingredient{Code: "RM000001", TradeName: "Aqua Soothe v2"})
	require.NoError(t, err)

	assert.Equal(t, first[0].Id, second[0].Id)
	assert.Equal(t, insertedAt, second[0].InsertedAt)

	got, err := ingredientRepo.GetIngredient(ctx, first[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "Aqua Soothe v2", got.TradeName)
}

func TestPutIngredient_ReturnedValueMatchesStored(t *testing.T) {
	ingredientRepo, chunkRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chunkRepo.Close()
		ingredientRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	stored, err := ingredientRepo.PutIngredients(ctx, &core.Ingredient{Code: "RM000001", TradeName: "Aqua Soothe"})
	require.NoError(t, err)

	// The value handed back by Put must be indistinguishable from what a
	// later read returns: same timestamp grain, nil maps staying nil.
	got, err := ingredientRepo.GetIngredient(ctx, stored[0].Id)
	require.NoError(t, err)
	assert.Equal(t, stored[0], got)
	assert.Nil(t, got.Localized)
	assert.Nil(t, got.Extra)
}

func TestGetIngredientByCode_CaseInsensitive(t *testing.T) {
	ingredientRepo, chunkRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chunkRepo.Close()
		ingredientRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	_, err = ingredientRepo.PutIngredients(ctx, newTestIngredients()...)
	require.NoError(t, err)

	for _, code := range []string{"RM000001", "rm000001", "Rm000001"} {
		got, err := ingredientRepo.GetIngredientByCode(ctx, code)
		require.NoError(t, err, "lookup with %q", code)
		assert.Equal(t, "Aqua Soothe", got.TradeName)
	}

	_, err = ingredientRepo.GetIngredientByCode(ctx, "RM999999")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFind_WithPredicate(t *testing.T) {
	ingredientRepo, chunkRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chunkRepo.Close()
		ingredientRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	_, err = ingredientRepo.PutIngredients(ctx, newTestIngredients()...)
	require.NoError(t, err)

	t.Run("predicate filters", func(t *testing.T) {
		matches, err := ingredientRepo.Find(ctx, func(i *core.Ingredient) bool {
			return strings.Contains(i.Benefits, "brightening")
		}, 0)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "RM000002", matches[0].Code)
	})

	t.Run("nil predicate matches everything", func(t *testing.T) {
		matches, err := ingredientRepo.Find(ctx, nil, 0)
		require.NoError(t, err)
		assert.Len(t, matches, 3)
	})

	t.Run("limit respected", func(t *testing.T) {
		matches, err := ingredientRepo.Find(ctx, nil, 2)
		require.NoError(t, err)
		assert.Len(t, matches, 2)
	})
}

func TestListIngredients_Pagination(t *testing.T) {
	ingredientRepo, chunkRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chunkRepo.Close()
		ingredientRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	_, err = ingredientRepo.PutIngredients(ctx, newTestIngredients()...)
	require.NoError(t, err)

	seen := map[core.ID]bool{}
	var cursor core.ID
	for {
		page, err := ingredientRepo.ListIngredients(ctx, cursor, 1)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		require.Len(t, page, 1)
		assert.Greater(t, uint64(page[0].Id), uint64(cursor), "IDs must be ascending")
		assert.False(t, seen[page[0].Id], "no ingredient visited twice")
		seen[page[0].Id] = true
		cursor = page[0].Id
	}
	assert.Len(t, seen, 3)
}

func TestDeleteIngredients(t *testing.T) {
	ingredientRepo, chunkRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chunkRepo.Close()
		ingredientRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	stored, err := ingredientRepo.PutIngredients(ctx, newTestIngredients()...)
	require.NoError(t, err)

	require.NoError(t, ingredientRepo.DeleteIngredients(ctx, stored[0].Id))

	_, err = ingredientRepo.GetIngredient(ctx, stored[0].Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = ingredientRepo.GetIngredientByCode(ctx, stored[0].Code)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	count, err := ingredientRepo.CountIngredients(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	err = ingredientRepo.DeleteIngredients(ctx, core.ID(12345))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
