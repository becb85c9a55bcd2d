package badger

import (
	"context"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/ingrid/core"
	"github.com/poiesic/ingrid/storage"
)

// IngredientRepository implements storage.IngredientRepository for BadgerDB.
type IngredientRepository struct {
	backend *Backend
}

var _ storage.IngredientRepository = (*IngredientRepository)(nil)

// NewIngredientRepository creates a new IngredientRepository.
func NewIngredientRepository(backend *Backend) (storage.IngredientRepository, error) {
	return &IngredientRepository{backend: backend}, nil
}

// Close is a no-op; the repository holds no resources beyond the backend.
func (r *IngredientRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *IngredientRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutIngredients inserts or replaces ingredients by their content-based IDs.
func (r *IngredientRepository) PutIngredients(ctx context.Context, ingredients ...*core.Ingredient) ([]*core.Ingredient, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, ingredient := range ingredients {
			if err := core.ValidateIngredient(ingredient); err != nil {
				return err
			}

			// Ingredient identity is derived from the code; case differences
			// in supplier files must not create duplicate records.
			ingredient.Id = core.IDFromContent(strings.ToUpper(ingredient.Code))

			key := makeIngredientKey(ingredient.Id)
			old, err := r.readIngredient(tx, key)
			if err != nil {
				return err
			}

			// Stored timestamps carry microsecond resolution; stamp at the
			// same grain so the returned record matches a later read.
			now := time.Now().UTC().Truncate(time.Microsecond)
			if old != nil {
				ingredient.InsertedAt = old.InsertedAt
			} else {
				ingredient.InsertedAt = now
			}
			ingredient.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalIngredient(ingredient)); err != nil {
				return err
			}

			if err := tx.Set(makeCodeKey(ingredient.Code), storage.MarshalID(ingredient.Id)); err != nil {
				return err
			}

			// Replace the category index entry when the category changed.
			if old != nil && old.Category != "" && old.Category != ingredient.Category {
				if err := tx.Delete(makeCategoryKey(old.Category, ingredient.Id)); err != nil {
					return err
				}
			}
			if ingredient.Category != "" {
				if err := tx.Set(makeCategoryKey(ingredient.Category, ingredient.Id), storage.MarshalID(ingredient.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return ingredients, nil
}

// DeleteIngredients removes ingredients by their IDs.
func (r *IngredientRepository) DeleteIngredients(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeIngredientKey(id)
			ingredient, err := r.readIngredient(tx, key)
			if err != nil {
				return err
			}
			if ingredient == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
			if err := tx.Delete(makeCodeKey(ingredient.Code)); err != nil {
				return err
			}
			if ingredient.Category != "" {
				if err := tx.Delete(makeCategoryKey(ingredient.Category, id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)
}

// GetIngredient retrieves a single ingredient by ID.
func (r *IngredientRepository) GetIngredient(ctx context.Context, id core.ID) (*core.Ingredient, error) {
	var ingredient *core.Ingredient
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		ingredient, err = r.readIngredient(tx, makeIngredientKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if ingredient == nil {
		return nil, storage.ErrNotFound
	}
	return ingredient, nil
}

// GetIngredients retrieves multiple ingredients, skipping missing IDs.
func (r *IngredientRepository) GetIngredients(ctx context.Context, ids ...core.ID) ([]*core.Ingredient, error) {
	ingredients := make([]*core.Ingredient, 0, len(ids))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			ingredient, err := r.readIngredient(tx, makeIngredientKey(id))
			if err != nil {
				return err
			}
			if ingredient != nil {
				ingredients = append(ingredients, ingredient)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return ingredients, nil
}

// GetIngredientByCode retrieves an ingredient by its unique code.
func (r *IngredientRepository) GetIngredientByCode(ctx context.Context, code string) (*core.Ingredient, error) {
	var ingredient *core.Ingredient
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCodeKey(code))
		if err == badger.ErrKeyNotFound {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}

		var id core.ID
		if err := item.Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		}); err != nil {
			return err
		}

		ingredient, err = r.readIngredient(tx, makeIngredientKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if ingredient == nil {
		return nil, storage.ErrNotFound
	}
	return ingredient, nil
}

// Find scans the collection and returns ingredients matching the predicate.
// A nil predicate matches everything.
func (r *IngredientRepository) Find(ctx context.Context, pred storage.Predicate, limit int) ([]*core.Ingredient, error) {
	var matches []*core.Ingredient
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(ingredientPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var ingredient *core.Ingredient
			err := iter.Item().Value(func(val []byte) error {
				var err error
				ingredient, err = storage.UnmarshalIngredient(val)
				return err
			})
			if err != nil {
				return err
			}
			if ingredient == nil {
				continue
			}

			if pred != nil && !pred(ingredient) {
				continue
			}

			matches = append(matches, ingredient)
			if limit > 0 && len(matches) >= limit {
				return nil
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// ListIngredients returns up to limit ingredients with ID greater than afterID.
func (r *IngredientRepository) ListIngredients(ctx context.Context, afterID core.ID, limit int) ([]*core.Ingredient, error) {
	var ingredients []*core.Ingredient
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(ingredientPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Ingredient keys embed the ID in BigEndian, so seeking to afterID+1
		// lands on the first ingredient past the cursor.
		iter.Seek(makeIngredientKey(afterID + 1))
		for ; iter.Valid(); iter.Next() {
			var ingredient *core.Ingredient
			err := iter.Item().Value(func(val []byte) error {
				var err error
				ingredient, err = storage.UnmarshalIngredient(val)
				return err
			})
			if err != nil {
				return err
			}
			if ingredient == nil {
				continue
			}

			ingredients = append(ingredients, ingredient)
			if limit > 0 && len(ingredients) >= limit {
				return nil
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return ingredients, nil
}

// CountIngredients returns the number of stored ingredients.
func (r *IngredientRepository) CountIngredients(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(ingredientPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *IngredientRepository) readIngredient(tx *badger.Txn, key []byte) (*core.Ingredient, error) {
	item, err := tx.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var ingredient *core.Ingredient
	err = item.Value(func(val []byte) error {
		var err error
		ingredient, err = storage.UnmarshalIngredient(val)
		return err
	})
	return ingredient, err
}
