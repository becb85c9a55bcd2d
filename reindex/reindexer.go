// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reindex

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/ingrid/ai"
	"github.com/poiesic/ingrid/chunking"
	"github.com/poiesic/ingrid/core"
	"github.com/poiesic/ingrid/storage"
)

// Config holds configuration for the reindexing operation.
type Config struct {
	// BatchSize is the number of records to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of records)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// ChunkConfig sets the chunking parameters for the new index
	// generation. Nil uses chunking.DefaultConfig().
	ChunkConfig *chunking.Config
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reindexer rebuilds the whole vector index: every ingredient is
// re-chunked and re-embedded, replacing the previous index generation.
// Run it after an embedding model change or a chunking parameter change.
type Reindexer struct {
	ingredients storage.IngredientRepository
	chunks      storage.ChunkRepository
	config      *Config
	progress    io.Writer
	processor   *BatchProcessor
	iterator    *RecordIterator
}

// NewReindexer creates a new reindexer.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(ingredients storage.IngredientRepository, chunks storage.ChunkRepository, embedder ai.Embedder, config *Config, progress io.Writer) (*Reindexer, error) {
	if config == nil {
		config = DefaultConfig()
	}

	builder, err := chunking.NewBuilder(chunking.WithConfig(config.ChunkConfig))
	if err != nil {
		return nil, err
	}

	return &Reindexer{
		ingredients: ingredients,
		chunks:      chunks,
		config:      config,
		progress:    progress,
		processor:   NewBatchProcessor(chunks, builder, embedder, config.MaxRetries, config.RetryDelay),
		iterator:    NewRecordIterator(ingredients, config.BatchSize),
	}, nil
}

// Run executes the reindexing operation.
// Every ingredient's chunks are rebuilt and re-embedded.
// Progress is reported to the configured writer.
func (r *Reindexer) Run(ctx context.Context) error {
	total, err := r.ingredients.CountIngredients(ctx)
	if err != nil {
		return fmt.Errorf("failed to count ingredients: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(r.progress, "No ingredients found in database (0 records)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reindex of %d ingredients (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, func(ingredients []*core.Ingredient) error {
		if err := r.processor.Process(ctx, ingredients); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		processed += len(ingredients)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindex complete. Processed %d ingredients in %v (%.1f records/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}
