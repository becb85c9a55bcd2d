package ingestion

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/ingrid/ai"
	"github.com/poiesic/ingrid/chunking"
	"github.com/poiesic/ingrid/core"
	"github.com/poiesic/ingrid/storage"
)

// Pipeline orchestrates ingredient ingestion: records are stored
// synchronously, then chunked, embedded and indexed on a worker pool.
type Pipeline struct {
	ingredients storage.IngredientRepository
	chunks      storage.ChunkRepository
	indexPool   *ants.Pool
	indexer     *indexer
	chunkConfig *chunking.Config
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent indexing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.indexPool != nil {
			p.indexPool.Release()
		}

		indexPool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.indexPool = indexPool
		return nil
	}
}

// WithChunkConfig sets the chunking parameters used at index time.
// Default is chunking.DefaultConfig().
func WithChunkConfig(config *chunking.Config) Option {
	return func(p *Pipeline) error {
		if config == nil {
			config = chunking.DefaultConfig()
		}
		if err := config.Validate(); err != nil {
			return err
		}
		p.chunkConfig = config
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	ingredients storage.IngredientRepository,
	chunks storage.ChunkRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if ingredients == nil {
		return nil, ErrIngredientRepositoryRequired
	}
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	indexPool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		ingredients: ingredients,
		chunks:      chunks,
		indexPool:   indexPool,
		chunkConfig: chunking.DefaultConfig(),
		logger:      slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	// Build the indexer after options are applied so it sees the final
	// configuration.
	builder, err := chunking.NewBuilder(chunking.WithConfig(p.chunkConfig), chunking.WithLogger(p.logger))
	if err != nil {
		p.Release()
		return nil, err
	}
	ix, err := newIndexer(ingredients, chunks, builder, provider.Embedder(), p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.indexer = ix

	return p, nil
}

// Ingest stores the ingredients and indexes them asynchronously.
// Indexing errors are logged but do not fail the ingestion; the records
// are already durable and a reindex pass can rebuild their chunks.
// Returns the stored ingredients with IDs and timestamps populated.
func (p *Pipeline) Ingest(ctx context.Context, ingredients ...*core.Ingredient) ([]*core.Ingredient, error) {
	stored, err := p.ingredients.PutIngredients(ctx, ingredients...)
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return stored, nil
	}

	ids := make([]core.ID, len(stored))
	for i, ingredient := range stored {
		ids[i] = ingredient.Id
	}

	p.indexPool.Submit(func() {
		if err := p.indexer.process(context.Background(), ids...); err != nil {
			p.logger.Error("error indexing ingredients", "err", err)
		}
	})

	return stored, nil
}

// IngestSync stores and indexes the ingredients before returning.
// Used by batch loaders that need the index complete when they finish.
func (p *Pipeline) IngestSync(ctx context.Context, ingredients ...*core.Ingredient) ([]*core.Ingredient, error) {
	stored, err := p.ingredients.PutIngredients(ctx, ingredients...)
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return stored, nil
	}

	ids := make([]core.ID, len(stored))
	for i, ingredient := range stored {
		ids[i] = ingredient.Id
	}
	if err := p.indexer.process(ctx, ids...); err != nil {
		return nil, err
	}
	return stored, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.indexPool != nil {
		p.indexPool.Release()
	}
}
