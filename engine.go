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


package ingrid

import (
	"io"
	"log/slog"

	"github.com/poiesic/ingrid/ai"
	"github.com/poiesic/ingrid/ai/openai"
	"github.com/poiesic/ingrid/ingestion"
	"github.com/poiesic/ingrid/reindex"
	"github.com/poiesic/ingrid/search"
	"github.com/poiesic/ingrid/storage"
	"github.com/poiesic/ingrid/storage/badger"
)

// Engine bundles the storage backend, repositories, and AI provider behind
// a single open/close lifecycle. It is the intended entry point for
// applications embedding the ingredient catalog.
type Engine struct {
	backend        *badger.Backend
	ingredientRepo storage.IngredientRepository
	chunkRepo      storage.ChunkRepository
	provider       ai.AIProvider
	logger         *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig *ai.Config
	inMemory bool
}

// WithAIConfig overrides the default embedding service configuration.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = config
	}
}

// WithInMemory opens the backend without on-disk persistence. Intended for
// tests and short-lived tooling.
func WithInMemory() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

func NewEngine(filePath string, opts ...EngineOption) (*Engine, error) {
	// Apply options
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}
	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	// Create ingredient repository
	ingredientRepo, err := badger.NewIngredientRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create chunk repository
	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		ingredientRepo.Close()
		backend.Close()
		return nil, err
	}

	// Create AI provider with configured settings
	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		chunkRepo.Close()
		ingredientRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Engine{
		backend:        backend,
		ingredientRepo: ingredientRepo,
		chunkRepo:      chunkRepo,
		provider:       provider,
		logger:         slog.Default(),
	}, nil
}

func (e *Engine) Close() error {
	// Close AI provider first
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}

	// Close repositories
	if err := e.chunkRepo.Close(); err != nil {
		e.logger.Error("error closing chunk repository", "err", err)
		return err
	}
	if err := e.ingredientRepo.Close(); err != nil {
		e.logger.Error("error closing ingredient repository", "err", err)
		return err
	}

	// Close backend
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (e *Engine) IngredientRepository() storage.IngredientRepository {
	return e.ingredientRepo
}

func (e *Engine) ChunkRepository() storage.ChunkRepository {
	return e.chunkRepo
}

func (e *Engine) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(e.ingredientRepo, e.chunkRepo, e.provider, opts...)
}

func (e *Engine) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(e.ingredientRepo, e.chunkRepo, e.provider, opts...)
}

func (e *Engine) NewReindexer(config *reindex.Config, progress io.Writer) (*reindex.Reindexer, error) {
	return reindex.NewReindexer(e.ingredientRepo, e.chunkRepo, e.provider.Embedder(), config, progress)
}
