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


package search

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/poiesic/ingrid/ai"
	"github.com/poiesic/ingrid/core"
	"github.com/poiesic/ingrid/storage"
)

// Searcher runs the hybrid retrieval pipeline: classify, fan the
// strategies out concurrently, merge, rerank, personalize, rank, filter.
type Searcher struct {
	ingredients storage.IngredientRepository
	chunks      storage.ChunkRepository
	embedder    ai.Embedder
	classifier  *Classifier
	reranker    Reranker
	executors   []Executor
	logger      *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithReranker replaces the default term-overlap reranker, e.g. with a
// cross-encoder client.
func WithReranker(reranker Reranker) Option {
	return func(s *Searcher) error {
		if reranker != nil {
			s.reranker = reranker
		}
		return nil
	}
}

// WithClassifier replaces the default query classifier.
func WithClassifier(classifier *Classifier) Option {
	return func(s *Searcher) error {
		if classifier != nil {
			s.classifier = classifier
		}
		return nil
	}
}

// NewSearcher creates a new searcher over the given backends.
func NewSearcher(
	ingredients storage.IngredientRepository,
	chunks storage.ChunkRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Searcher, error) {
	if ingredients == nil {
		return nil, ErrIngredientRepositoryRequired
	}
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		ingredients: ingredients,
		chunks:      chunks,
		embedder:    provider.Embedder(),
		classifier:  NewClassifier(),
		reranker:    TermOverlapReranker{},
		logger:      slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.executors = []Executor{
		NewExactExecutor(ingredients, s.logger),
		NewMetadataExecutor(ingredients, s.logger),
		NewFuzzyExecutor(ingredients, s.logger),
		NewSemanticExecutor(chunks, ingredients, s.embedder, s.logger),
	}

	return s, nil
}

// Search runs the full pipeline for a query.
// Returns ErrSearchUnavailable only when every enabled strategy failed;
// an Outcome with no results means the search ran and nothing matched
// or everything fell below the threshold.
func (s *Searcher) Search(ctx context.Context, query string, opts *Options) (*Outcome, error) {
	return s.SearchWithMonitor(ctx, query, opts, nil)
}

// SearchWithMonitor runs the full pipeline with monitoring. The monitor
// receives callbacks at each stage of the pipeline.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, opts *Options, monitor Monitor) (*Outcome, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if opts == nil {
		defaults := DefaultOptions()
		opts = &defaults
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	logger := s.logger.With("trace_id", uuid.NewString())
	monitor.Start(query)

	classification := s.classifier.Classify(query)
	monitor.AfterClassification(classification)
	logger.Debug("classified query",
		"query_type", classification.QueryType.String(),
		"codes", classification.Codes,
		"names", classification.Names,
		"expansions", len(classification.ExpandedQueries))

	byStrategy, attempted, failed := s.runStrategies(ctx, classification, opts, monitor, logger)
	if attempted > 0 && failed == attempted {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logger.Error("all strategies failed", "attempted", attempted)
		return nil, ErrSearchUnavailable
	}

	merged := Merge(byStrategy)
	monitor.AfterMerge(merged)

	reranker := s.reranker
	if !opts.Rerank {
		reranker = nil
	}
	applyRerank(ctx, reranker, query, merged, logger)
	monitor.AfterRerank(merged)

	Personalize(merged, opts.Preferences)
	FinalRank(merged, opts)

	outcome := Filter(merged, opts.Threshold, opts.TopK)
	monitor.Finish(outcome)
	logger.Debug("search finished",
		"candidates", outcome.CandidateCount,
		"below_threshold", outcome.BelowThreshold,
		"results", len(outcome.Results))
	return outcome, nil
}

// runStrategies fans the enabled executors out concurrently and collects
// their results, applying per-strategy boosts. A failed executor
// contributes nothing and is logged as a warning; the attempted and
// failed counts let the caller tell total outage from degraded recall.
//
// When short-circuiting is enabled, the exact strategy runs first on its
// own: a hit at or above 0.95 skips the remaining strategies.
func (s *Searcher) runStrategies(ctx context.Context, classification *core.QueryClassification, opts *Options, monitor Monitor, logger *slog.Logger) (map[core.Strategy][]*core.Candidate, int, int) {
	byStrategy := make(map[core.Strategy][]*core.Candidate)
	attempted, failed := 0, 0

	remaining := make([]Executor, 0, len(s.executors))
	for _, executor := range s.executors {
		if opts.Enabled(executor.Strategy()) {
			remaining = append(remaining, executor)
		}
	}

	if opts.ShortCircuitExact && opts.ExactEnabled {
		exact := remaining[0]
		remaining = remaining[1:]
		attempted++

		candidates, err := executeStrategy(ctx, exact, classification, opts)
		monitor.AfterStrategy(exact.Strategy(), candidates, err)
		if err != nil {
			failed++
			logger.Warn("strategy failed", "strategy", exact.Strategy().String(), "err", err)
		} else if len(candidates) > 0 {
			// The short-circuit decision is made on the raw strategy score;
			// a caller-supplied boost only reweights ranking.
			rawTop := candidates[0].Score
			applyBoost(candidates, opts.Boost(exact.Strategy()))
			byStrategy[exact.Strategy()] = candidates
			if rawTop >= shortCircuitScore {
				monitor.ShortCircuit(rawTop)
				logger.Debug("short-circuiting on exact match", "score", rawTop)
				return byStrategy, attempted, failed
			}
		}
	}

	type strategyResult struct {
		candidates []*core.Candidate
		err        error
	}
	results := make([]strategyResult, len(remaining))

	// Plain errgroup, not WithContext: one strategy's failure must not
	// cancel its siblings.
	var g errgroup.Group
	for i, executor := range remaining {
		g.Go(func() error {
			candidates, err := executeStrategy(ctx, executor, classification, opts)
			results[i] = strategyResult{candidates: candidates, err: err}
			return nil
		})
	}
	g.Wait()

	for i, executor := range remaining {
		attempted++
		result := results[i]
		monitor.AfterStrategy(executor.Strategy(), result.candidates, result.err)
		if result.err != nil {
			failed++
			logger.Warn("strategy failed", "strategy", executor.Strategy().String(), "err", result.err)
			continue
		}
		if len(result.candidates) == 0 {
			continue
		}
		applyBoost(result.candidates, opts.Boost(executor.Strategy()))
		byStrategy[executor.Strategy()] = result.candidates
	}

	return byStrategy, attempted, failed
}

// executeStrategy runs one executor, refusing to start once the request
// is already canceled.
func executeStrategy(ctx context.Context, executor Executor, classification *core.QueryClassification, opts *Options) ([]*core.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return executor.Execute(ctx, classification, opts)
}

func applyBoost(candidates []*core.Candidate, boost float32) {
	if boost == 1.0 {
		return
	}
	for _, candidate := range candidates {
		candidate.Score *= boost
	}
}
