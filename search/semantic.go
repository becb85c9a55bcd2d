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
	"fmt"
	"log/slog"
	"strconv"

	"github.com/poiesic/ingrid/ai"
	"github.com/poiesic/ingrid/core"
	"github.com/poiesic/ingrid/storage"
)

// maxEmbeddedQueries caps how many expanded queries get embedded per
// request. Each one is an embedding-service round trip.
const maxEmbeddedQueries = 3

// SemanticExecutor embeds the expanded queries and runs each embedding
// against the chunk index, deduplicating matches by ingredient and
// keeping the highest similarity per document.
type SemanticExecutor struct {
	chunks      storage.ChunkRepository
	ingredients storage.IngredientRepository
	embedder    ai.Embedder
	logger      *slog.Logger
}

// NewSemanticExecutor creates the semantic-vector strategy over the
// chunk index.
func NewSemanticExecutor(chunks storage.ChunkRepository, ingredients storage.IngredientRepository, embedder ai.Embedder, logger *slog.Logger) *SemanticExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &SemanticExecutor{chunks: chunks, ingredients: ingredients, embedder: embedder, logger: logger}
}

func (e *SemanticExecutor) Strategy() core.Strategy {
	return core.StrategySemantic
}

func (e *SemanticExecutor) Execute(ctx context.Context, classification *core.QueryClassification, opts *Options) ([]*core.Candidate, error) {
	queries := classification.ExpandedQueries
	if len(queries) == 0 {
		queries = []string{classification.Query}
	}
	if len(queries) > maxEmbeddedQueries {
		queries = queries[:maxEmbeddedQueries]
	}

	filter := &storage.VectorFilter{
		Category:     opts.Category,
		ExcludeCodes: opts.ExcludeCodes,
	}

	type bestMatch struct {
		match      *storage.VectorMatch
		queryIndex int
	}
	byIngredient := make(map[core.ID]bestMatch)

	for i, query := range queries {
		embedding, err := e.embedder.EmbedText(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("embedding query %d: %w", i, err)
		}
		matches, err := e.chunks.Query(ctx, core.NormalizeVector(embedding), opts.TopK, filter)
		if err != nil {
			return nil, fmt.Errorf("vector query %d: %w", i, err)
		}
		for _, match := range matches {
			existing, ok := byIngredient[match.Chunk.IngredientId]
			if !ok || match.Score > existing.match.Score ||
				(match.Score == existing.match.Score && match.Chunk.Priority > existing.match.Chunk.Priority) {
				byIngredient[match.Chunk.IngredientId] = bestMatch{match: match, queryIndex: i}
			}
		}
	}

	if len(byIngredient) == 0 {
		return nil, nil
	}

	ids := make([]core.ID, 0, len(byIngredient))
	for id := range byIngredient {
		ids = append(ids, id)
	}
	ingredients, err := e.ingredients.GetIngredients(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("resolving semantic matches: %w", err)
	}

	candidates := make([]*core.Candidate, 0, len(ingredients))
	for _, ingredient := range ingredients {
		best, ok := byIngredient[ingredient.Id]
		if !ok {
			continue
		}
		score := best.match.Score
		if score < 0 {
			score = 0
		}
		candidates = append(candidates, newCandidate(ingredient, core.StrategySemantic, score, best.match.Chunk.Text, map[string]string{
			"chunk_type":  best.match.Chunk.Type.String(),
			"query_index": strconv.Itoa(best.queryIndex),
		}))
	}

	sortCandidatesByScore(candidates)
	if len(candidates) > opts.TopK {
		candidates = candidates[:opts.TopK]
	}
	return candidates, nil
}
