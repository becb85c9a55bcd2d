package search

import (
	"context"
	"log/slog"

	"github.com/poiesic/ingrid/core"
)

// Rerank blend: the second-pass signal dominates the raw strategy score.
const (
	rerankOriginalWeight = 0.3
	rerankScoreWeight    = 0.7
)

// Reranker produces a second-pass relevance score in [0, 1] for each
// candidate against the query. Implementations may call out to a
// cross-encoder service or compute a local heuristic.
type Reranker interface {
	// Name identifies the reranker in logs.
	Name() string

	// Rerank returns one score per candidate, aligned by index.
	Rerank(ctx context.Context, query string, candidates []*core.Candidate) ([]float32, error)
}

// TermOverlapReranker scores candidates by the fraction of query terms
// present in their matched content. A local stand-in for a cross-encoder
// with the same contract.
type TermOverlapReranker struct{}

func (TermOverlapReranker) Name() string {
	return "term_overlap"
}

func (TermOverlapReranker) Rerank(_ context.Context, query string, candidates []*core.Candidate) ([]float32, error) {
	scores := make([]float32, len(candidates))
	for i, candidate := range candidates {
		content := candidate.Content
		if content == "" && candidate.Ingredient != nil {
			content = candidate.Ingredient.DisplayName() + " " + candidate.Ingredient.Benefits
		}
		scores[i] = termOverlap(content, query)
	}
	return scores, nil
}

// applyRerank runs the reranker and blends its scores into each
// candidate's combined score. A reranker failure never fails the
// request: candidates keep their raw scores and the outage is logged.
func applyRerank(ctx context.Context, reranker Reranker, query string, candidates []*core.Candidate, logger *slog.Logger) {
	for _, candidate := range candidates {
		candidate.CombinedScore = candidate.Score
	}
	if reranker == nil || len(candidates) == 0 {
		return
	}

	scores, err := reranker.Rerank(ctx, query, candidates)
	if err != nil || len(scores) != len(candidates) {
		logger.Warn("reranker failed, keeping original scores", "reranker", reranker.Name(), "err", err)
		return
	}

	for i, candidate := range candidates {
		score := scores[i]
		if score < 0 {
			score = 0
		} else if score > 1 {
			score = 1
		}
		candidate.RerankScore = &score
		candidate.CombinedScore = rerankOriginalWeight*candidate.Score + rerankScoreWeight*score
	}
}
