package search

import (
	"sort"

	"github.com/poiesic/ingrid/core"
)

// Merge deduplicates candidates across strategies by document identity.
// When more than one strategy found the same document, the merged
// candidate keeps the maximum raw score, unions the strategy tags, and
// carries the content and metadata of the strongest contribution.
//
// The result depends only on the contents of byStrategy, never on the
// order the strategies finished in: contributions are folded in a fixed
// strategy order, and conflicts resolve by score then strategy priority.
func Merge(byStrategy map[core.Strategy][]*core.Candidate) []*core.Candidate {
	strategies := make([]core.Strategy, 0, len(byStrategy))
	for strategy := range byStrategy {
		strategies = append(strategies, strategy)
	}
	sort.Slice(strategies, func(i, j int) bool {
		return strategies[i].Priority() > strategies[j].Priority()
	})

	merged := make(map[core.ID]*core.Candidate)
	var order []core.ID

	for _, strategy := range strategies {
		for _, candidate := range byStrategy[strategy] {
			existing, ok := merged[candidate.DocumentId]
			if !ok {
				merged[candidate.DocumentId] = cloneCandidate(candidate)
				order = append(order, candidate.DocumentId)
				continue
			}
			mergeInto(existing, candidate)
		}
	}

	result := make([]*core.Candidate, 0, len(order))
	for _, id := range order {
		result = append(result, merged[id])
	}
	sortCandidatesByScore(result)
	return result
}

// mergeInto folds a later contribution into an already-merged candidate.
// Strategies iterate in descending priority, so a strictly higher score
// is the only reason to replace the kept content and metadata.
func mergeInto(existing, candidate *core.Candidate) {
	if candidate.Score > existing.Score {
		existing.Score = candidate.Score
		existing.Content = candidate.Content
		existing.Metadata = copyMetadata(candidate.Metadata)
		if existing.Ingredient == nil {
			existing.Ingredient = candidate.Ingredient
		}
	}
	for _, strategy := range candidate.Strategies {
		existing.AddStrategy(strategy)
	}
}

func cloneCandidate(candidate *core.Candidate) *core.Candidate {
	clone := *candidate
	clone.Strategies = append([]core.Strategy(nil), candidate.Strategies...)
	clone.Metadata = copyMetadata(candidate.Metadata)
	return &clone
}

func copyMetadata(metadata map[string]string) map[string]string {
	if metadata == nil {
		return nil
	}
	copied := make(map[string]string, len(metadata))
	for k, v := range metadata {
		copied[k] = v
	}
	return copied
}
