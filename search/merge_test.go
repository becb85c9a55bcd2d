package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/ingrid/core"
)

func mergeCandidate(id core.ID, strategy core.Strategy, score float32) *core.Candidate {
	return &core.Candidate{
		DocumentId: id,
		Score:      score,
		Strategies: []core.Strategy{strategy},
		Metadata:   map[string]string{"origin": strategy.String()},
	}
}

func TestMerge_KeepsMaxScoreAndUnionsTags(t *testing.T) {
	byStrategy := map[core.Strategy][]*core.Candidate{
		core.StrategyFuzzy:    {mergeCandidate(42, core.StrategyFuzzy, 0.65)},
		core.StrategySemantic: {mergeCandidate(42, core.StrategySemantic, 0.72)},
	}

	merged := Merge(byStrategy)
	require.Len(t, merged, 1)

	candidate := merged[0]
	assert.Equal(t, core.ID(42), candidate.DocumentId)
	assert.Equal(t, float32(0.72), candidate.Score)
	assert.True(t, candidate.Hybrid())
	assert.Equal(t, "hybrid", candidate.StrategyTag())
	assert.True(t, candidate.HasStrategy(core.StrategyFuzzy))
	assert.True(t, candidate.HasStrategy(core.StrategySemantic))
}

func TestMerge_NoDuplicateIds(t *testing.T) {
	byStrategy := map[core.Strategy][]*core.Candidate{
		core.StrategyExact:    {mergeCandidate(1, core.StrategyExact, 1.0), mergeCandidate(2, core.StrategyExact, 0.8)},
		core.StrategyMetadata: {mergeCandidate(1, core.StrategyMetadata, 0.8)},
		core.StrategySemantic: {mergeCandidate(2, core.StrategySemantic, 0.9), mergeCandidate(3, core.StrategySemantic, 0.5)},
	}

	merged := Merge(byStrategy)
	require.Len(t, merged, 3)

	seen := make(map[core.ID]bool)
	for _, candidate := range merged {
		assert.False(t, seen[candidate.DocumentId], "duplicate id %d survived merge", candidate.DocumentId)
		seen[candidate.DocumentId] = true
	}
}

// The merged scores and tags must not depend on which strategy finished
// first, only on what each strategy found.
func TestMerge_Commutative(t *testing.T) {
	build := func(order []core.Strategy) []*core.Candidate {
		byStrategy := make(map[core.Strategy][]*core.Candidate)
		for _, strategy := range order {
			switch strategy {
			case core.StrategyExact:
				byStrategy[strategy] = []*core.Candidate{mergeCandidate(1, strategy, 1.0)}
			case core.StrategyMetadata:
				byStrategy[strategy] = []*core.Candidate{mergeCandidate(1, strategy, 0.8), mergeCandidate(2, strategy, 0.8)}
			case core.StrategyFuzzy:
				byStrategy[strategy] = []*core.Candidate{mergeCandidate(2, strategy, 0.7)}
			case core.StrategySemantic:
				byStrategy[strategy] = []*core.Candidate{mergeCandidate(1, strategy, 0.9), mergeCandidate(3, strategy, 0.6)}
			}
		}
		return Merge(byStrategy)
	}

	permutations := [][]core.Strategy{
		{core.StrategyExact, core.StrategyMetadata, core.StrategyFuzzy, core.StrategySemantic},
		{core.StrategySemantic, core.StrategyFuzzy, core.StrategyMetadata, core.StrategyExact},
		{core.StrategyMetadata, core.StrategySemantic, core.StrategyExact, core.StrategyFuzzy},
		{core.StrategyFuzzy, core.StrategyExact, core.StrategySemantic, core.StrategyMetadata},
	}

	reference := build(permutations[0])
	for _, permutation := range permutations[1:] {
		merged := build(permutation)
		require.Len(t, merged, len(reference))
		for i := range reference {
			assert.Equal(t, reference[i].DocumentId, merged[i].DocumentId)
			assert.Equal(t, reference[i].Score, merged[i].Score)
			assert.Equal(t, reference[i].Strategies, merged[i].Strategies)
		}
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	fuzzy := mergeCandidate(7, core.StrategyFuzzy, 0.65)
	semantic := mergeCandidate(7, core.StrategySemantic, 0.72)

	Merge(map[core.Strategy][]*core.Candidate{
		core.StrategyFuzzy:    {fuzzy},
		core.StrategySemantic: {semantic},
	})

	assert.Equal(t, []core.Strategy{core.StrategyFuzzy}, fuzzy.Strategies)
	assert.Equal(t, float32(0.65), fuzzy.Score)
	assert.Equal(t, []core.Strategy{core.StrategySemantic}, semantic.Strategies)
}

func TestMerge_Empty(t *testing.T) {
	merged := Merge(map[core.Strategy][]*core.Candidate{})
	assert.Empty(t, merged)
}
