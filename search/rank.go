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
	"sort"

	"github.com/poiesic/ingrid/core"
)

const (
	// metadataPenalty reflects that a structured-filter hit says less
	// about relevance than a matched term or a close vector.
	metadataPenalty = 0.9

	// Final rerank blend, applied on top of the strategy weighting when a
	// rerank score is present.
	finalWeightedShare = 0.4
	finalRerankShare   = 0.6
)

// FinalRank computes each candidate's final score and orders the list:
// strategy weighting, rerank blending, clamping to [0, 1], then a
// descending sort with ties broken by strategy priority.
func FinalRank(candidates []*core.Candidate, opts *Options) {
	for _, candidate := range candidates {
		weighted := candidate.CombinedScore * strategyWeight(candidate, opts)

		final := weighted
		if candidate.RerankScore != nil {
			final = finalWeightedShare*weighted + finalRerankShare*(*candidate.RerankScore)
		}

		if final < 0 {
			final = 0
		} else if final > 1 {
			final = 1
		}
		candidate.FinalScore = final
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].FinalScore != candidates[j].FinalScore {
			return candidates[i].FinalScore > candidates[j].FinalScore
		}
		pi, pj := candidates[i].BestStrategy().Priority(), candidates[j].BestStrategy().Priority()
		if pi != pj {
			return pi > pj
		}
		return candidates[i].DocumentId < candidates[j].DocumentId
	})
}

// strategyWeight maps a candidate's tags to its ranking weight:
// semantic-tagged scores carry the semantic weight, exact- and
// fuzzy-tagged scores the keyword weight, metadata-only hits the flat
// metadata penalty. A hybrid candidate gets the most favorable weight
// among its tags, so being found by a second strategy never hurts.
func strategyWeight(candidate *core.Candidate, opts *Options) float32 {
	var weight float32
	seen := false
	for _, strategy := range candidate.Strategies {
		var w float32
		switch strategy {
		case core.StrategySemantic:
			w = opts.SemanticWeight
		case core.StrategyExact, core.StrategyFuzzy:
			w = opts.KeywordWeight
		case core.StrategyMetadata:
			w = metadataPenalty
		default:
			continue
		}
		if !seen || w > weight {
			weight, seen = w, true
		}
	}
	if !seen {
		return 1.0
	}
	return weight
}

// Outcome is the filtered result of one search, carrying the counts
// needed to tell "nothing matched" apart from "everything scored below
// the threshold".
type Outcome struct {
	// Results is the final ordered list, at most topK long.
	Results []*core.Candidate

	// CandidateCount is how many merged candidates existed before the
	// threshold filter.
	CandidateCount int

	// BelowThreshold is how many candidates the threshold dropped.
	BelowThreshold int
}

// Empty reports whether the search produced no returnable results.
func (o *Outcome) Empty() bool {
	return len(o.Results) == 0
}

// FilteredOut reports whether results existed but were all dropped by
// the threshold.
func (o *Outcome) FilteredOut() bool {
	return len(o.Results) == 0 && o.CandidateCount > 0
}

// Filter applies the score threshold and result cap to an already-ranked
// candidate list.
func Filter(candidates []*core.Candidate, threshold float32, topK int) *Outcome {
	outcome := &Outcome{CandidateCount: len(candidates)}

	kept := make([]*core.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.FinalScore < threshold {
			outcome.BelowThreshold++
			continue
		}
		kept = append(kept, candidate)
	}
	if len(kept) > topK {
		kept = kept[:topK]
	}
	outcome.Results = kept
	return outcome
}
