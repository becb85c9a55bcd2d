package search

import "github.com/poiesic/ingrid/core"

// Monitor provides hooks to observe the search pipeline.
// Implement this interface to track intermediate steps and results
// during search.
type Monitor interface {
	Start(query string)
	AfterClassification(classification *core.QueryClassification)
	AfterStrategy(strategy core.Strategy, candidates []*core.Candidate, err error)
	ShortCircuit(score float32)
	AfterMerge(candidates []*core.Candidate)
	AfterRerank(candidates []*core.Candidate)
	Finish(outcome *Outcome)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                        {}
func (n *noopMonitor) AfterClassification(_ *core.QueryClassification)       {}
func (n *noopMonitor) AfterStrategy(_ core.Strategy, _ []*core.Candidate, _ error) {}
func (n *noopMonitor) ShortCircuit(_ float32)                                {}
func (n *noopMonitor) AfterMerge(_ []*core.Candidate)                        {}
func (n *noopMonitor) AfterRerank(_ []*core.Candidate)                       {}
func (n *noopMonitor) Finish(_ *Outcome)                                     {}
