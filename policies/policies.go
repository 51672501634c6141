// Package policies maps metric bundles to accept/reject verdicts. Decisions
// are pure: they never mutate their input and have no side effects, so
// "below threshold" stays cleanly separated from "could not measure".
package policies

import "github.com/marcosUNLP/qonscious/results"

// Decision decides whether a figure-of-merit property bundle is acceptable.
type Decision interface {
	Decide(props map[string]any) bool
}

// DecisionFunc adapts an arbitrary predicate over the full property bundle.
type DecisionFunc func(props map[string]any) bool

func (f DecisionFunc) Decide(props map[string]any) bool { return f(props) }

// MinimumScore accepts when a numeric property meets a threshold
// (value >= Threshold). A missing or non-numeric property is a rejection,
// never a panic.
type MinimumScore struct {
	// Key selects the property to compare; empty means "score".
	Key       string
	Threshold float64
}

func (m MinimumScore) Decide(props map[string]any) bool {
	key := m.Key
	if key == "" {
		key = "score"
	}
	v, ok := results.Number(props, key)
	return ok && v >= m.Threshold
}

// AlwaysPass accepts every bundle. Useful for collecting metrics without
// gating on them.
type AlwaysPass struct{}

func (AlwaysPass) Decide(map[string]any) bool { return true }
