// Package results defines the value types that flow between backend
// adapters, figures of merit, compliance checks and the conditional
// executor. Every type here is produced by exactly one stage and treated
// as immutable by everything downstream.
package results

import "time"

// BackendProperties identifies the backend that produced a result. Name is
// the only required field; adapters may attach anything else in Extra.
type BackendProperties struct {
	Name  string         `json:"name"`
	Extra map[string]any `json:"extra,omitempty"`
}

// Timestamps are optional lifecycle markers for a single submission.
// When set they are ordered: Created <= Running <= Finished.
type Timestamps struct {
	Created  time.Time `json:"created,omitempty"`
	Running  time.Time `json:"running,omitempty"`
	Finished time.Time `json:"finished,omitempty"`
}

// ExperimentResult is the standardized outcome of running one program for a
// number of shots. Counts maps fixed-width bitstrings to occurrence counts;
// for a well-formed single-circuit result the counts sum to Shots.
type ExperimentResult struct {
	Counts            map[string]int    `json:"counts"`
	Shots             int               `json:"shots"`
	BackendProperties BackendProperties `json:"backend_properties"`
	Timestamps        Timestamps        `json:"timestamps,omitempty"`

	// Raw is the native backend payload, carried through opaquely.
	Raw any `json:"-"`
}

// FigureOfMeritResult is the named metric bundle a figure of merit reduces
// its experiment outcomes into. Properties always contains a "score" entry;
// it is deterministic given ExperimentResults.
type FigureOfMeritResult struct {
	Timestamp     time.Time      `json:"timestamp"`
	FigureOfMerit string         `json:"figure_of_merit"`
	Properties    map[string]any `json:"properties"`

	// ExperimentResults holds one entry per submitted circuit, in
	// submission order. Single-circuit figures of merit have exactly one.
	ExperimentResults []*ExperimentResult `json:"experiment_results"`
}

// Score returns the "score" property as a float64.
func (r *FigureOfMeritResult) Score() (float64, bool) {
	return Number(r.Properties, "score")
}

// MeritComplianceResult pairs a figure-of-merit result with the verdict of
// the decision bound to it. Passed is always decision(FomResult.Properties).
type MeritComplianceResult struct {
	FomResult *FigureOfMeritResult `json:"fom_result"`
	Passed    bool                 `json:"passed"`
}

// Run conditions reported by the executor.
const (
	ConditionPass = "pass"
	ConditionFail = "fail"
)

// QonsciousResult is the outcome of one conditional-executor invocation.
// It is created once per run and never mutated after return.
type QonsciousResult struct {
	RunID                string                 `json:"run_id"`
	Condition            string                 `json:"condition"`
	FigureOfMeritResults []*FigureOfMeritResult `json:"figures_of_merit_results"`

	// ActionResult is whatever the dispatched action returned, opaque to
	// the executor.
	ActionResult any `json:"action_result,omitempty"`
}

// Passed reports whether every check accepted its metric bundle.
func (r *QonsciousResult) Passed() bool {
	return r.Condition == ConditionPass
}

// Number extracts a numeric property, coercing the integer and float types
// that survive JSON round-trips.
func Number(props map[string]any, key string) (float64, bool) {
	v, ok := props[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
