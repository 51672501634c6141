// Package foms implements the figures of merit that turn raw measurement
// histograms into a single named quality metric: the packed and true CHSH
// Bell tests, the tilted CHSH variant, and the Grover search benchmark.
//
// Each figure of merit builds its experiment programs through the consumed
// backend capability, submits them sequentially, and reduces the returned
// histograms into a deterministic metric bundle. All parameter validation
// happens before any backend time is consumed.
package foms

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/marcosUNLP/qonscious/backend"
	"github.com/marcosUNLP/qonscious/results"
)

// FigureOfMerit is a quantifiable property of a backend's execution
// quality, computed from one or more experiment outcomes.
type FigureOfMerit interface {
	// Name is the variant discriminator recorded in results and used by
	// suite configuration ("packed-chsh", "true-chsh", ...).
	Name() string

	// Evaluate runs the experiment(s) against the backend and reduces
	// them into a metric bundle. The Properties of the returned result
	// always contain a "score" entry.
	Evaluate(ctx context.Context, adapter backend.Adapter, opts Options) (*results.FigureOfMeritResult, error)
}

// Options tune one evaluation without changing what is measured.
type Options struct {
	// Shots is the total number of repetitions across all circuits of
	// this evaluation. Zero selects the variant's default.
	Shots int

	// Logger receives structured evaluation events. The zero value is
	// silent.
	Logger zerolog.Logger
}

func (o Options) shotsOr(def int) int {
	if o.Shots > 0 {
		return o.Shots
	}
	return def
}

// ConfigurationError reports invalid figure-of-merit construction or
// parameters: odd or too-few qubits, a target outside the search space, more
// targets than the space holds, or a shot budget below the statistical
// floor. It is always raised before any backend interaction.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid figure of merit configuration: " + e.Reason
}
