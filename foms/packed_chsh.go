package foms

import (
	"context"
	"fmt"
	"time"

	"github.com/marcosUNLP/qonscious/backend"
	"github.com/marcosUNLP/qonscious/results"
)

const defaultPackedCHSHShots = 1024

// PackedCHSH quantifies Bell-inequality violation across n/2 independent
// qubit pairs prepared and measured in a single circuit, with the four CHSH
// settings distributed cyclically over the pairs.
//
// This is the fast approximate variant: it estimates all four setting
// correlations from one submission. TrueCHSH is the statistically canonical
// four-circuit form.
type PackedCHSH struct {
	numQubits int
}

var _ FigureOfMerit = (*PackedCHSH)(nil)

// NewPackedCHSH builds the test for the given total qubit count, which must
// be even and at least 2 to form complete Bell pairs.
func NewPackedCHSH(numQubits int) (*PackedCHSH, error) {
	if numQubits < 2 || numQubits%2 != 0 {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("packed CHSH needs an even qubit count >= 2, got %d", numQubits),
		}
	}
	return &PackedCHSH{numQubits: numQubits}, nil
}

func (p *PackedCHSH) Name() string { return "packed-chsh" }

// NumQubits reports the total width of the experiment circuit.
func (p *PackedCHSH) NumQubits() int { return p.numQubits }

func (p *PackedCHSH) Evaluate(ctx context.Context, adapter backend.Adapter, opts Options) (*results.FigureOfMeritResult, error) {
	if adapter.QubitCount() < p.numQubits {
		return nil, &backend.CapabilityError{
			Reason: fmt.Sprintf("packed CHSH needs %d qubits, backend has %d", p.numQubits, adapter.QubitCount()),
		}
	}
	shots := opts.shotsOr(defaultPackedCHSHShots)

	prog, err := p.buildProgram(adapter)
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug().Str("fom", p.Name()).Int("qubits", p.numQubits).Int("shots", shots).
		Msg("submitting packed CHSH circuit")
	run, err := adapter.Run(ctx, prog, shots)
	if err != nil {
		return nil, err
	}

	props, err := ParallelCHSHScores(run.Counts, p.numQubits)
	if err != nil {
		return nil, err
	}
	return &results.FigureOfMeritResult{
		Timestamp:         time.Now().UTC(),
		FigureOfMerit:     p.Name(),
		Properties:        props,
		ExperimentResults: []*results.ExperimentResult{run},
	}, nil
}

// buildProgram prepares a maximally entangled pair on each (2i, 2i+1) and
// rotates the second qubit of pair k by the setting angle k mod 4, so the
// four CHSH settings are realized simultaneously across the pair groups.
func (p *PackedCHSH) buildProgram(adapter backend.Adapter) (backend.Program, error) {
	prog, err := adapter.NewProgram(p.numQubits, p.numQubits)
	if err != nil {
		return nil, err
	}
	for i := 0; i < p.numQubits; i += 2 {
		if err := prog.H(i); err != nil {
			return nil, err
		}
		if err := prog.CX(i, i+1); err != nil {
			return nil, err
		}
		pair := i / 2
		if err := prog.RY(settingAngles[pair%4], i+1); err != nil {
			return nil, err
		}
	}
	qubits := make([]int, p.numQubits)
	clbits := make([]int, p.numQubits)
	for i := range qubits {
		qubits[i] = i
		clbits[i] = i
	}
	if err := prog.Measure(qubits, clbits); err != nil {
		return nil, err
	}
	return prog, nil
}

// ParallelCHSHScores reduces a packed-circuit histogram into the four
// setting correlations and the canonical CHSH score S = E00+E01+E10-E11.
// Pairs sharing a setting (pair index mod 4) contribute to the same
// correlation. Settings with no pairs have correlation 0.
func ParallelCHSHScores(counts map[string]int, numQubits int) (map[string]any, error) {
	if numQubits < 2 || numQubits%2 != 0 {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("parallel CHSH scoring needs an even qubit count >= 2, got %d", numQubits),
		}
	}
	if err := results.ValidateCounts(counts, numQubits, 0); err != nil {
		return nil, err
	}

	numPairs := numQubits / 2
	pairs := pairJointCounts(counts, numPairs)

	// Merge pairs that realize the same setting, then correlate.
	settings := [4]map[string]int{}
	for s := range settings {
		settings[s] = make(map[string]int, 4)
	}
	for i, pc := range pairs {
		for outcome, n := range pc {
			settings[i%4][outcome] += n
		}
	}

	var e [4]float64
	for s := range settings {
		e[s] = PairCorrelation(settings[s])
	}

	props := map[string]any{
		"pairs": numPairs,
		"score": CHSHFromSettings(e),
	}
	for s, label := range settingLabels {
		props[label] = e[s]
	}
	return props, nil
}
