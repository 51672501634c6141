package foms

import (
	"context"
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/marcosUNLP/qonscious/backend"
	"github.com/marcosUNLP/qonscious/results"
)

const (
	defaultTrueCHSHShots = 4096

	// minShotsPerSetting is the statistical floor for each of the four
	// setting circuits after the total shot budget is divided.
	minShotsPerSetting = 10

	// classicalBound is the CHSH limit no classical correlation exceeds.
	classicalBound = 2.0
)

// TrueCHSH is the statistically canonical CHSH test: one circuit per
// measurement setting, submitted sequentially, with every Bell pair rotated
// by that setting's angle. Per-pair correlations from the four circuits are
// combined into per-pair CHSH scores.
type TrueCHSH struct {
	numQubits int
}

var _ FigureOfMerit = (*TrueCHSH)(nil)

// NewTrueCHSH builds the test for the given qubit count (even, >= 2).
func NewTrueCHSH(numQubits int) (*TrueCHSH, error) {
	if numQubits < 2 || numQubits%2 != 0 {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("true CHSH needs an even qubit count >= 2, got %d", numQubits),
		}
	}
	return &TrueCHSH{numQubits: numQubits}, nil
}

func (t *TrueCHSH) Name() string { return "true-chsh" }

// NumQubits reports the width of each setting circuit.
func (t *TrueCHSH) NumQubits() int { return t.numQubits }

func (t *TrueCHSH) Evaluate(ctx context.Context, adapter backend.Adapter, opts Options) (*results.FigureOfMeritResult, error) {
	if adapter.QubitCount() < t.numQubits {
		return nil, &backend.CapabilityError{
			Reason: fmt.Sprintf("true CHSH needs %d qubits, backend has %d", t.numQubits, adapter.QubitCount()),
		}
	}
	total := opts.shotsOr(defaultTrueCHSHShots)
	shotsPer := total / len(settingAngles)
	if shotsPer < minShotsPerSetting {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("%d total shots leave %d per setting, need at least %d",
				total, shotsPer, minShotsPerSetting),
		}
	}

	numPairs := t.numQubits / 2

	// One circuit per setting, submitted in order; aggregation below pairs
	// results by index with their originating setting.
	runs := make([]*results.ExperimentResult, 0, len(settingAngles))
	correlations := [4][]float64{}
	for s, angle := range settingAngles {
		prog, err := t.buildProgram(adapter, angle)
		if err != nil {
			return nil, err
		}
		opts.Logger.Debug().Str("fom", t.Name()).Str("setting", settingLabels[s]).
			Int("shots", shotsPer).Msg("submitting CHSH setting circuit")
		run, err := adapter.Run(ctx, prog, shotsPer)
		if err != nil {
			return nil, err
		}
		if err := results.ValidateCounts(run.Counts, t.numQubits, 0); err != nil {
			return nil, err
		}
		runs = append(runs, run)

		pairs := pairJointCounts(run.Counts, numPairs)
		es := make([]float64, numPairs)
		for i, pc := range pairs {
			es[i] = PairCorrelation(pc)
		}
		correlations[s] = es
	}

	pairScores := make([]float64, numPairs)
	violates := false
	for i := 0; i < numPairs; i++ {
		s := CHSHFromSettings([4]float64{
			correlations[0][i], correlations[1][i], correlations[2][i], correlations[3][i],
		})
		pairScores[i] = s
		if s > classicalBound {
			violates = true
		}
	}

	props := map[string]any{
		"pairs":              numPairs,
		"pair_scores":        pairScores,
		"score":              stat.Mean(pairScores, nil),
		"violates_classical": violates,
		"shots_per_setting":  shotsPer,
	}
	for s, label := range settingLabels {
		props[label] = correlations[s]
	}
	return &results.FigureOfMeritResult{
		Timestamp:         time.Now().UTC(),
		FigureOfMerit:     t.Name(),
		Properties:        props,
		ExperimentResults: runs,
	}, nil
}

func (t *TrueCHSH) buildProgram(adapter backend.Adapter, angle float64) (backend.Program, error) {
	prog, err := adapter.NewProgram(t.numQubits, t.numQubits)
	if err != nil {
		return nil, err
	}
	for i := 0; i < t.numQubits; i += 2 {
		if err := prog.H(i); err != nil {
			return nil, err
		}
		if err := prog.CX(i, i+1); err != nil {
			return nil, err
		}
		if err := prog.RY(angle, i+1); err != nil {
			return nil, err
		}
	}
	qubits := make([]int, t.numQubits)
	clbits := make([]int, t.numQubits)
	for i := range qubits {
		qubits[i] = i
		clbits[i] = i
	}
	if err := prog.Measure(qubits, clbits); err != nil {
		return nil, err
	}
	return prog, nil
}

// TrueCHSHScores combines four per-setting joint histograms for a single
// pair into its CHSH score. Exposed for offline scoring of stored results.
func TrueCHSHScores(settings [4]map[string]int) float64 {
	var e [4]float64
	for s := range settings {
		e[s] = PairCorrelation(settings[s])
	}
	return CHSHFromSettings(e)
}
