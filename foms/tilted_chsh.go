package foms

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/marcosUNLP/qonscious/backend"
	"github.com/marcosUNLP/qonscious/results"
)

const defaultTiltedCHSHShots = 100000

// etaFloor is the detection efficiency below which the tilted inequality
// loses its quantum advantage.
const etaFloor = 0.66

// TiltedCHSH is the tilted CHSH test for imperfect detectors or readout.
// It prepares the partially entangled state optimal for the given symmetric
// detection efficiency eta and measures the tilted combination
// S_tilted = A0B0 + A0B1 + A1B0 - A1B1 + alpha*<A1> over five sequential
// two-qubit circuits (four setting combinations plus one for <A1>).
type TiltedCHSH struct {
	eta   float64
	alpha float64
	beta  float64
}

var _ FigureOfMerit = (*TiltedCHSH)(nil)

// NewTiltedCHSH builds the test for a symmetric detection efficiency eta in
// (0.66, 1]. At eta = 1 it reduces to the standard CHSH state and bound.
func NewTiltedCHSH(eta float64) (*TiltedCHSH, error) {
	if eta <= etaFloor || eta > 1 {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("tilted CHSH needs eta in (%.2f, 1], got %g", etaFloor, eta),
		}
	}
	alpha := 0.0
	if eta < 1 {
		alpha = 1/eta - 1
	}
	beta := math.Pi / 4
	if alpha > 0 {
		beta = math.Atan(math.Sqrt(alpha))
	}
	return &TiltedCHSH{eta: eta, alpha: alpha, beta: beta}, nil
}

func (t *TiltedCHSH) Name() string { return "tilted-chsh" }

// MaxQuantumBound is the tilted analogue of 2*sqrt(2).
func (t *TiltedCHSH) MaxQuantumBound() float64 {
	return 2 * math.Sqrt(2*(1+t.alpha))
}

func (t *TiltedCHSH) Evaluate(ctx context.Context, adapter backend.Adapter, opts Options) (*results.FigureOfMeritResult, error) {
	if adapter.QubitCount() < 2 {
		return nil, &backend.CapabilityError{
			Reason: fmt.Sprintf("tilted CHSH needs 2 qubits, backend has %d", adapter.QubitCount()),
		}
	}
	shots := opts.shotsOr(defaultTiltedCHSHShots)

	runs := make([]*results.ExperimentResult, 0, 5)
	expectations := make(map[string]float64, 4)
	for a := 0; a < 2; a++ {
		for b := 0; b < 2; b++ {
			prog, err := t.buildSettingProgram(adapter, a, b)
			if err != nil {
				return nil, err
			}
			opts.Logger.Debug().Str("fom", t.Name()).Int("alice", a).Int("bob", b).
				Int("shots", shots).Msg("submitting tilted CHSH setting circuit")
			run, err := adapter.Run(ctx, prog, shots)
			if err != nil {
				return nil, err
			}
			if err := results.ValidateCounts(run.Counts, 2, 0); err != nil {
				return nil, err
			}
			runs = append(runs, run)
			expectations[fmt.Sprintf("A%dB%d", a, b)] = PairCorrelation(run.Counts)
		}
	}

	// Fifth circuit measures <A1> (Alice in the X basis) alone.
	progA1, err := t.buildA1Program(adapter)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug().Str("fom", t.Name()).Int("shots", shots).
		Msg("submitting tilted CHSH A1 circuit")
	runA1, err := adapter.Run(ctx, progA1, shots)
	if err != nil {
		return nil, err
	}
	if err := results.ValidateCounts(runA1.Counts, 1, 0); err != nil {
		return nil, err
	}
	runs = append(runs, runA1)
	a1 := singleExpectation(runA1.Counts)

	rawCHSH := expectations["A0B0"] + expectations["A0B1"] + expectations["A1B0"] - expectations["A1B1"]
	score := rawCHSH + t.alpha*a1
	bound := t.MaxQuantumBound()

	return &results.FigureOfMeritResult{
		Timestamp:     time.Now().UTC(),
		FigureOfMerit: t.Name(),
		Properties: map[string]any{
			"score":              score,
			"raw_chsh":           rawCHSH,
			"alpha":              t.alpha,
			"eta":                t.eta,
			"a1_expectation":     a1,
			"expectations":       expectations,
			"max_quantum_bound":  bound,
			"quantum_efficiency": score / bound,
		},
		ExperimentResults: runs,
	}, nil
}

// buildSettingProgram prepares the tilted state RY(2*beta) |00> -> CX and
// applies the setting: Alice A0 = Z (identity), A1 = X (Hadamard); Bob B0
// and B1 are RY rotations at -pi/4 and +pi/4.
func (t *TiltedCHSH) buildSettingProgram(adapter backend.Adapter, alice, bob int) (backend.Program, error) {
	prog, err := adapter.NewProgram(2, 2)
	if err != nil {
		return nil, err
	}
	if err := prog.RY(2*t.beta, 0); err != nil {
		return nil, err
	}
	if err := prog.CX(0, 1); err != nil {
		return nil, err
	}
	if alice == 1 {
		if err := prog.H(0); err != nil {
			return nil, err
		}
	}
	angle := -math.Pi / 4
	if bob == 1 {
		angle = math.Pi / 4
	}
	if err := prog.RY(angle, 1); err != nil {
		return nil, err
	}
	if err := prog.Measure([]int{0, 1}, []int{0, 1}); err != nil {
		return nil, err
	}
	return prog, nil
}

func (t *TiltedCHSH) buildA1Program(adapter backend.Adapter) (backend.Program, error) {
	prog, err := adapter.NewProgram(2, 1)
	if err != nil {
		return nil, err
	}
	if err := prog.RY(2*t.beta, 0); err != nil {
		return nil, err
	}
	if err := prog.CX(0, 1); err != nil {
		return nil, err
	}
	if err := prog.H(0); err != nil {
		return nil, err
	}
	if err := prog.Measure([]int{0}, []int{0}); err != nil {
		return nil, err
	}
	return prog, nil
}

// singleExpectation computes <Z> for a one-bit histogram: +1 for outcome 0,
// -1 for outcome 1, 0 for an empty histogram.
func singleExpectation(counts map[string]int) float64 {
	total := 0
	signed := 0
	for outcome, n := range counts {
		total += n
		if len(outcome) > 0 && outcome[len(outcome)-1] == '0' {
			signed += n
		} else {
			signed -= n
		}
	}
	if total == 0 {
		return 0
	}
	return float64(signed) / float64(total)
}
