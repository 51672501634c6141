package foms

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/marcosUNLP/qonscious/backend"
	"github.com/marcosUNLP/qonscious/results"
)

// MinQubits is the smallest search register Grover is meaningful on;
// below two qubits there is nothing to entangle.
const MinQubits = 2

const defaultGroverShots = 2000

// GroverConfig configures the Grover search benchmark.
type GroverConfig struct {
	// NumTargets is how many marked states to benchmark against. Ignored
	// when Targets is set explicitly.
	NumTargets int

	// Lambda weights the spread of per-target probabilities; Mu weights
	// the probability mass leaking outside the targets.
	Lambda float64
	Mu     float64

	// NumQubits fixes the search register width. Zero infers it from the
	// targets (or target count), floored at MinQubits.
	NumQubits int

	// Targets selects marked states explicitly. Nil samples NumTargets
	// states uniformly without replacement.
	Targets []int

	// Seed makes target sampling reproducible. Zero uses the clock.
	Seed int64

	// Shots per evaluation. Zero uses the default of 2000. This is
	// configuration, never derived from the search space.
	Shots int
}

// Grover scores how well a backend amplifies marked states via Grover's
// algorithm: uniform superposition, R rounds of oracle + diffusion, then a
// full measurement whose histogram is reduced to a noise-penalized score.
type Grover struct {
	cfg       GroverConfig
	numQubits int
	targets   []string
}

var _ FigureOfMerit = (*Grover)(nil)

// NewGrover validates the configuration and resolves the search space and
// target set. All validation happens here, before any backend time is
// consumed; Evaluate is deterministic given the experiment outcome.
func NewGrover(cfg GroverConfig) (*Grover, error) {
	n, err := resolveWidth(cfg)
	if err != nil {
		return nil, err
	}
	space := 1 << n

	var chosen []int
	if cfg.Targets == nil {
		if cfg.NumTargets < 1 {
			return nil, &ConfigurationError{Reason: "grover needs at least one target"}
		}
		if cfg.NumTargets > space {
			return nil, &ConfigurationError{
				Reason: fmt.Sprintf("%d targets requested but the search space holds %d states",
					cfg.NumTargets, space),
			}
		}
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng := rand.New(rand.NewSource(seed))
		chosen = rng.Perm(space)[:cfg.NumTargets]
	} else {
		if len(cfg.Targets) == 0 {
			return nil, &ConfigurationError{Reason: "grover needs at least one target"}
		}
		seen := make(map[int]bool, len(cfg.Targets))
		for _, t := range cfg.Targets {
			if t < 0 || t >= space {
				return nil, &ConfigurationError{
					Reason: fmt.Sprintf("target %d outside search space [0,%d)", t, space),
				}
			}
			if seen[t] {
				return nil, &ConfigurationError{Reason: fmt.Sprintf("duplicate target %d", t)}
			}
			seen[t] = true
		}
		chosen = append([]int{}, cfg.Targets...)
	}

	targets := make([]string, len(chosen))
	for i, t := range chosen {
		targets[i] = results.FormatBitstring(t, n)
	}
	return &Grover{cfg: cfg, numQubits: n, targets: targets}, nil
}

// resolveWidth picks the effective register width: explicit, or inferred
// from the largest target index or the requested target count.
func resolveWidth(cfg GroverConfig) (int, error) {
	if cfg.NumQubits != 0 {
		if cfg.NumQubits < MinQubits {
			return 0, &ConfigurationError{
				Reason: fmt.Sprintf("grover needs at least %d qubits, got %d", MinQubits, cfg.NumQubits),
			}
		}
		return cfg.NumQubits, nil
	}
	inferred := 1
	if len(cfg.Targets) > 0 {
		maxTarget := 0
		for _, t := range cfg.Targets {
			if t > maxTarget {
				maxTarget = t
			}
		}
		if maxTarget > 0 {
			inferred = int(math.Ceil(math.Log2(float64(maxTarget + 1))))
		}
	} else if cfg.NumTargets > 1 {
		inferred = int(math.Ceil(math.Log2(float64(cfg.NumTargets))))
	}
	if inferred < MinQubits {
		inferred = MinQubits
	}
	return inferred, nil
}

func (g *Grover) Name() string { return "grover" }

// NumQubits reports the resolved search register width.
func (g *Grover) NumQubits() int { return g.numQubits }

// Targets reports the marked states as zero-padded bitstrings.
func (g *Grover) Targets() []string { return append([]string{}, g.targets...) }

// OptimalRounds is the Grover iteration count floor((pi/4)*sqrt(N/M)),
// clamped to a minimum of 0.
func OptimalRounds(space, targets int) int {
	r := int(math.Floor(math.Pi / 4 * math.Sqrt(float64(space)/float64(targets))))
	if r < 0 {
		return 0
	}
	return r
}

func (g *Grover) Evaluate(ctx context.Context, adapter backend.Adapter, opts Options) (*results.FigureOfMeritResult, error) {
	if adapter.QubitCount() < g.numQubits {
		return nil, &backend.CapabilityError{
			Reason: fmt.Sprintf("grover needs %d qubits, backend has %d", g.numQubits, adapter.QubitCount()),
		}
	}
	shots := opts.Shots
	if shots == 0 {
		shots = g.cfg.Shots
	}
	if shots == 0 {
		shots = defaultGroverShots
	}

	space := 1 << g.numQubits
	rounds := OptimalRounds(space, len(g.targets))

	prog, err := g.buildProgram(adapter, rounds)
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug().Str("fom", g.Name()).Int("qubits", g.numQubits).
		Int("rounds", rounds).Int("shots", shots).Msg("submitting grover circuit")
	run, err := adapter.Run(ctx, prog, shots)
	if err != nil {
		return nil, err
	}
	if err := results.ValidateCounts(run.Counts, g.numQubits, 0); err != nil {
		return nil, err
	}

	props, err := GroverScore(run.Counts, g.targets, run.Shots, g.cfg.Lambda, g.cfg.Mu)
	if err != nil {
		return nil, err
	}
	props["num_qubits"] = g.numQubits
	props["search_space_size"] = space
	props["grover_iterations"] = rounds
	props["target_states"] = append([]string{}, g.targets...)
	props["shots"] = shots
	props["lambda"] = g.cfg.Lambda
	props["mu"] = g.cfg.Mu

	return &results.FigureOfMeritResult{
		Timestamp:         time.Now().UTC(),
		FigureOfMerit:     g.Name(),
		Properties:        props,
		ExperimentResults: []*results.ExperimentResult{run},
	}, nil
}

func (g *Grover) buildProgram(adapter backend.Adapter, rounds int) (backend.Program, error) {
	n := g.numQubits
	prog, err := adapter.NewProgram(n, n)
	if err != nil {
		return nil, err
	}
	for q := 0; q < n; q++ {
		if err := prog.H(q); err != nil {
			return nil, err
		}
	}

	oracle, err := g.buildOracle(adapter)
	if err != nil {
		return nil, err
	}
	diffusion, err := buildDiffusion(adapter, n)
	if err != nil {
		return nil, err
	}

	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	for r := 0; r < rounds; r++ {
		if err := prog.Compose(oracle, all); err != nil {
			return nil, err
		}
		if err := prog.Compose(diffusion, all); err != nil {
			return nil, err
		}
	}
	if err := prog.Measure(all, all); err != nil {
		return nil, err
	}
	return prog, nil
}

// buildOracle phase-flips exactly the marked bitstrings: for each target,
// X gates map it to |1...1>, a Hadamard-wrapped multi-controlled not
// applies the sign flip, and the X gates are undone.
func (g *Grover) buildOracle(adapter backend.Adapter) (backend.Program, error) {
	n := g.numQubits
	oracle, err := adapter.NewProgram(n, n)
	if err != nil {
		return nil, err
	}
	tgt := n - 1
	controls := make([]int, n-1)
	for i := range controls {
		controls[i] = i
	}
	for _, bitstring := range g.targets {
		bits := results.ReverseBits(bitstring)
		var zeros []int
		for i := 0; i < len(bits); i++ {
			if bits[i] == '0' {
				zeros = append(zeros, i)
			}
		}
		for _, q := range zeros {
			if err := oracle.X(q); err != nil {
				return nil, err
			}
		}
		if err := oracle.H(tgt); err != nil {
			return nil, err
		}
		if err := oracle.MCX(controls, tgt); err != nil {
			return nil, err
		}
		if err := oracle.H(tgt); err != nil {
			return nil, err
		}
		for _, q := range zeros {
			if err := oracle.X(q); err != nil {
				return nil, err
			}
		}
	}
	return oracle, nil
}

// buildDiffusion reflects the state about the uniform superposition.
func buildDiffusion(adapter backend.Adapter, n int) (backend.Program, error) {
	diff, err := adapter.NewProgram(n, n)
	if err != nil {
		return nil, err
	}
	tgt := n - 1
	controls := make([]int, n-1)
	for i := range controls {
		controls[i] = i
	}
	for q := 0; q < n; q++ {
		if err := diff.H(q); err != nil {
			return nil, err
		}
	}
	for q := 0; q < n; q++ {
		if err := diff.X(q); err != nil {
			return nil, err
		}
	}
	if err := diff.H(tgt); err != nil {
		return nil, err
	}
	if err := diff.MCX(controls, tgt); err != nil {
		return nil, err
	}
	if err := diff.H(tgt); err != nil {
		return nil, err
	}
	for q := 0; q < n; q++ {
		if err := diff.X(q); err != nil {
			return nil, err
		}
	}
	for q := 0; q < n; q++ {
		if err := diff.H(q); err != nil {
			return nil, err
		}
	}
	return diff, nil
}

// GroverScore reduces a measurement histogram into the noise-penalized
// benchmark score. P_T is the probability mass on target states, P_N the
// rest, sigma_T the population standard deviation of per-target
// probabilities. The raw score P_T - lambda*sigma_T - mu*P_N is clamped to
// zero, and forced to zero whenever mu*P_N >= P_T so that targets
// indistinguishable from noise never score.
func GroverScore(counts map[string]int, targets []string, shots int, lambda, mu float64) (map[string]any, error) {
	if shots <= 0 {
		return nil, &results.ResultFormatError{Reason: "zero shots: probability denominator required"}
	}
	probs := make(map[string]float64, len(counts))
	for bits, n := range counts {
		if n < 0 {
			return nil, &results.ResultFormatError{Reason: fmt.Sprintf("negative count for %q", bits)}
		}
		probs[bits] = float64(n) / float64(shots)
	}

	pTarget := 0.0
	perTarget := make([]float64, len(targets))
	for i, t := range targets {
		perTarget[i] = probs[t]
		pTarget += probs[t]
	}
	pNoise := 1 - pTarget

	sigma := 0.0
	if len(targets) > 0 {
		sigma = stat.PopStdDev(perTarget, nil)
	}

	raw := pTarget - lambda*sigma - mu*pNoise
	score := 0.0
	if mu*pNoise < pTarget {
		score = math.Max(0, raw)
	}
	return map[string]any{
		"score":   score,
		"p_t":     pTarget,
		"p_n":     pNoise,
		"sigma_t": sigma,
	}, nil
}
