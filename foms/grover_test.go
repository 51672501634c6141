package foms_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcosUNLP/qonscious/backend"
	"github.com/marcosUNLP/qonscious/backend/backendtest"
	"github.com/marcosUNLP/qonscious/foms"
	"github.com/marcosUNLP/qonscious/results"
)

func TestOptimalRounds(t *testing.T) {
	cases := []struct {
		space, targets, want int
	}{
		{8, 2, 1},
		{1024, 1, 25},
		{4, 1, 1},
		{4, 4, 0},
	}
	for _, tc := range cases {
		got := foms.OptimalRounds(tc.space, tc.targets)
		assert.Equal(t, tc.want, got, "OptimalRounds(%d, %d)", tc.space, tc.targets)
	}
}

func TestNewGroverValidation(t *testing.T) {
	var cfgErr *foms.ConfigurationError

	_, err := foms.NewGrover(foms.GroverConfig{NumQubits: 1, NumTargets: 1})
	require.ErrorAs(t, err, &cfgErr, "width below floor")

	_, err = foms.NewGrover(foms.GroverConfig{NumQubits: 2, Targets: []int{4}})
	require.ErrorAs(t, err, &cfgErr, "target outside space")

	_, err = foms.NewGrover(foms.GroverConfig{NumQubits: 2, Targets: []int{1, 1}})
	require.ErrorAs(t, err, &cfgErr, "duplicate target")

	_, err = foms.NewGrover(foms.GroverConfig{NumQubits: 2, NumTargets: 5})
	require.ErrorAs(t, err, &cfgErr, "more targets than the space holds")

	_, err = foms.NewGrover(foms.GroverConfig{NumQubits: 2})
	require.ErrorAs(t, err, &cfgErr, "no targets at all")
}

func TestNewGroverInfersWidth(t *testing.T) {
	// Largest target 5 needs 3 bits.
	g, err := foms.NewGrover(foms.GroverConfig{Targets: []int{2, 5}})
	require.NoError(t, err)
	assert.Equal(t, 3, g.NumQubits())
	assert.Equal(t, []string{"010", "101"}, g.Targets())

	// Width inference from the target count alone is floored at 2 qubits.
	g, err = foms.NewGrover(foms.GroverConfig{NumTargets: 1, Seed: 7})
	require.NoError(t, err)
	assert.Equal(t, 2, g.NumQubits())
}

func TestNewGroverSamplesWithoutReplacement(t *testing.T) {
	g, err := foms.NewGrover(foms.GroverConfig{NumQubits: 3, NumTargets: 8, Seed: 42})
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, target := range g.Targets() {
		assert.Len(t, target, 3)
		assert.False(t, seen[target], "duplicate sampled target %s", target)
		seen[target] = true
	}
	assert.Len(t, seen, 8)
}

func TestGroverScoreZeroWhenNoisePenaltyDominates(t *testing.T) {
	// P_T = 0.5 and mu*P_N = 0.5 >= P_T forces a zero score regardless of
	// sigma or lambda.
	counts := map[string]int{"11": 500, "00": 500}
	props, err := foms.GroverScore(counts, []string{"11"}, 1000, 5.0, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, props["score"])
	assert.Equal(t, 0.5, props["p_t"])
	assert.Equal(t, 0.5, props["p_n"])
}

func TestGroverScorePerfectAmplification(t *testing.T) {
	counts := map[string]int{"11": 1000}
	props, err := foms.GroverScore(counts, []string{"11"}, 1000, 0.1, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 1.0, props["score"])
	assert.Equal(t, 0.0, props["sigma_t"])
}

func TestGroverScoreSpreadPenalty(t *testing.T) {
	// Two targets with uneven mass: P_T = 0.8, per-target probabilities
	// 0.6 and 0.2, population sigma 0.2.
	counts := map[string]int{"00": 600, "11": 200, "01": 200}
	props, err := foms.GroverScore(counts, []string{"00", "11"}, 1000, 1.0, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, props["p_t"].(float64), 1e-9)
	assert.InDelta(t, 0.2, props["sigma_t"].(float64), 1e-9)
	// raw = 0.8 - 1.0*0.2 - 0.5*0.2 = 0.5
	assert.InDelta(t, 0.5, props["score"].(float64), 1e-9)
}

func TestGroverScoreZeroShots(t *testing.T) {
	_, err := foms.GroverScore(map[string]int{}, []string{"11"}, 0, 0, 0)
	require.Error(t, err)
}

func TestGroverEvaluate(t *testing.T) {
	fake := backendtest.New(3, map[string]int{"010": 900, "101": 900, "000": 200})
	g, err := foms.NewGrover(foms.GroverConfig{Targets: []int{2, 5}, Lambda: 0.1, Mu: 0.5})
	require.NoError(t, err)

	res, err := g.Evaluate(context.Background(), fake, foms.Options{})
	require.NoError(t, err)

	assert.Equal(t, "grover", res.FigureOfMerit)
	assert.Equal(t, 3, res.Properties["num_qubits"])
	assert.Equal(t, 8, res.Properties["search_space_size"])
	assert.Equal(t, 1, res.Properties["grover_iterations"])
	assert.Equal(t, 2000, res.Properties["shots"])
	assert.Equal(t, []string{"010", "101"}, res.Properties["target_states"])

	// The default shot budget is fixed configuration.
	require.Len(t, fake.Submissions, 1)
	assert.Equal(t, 2000, fake.Submissions[0].Shots)

	// One oracle + diffusion round means two mcx applications, and the
	// program ends with a full measurement.
	prog := fake.Submissions[0].Program
	mcx := 0
	for _, op := range prog.Ops {
		if op.Name == "mcx" {
			mcx++
		}
	}
	// Oracle contributes one mcx per target, diffusion one per round.
	assert.Equal(t, 3, mcx)
	assert.Equal(t, "measure", prog.Ops[len(prog.Ops)-1].Name)
}

func TestGroverMalformedHistogram(t *testing.T) {
	// Backend returns 2-wide bitstrings for a 3-qubit circuit. Target
	// lookups would all miss, so without validation the score silently
	// collapses to zero instead of reporting the malformed result.
	fake := backendtest.New(3, map[string]int{"00": 2000})
	g, err := foms.NewGrover(foms.GroverConfig{Targets: []int{2, 5}})
	require.NoError(t, err)

	_, err = g.Evaluate(context.Background(), fake, foms.Options{})
	var fmtErr *results.ResultFormatError
	require.ErrorAs(t, err, &fmtErr)
}

func TestGroverInsufficientBackend(t *testing.T) {
	fake := backendtest.New(2, map[string]int{"00": 1})
	g, err := foms.NewGrover(foms.GroverConfig{NumQubits: 4, NumTargets: 1, Seed: 1})
	require.NoError(t, err)

	_, err = g.Evaluate(context.Background(), fake, foms.Options{})
	var capErr *backend.CapabilityError
	require.ErrorAs(t, err, &capErr)
	assert.Empty(t, fake.Submissions)
}
