// Package backend defines the capability contract quantum backends expose
// to the scoring core. Concrete adapters (simulators, hardware bridges) live
// outside this module; the core only ever sees these interfaces.
package backend

import (
	"context"

	"github.com/marcosUNLP/qonscious/results"
)

// Program is an opaque circuit-like program under construction. Figures of
// merit build programs through this interface and never inspect one after
// construction; adapters translate them to whatever their backend runs.
//
// Qubit and classical-bit indices are zero-based. Implementations return an
// error for out-of-range indices rather than panicking.
type Program interface {
	// Single-qubit gates.
	H(qubit int) error
	X(qubit int) error
	Z(qubit int) error

	// RY applies a parametrized rotation about the Y axis.
	RY(theta float64, qubit int) error

	// CX applies a controlled-not with the given control and target.
	CX(control, target int) error

	// MCX applies a multi-controlled not onto target.
	MCX(controls []int, target int) error

	// Compose appends sub onto the given qubits of this program. The
	// i-th qubit of sub is mapped to qubits[i].
	Compose(sub Program, qubits []int) error

	// Measure reads qubits[i] into classical bit clbits[i].
	Measure(qubits, clbits []int) error
}

// Adapter is the consumed backend capability. Run blocks until the backend
// produces a result, which may take seconds on a simulator and minutes on
// queued hardware; callers bound it with the context. A failed execution is
// reported as an *ExecutionError, never as an empty histogram.
type Adapter interface {
	// NewProgram allocates an empty program with the given register sizes.
	NewProgram(qubits, clbits int) (Program, error)

	// Run executes the program for the given number of shots.
	Run(ctx context.Context, p Program, shots int) (*results.ExperimentResult, error)

	// QubitCount reports how many qubits the backend exposes.
	QubitCount() int

	// T1s and T2s report per-qubit coherence times in microseconds.
	// Ideal simulators report +Inf; hardware adapters omit qubits whose
	// calibration data is unavailable.
	T1s() map[int]float64
	T2s() map[int]float64
}
