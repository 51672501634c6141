// Package backendtest provides a deterministic in-memory Adapter for tests.
// The fake serves canned histograms in FIFO order and records every program
// it is asked to run, so tests can assert both on scoring output and on
// what was (or was not) submitted.
package backendtest

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/marcosUNLP/qonscious/backend"
	"github.com/marcosUNLP/qonscious/results"
)

// Op is one recorded program instruction.
type Op struct {
	Name   string
	Qubits []int
	Clbits []int
	Params []float64
}

// Program records instructions instead of executing them.
type Program struct {
	NumQubits int
	NumClbits int
	Ops       []Op
}

var _ backend.Program = (*Program)(nil)

func (p *Program) checkQubit(qs ...int) error {
	for _, q := range qs {
		if q < 0 || q >= p.NumQubits {
			return fmt.Errorf("qubit %d out of range [0,%d)", q, p.NumQubits)
		}
	}
	return nil
}

func (p *Program) add(name string, qubits []int, params ...float64) error {
	if err := p.checkQubit(qubits...); err != nil {
		return err
	}
	p.Ops = append(p.Ops, Op{Name: name, Qubits: qubits, Params: params})
	return nil
}

func (p *Program) H(q int) error { return p.add("h", []int{q}) }
func (p *Program) X(q int) error { return p.add("x", []int{q}) }
func (p *Program) Z(q int) error { return p.add("z", []int{q}) }

func (p *Program) RY(theta float64, q int) error { return p.add("ry", []int{q}, theta) }

func (p *Program) CX(control, target int) error { return p.add("cx", []int{control, target}) }

func (p *Program) MCX(controls []int, target int) error {
	return p.add("mcx", append(append([]int{}, controls...), target))
}

func (p *Program) Compose(sub backend.Program, qubits []int) error {
	sp, ok := sub.(*Program)
	if !ok {
		return fmt.Errorf("cannot compose %T onto fake program", sub)
	}
	if len(qubits) < sp.NumQubits {
		return fmt.Errorf("compose: %d qubits given, sub-program needs %d", len(qubits), sp.NumQubits)
	}
	if err := p.checkQubit(qubits...); err != nil {
		return err
	}
	for _, op := range sp.Ops {
		mapped := make([]int, len(op.Qubits))
		for i, q := range op.Qubits {
			mapped[i] = qubits[q]
		}
		p.Ops = append(p.Ops, Op{Name: op.Name, Qubits: mapped, Clbits: op.Clbits, Params: op.Params})
	}
	return nil
}

func (p *Program) Measure(qubits, clbits []int) error {
	if len(qubits) != len(clbits) {
		return fmt.Errorf("measure: %d qubits but %d clbits", len(qubits), len(clbits))
	}
	if err := p.checkQubit(qubits...); err != nil {
		return err
	}
	for _, c := range clbits {
		if c < 0 || c >= p.NumClbits {
			return fmt.Errorf("clbit %d out of range [0,%d)", c, p.NumClbits)
		}
	}
	p.Ops = append(p.Ops, Op{Name: "measure", Qubits: qubits, Clbits: clbits})
	return nil
}

// Submission records one Run call.
type Submission struct {
	Program *Program
	Shots   int
}

// Fake is a backend.Adapter serving canned histograms.
type Fake struct {
	Name   string
	Qubits int

	// Histograms are served in order, one per Run call. When the queue is
	// exhausted the last entry is reused.
	Histograms []map[string]int

	// Err, when set, is returned (wrapped in an ExecutionError) by every
	// Run call.
	Err error

	Submissions []Submission
}

var _ backend.Adapter = (*Fake)(nil)

// New returns a fake backend with the given qubit count serving the given
// histograms.
func New(qubits int, histograms ...map[string]int) *Fake {
	return &Fake{Name: "fake", Qubits: qubits, Histograms: histograms}
}

func (f *Fake) NewProgram(qubits, clbits int) (backend.Program, error) {
	if qubits < 1 {
		return nil, fmt.Errorf("program needs at least one qubit, got %d", qubits)
	}
	return &Program{NumQubits: qubits, NumClbits: clbits}, nil
}

func (f *Fake) Run(ctx context.Context, p backend.Program, shots int) (*results.ExperimentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, &backend.ExecutionError{Backend: f.Name, Err: err}
	}
	if f.Err != nil {
		return nil, &backend.ExecutionError{Backend: f.Name, Err: f.Err}
	}
	fp, ok := p.(*Program)
	if !ok {
		return nil, &backend.ExecutionError{Backend: f.Name, Err: fmt.Errorf("foreign program type %T", p)}
	}
	f.Submissions = append(f.Submissions, Submission{Program: fp, Shots: shots})

	if len(f.Histograms) == 0 {
		return nil, &backend.ExecutionError{Backend: f.Name, Err: fmt.Errorf("no canned histogram for submission %d", len(f.Submissions))}
	}
	idx := len(f.Submissions) - 1
	if idx >= len(f.Histograms) {
		idx = len(f.Histograms) - 1
	}
	counts := make(map[string]int, len(f.Histograms[idx]))
	for k, v := range f.Histograms[idx] {
		counts[k] = v
	}

	now := time.Now().UTC()
	return &results.ExperimentResult{
		Counts:            counts,
		Shots:             shots,
		BackendProperties: results.BackendProperties{Name: f.Name},
		Timestamps:        results.Timestamps{Created: now, Running: now, Finished: now},
	}, nil
}

func (f *Fake) QubitCount() int { return f.Qubits }

func (f *Fake) T1s() map[int]float64 { return infTimes(f.Qubits) }
func (f *Fake) T2s() map[int]float64 { return infTimes(f.Qubits) }

func infTimes(n int) map[int]float64 {
	ts := make(map[int]float64, n)
	for i := 0; i < n; i++ {
		ts[i] = math.Inf(1)
	}
	return ts
}
