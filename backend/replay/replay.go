// Package replay implements a backend.Adapter that serves histograms
// recorded on a real backend or simulator, in the order they were recorded.
// It lets the full check pipeline run offline: programs are accepted and
// discarded, and each Run call consumes the next recorded histogram.
//
// Replay is a dry-run vehicle, not a hardware adapter. Running out of
// recorded data is an execution failure, never an empty histogram.
package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/marcosUNLP/qonscious/backend"
	"github.com/marcosUNLP/qonscious/results"
)

// CountsFile is the on-disk shape of one recorded histogram.
type CountsFile struct {
	Counts map[string]int `json:"counts"`
	Shots  int            `json:"shots,omitempty"`
}

// TotalShots is the recorded shot count, falling back to the sum of the
// counts when the recording omits the shots field.
func (cf *CountsFile) TotalShots() int {
	if cf.Shots > 0 {
		return cf.Shots
	}
	total := 0
	for _, n := range cf.Counts {
		total += n
	}
	return total
}

// LoadCountsFile reads a single recorded histogram.
func LoadCountsFile(path string) (*CountsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading counts file: %w", err)
	}
	var cf CountsFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parsing counts file %s: %w", path, err)
	}
	if len(cf.Counts) == 0 {
		return nil, fmt.Errorf("counts file %s: no counts", path)
	}
	return &cf, nil
}

// Adapter replays recorded histograms.
type Adapter struct {
	name   string
	qubits int
	queue  []*CountsFile
	next   int
}

var _ backend.Adapter = (*Adapter)(nil)

// Open loads every *.json file under dir, in lexical order, as the replay
// queue for a backend reporting the given qubit count.
func Open(dir string, qubits int) (*Adapter, error) {
	if qubits < 1 {
		return nil, fmt.Errorf("replay backend needs a positive qubit count, got %d", qubits)
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing replay dir: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("replay dir %s: no recorded histograms", dir)
	}
	sort.Strings(paths)

	a := &Adapter{name: "replay:" + filepath.Base(dir), qubits: qubits}
	for _, p := range paths {
		cf, err := LoadCountsFile(p)
		if err != nil {
			return nil, err
		}
		a.queue = append(a.queue, cf)
	}
	return a, nil
}

// program is accepted for interface compatibility and otherwise ignored:
// the replayed outcome is fixed by the recording.
type program struct {
	qubits int
	clbits int
}

func (p *program) check(qs ...int) error {
	for _, q := range qs {
		if q < 0 || q >= p.qubits {
			return fmt.Errorf("qubit %d out of range [0,%d)", q, p.qubits)
		}
	}
	return nil
}

func (p *program) H(q int) error                  { return p.check(q) }
func (p *program) X(q int) error                  { return p.check(q) }
func (p *program) Z(q int) error                  { return p.check(q) }
func (p *program) RY(theta float64, q int) error  { return p.check(q) }
func (p *program) CX(control, target int) error   { return p.check(control, target) }
func (p *program) MCX(cs []int, target int) error { return p.check(append(cs, target)...) }

func (p *program) Compose(sub backend.Program, qubits []int) error { return p.check(qubits...) }

func (p *program) Measure(qubits, clbits []int) error {
	if len(qubits) != len(clbits) {
		return fmt.Errorf("measure: %d qubits but %d clbits", len(qubits), len(clbits))
	}
	return p.check(qubits...)
}

func (a *Adapter) NewProgram(qubits, clbits int) (backend.Program, error) {
	if qubits < 1 || qubits > a.qubits {
		return nil, fmt.Errorf("program qubit count %d outside backend range [1,%d]", qubits, a.qubits)
	}
	return &program{qubits: qubits, clbits: clbits}, nil
}

func (a *Adapter) Run(ctx context.Context, p backend.Program, shots int) (*results.ExperimentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, &backend.ExecutionError{Backend: a.name, Err: err}
	}
	if a.next >= len(a.queue) {
		return nil, &backend.ExecutionError{
			Backend: a.name,
			Err:     fmt.Errorf("recording exhausted after %d submissions", len(a.queue)),
		}
	}
	cf := a.queue[a.next]
	a.next++

	counts := make(map[string]int, len(cf.Counts))
	for k, v := range cf.Counts {
		counts[k] = v
	}
	now := time.Now().UTC()
	return &results.ExperimentResult{
		Counts:            counts,
		Shots:             cf.TotalShots(),
		BackendProperties: results.BackendProperties{Name: a.name},
		Timestamps:        results.Timestamps{Created: now, Running: now, Finished: now},
	}, nil
}

func (a *Adapter) QubitCount() int { return a.qubits }

func (a *Adapter) T1s() map[int]float64 { return infTimes(a.qubits) }
func (a *Adapter) T2s() map[int]float64 { return infTimes(a.qubits) }

func infTimes(n int) map[int]float64 {
	ts := make(map[int]float64, n)
	for i := 0; i < n; i++ {
		ts[i] = math.Inf(1)
	}
	return ts
}

// Remaining reports how many recorded histograms are left unconsumed.
func (a *Adapter) Remaining() int { return len(a.queue) - a.next }
