package worker_test

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/marcosUNLP/qonscious/internal/worker"
)

func TestPool(t *testing.T) {
	var count atomic.Int32
	jobs := make([]worker.Job, 10)
	for i := range jobs {
		jobs[i] = func() error {
			count.Add(1)
			return nil
		}
	}
	errs := worker.RunPool(3, jobs)
	if len(errs) != 10 {
		t.Fatalf("expected 10 slots, got %d", len(errs))
	}
	if failed := worker.Failed(errs); len(failed) != 0 {
		t.Errorf("expected no failures, got %v", failed)
	}
	if count.Load() != 10 {
		t.Errorf("expected 10 jobs, got %d", count.Load())
	}
}

func TestPoolErrorsAreIndexAligned(t *testing.T) {
	jobs := []worker.Job{
		func() error { return nil },
		func() error { return fmt.Errorf("fail") },
		func() error { return nil },
	}
	errs := worker.RunPool(2, jobs)
	if errs[0] != nil || errs[2] != nil {
		t.Errorf("unexpected errors: %v", errs)
	}
	if errs[1] == nil {
		t.Error("expected job 1 to fail")
	}
	if failed := worker.Failed(errs); len(failed) != 1 {
		t.Errorf("expected 1 failure, got %d", len(failed))
	}
}

func TestPoolClampsWorkerCount(t *testing.T) {
	errs := worker.RunPool(0, []worker.Job{func() error { return nil }})
	if len(errs) != 1 || errs[0] != nil {
		t.Errorf("unexpected result: %v", errs)
	}
}
