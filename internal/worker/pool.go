// Package worker bounds the concurrency of independent scoring jobs.
package worker

import "sync"

type Job func() error

// RunPool executes jobs with at most maxWorkers in flight and returns one
// error slot per job, index-aligned, so callers can tell which inputs
// failed. Entries for successful jobs are nil.
func RunPool(maxWorkers int, jobs []Job) []error {
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	errs := make([]error, len(jobs))
	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup

	for i, job := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, j Job) {
			defer wg.Done()
			defer func() { <-sem }()
			errs[i] = j()
		}(i, job)
	}
	wg.Wait()
	return errs
}

// Failed filters an index-aligned error slice down to the non-nil entries.
func Failed(errs []error) []error {
	var failed []error
	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}
	return failed
}
