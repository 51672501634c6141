// Package executor runs an ordered list of merit-compliance checks against
// one backend and dispatches to exactly one of two caller-supplied actions.
package executor

import (
	"context"

	"github.com/google/uuid"

	"github.com/marcosUNLP/qonscious/backend"
	"github.com/marcosUNLP/qonscious/checks"
	"github.com/marcosUNLP/qonscious/foms"
	"github.com/marcosUNLP/qonscious/results"
)

// Action is invoked with the backend and every collected figure-of-merit
// result. Its return value is carried opaquely in the QonsciousResult.
type Action func(ctx context.Context, adapter backend.Adapter, fomResults []*results.FigureOfMeritResult) (any, error)

// RunConditionally evaluates every check in order — no short-circuit, so
// all metrics are collected even after an early failure — ANDs the verdicts,
// and calls exactly one of onPass / onFail with the full ordered result
// list. An empty check list passes vacuously.
//
// A check error aborts the run before either action is invoked: the
// executor never converts "could not measure" into a fail verdict, and it
// never retries. Retry and backoff, if wanted, belong to the backend
// adapter.
func RunConditionally(
	ctx context.Context,
	adapter backend.Adapter,
	checkList []checks.MeritComplianceCheck,
	onPass, onFail Action,
	opts foms.Options,
) (*results.QonsciousResult, error) {
	runID := uuid.NewString()
	log := opts.Logger.With().Str("run_id", runID).Logger()
	opts.Logger = log
	log.Info().Int("checks", len(checkList)).Msg("starting conditional run")

	fomResults := make([]*results.FigureOfMeritResult, 0, len(checkList))
	passed := true
	for i, check := range checkList {
		res, err := check.Check(ctx, adapter, opts)
		if err != nil {
			return nil, err
		}
		fomResults = append(fomResults, res.FomResult)
		if !res.Passed {
			passed = false
		}
		score, _ := res.FomResult.Score()
		log.Info().Int("check", i).Str("fom", res.FomResult.FigureOfMerit).
			Float64("score", score).Bool("passed", res.Passed).Msg("check evaluated")
	}

	condition := results.ConditionPass
	action := onPass
	if !passed {
		condition = results.ConditionFail
		action = onFail
	}
	log.Info().Str("condition", condition).Msg("dispatching")

	var actionResult any
	if action != nil {
		var err error
		actionResult, err = action(ctx, adapter, fomResults)
		if err != nil {
			return nil, err
		}
	}

	return &results.QonsciousResult{
		RunID:                runID,
		Condition:            condition,
		FigureOfMeritResults: fomResults,
		ActionResult:         actionResult,
	}, nil
}
