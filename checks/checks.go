// Package checks binds a figure of merit to a decision policy. A check
// produces the metric and the verdict together; it never converts an
// evaluation failure into a "fail" verdict, since failing to produce a
// metric and producing one below threshold are different outcomes.
package checks

import (
	"context"
	"fmt"

	"github.com/marcosUNLP/qonscious/backend"
	"github.com/marcosUNLP/qonscious/foms"
	"github.com/marcosUNLP/qonscious/policies"
	"github.com/marcosUNLP/qonscious/results"
)

// MeritComplianceCheck pairs one figure of merit with one decision.
type MeritComplianceCheck struct {
	FigureOfMerit foms.FigureOfMerit
	Decision      policies.Decision
}

// Check evaluates the figure of merit against the backend and applies the
// decision to the resulting properties. Any evaluation error propagates
// unchanged.
func (c MeritComplianceCheck) Check(ctx context.Context, adapter backend.Adapter, opts foms.Options) (*results.MeritComplianceResult, error) {
	if c.FigureOfMerit == nil {
		return nil, fmt.Errorf("check has no figure of merit")
	}
	if c.Decision == nil {
		return nil, fmt.Errorf("check %s has no decision", c.FigureOfMerit.Name())
	}
	fomResult, err := c.FigureOfMerit.Evaluate(ctx, adapter, opts)
	if err != nil {
		return nil, fmt.Errorf("evaluating %s: %w", c.FigureOfMerit.Name(), err)
	}
	return &results.MeritComplianceResult{
		FomResult: fomResult,
		Passed:    c.Decision.Decide(fomResult.Properties),
	}, nil
}
