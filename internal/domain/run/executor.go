package run

import (
	"time"

	"github.com/groundwork-sh/groundwork/internal/domain/sequence"
)

// Observer is notified after each step completes. Used by callers to
// print status lines while the run progresses.
type Observer func(StepResult)

// Executor runs the steps of a Plan strictly in order.
//
// A failed critical step aborts the run: remaining steps are reported
// skipped. A failed non-critical step is recorded and the run continues,
// though steps depending on it are skipped.
type Executor struct {
	dryRun   bool
	observer Observer
}

// NewExecutor creates a new Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// WithDryRun returns an Executor that simulates execution without
// applying.
func (e *Executor) WithDryRun(dryRun bool) *Executor {
	return &Executor{
		dryRun:   dryRun,
		observer: e.observer,
	}
}

// WithObserver returns an Executor that reports each completed step.
func (e *Executor) WithObserver(fn Observer) *Executor {
	return &Executor{
		dryRun:   e.dryRun,
		observer: fn,
	}
}

// Result contains the outcome of one execution.
type Result struct {
	Results []StepResult
	Aborted bool
}

// CriticalFailed returns true when a critical step failed, which is the
// only condition that makes the run's exit code non-zero.
func (r Result) CriticalFailed() bool {
	for _, res := range r.Results {
		if res.Status() == sequence.StatusFailed && res.Critical() {
			return true
		}
	}
	return false
}

// Failures returns all failed step results, critical or not.
func (r Result) Failures() []StepResult {
	failures := make([]StepResult, 0)
	for _, res := range r.Results {
		if res.Status() == sequence.StatusFailed {
			failures = append(failures, res)
		}
	}
	return failures
}

// Execute runs all steps in the plan in order and returns the outcome of
// every step, including failures and skips.
func (e *Executor) Execute(ctx sequence.RunContext, plan *Plan) Result {
	results := make([]StepResult, 0, plan.Len())
	failed := make(map[string]bool)

	runCtx := ctx.WithDryRun(e.dryRun)
	aborted := false

	entries := plan.Entries()
	for i, entry := range entries {
		select {
		case <-runCtx.Context().Done():
			results = e.skipRemaining(results, entries[i:])
			return Result{Results: results, Aborted: true}
		default:
		}

		result := e.executeEntry(entry, runCtx, failed)
		results = append(results, result)
		e.observe(result)

		if result.Status() == sequence.StatusFailed {
			failed[entry.Step().ID().String()] = true

			if entry.Step().Critical() {
				aborted = true
				results = e.skipRemaining(results, entries[i+1:])
				break
			}
		}
	}

	return Result{Results: results, Aborted: aborted}
}

// executeEntry executes a single plan entry.
func (e *Executor) executeEntry(entry PlanEntry, ctx sequence.RunContext, failed map[string]bool) StepResult {
	step := entry.Step()
	stepID := step.ID()

	for _, depID := range step.DependsOn() {
		if failed[depID.String()] {
			return NewStepResult(stepID, sequence.StatusSkipped, step.Critical(), nil)
		}
	}

	// Already satisfied: report without applying.
	if entry.Status() == sequence.StatusSatisfied {
		return NewStepResult(stepID, sequence.StatusSatisfied, step.Critical(), nil)
	}

	if ctx.DryRun() {
		return NewStepResult(stepID, entry.Status(), step.Critical(), nil).WithDiff(entry.Diff())
	}

	start := time.Now()
	err := step.Apply(ctx)
	duration := time.Since(start)

	if err != nil {
		return NewStepResult(stepID, sequence.StatusFailed, step.Critical(), err).WithDuration(duration)
	}

	return NewStepResult(stepID, sequence.StatusSatisfied, step.Critical(), nil).
		WithDuration(duration).
		WithDiff(entry.Diff())
}

func (e *Executor) skipRemaining(results []StepResult, entries []PlanEntry) []StepResult {
	for _, entry := range entries {
		result := NewStepResult(entry.Step().ID(), sequence.StatusSkipped, entry.Step().Critical(), nil)
		results = append(results, result)
		e.observe(result)
	}
	return results
}

func (e *Executor) observe(result StepResult) {
	if e.observer != nil {
		e.observer(result)
	}
}
