// Package run handles step orchestration: planning, sequential
// execution, and the run lifecycle.
package run

import (
	"time"

	"github.com/groundwork-sh/groundwork/internal/domain/sequence"
)

// StepResult captures the outcome of executing a single step.
type StepResult struct {
	stepID   sequence.StepID
	status   sequence.StepStatus
	critical bool
	err      error
	duration time.Duration
	diff     sequence.Diff
}

// NewStepResult creates a new StepResult.
func NewStepResult(stepID sequence.StepID, status sequence.StepStatus, critical bool, err error) StepResult {
	return StepResult{
		stepID:   stepID,
		status:   status,
		critical: critical,
		err:      err,
	}
}

// StepID returns the ID of the step that was executed.
func (r StepResult) StepID() sequence.StepID {
	return r.stepID
}

// Status returns the final status of the step.
func (r StepResult) Status() sequence.StepStatus {
	return r.status
}

// Critical reports whether the step was critical to the run.
func (r StepResult) Critical() bool {
	return r.critical
}

// Error returns any error that occurred during execution.
func (r StepResult) Error() error {
	return r.err
}

// Duration returns how long the step took to execute.
func (r StepResult) Duration() time.Duration {
	return r.duration
}

// Diff returns the diff that was applied (if any).
func (r StepResult) Diff() sequence.Diff {
	return r.diff
}

// Success returns true if the step ended satisfied.
func (r StepResult) Success() bool {
	return r.status == sequence.StatusSatisfied
}

// Skipped returns true if the step was skipped.
func (r StepResult) Skipped() bool {
	return r.status == sequence.StatusSkipped
}

// WithDuration returns a new StepResult with duration set.
func (r StepResult) WithDuration(d time.Duration) StepResult {
	r.duration = d
	return r
}

// WithDiff returns a new StepResult with diff set.
func (r StepResult) WithDiff(d sequence.Diff) StepResult {
	r.diff = d
	return r
}
