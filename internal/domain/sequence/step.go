// Package sequence implements the idempotent provisioning sequencer:
// providers compile configuration into ordered steps, each of which can
// check the host's current state and apply the missing mutation.
package sequence

// Step represents one idempotent unit of host configuration.
// Check must be side-effect-free and cheap; Apply must be safe to re-run
// (applying an already-satisfied step is a no-op or harmless).
type Step interface {
	// ID returns the unique identifier for this step.
	ID() StepID

	// DependsOn returns the IDs of steps that must complete before this one.
	DependsOn() []StepID

	// Critical reports whether a failure of this step aborts the whole
	// run. Non-critical steps log a warning and the run continues.
	Critical() bool

	// Check determines the current status of this step.
	// Returns StatusSatisfied if no action is needed, StatusNeedsApply
	// if the host must be mutated.
	Check(ctx RunContext) (StepStatus, error)

	// Plan returns the diff describing what Apply would change.
	Plan(ctx RunContext) (Diff, error)

	// Apply executes the step's mutation against the host.
	Apply(ctx RunContext) error

	// Explain returns human-readable context for this step.
	Explain() Explanation
}
