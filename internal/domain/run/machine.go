package run

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/statekit"
)

// Phase represents the lifecycle phase of a provisioning run.
type Phase string

// Run lifecycle phases: the precheck gate must pass before any planning
// or mutation happens, and a critical failure in any phase ends the run
// in PhaseAborted.
const (
	PhaseIdle        Phase = "idle"
	PhasePrechecking Phase = "prechecking"
	PhasePlanning    Phase = "planning"
	PhaseApplying    Phase = "applying"
	PhaseDone        Phase = "done"
	PhaseAborted     Phase = "aborted"
)

// Event types for the run lifecycle machine.
const (
	EventBegin          = "BEGIN"
	EventPrecheckPassed = "PRECHECK_PASSED"
	EventPlanned        = "PLANNED"
	EventCompleted      = "COMPLETED"
	EventFailed         = "FAILED"
)

// LifecycleContext is the state machine's context record.
type LifecycleContext struct {
	StartedAt time.Time
	Reason    string
}

// Lifecycle tracks a run's phase with an explicit state machine.
type Lifecycle struct {
	interp *statekit.Interpreter[LifecycleContext]
}

// NewLifecycle builds the run lifecycle machine in its idle phase.
func NewLifecycle() (*Lifecycle, error) {
	machine, err := statekit.NewMachine[LifecycleContext]("groundwork-run").
		WithInitial(statekit.StateID(PhaseIdle)).
		WithContext(LifecycleContext{StartedAt: time.Now()}).
		State(statekit.StateID(PhaseIdle)).
		On(EventBegin).Target(statekit.StateID(PhasePrechecking)).Done().
		State(statekit.StateID(PhasePrechecking)).
		On(EventPrecheckPassed).Target(statekit.StateID(PhasePlanning)).
		On(EventFailed).Target(statekit.StateID(PhaseAborted)).Done().
		State(statekit.StateID(PhasePlanning)).
		On(EventPlanned).Target(statekit.StateID(PhaseApplying)).
		On(EventFailed).Target(statekit.StateID(PhaseAborted)).Done().
		State(statekit.StateID(PhaseApplying)).
		On(EventCompleted).Target(statekit.StateID(PhaseDone)).
		On(EventFailed).Target(statekit.StateID(PhaseAborted)).Done().
		State(statekit.StateID(PhaseDone)).
		On(EventCompleted).Target(statekit.StateID(PhaseDone)).Done().
		State(statekit.StateID(PhaseAborted)).
		On(EventFailed).Target(statekit.StateID(PhaseAborted)).Done().
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build run lifecycle machine: %w", err)
	}

	interp := statekit.NewInterpreter(machine)
	interp.Start()

	return &Lifecycle{interp: interp}, nil
}

// Phase returns the current lifecycle phase.
func (l *Lifecycle) Phase() Phase {
	return Phase(l.interp.State().Value)
}

// Begin moves the run into the precheck gate.
func (l *Lifecycle) Begin() {
	l.interp.Send(statekit.Event{Type: EventBegin})
}

// PrecheckPassed records that the gate held and planning may start.
func (l *Lifecycle) PrecheckPassed() {
	l.interp.Send(statekit.Event{Type: EventPrecheckPassed})
}

// Planned records that the plan is ready and applying may start.
func (l *Lifecycle) Planned() {
	l.interp.Send(statekit.Event{Type: EventPlanned})
}

// Completed records a successful run.
func (l *Lifecycle) Completed() {
	l.interp.Send(statekit.Event{Type: EventCompleted})
}

// Failed records an aborted run.
func (l *Lifecycle) Failed() {
	l.interp.Send(statekit.Event{Type: EventFailed})
}

// Stop releases the interpreter.
func (l *Lifecycle) Stop() {
	l.interp.Stop()
}
