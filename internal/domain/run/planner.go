package run

import (
	"context"
	"fmt"

	"github.com/groundwork-sh/groundwork/internal/domain/sequence"
)

// Planner generates a Plan from a StepGraph by checking every step's
// current status. Checks are side-effect-free, so planning never mutates
// the host.
type Planner struct{}

// NewPlanner creates a new Planner.
func NewPlanner() *Planner {
	return &Planner{}
}

// Plan checks each step in topological order and records what a run
// would do.
func (p *Planner) Plan(ctx context.Context, graph *sequence.StepGraph) (*Plan, error) {
	plan := NewPlan()

	steps, err := graph.TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("failed to sort steps: %w", err)
	}

	runCtx := sequence.NewRunContext(ctx)

	for _, step := range steps {
		entry, err := p.planStep(step, runCtx)
		if err != nil {
			return nil, sequence.NewCheckFailedError(step.ID().String(), err)
		}
		plan.Add(entry)
	}

	return plan, nil
}

// planStep checks a single step and generates a PlanEntry.
func (p *Planner) planStep(step sequence.Step, ctx sequence.RunContext) (PlanEntry, error) {
	status, err := step.Check(ctx)
	if err != nil {
		return PlanEntry{}, err
	}

	var diff sequence.Diff

	if status == sequence.StatusNeedsApply {
		diff, err = step.Plan(ctx)
		if err != nil {
			return PlanEntry{}, fmt.Errorf("plan failed: %w", err)
		}
	}

	return NewPlanEntry(step, status, diff), nil
}
