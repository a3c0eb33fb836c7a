package run_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundwork-sh/groundwork/internal/domain/run"
	"github.com/groundwork-sh/groundwork/internal/domain/sequence"
)

func TestPlanner_Plan(t *testing.T) {
	t.Parallel()

	graph := sequence.NewStepGraph()
	require.NoError(t, graph.Add(&scriptedStep{id: "satisfied", status: sequence.StatusSatisfied}))
	require.NoError(t, graph.Add(&scriptedStep{id: "pending"}))

	plan, err := run.NewPlanner().Plan(context.Background(), graph)
	require.NoError(t, err)

	summary := plan.Summary()
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Satisfied)
	assert.Equal(t, 1, summary.NeedsApply)
	assert.True(t, plan.HasChanges())
	assert.Len(t, plan.NeedsApply(), 1)
}

func TestPlanner_Plan_NoChanges(t *testing.T) {
	t.Parallel()

	graph := sequence.NewStepGraph()
	require.NoError(t, graph.Add(&scriptedStep{id: "one", status: sequence.StatusSatisfied}))

	plan, err := run.NewPlanner().Plan(context.Background(), graph)
	require.NoError(t, err)
	assert.False(t, plan.HasChanges())
}

func TestPlanner_Plan_CheckError(t *testing.T) {
	t.Parallel()

	graph := sequence.NewStepGraph()
	require.NoError(t, graph.Add(&scriptedStep{id: "broken", checkErr: errors.New("cannot check")}))

	_, err := run.NewPlanner().Plan(context.Background(), graph)
	require.Error(t, err)

	var stepErr *sequence.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, sequence.ErrCodeCheckFailed, stepErr.Code)
	assert.Equal(t, "broken", stepErr.StepID)
}

func TestPlanner_Plan_DiffOnlyForPending(t *testing.T) {
	t.Parallel()

	graph := sequence.NewStepGraph()
	require.NoError(t, graph.Add(&scriptedStep{id: "satisfied", status: sequence.StatusSatisfied}))
	require.NoError(t, graph.Add(&scriptedStep{id: "pending"}))

	plan, err := run.NewPlanner().Plan(context.Background(), graph)
	require.NoError(t, err)

	for _, entry := range plan.Entries() {
		if entry.Status() == sequence.StatusSatisfied {
			assert.True(t, entry.Diff().IsEmpty())
		} else {
			assert.False(t, entry.Diff().IsEmpty())
		}
	}
}
