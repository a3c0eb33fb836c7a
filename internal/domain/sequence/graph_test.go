package sequence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundwork-sh/groundwork/internal/domain/sequence"
)

// fakeStep is a minimal Step for graph and sequencer tests.
type fakeStep struct {
	id       string
	deps     []string
	critical bool
	status   sequence.StepStatus
	checkErr error
	applyErr error
	applied  *[]string
}

func (s *fakeStep) ID() sequence.StepID {
	return sequence.MustNewStepID(s.id)
}

func (s *fakeStep) DependsOn() []sequence.StepID {
	ids := make([]sequence.StepID, 0, len(s.deps))
	for _, dep := range s.deps {
		ids = append(ids, sequence.MustNewStepID(dep))
	}
	return ids
}

func (s *fakeStep) Critical() bool {
	return s.critical
}

func (s *fakeStep) Check(_ sequence.RunContext) (sequence.StepStatus, error) {
	if s.checkErr != nil {
		return sequence.StatusUnknown, s.checkErr
	}
	if s.status == "" {
		return sequence.StatusNeedsApply, nil
	}
	return s.status, nil
}

func (s *fakeStep) Plan(_ sequence.RunContext) (sequence.Diff, error) {
	return sequence.NewDiff(sequence.DiffTypeAdd, "fake", s.id, ""), nil
}

func (s *fakeStep) Apply(_ sequence.RunContext) error {
	if s.applied != nil {
		*s.applied = append(*s.applied, s.id)
	}
	return s.applyErr
}

func (s *fakeStep) Explain() sequence.Explanation {
	return sequence.NewExplanation(s.id, "", nil)
}

func TestStepGraph_Add_Duplicate(t *testing.T) {
	t.Parallel()

	graph := sequence.NewStepGraph()
	require.NoError(t, graph.Add(&fakeStep{id: "apt:update"}))

	err := graph.Add(&fakeStep{id: "apt:update"})
	assert.ErrorIs(t, err, sequence.ErrDuplicateStep)
	assert.Equal(t, 1, graph.Len())
}

func TestStepGraph_Validate_MissingDependency(t *testing.T) {
	t.Parallel()

	graph := sequence.NewStepGraph()
	require.NoError(t, graph.Add(&fakeStep{id: "brew:clone", deps: []string{"accounts:user:linuxbrew"}}))

	err := graph.Validate()
	assert.ErrorIs(t, err, sequence.ErrMissingDep)
}

func TestStepGraph_TopologicalSort_DependencyOrder(t *testing.T) {
	t.Parallel()

	graph := sequence.NewStepGraph()
	require.NoError(t, graph.Add(&fakeStep{id: "apt:package:git", deps: []string{"apt:update"}}))
	require.NoError(t, graph.Add(&fakeStep{id: "apt:update"}))

	sorted, err := graph.TopologicalSort()
	require.NoError(t, err)
	require.Len(t, sorted, 2)
	assert.Equal(t, "apt:update", sorted[0].ID().String())
	assert.Equal(t, "apt:package:git", sorted[1].ID().String())
}

func TestStepGraph_TopologicalSort_RegistrationOrderAmongIndependent(t *testing.T) {
	t.Parallel()

	graph := sequence.NewStepGraph()
	ids := []string{"apt:update", "accounts:group:linuxbrew", "node:corepack:enable", "profile:systemwide"}
	for _, id := range ids {
		require.NoError(t, graph.Add(&fakeStep{id: id}))
	}

	// Independent steps must come out exactly as registered, every time.
	for i := 0; i < 5; i++ {
		sorted, err := graph.TopologicalSort()
		require.NoError(t, err)
		got := make([]string, 0, len(sorted))
		for _, step := range sorted {
			got = append(got, step.ID().String())
		}
		assert.Equal(t, ids, got)
	}
}

func TestStepGraph_TopologicalSort_ReleasedStepKeepsRegistrationSlot(t *testing.T) {
	t.Parallel()

	graph := sequence.NewStepGraph()
	require.NoError(t, graph.Add(&fakeStep{id: "apt:update"}))
	require.NoError(t, graph.Add(&fakeStep{id: "apt:package:git", deps: []string{"apt:update"}}))
	require.NoError(t, graph.Add(&fakeStep{id: "accounts:group:linuxbrew"}))
	require.NoError(t, graph.Add(&fakeStep{id: "node:corepack:enable"}))

	sorted, err := graph.TopologicalSort()
	require.NoError(t, err)

	got := make([]string, 0, len(sorted))
	for _, step := range sorted {
		got = append(got, step.ID().String())
	}

	// The package step registered second, so once apt:update frees it, it
	// runs before the later-registered independent steps.
	assert.Equal(t, []string{
		"apt:update",
		"apt:package:git",
		"accounts:group:linuxbrew",
		"node:corepack:enable",
	}, got)
}

func TestStepGraph_TopologicalSort_Cycle(t *testing.T) {
	t.Parallel()

	graph := sequence.NewStepGraph()
	require.NoError(t, graph.Add(&fakeStep{id: "a", deps: []string{"b"}}))
	require.NoError(t, graph.Add(&fakeStep{id: "b", deps: []string{"a"}}))

	_, err := graph.TopologicalSort()
	assert.ErrorIs(t, err, sequence.ErrCyclicDependency)
}

func TestStepGraph_Get(t *testing.T) {
	t.Parallel()

	graph := sequence.NewStepGraph()
	require.NoError(t, graph.Add(&fakeStep{id: "brew:clone"}))

	step, ok := graph.Get(sequence.MustNewStepID("brew:clone"))
	require.True(t, ok)
	assert.Equal(t, "brew:clone", step.ID().String())

	_, ok = graph.Get(sequence.MustNewStepID("brew:verify"))
	assert.False(t, ok)
}
