package state_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundwork-sh/groundwork/internal/domain/state"
	"github.com/groundwork-sh/groundwork/internal/testutil/mocks"
)

func TestStore_Load_MissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	store := state.NewStore(mocks.NewFileSystem()).WithPath("/tmp/state.toml")

	doc, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, doc.Runs)

	_, ok := doc.LastRun()
	assert.False(t, ok)
}

func TestStore_AppendAndLoad(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	store := state.NewStore(fs).WithPath("/var/lib/groundwork/state.toml")

	rec := state.NewRecord("host-a")
	rec.FinishedAt = time.Now().UTC()
	rec.Steps = []state.StepRecord{
		{ID: "apt:update", Status: "satisfied"},
		{ID: "brew:clone", Status: "satisfied"},
	}
	require.NoError(t, store.Append(rec))

	doc, err := store.Load()
	require.NoError(t, err)
	require.Len(t, doc.Runs, 1)

	last, ok := doc.LastRun()
	require.True(t, ok)
	assert.Equal(t, rec.ID, last.ID)
	assert.Equal(t, "host-a", last.Host)
	assert.Len(t, last.Steps, 2)
	assert.False(t, last.Aborted)
}

func TestStore_AppendKeepsHistory(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	store := state.NewStore(fs).WithPath("/var/lib/groundwork/state.toml")

	first := state.NewRecord("host-a")
	second := state.NewRecord("host-a")
	second.Aborted = true

	require.NoError(t, store.Append(first))
	require.NoError(t, store.Append(second))

	doc, err := store.Load()
	require.NoError(t, err)
	require.Len(t, doc.Runs, 2)

	last, ok := doc.LastRun()
	require.True(t, ok)
	assert.Equal(t, second.ID, last.ID)
	assert.True(t, last.Aborted)
}

func TestNewRecord_UniqueIDs(t *testing.T) {
	t.Parallel()

	a := state.NewRecord("host")
	b := state.NewRecord("host")
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEmpty(t, a.ID)
}

func TestStore_Load_Corrupt(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("/var/lib/groundwork/state.toml", "not [valid toml")

	store := state.NewStore(fs).WithPath("/var/lib/groundwork/state.toml")
	_, err := store.Load()
	assert.Error(t, err)
}
