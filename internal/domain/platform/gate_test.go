package platform_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundwork-sh/groundwork/internal/domain/platform"
	"github.com/groundwork-sh/groundwork/internal/domain/sequence"
	"github.com/groundwork-sh/groundwork/internal/ports"
	"github.com/groundwork-sh/groundwork/internal/testutil/mocks"
)

func gateFixture(osRelease string) (*mocks.FileSystem, *mocks.CommandRunner) {
	fs := mocks.NewFileSystem()
	if osRelease != "" {
		fs.AddFile("/etc/os-release", osRelease)
	}
	return fs, mocks.NewCommandRunner()
}

func requirePreconditionUnmet(t *testing.T, err error) *sequence.StepError {
	t.Helper()

	require.Error(t, err)
	var stepErr *sequence.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, sequence.ErrCodePreconditionUnmet, stepErr.Code)
	return stepErr
}

func TestGate_Verify_Passes(t *testing.T) {
	t.Parallel()

	fs, runner := gateFixture(ubuntuOSRelease)
	runner.AddResult("node", []string{"--version"}, ports.CommandResult{Stdout: "v22.3.0\n"})
	runner.AddResult("git", []string{"--version"}, ports.CommandResult{Stdout: "git version 2.43.0\n"})

	gate := platform.NewGate(fs, runner, "ubuntu", []platform.ToolRequirement{
		{Name: "node", Command: "node", Args: []string{"--version"}, MinVersion: "18"},
		{Name: "git", Command: "git", Args: []string{"--version"}, MinVersion: "2.30"},
	})

	rel, err := gate.Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ubuntu", rel.ID)
}

func TestGate_Verify_MissingOSRelease(t *testing.T) {
	t.Parallel()

	fs, runner := gateFixture("")
	gate := platform.NewGate(fs, runner, "ubuntu", nil)

	_, err := gate.Verify(context.Background())
	requirePreconditionUnmet(t, err)
}

func TestGate_Verify_WrongFamily(t *testing.T) {
	t.Parallel()

	fs, runner := gateFixture("ID=fedora\nPRETTY_NAME=\"Fedora 40\"\n")
	gate := platform.NewGate(fs, runner, "ubuntu", nil)

	_, err := gate.Verify(context.Background())
	stepErr := requirePreconditionUnmet(t, err)
	assert.Contains(t, stepErr.Message, "Fedora 40")
}

func TestGate_Verify_ToolMissing(t *testing.T) {
	t.Parallel()

	fs, runner := gateFixture(ubuntuOSRelease)
	runner.AddResult("node", []string{"--version"}, ports.CommandResult{ExitCode: 127})

	gate := platform.NewGate(fs, runner, "ubuntu", []platform.ToolRequirement{
		{Name: "node", Command: "node", Args: []string{"--version"}, MinVersion: "18"},
	})

	_, err := gate.Verify(context.Background())
	stepErr := requirePreconditionUnmet(t, err)
	assert.Contains(t, stepErr.Message, "node")
}

func TestGate_Verify_ToolBelowMinimum(t *testing.T) {
	t.Parallel()

	fs, runner := gateFixture(ubuntuOSRelease)
	runner.AddResult("node", []string{"--version"}, ports.CommandResult{Stdout: "v16.20.2\n"})

	gate := platform.NewGate(fs, runner, "ubuntu", []platform.ToolRequirement{
		{Name: "node", Command: "node", Args: []string{"--version"}, MinVersion: "18"},
	})

	_, err := gate.Verify(context.Background())
	stepErr := requirePreconditionUnmet(t, err)
	assert.Contains(t, stepErr.Message, "below the required major version")
}

func TestGate_Verify_MajorVersionOnly(t *testing.T) {
	t.Parallel()

	// Same major but lower minor than the minimum still passes; only the
	// major version is compared.
	fs, runner := gateFixture(ubuntuOSRelease)
	runner.AddResult("git", []string{"--version"}, ports.CommandResult{Stdout: "git version 2.25.1\n"})

	gate := platform.NewGate(fs, runner, "ubuntu", []platform.ToolRequirement{
		{Name: "git", Command: "git", Args: []string{"--version"}, MinVersion: "2.30"},
	})

	_, err := gate.Verify(context.Background())
	assert.NoError(t, err)
}

func TestGate_Verify_NoMutatingCalls(t *testing.T) {
	t.Parallel()

	fs, runner := gateFixture("ID=fedora\n")
	gate := platform.NewGate(fs, runner, "ubuntu", nil)

	_, err := gate.Verify(context.Background())
	require.Error(t, err)
	assert.Empty(t, runner.MutatingCalls())
	assert.Empty(t, fs.Writes())
}

func TestExtractVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		output string
		want   string
		ok     bool
	}{
		{"node style", "v22.3.0", "v22.3.0", true},
		{"git style", "git version 2.43.0", "v2.43.0", true},
		{"bare major", "9", "v9", true},
		{"major minor", "pnpm 9.12", "v9.12", true},
		{"no version", "none here", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := platform.ExtractVersion(tt.output)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
