package brew_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundwork-sh/groundwork/internal/domain/sequence"
	"github.com/groundwork-sh/groundwork/internal/ports"
	"github.com/groundwork-sh/groundwork/internal/provider/brew"
	"github.com/groundwork-sh/groundwork/internal/testutil/mocks"
)

func runCtx() sequence.RunContext {
	return sequence.NewRunContext(context.Background())
}

func defaultConfig() *brew.Config {
	return &brew.Config{
		User:   brew.DefaultUser,
		Group:  brew.DefaultGroup,
		Prefix: brew.DefaultPrefix,
		Repo:   brew.DefaultGitRepo,
	}
}

func TestCloneStep_Check_BrewPresent(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("/home/linuxbrew/.linuxbrew/bin/brew", "#!/bin/bash")

	step := brew.NewCloneStep(defaultConfig(), mocks.NewCommandRunner(), fs)

	status, err := step.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, sequence.StatusSatisfied, status)
}

func TestCloneStep_Check_BrewMissing(t *testing.T) {
	t.Parallel()

	step := brew.NewCloneStep(defaultConfig(), mocks.NewCommandRunner(), mocks.NewFileSystem())

	status, err := step.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, sequence.StatusNeedsApply, status)
}

func TestCloneStep_DependsOnServiceAccount(t *testing.T) {
	t.Parallel()

	step := brew.NewCloneStep(defaultConfig(), mocks.NewCommandRunner(), mocks.NewFileSystem())

	require.Len(t, step.DependsOn(), 1)
	assert.Equal(t, "accounts:user:linuxbrew", step.DependsOn()[0].String())
}

func TestCloneStep_Apply_RunsAsServiceAccount(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("sudo", []string{
		"-u", "linuxbrew", "-H",
		"git", "clone", "--depth", "1",
		"https://github.com/Homebrew/brew", "/home/linuxbrew/.linuxbrew",
	}, ports.CommandResult{})

	fs := mocks.NewFileSystem()
	fs.AddDir("/home/linuxbrew")

	step := brew.NewCloneStep(defaultConfig(), runner, fs)

	require.NoError(t, step.Apply(runCtx()))
	require.Len(t, runner.Calls(), 1)
	assert.Equal(t, "sudo", runner.Calls()[0].Command)
}

func TestCloneStep_Apply_CreatesParent(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("sudo", []string{
		"-u", "linuxbrew", "-H",
		"git", "clone", "--depth", "1",
		"https://github.com/Homebrew/brew", "/home/linuxbrew/.linuxbrew",
	}, ports.CommandResult{})

	fs := mocks.NewFileSystem()

	step := brew.NewCloneStep(defaultConfig(), runner, fs)

	require.NoError(t, step.Apply(runCtx()))
	assert.True(t, fs.IsDir("/home/linuxbrew"))
}

func TestCloneStep_Apply_CloneFails(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("sudo", []string{
		"-u", "linuxbrew", "-H",
		"git", "clone", "--depth", "1",
		"https://github.com/Homebrew/brew", "/home/linuxbrew/.linuxbrew",
	}, ports.CommandResult{
		ExitCode: 128,
		Stderr:   "fatal: unable to access 'https://github.com/Homebrew/brew'",
	})

	fs := mocks.NewFileSystem()
	fs.AddDir("/home/linuxbrew")

	step := brew.NewCloneStep(defaultConfig(), runner, fs)

	err := step.Apply(runCtx())
	assert.ErrorContains(t, err, "git clone")
	assert.True(t, step.Critical())
}

func TestPermissionsStep_Check_AlreadyFixed(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddDir("/home/linuxbrew/.linuxbrew")
	require.NoError(t, fs.Chmod("/home/linuxbrew/.linuxbrew", 0o775|os.ModeSetgid))

	step := brew.NewPermissionsStep(defaultConfig(), mocks.NewCommandRunner(), fs)

	status, err := step.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, sequence.StatusSatisfied, status)
}

func TestPermissionsStep_Check_MissingSetgid(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddDir("/home/linuxbrew/.linuxbrew")
	require.NoError(t, fs.Chmod("/home/linuxbrew/.linuxbrew", 0o775))

	step := brew.NewPermissionsStep(defaultConfig(), mocks.NewCommandRunner(), fs)

	status, err := step.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, sequence.StatusNeedsApply, status)
}

func TestPermissionsStep_Check_PrefixAbsent(t *testing.T) {
	t.Parallel()

	step := brew.NewPermissionsStep(defaultConfig(), mocks.NewCommandRunner(), mocks.NewFileSystem())

	status, err := step.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, sequence.StatusNeedsApply, status)
}

func TestPermissionsStep_Apply(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("sudo", []string{"chown", "-R", "linuxbrew:linuxbrew", "/home/linuxbrew/.linuxbrew"}, ports.CommandResult{})
	runner.AddResult("sudo", []string{"chmod", "-R", "g+w", "/home/linuxbrew/.linuxbrew"}, ports.CommandResult{})
	runner.AddResult("sudo", []string{"find", "/home/linuxbrew/.linuxbrew", "-type", "d", "-exec", "chmod", "g+s", "{}", "+"}, ports.CommandResult{})

	step := brew.NewPermissionsStep(defaultConfig(), runner, mocks.NewFileSystem())

	require.NoError(t, step.Apply(runCtx()))

	calls := runner.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "chown", calls[0].Args[0])
	assert.Equal(t, "chmod", calls[1].Args[0])
	assert.Equal(t, "find", calls[2].Args[0])
}

func TestPermissionsStep_Apply_ChownFails(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("sudo", []string{"chown", "-R", "linuxbrew:linuxbrew", "/home/linuxbrew/.linuxbrew"}, ports.CommandResult{
		ExitCode: 1,
		Stderr:   "chown: invalid user",
	})

	step := brew.NewPermissionsStep(defaultConfig(), runner, mocks.NewFileSystem())

	err := step.Apply(runCtx())
	assert.ErrorContains(t, err, "chown failed")
	require.Len(t, runner.Calls(), 1)
}

func TestVerifyStep_AlwaysRuns(t *testing.T) {
	t.Parallel()

	step := brew.NewVerifyStep(defaultConfig(), mocks.NewCommandRunner())

	status, err := step.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, sequence.StatusNeedsApply, status)
}

func TestVerifyStep_Apply(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("sudo", []string{
		"-u", "linuxbrew", "-H",
		"/home/linuxbrew/.linuxbrew/bin/brew", "--version",
	}, ports.CommandResult{Stdout: "Homebrew 4.3.21\n"})

	step := brew.NewVerifyStep(defaultConfig(), runner)
	require.NoError(t, step.Apply(runCtx()))
}

func TestVerifyStep_Apply_NotRunnable(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddError("sudo", []string{
		"-u", "linuxbrew", "-H",
		"/home/linuxbrew/.linuxbrew/bin/brew", "--version",
	}, errors.New("permission denied"))

	step := brew.NewVerifyStep(defaultConfig(), runner)

	err := step.Apply(runCtx())

	var stepErr *sequence.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, sequence.ErrCodeVerifyFailed, stepErr.Code)
	assert.Equal(t, "brew:verify", stepErr.StepID)
	assert.Contains(t, stepErr.Suggestion, "sudo -u linuxbrew")
}
