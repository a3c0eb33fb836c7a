package node_test

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundwork-sh/groundwork/internal/domain/sequence"
	"github.com/groundwork-sh/groundwork/internal/ports"
	"github.com/groundwork-sh/groundwork/internal/provider/node"
	"github.com/groundwork-sh/groundwork/internal/testutil/mocks"
)

func runCtx() sequence.RunContext {
	return sequence.NewRunContext(context.Background())
}

func pinnedConfig() *node.Config {
	return &node.Config{PnpmVersion: "9.12.0", ShimDir: node.DefaultShimDir}
}

func TestEnableStep_Check_ShimPresent(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("/usr/local/bin/pnpm", "#!/bin/sh")

	step := node.NewEnableStep(pinnedConfig(), mocks.NewCommandRunner(), fs)

	status, err := step.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, sequence.StatusSatisfied, status)
}

func TestEnableStep_Check_ShimMissing(t *testing.T) {
	t.Parallel()

	step := node.NewEnableStep(pinnedConfig(), mocks.NewCommandRunner(), mocks.NewFileSystem())

	status, err := step.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, sequence.StatusNeedsApply, status)
}

func TestEnableStep_Apply(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("sudo", []string{"corepack", "enable", "--install-directory", "/usr/local/bin"}, ports.CommandResult{})

	step := node.NewEnableStep(pinnedConfig(), runner, mocks.NewFileSystem())

	require.NoError(t, step.Apply(runCtx()))
	require.Len(t, runner.Calls(), 1)
}

func TestEnableStep_Apply_CorepackMissing(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddError("sudo", []string{"corepack", "enable", "--install-directory", "/usr/local/bin"}, exec.ErrNotFound)

	step := node.NewEnableStep(pinnedConfig(), runner, mocks.NewFileSystem())

	err := step.Apply(runCtx())
	assert.ErrorContains(t, err, "install Node.js 16.13 or newer")
}

func TestActivateStep_Check_VersionMatches(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("pnpm", []string{"--version"}, ports.CommandResult{Stdout: "9.12.0\n"})

	step := node.NewActivateStep(pinnedConfig(), runner)

	status, err := step.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, sequence.StatusSatisfied, status)
}

func TestActivateStep_Check_VersionDiffers(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("pnpm", []string{"--version"}, ports.CommandResult{Stdout: "8.15.4\n"})

	step := node.NewActivateStep(pinnedConfig(), runner)

	status, err := step.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, sequence.StatusNeedsApply, status)
}

func TestActivateStep_Check_Unpinned(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("pnpm", []string{"--version"}, ports.CommandResult{Stdout: "8.15.4\n"})

	step := node.NewActivateStep(&node.Config{ShimDir: node.DefaultShimDir}, runner)

	status, err := step.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, sequence.StatusSatisfied, status)
}

func TestActivateStep_Check_PnpmMissing(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddError("pnpm", []string{"--version"}, exec.ErrNotFound)

	step := node.NewActivateStep(pinnedConfig(), runner)

	status, err := step.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, sequence.StatusNeedsApply, status)
}

func TestActivateStep_Apply(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("sudo", []string{"corepack", "prepare", "pnpm@9.12.0", "--activate"}, ports.CommandResult{})

	step := node.NewActivateStep(pinnedConfig(), runner)

	require.NoError(t, step.Apply(runCtx()))
	require.Len(t, runner.Calls(), 1)
}

func TestActivateStep_Apply_Failure(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("sudo", []string{"corepack", "prepare", "pnpm@9.12.0", "--activate"}, ports.CommandResult{
		ExitCode: 1,
		Stderr:   "Internal Error: connect ETIMEDOUT",
	})

	step := node.NewActivateStep(pinnedConfig(), runner)

	err := step.Apply(runCtx())
	assert.ErrorContains(t, err, "corepack prepare pnpm@9.12.0 failed")
}

func TestVerifyStep_AlwaysRuns(t *testing.T) {
	t.Parallel()

	step := node.NewVerifyStep(pinnedConfig(), mocks.NewCommandRunner())

	status, err := step.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, sequence.StatusNeedsApply, status)
}

func TestVerifyStep_Apply_Match(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("pnpm", []string{"--version"}, ports.CommandResult{Stdout: "9.12.0\n"})

	step := node.NewVerifyStep(pinnedConfig(), runner)
	require.NoError(t, step.Apply(runCtx()))
}

func TestVerifyStep_Apply_Mismatch(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("pnpm", []string{"--version"}, ports.CommandResult{Stdout: "8.15.4\n"})

	step := node.NewVerifyStep(pinnedConfig(), runner)

	err := step.Apply(runCtx())

	var stepErr *sequence.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, sequence.ErrCodeVerifyFailed, stepErr.Code)
	assert.Contains(t, stepErr.Message, "expected 9.12.0")
	assert.NotEmpty(t, stepErr.Suggestion)
}

func TestVerifyStep_Apply_NotRunnable(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddError("pnpm", []string{"--version"}, errors.New("exec format error"))

	step := node.NewVerifyStep(pinnedConfig(), runner)

	err := step.Apply(runCtx())

	var stepErr *sequence.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, sequence.ErrCodeVerifyFailed, stepErr.Code)
	assert.Equal(t, "node:pnpm:verify", stepErr.StepID)
}
