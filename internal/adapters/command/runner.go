// Package command provides the real OS command execution adapter.
package command

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/groundwork-sh/groundwork/internal/ports"
)

// RealRunner executes actual OS commands.
type RealRunner struct{}

// NewRealRunner creates a new RealRunner.
func NewRealRunner() *RealRunner {
	return &RealRunner{}
}

// Run executes a command and returns the result. A non-zero exit is
// reported through the result, not as an error; errors mean the command
// could not be started at all.
func (r *RealRunner) Run(ctx context.Context, command string, args ...string) (ports.CommandResult, error) {
	cmd := exec.CommandContext(ctx, command, args...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := ports.CommandResult{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}

	return result, nil
}

// RunAs executes a command as another account through sudo. The service
// account steps use this to act with that account's identity and home.
func (r *RealRunner) RunAs(ctx context.Context, user, command string, args ...string) (ports.CommandResult, error) {
	sudoArgs := append([]string{"-u", user, "-H", command}, args...)
	return r.Run(ctx, "sudo", sudoArgs...)
}

// Ensure RealRunner implements the command ports.
var (
	_ ports.CommandRunner = (*RealRunner)(nil)
	_ ports.RunAser       = (*RealRunner)(nil)
)
