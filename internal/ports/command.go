// Package ports defines interfaces for the external collaborators the
// sequencer queries and mutates: the OS command surface, the filesystem,
// the user/group directory, and logging.
package ports

import (
	"context"
)

// CommandResult represents the result of executing an OS command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success returns true if the command exited with code 0.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// CommandCall records a command invocation.
type CommandCall struct {
	Command string
	Args    []string
}

// String returns the invocation as a single line.
func (c CommandCall) String() string {
	s := c.Command
	for _, a := range c.Args {
		s += " " + a
	}
	return s
}

// CommandRunner executes OS commands. Provisioning steps treat the exact
// invocation arguments as their contract surface, so implementations must
// not rewrite them.
type CommandRunner interface {
	Run(ctx context.Context, command string, args ...string) (CommandResult, error)
}

// RunAser is implemented by runners that can execute a command as another
// account (sudo -u). Steps that manage the service account use this to
// act with that account's identity.
type RunAser interface {
	RunAs(ctx context.Context, user, command string, args ...string) (CommandResult, error)
}
