// Package mocks provides test doubles for the external collaborators,
// letting sequencer tests assert exact invocations without touching the
// host.
package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/groundwork-sh/groundwork/internal/ports"
)

// CommandRunner is a thread-safe test double for ports.CommandRunner.
type CommandRunner struct {
	mu      sync.RWMutex
	results map[string]ports.CommandResult
	errors  map[string]error
	calls   []ports.CommandCall
}

// NewCommandRunner creates a new CommandRunner mock.
func NewCommandRunner() *CommandRunner {
	return &CommandRunner{
		results: make(map[string]ports.CommandResult),
		errors:  make(map[string]error),
		calls:   make([]ports.CommandCall, 0),
	}
}

// AddResult registers an expected command and its result.
func (m *CommandRunner) AddResult(command string, args []string, result ports.CommandResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[buildKey(command, args)] = result
}

// AddError registers an expected command that should return an error.
func (m *CommandRunner) AddError(command string, args []string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[buildKey(command, args)] = err
}

// Run executes a mock command.
func (m *CommandRunner) Run(_ context.Context, command string, args ...string) (ports.CommandResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ports.CommandCall{
		Command: command,
		Args:    args,
	})
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	key := buildKey(command, args)

	if err, ok := m.errors[key]; ok {
		return ports.CommandResult{}, err
	}

	if result, ok := m.results[key]; ok {
		return result, nil
	}

	return ports.CommandResult{}, fmt.Errorf("no mock result for command: %s %v", command, args)
}

// RunAs executes a mock command as another user, recorded the way the
// real adapter invokes sudo.
func (m *CommandRunner) RunAs(ctx context.Context, user, command string, args ...string) (ports.CommandResult, error) {
	sudoArgs := append([]string{"-u", user, "-H", command}, args...)
	return m.Run(ctx, "sudo", sudoArgs...)
}

// Calls returns all recorded command invocations.
func (m *CommandRunner) Calls() []ports.CommandCall {
	m.mu.RLock()
	defer m.mu.RUnlock()

	calls := make([]ports.CommandCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// MutatingCalls returns the recorded invocations that change host state
// (everything except the read-only lookups used by checks).
func (m *CommandRunner) MutatingCalls() []ports.CommandCall {
	mutating := make([]ports.CommandCall, 0)
	for _, call := range m.Calls() {
		if isReadOnly(call) {
			continue
		}
		mutating = append(mutating, call)
	}
	return mutating
}

// Reset clears all registered results, errors, and recorded calls.
func (m *CommandRunner) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = make(map[string]ports.CommandResult)
	m.errors = make(map[string]error)
	m.calls = make([]ports.CommandCall, 0)
}

func isReadOnly(call ports.CommandCall) bool {
	switch call.Command {
	case "getent", "dpkg-query", "which":
		return true
	}
	if len(call.Args) > 0 && call.Args[len(call.Args)-1] == "--version" {
		return true
	}
	return false
}

// buildKey creates a unique key for a command and its arguments.
func buildKey(command string, args []string) string {
	return command + ":" + strings.Join(args, ":")
}

// Ensure CommandRunner implements the command ports.
var (
	_ ports.CommandRunner = (*CommandRunner)(nil)
	_ ports.RunAser       = (*CommandRunner)(nil)
)
