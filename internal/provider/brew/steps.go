package brew

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/groundwork-sh/groundwork/internal/domain/sequence"
	"github.com/groundwork-sh/groundwork/internal/ports"
	"github.com/groundwork-sh/groundwork/internal/validation"
)

// Runner is the command surface brew steps need. Clone and verify run
// with the service account's identity, permission fixes run as root.
type Runner interface {
	ports.CommandRunner
	ports.RunAser
}

// CloneStep clones the brew repository into the prefix as the service
// account. The clone only ever happens once, a present brew binary
// satisfies the step.
type CloneStep struct {
	cfg    *Config
	id     sequence.StepID
	runner Runner
	fs     ports.FileSystem
}

// NewCloneStep creates a new CloneStep.
func NewCloneStep(cfg *Config, runner Runner, fs ports.FileSystem) *CloneStep {
	return &CloneStep{
		cfg:    cfg,
		id:     sequence.MustNewStepID("brew:clone"),
		runner: runner,
		fs:     fs,
	}
}

// ID returns the step identifier.
func (s *CloneStep) ID() sequence.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *CloneStep) DependsOn() []sequence.StepID {
	return []sequence.StepID{sequence.MustNewStepID("accounts:user:" + s.cfg.User)}
}

// Critical reports that a failed clone aborts the run.
func (s *CloneStep) Critical() bool {
	return true
}

// Check determines whether the brew binary is already in place.
func (s *CloneStep) Check(_ sequence.RunContext) (sequence.StepStatus, error) {
	if s.fs.Exists(filepath.Join(s.cfg.Prefix, "bin", "brew")) {
		return sequence.StatusSatisfied, nil
	}
	return sequence.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *CloneStep) Plan(_ sequence.RunContext) (sequence.Diff, error) {
	return sequence.NewDiff(sequence.DiffTypeAdd, "repository", "brew", s.cfg.Prefix), nil
}

// Apply clones the repository into the prefix.
func (s *CloneStep) Apply(ctx sequence.RunContext) error {
	if err := validation.ValidateAbsolutePath(s.cfg.Prefix); err != nil {
		return fmt.Errorf("invalid prefix: %w", err)
	}

	parent := filepath.Dir(s.cfg.Prefix)
	if !s.fs.Exists(parent) {
		if err := s.fs.MkdirAll(parent, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", parent, err)
		}
	}

	result, err := s.runner.RunAs(ctx.Context(), s.cfg.User, "git", "clone", "--depth", "1", s.cfg.Repo, s.cfg.Prefix)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("git clone of %s failed: %s", s.cfg.Repo, result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *CloneStep) Explain() sequence.Explanation {
	return sequence.NewExplanation(
		"Clone Brew Repository",
		fmt.Sprintf("Shallow-clones %s into %s as the %s account.", s.cfg.Repo, s.cfg.Prefix, s.cfg.User),
		[]string{"https://docs.brew.sh/Homebrew-on-Linux"},
	)
}

// PermissionsStep makes the prefix writable for the brew group:
// ownership, group write, and setgid on directories so new files keep
// the group.
type PermissionsStep struct {
	cfg    *Config
	id     sequence.StepID
	runner Runner
	fs     ports.FileSystem
}

// NewPermissionsStep creates a new PermissionsStep.
func NewPermissionsStep(cfg *Config, runner Runner, fs ports.FileSystem) *PermissionsStep {
	return &PermissionsStep{
		cfg:    cfg,
		id:     sequence.MustNewStepID("brew:permissions"),
		runner: runner,
		fs:     fs,
	}
}

// ID returns the step identifier.
func (s *PermissionsStep) ID() sequence.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *PermissionsStep) DependsOn() []sequence.StepID {
	return []sequence.StepID{sequence.MustNewStepID("brew:clone")}
}

// Critical reports that wrong prefix permissions abort the run.
func (s *PermissionsStep) Critical() bool {
	return true
}

// Check inspects the prefix root. Group write plus setgid on the root
// directory is taken as the whole tree having been fixed up.
func (s *PermissionsStep) Check(_ sequence.RunContext) (sequence.StepStatus, error) {
	info, err := s.fs.GetFileInfo(s.cfg.Prefix)
	if err != nil {
		return sequence.StatusNeedsApply, nil //nolint:nilerr // prefix appears after the clone step
	}
	if info.Mode&0o020 != 0 && info.Mode&os.ModeSetgid != 0 {
		return sequence.StatusSatisfied, nil
	}
	return sequence.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *PermissionsStep) Plan(_ sequence.RunContext) (sequence.Diff, error) {
	return sequence.NewDiff(sequence.DiffTypeModify, "permissions", s.cfg.Prefix,
		fmt.Sprintf("%s:%s, g+w, setgid dirs", s.cfg.User, s.cfg.Group)), nil
}

// Apply fixes ownership and permissions across the prefix.
func (s *PermissionsStep) Apply(ctx sequence.RunContext) error {
	owner := s.cfg.User + ":" + s.cfg.Group
	commands := [][]string{
		{"chown", "-R", owner, s.cfg.Prefix},
		{"chmod", "-R", "g+w", s.cfg.Prefix},
		{"find", s.cfg.Prefix, "-type", "d", "-exec", "chmod", "g+s", "{}", "+"},
	}
	for _, cmd := range commands {
		args := append([]string{cmd[0]}, cmd[1:]...)
		result, err := s.runner.Run(ctx.Context(), "sudo", args...)
		if err != nil {
			return err
		}
		if !result.Success() {
			return fmt.Errorf("%s failed: %s", cmd[0], result.Stderr)
		}
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *PermissionsStep) Explain() sequence.Explanation {
	return sequence.NewExplanation(
		"Fix Brew Prefix Permissions",
		fmt.Sprintf("Gives %s ownership of %s with group write and setgid directories so members of %s can install packages.", s.cfg.User, s.cfg.Prefix, s.cfg.Group),
		nil,
	)
}

// VerifyStep confirms brew runs under the service account.
type VerifyStep struct {
	cfg    *Config
	id     sequence.StepID
	runner Runner
}

// NewVerifyStep creates a new VerifyStep.
func NewVerifyStep(cfg *Config, runner Runner) *VerifyStep {
	return &VerifyStep{
		cfg:    cfg,
		id:     sequence.MustNewStepID("brew:verify"),
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *VerifyStep) ID() sequence.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *VerifyStep) DependsOn() []sequence.StepID {
	return []sequence.StepID{sequence.MustNewStepID("brew:permissions")}
}

// Critical reports that a failed verification aborts the run.
func (s *VerifyStep) Critical() bool {
	return true
}

// Check always requests the verification so it runs on every apply.
func (s *VerifyStep) Check(_ sequence.RunContext) (sequence.StepStatus, error) {
	return sequence.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *VerifyStep) Plan(_ sequence.RunContext) (sequence.Diff, error) {
	return sequence.NewDiff(sequence.DiffTypeNone, "verification", "brew", "brew --version as "+s.cfg.User), nil
}

// Apply runs the verification.
func (s *VerifyStep) Apply(ctx sequence.RunContext) error {
	brewBin := filepath.Join(s.cfg.Prefix, "bin", "brew")
	result, err := s.runner.RunAs(ctx.Context(), s.cfg.User, brewBin, "--version")
	if err != nil {
		return sequence.NewStepError(sequence.ErrCodeVerifyFailed, "brew is not runnable after installation").
			WithStepID(s.id.String()).
			WithSuggestion(fmt.Sprintf("Run sudo -u %s %s --version and inspect the output", s.cfg.User, brewBin)).
			WithUnderlying(err)
	}
	if !result.Success() {
		return sequence.NewStepError(sequence.ErrCodeVerifyFailed,
			fmt.Sprintf("brew --version exited %d: %s", result.ExitCode, result.Stderr)).
			WithStepID(s.id.String())
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *VerifyStep) Explain() sequence.Explanation {
	return sequence.NewExplanation(
		"Verify Brew",
		fmt.Sprintf("Runs brew --version as %s to confirm the installation answers.", s.cfg.User),
		nil,
	)
}
