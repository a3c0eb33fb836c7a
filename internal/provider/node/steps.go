package node

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/groundwork-sh/groundwork/internal/domain/sequence"
	"github.com/groundwork-sh/groundwork/internal/ports"
	"github.com/groundwork-sh/groundwork/internal/provider/commandutil"
)

// EnableStep installs the corepack shims into the shim directory so
// pnpm resolves on every PATH.
type EnableStep struct {
	cfg    *Config
	id     sequence.StepID
	runner ports.CommandRunner
	fs     ports.FileSystem
}

// NewEnableStep creates a new EnableStep.
func NewEnableStep(cfg *Config, runner ports.CommandRunner, fs ports.FileSystem) *EnableStep {
	return &EnableStep{
		cfg:    cfg,
		id:     sequence.MustNewStepID("node:corepack:enable"),
		runner: runner,
		fs:     fs,
	}
}

// ID returns the step identifier.
func (s *EnableStep) ID() sequence.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *EnableStep) DependsOn() []sequence.StepID {
	return nil
}

// Critical reports that a missing shim layer aborts the run.
func (s *EnableStep) Critical() bool {
	return true
}

// Check determines whether the pnpm shim is already installed.
func (s *EnableStep) Check(_ sequence.RunContext) (sequence.StepStatus, error) {
	if s.fs.Exists(filepath.Join(s.cfg.ShimDir, "pnpm")) {
		return sequence.StatusSatisfied, nil
	}
	return sequence.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *EnableStep) Plan(_ sequence.RunContext) (sequence.Diff, error) {
	return sequence.NewDiff(sequence.DiffTypeAdd, "shim", "pnpm", s.cfg.ShimDir), nil
}

// Apply enables the corepack shims.
func (s *EnableStep) Apply(ctx sequence.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), "sudo", "corepack", "enable", "--install-directory", s.cfg.ShimDir)
	if err != nil {
		if commandutil.IsCommandNotFound(err) {
			return fmt.Errorf("corepack not found, install Node.js 16.13 or newer: %w", err)
		}
		return err
	}
	if !result.Success() {
		return fmt.Errorf("corepack enable failed: %s", result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *EnableStep) Explain() sequence.Explanation {
	return sequence.NewExplanation(
		"Enable Corepack Shims",
		fmt.Sprintf("Installs the corepack shim binaries into %s so pnpm is on every user's PATH.", s.cfg.ShimDir),
		[]string{"https://nodejs.org/api/corepack.html"},
	)
}

// ActivateStep downloads and activates the pinned pnpm release through
// corepack.
type ActivateStep struct {
	cfg    *Config
	id     sequence.StepID
	runner ports.CommandRunner
}

// NewActivateStep creates a new ActivateStep.
func NewActivateStep(cfg *Config, runner ports.CommandRunner) *ActivateStep {
	return &ActivateStep{
		cfg:    cfg,
		id:     sequence.MustNewStepID("node:pnpm:activate"),
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *ActivateStep) ID() sequence.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *ActivateStep) DependsOn() []sequence.StepID {
	return []sequence.StepID{sequence.MustNewStepID("node:corepack:enable")}
}

// Critical reports that a failed activation aborts the run.
func (s *ActivateStep) Critical() bool {
	return true
}

// Check determines whether the active pnpm matches the pinned version.
func (s *ActivateStep) Check(ctx sequence.RunContext) (sequence.StepStatus, error) {
	result, err := s.runner.Run(ctx.Context(), "pnpm", "--version")
	if err != nil {
		// No shim yet, activation will put one in place.
		if commandutil.IsCommandNotFound(err) {
			return sequence.StatusNeedsApply, nil
		}
		return sequence.StatusUnknown, err
	}
	if !result.Success() {
		return sequence.StatusNeedsApply, nil
	}
	if s.cfg.PnpmVersion == "" {
		return sequence.StatusSatisfied, nil
	}
	if strings.TrimSpace(result.Stdout) == s.cfg.PnpmVersion {
		return sequence.StatusSatisfied, nil
	}
	return sequence.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *ActivateStep) Plan(_ sequence.RunContext) (sequence.Diff, error) {
	detail := "current release"
	if s.cfg.PnpmVersion != "" {
		detail = "version " + s.cfg.PnpmVersion
	}
	return sequence.NewDiff(sequence.DiffTypeModify, "package-manager", "pnpm", detail), nil
}

// Apply activates pnpm through corepack.
func (s *ActivateStep) Apply(ctx sequence.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), "sudo", "corepack", "prepare", s.cfg.PnpmSpec(), "--activate")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("corepack prepare %s failed: %s", s.cfg.PnpmSpec(), result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *ActivateStep) Explain() sequence.Explanation {
	return sequence.NewExplanation(
		"Activate pnpm",
		fmt.Sprintf("Runs corepack prepare %s --activate so the shim resolves to the pinned release.", s.cfg.PnpmSpec()),
		nil,
	)
}

// VerifyStep confirms the activated pnpm answers with the expected
// version. It mutates nothing, a failing verification is reported as a
// verification error.
type VerifyStep struct {
	cfg    *Config
	id     sequence.StepID
	runner ports.CommandRunner
}

// NewVerifyStep creates a new VerifyStep.
func NewVerifyStep(cfg *Config, runner ports.CommandRunner) *VerifyStep {
	return &VerifyStep{
		cfg:    cfg,
		id:     sequence.MustNewStepID("node:pnpm:verify"),
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *VerifyStep) ID() sequence.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *VerifyStep) DependsOn() []sequence.StepID {
	return []sequence.StepID{sequence.MustNewStepID("node:pnpm:activate")}
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
	return sequence.NewDiff(sequence.DiffTypeNone, "verification", "pnpm", "pnpm --version"), nil
}

// Apply runs the verification.
func (s *VerifyStep) Apply(ctx sequence.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), "pnpm", "--version")
	if err != nil {
		return sequence.NewStepError(sequence.ErrCodeVerifyFailed, "pnpm is not runnable after activation").
			WithStepID(s.id.String()).
			WithSuggestion("Check that the shim directory is on PATH and rerun apply").
			WithUnderlying(err)
	}
	if !result.Success() {
		return sequence.NewStepError(sequence.ErrCodeVerifyFailed,
			fmt.Sprintf("pnpm --version exited %d: %s", result.ExitCode, result.Stderr)).
			WithStepID(s.id.String())
	}
	got := strings.TrimSpace(result.Stdout)
	if s.cfg.PnpmVersion != "" && got != s.cfg.PnpmVersion {
		return sequence.NewStepError(sequence.ErrCodeVerifyFailed,
			fmt.Sprintf("pnpm reports %s, expected %s", got, s.cfg.PnpmVersion)).
			WithStepID(s.id.String()).
			WithSuggestion("Another pnpm earlier on PATH may shadow the corepack shim")
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *VerifyStep) Explain() sequence.Explanation {
	return sequence.NewExplanation(
		"Verify pnpm",
		"Confirms pnpm --version answers with the activated release before the run finishes.",
		nil,
	)
}
