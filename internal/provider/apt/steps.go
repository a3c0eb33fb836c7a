package apt

import (
	"fmt"
	"strings"
	"time"

	"github.com/groundwork-sh/groundwork/internal/domain/sequence"
	"github.com/groundwork-sh/groundwork/internal/ports"
	"github.com/groundwork-sh/groundwork/internal/validation"
)

// updateStampPath is touched by apt after a successful update; its age
// tells us whether the package lists are fresh enough to skip.
const updateStampPath = "/var/lib/apt/periodic/update-success-stamp"

// updateMaxAge is how long refreshed package lists stay satisfied.
const updateMaxAge = 24 * time.Hour

// UpdateStep refreshes the apt package lists. Package installs depend on
// it, and its failure aborts the run.
type UpdateStep struct {
	id     sequence.StepID
	runner ports.CommandRunner
	fs     ports.FileSystem
}

// NewUpdateStep creates a new UpdateStep.
func NewUpdateStep(runner ports.CommandRunner, fs ports.FileSystem) *UpdateStep {
	return &UpdateStep{
		id:     sequence.MustNewStepID("apt:update"),
		runner: runner,
		fs:     fs,
	}
}

// ID returns the step identifier.
func (s *UpdateStep) ID() sequence.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *UpdateStep) DependsOn() []sequence.StepID {
	return nil
}

// Critical reports that an update failure aborts the run.
func (s *UpdateStep) Critical() bool {
	return true
}

// Check determines whether the package lists were refreshed recently.
func (s *UpdateStep) Check(_ sequence.RunContext) (sequence.StepStatus, error) {
	info, err := s.fs.GetFileInfo(updateStampPath)
	if err != nil {
		return sequence.StatusNeedsApply, nil //nolint:nilerr // missing stamp means lists are stale
	}
	if time.Since(info.ModTime) < updateMaxAge {
		return sequence.StatusSatisfied, nil
	}
	return sequence.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *UpdateStep) Plan(_ sequence.RunContext) (sequence.Diff, error) {
	return sequence.NewDiff(sequence.DiffTypeModify, "package-lists", "apt", "refresh"), nil
}

// Apply refreshes the package lists.
func (s *UpdateStep) Apply(ctx sequence.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), "sudo", "apt-get", "update")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("apt-get update failed: %s", result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *UpdateStep) Explain() sequence.Explanation {
	return sequence.NewExplanation(
		"Refresh APT Package Lists",
		"Runs apt-get update so prerequisite packages install from current package lists.",
		nil,
	)
}

// PackageStep installs one prerequisite OS package.
type PackageStep struct {
	pkg    string
	id     sequence.StepID
	runner ports.CommandRunner
}

// NewPackageStep creates a new PackageStep.
func NewPackageStep(pkg string, runner ports.CommandRunner) *PackageStep {
	return &PackageStep{
		pkg:    pkg,
		id:     sequence.MustNewStepID("apt:package:" + pkg),
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *PackageStep) ID() sequence.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *PackageStep) DependsOn() []sequence.StepID {
	return []sequence.StepID{sequence.MustNewStepID("apt:update")}
}

// Critical reports that a failed prerequisite install aborts the run.
func (s *PackageStep) Critical() bool {
	return true
}

// Check determines if the package is already installed.
func (s *PackageStep) Check(ctx sequence.RunContext) (sequence.StepStatus, error) {
	result, err := s.runner.Run(ctx.Context(), "dpkg-query", "-W", "-f=${Package}\t${db:Status-Status}\n", s.pkg)
	if err != nil {
		return sequence.StatusUnknown, err
	}

	// dpkg-query exits 1 when the package is not known.
	if !result.Success() {
		return sequence.StatusNeedsApply, nil
	}

	if strings.Contains(result.Stdout, "installed") {
		return sequence.StatusSatisfied, nil
	}
	return sequence.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *PackageStep) Plan(_ sequence.RunContext) (sequence.Diff, error) {
	return sequence.NewDiff(sequence.DiffTypeAdd, "package", s.pkg, "latest"), nil
}

// Apply installs the package.
func (s *PackageStep) Apply(ctx sequence.RunContext) error {
	// Validate before execution to prevent command injection.
	if err := validation.ValidatePackageName(s.pkg); err != nil {
		return fmt.Errorf("invalid package name: %w", err)
	}

	result, err := s.runner.Run(ctx.Context(), "sudo", "apt-get", "install", "-y", s.pkg)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("apt-get install %s failed: %s", s.pkg, result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *PackageStep) Explain() sequence.Explanation {
	return sequence.NewExplanation(
		"Install APT Package",
		fmt.Sprintf("Installs the %s package via apt as a provisioning prerequisite.", s.pkg),
		nil,
	)
}
