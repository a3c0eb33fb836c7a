package profile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/groundwork-sh/groundwork/internal/domain/sequence"
	"github.com/groundwork-sh/groundwork/internal/ports"
)

// FragmentStep appends the managed environment block to one shell
// startup file. The same step type serves the system-wide file, the
// skeleton, and each user's rc file; only the target path and the
// criticality differ.
type FragmentStep struct {
	cfg      *Config
	id       sequence.StepID
	path     string
	perm     os.FileMode
	critical bool
	summary  string
	fs       ports.FileSystem
}

// NewSystemwideStep writes the fragment to /etc/profile.d so every
// login shell sources it. The run cannot deliver a working environment
// without it.
func NewSystemwideStep(cfg *Config, fs ports.FileSystem) *FragmentStep {
	return &FragmentStep{
		cfg:      cfg,
		id:       sequence.MustNewStepID("profile:systemwide"),
		path:     DefaultSystemwidePath,
		perm:     0o644,
		critical: true,
		summary:  "System-Wide Environment Fragment",
		fs:       fs,
	}
}

// NewSkelStep appends the fragment to the account skeleton so future
// users inherit it. Best effort.
func NewSkelStep(cfg *Config, fs ports.FileSystem) *FragmentStep {
	return &FragmentStep{
		cfg:      cfg,
		id:       sequence.MustNewStepID("profile:skel"),
		path:     DefaultSkelPath,
		perm:     0o644,
		critical: false,
		summary:  "Skeleton Environment Fragment",
		fs:       fs,
	}
}

// NewUserStep appends the fragment to one existing user's rc file. Best
// effort, one user failing never stops the others. The user name comes
// from the host's passwd, so the ID is built with error handling rather
// than asserted.
func NewUserStep(cfg *Config, user ports.User, fs ports.FileSystem) (*FragmentStep, error) {
	id, err := sequence.NewStepID("profile:user:" + user.Name)
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", user.Name, err)
	}
	return &FragmentStep{
		cfg:      cfg,
		id:       id,
		path:     filepath.Join(user.HomeDir, ".bashrc"),
		perm:     0o644,
		critical: false,
		summary:  "User Environment Fragment",
		fs:       fs,
	}, nil
}

// ID returns the step identifier.
func (s *FragmentStep) ID() sequence.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *FragmentStep) DependsOn() []sequence.StepID {
	return nil
}

// Critical reports whether a failure of this target aborts the run.
func (s *FragmentStep) Critical() bool {
	return s.critical
}

// Check reports satisfied as soon as the begin marker is present, no
// matter what the rest of the block looks like.
func (s *FragmentStep) Check(_ sequence.RunContext) (sequence.StepStatus, error) {
	if !s.fs.Exists(s.path) {
		return sequence.StatusNeedsApply, nil
	}
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		return sequence.StatusUnknown, err
	}
	if HasBlock(string(data), s.cfg.Section) {
		return sequence.StatusSatisfied, nil
	}
	return sequence.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *FragmentStep) Plan(_ sequence.RunContext) (sequence.Diff, error) {
	return sequence.NewDiff(sequence.DiffTypeModify, "profile", s.path, "append "+s.cfg.Section+" block"), nil
}

// Apply appends the block once.
func (s *FragmentStep) Apply(_ sequence.RunContext) error {
	_, err := AppendBlock(s.fs, s.path, s.cfg.Section, s.cfg.Body(), s.perm)
	if err != nil {
		return fmt.Errorf("append fragment to %s: %w", s.path, err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *FragmentStep) Explain() sequence.Explanation {
	return sequence.NewExplanation(
		s.summary,
		fmt.Sprintf("Appends the marker-delimited %s block to %s exactly once.", s.cfg.Section, s.path),
		nil,
	)
}
