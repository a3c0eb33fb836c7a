package accounts

import (
	"fmt"

	"github.com/groundwork-sh/groundwork/internal/domain/sequence"
	"github.com/groundwork-sh/groundwork/internal/ports"
	"github.com/groundwork-sh/groundwork/internal/validation"
)

// GroupStep ensures a system group exists. Creation is skipped when the
// group record is already present.
type GroupStep struct {
	group Group
	id    sequence.StepID
	dir   ports.AccountDirectory
}

// NewGroupStep creates a new GroupStep.
func NewGroupStep(group Group, dir ports.AccountDirectory) *GroupStep {
	return &GroupStep{
		group: group,
		id:    sequence.MustNewStepID("accounts:group:" + group.Name),
		dir:   dir,
	}
}

// ID returns the step identifier.
func (s *GroupStep) ID() sequence.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *GroupStep) DependsOn() []sequence.StepID {
	return nil
}

// Critical reports that a failed group creation aborts the run.
func (s *GroupStep) Critical() bool {
	return true
}

// Check looks the group up in the directory.
func (s *GroupStep) Check(ctx sequence.RunContext) (sequence.StepStatus, error) {
	_, exists, err := s.dir.LookupGroup(ctx.Context(), s.group.Name)
	if err != nil {
		return sequence.StatusUnknown, err
	}
	if exists {
		return sequence.StatusSatisfied, nil
	}
	return sequence.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *GroupStep) Plan(_ sequence.RunContext) (sequence.Diff, error) {
	return sequence.NewDiff(sequence.DiffTypeAdd, "group", s.group.Name, "system group"), nil
}

// Apply creates the group.
func (s *GroupStep) Apply(ctx sequence.RunContext) error {
	if err := validation.ValidateAccountName(s.group.Name); err != nil {
		return fmt.Errorf("invalid group name: %w", err)
	}
	return s.dir.CreateGroup(ctx.Context(), s.group.Name)
}

// Explain provides a human-readable explanation.
func (s *GroupStep) Explain() sequence.Explanation {
	return sequence.NewExplanation(
		"Create System Group",
		fmt.Sprintf("Creates the %s system group that owns shared provisioning paths.", s.group.Name),
		nil,
	)
}

// UserStep ensures a service account exists with the configured home and
// shell. Account names are unique across the host, so an existing record
// satisfies the step.
type UserStep struct {
	user User
	id   sequence.StepID
	deps []sequence.StepID
	dir  ports.AccountDirectory
}

// NewUserStep creates a new UserStep.
func NewUserStep(user User, dir ports.AccountDirectory) *UserStep {
	deps := []sequence.StepID{}
	if user.Group != "" {
		deps = append(deps, sequence.MustNewStepID("accounts:group:"+user.Group))
	}
	return &UserStep{
		user: user,
		id:   sequence.MustNewStepID("accounts:user:" + user.Name),
		deps: deps,
		dir:  dir,
	}
}

// ID returns the step identifier.
func (s *UserStep) ID() sequence.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *UserStep) DependsOn() []sequence.StepID {
	return s.deps
}

// Critical reports that a failed account creation aborts the run.
func (s *UserStep) Critical() bool {
	return true
}

// Check looks the account up in the directory.
func (s *UserStep) Check(ctx sequence.RunContext) (sequence.StepStatus, error) {
	_, exists, err := s.dir.LookupUser(ctx.Context(), s.user.Name)
	if err != nil {
		return sequence.StatusUnknown, err
	}
	if exists {
		return sequence.StatusSatisfied, nil
	}
	return sequence.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *UserStep) Plan(_ sequence.RunContext) (sequence.Diff, error) {
	return sequence.NewDiff(sequence.DiffTypeAdd, "user", s.user.Name, s.user.Home), nil
}

// Apply creates the account.
func (s *UserStep) Apply(ctx sequence.RunContext) error {
	if err := validation.ValidateAccountName(s.user.Name); err != nil {
		return fmt.Errorf("invalid user name: %w", err)
	}
	if err := validation.ValidateAbsolutePath(s.user.Home); err != nil {
		return fmt.Errorf("invalid home directory: %w", err)
	}

	return s.dir.CreateUser(ctx.Context(), ports.NewUserSpec{
		Name:    s.user.Name,
		HomeDir: s.user.Home,
		Shell:   s.user.Shell,
		Group:   s.user.Group,
		System:  s.user.System,
	})
}

// Explain provides a human-readable explanation.
func (s *UserStep) Explain() sequence.Explanation {
	return sequence.NewExplanation(
		"Create Service Account",
		fmt.Sprintf("Creates the %s account with home %s so the package manager runs under a dedicated identity.", s.user.Name, s.user.Home),
		nil,
	)
}

// MemberStep adds an existing user to a group. Membership is a
// convenience, so the step never aborts the run.
type MemberStep struct {
	member Membership
	id     sequence.StepID
	dir    ports.AccountDirectory
}

// NewMemberStep creates a new MemberStep.
func NewMemberStep(member Membership, dir ports.AccountDirectory) *MemberStep {
	return &MemberStep{
		member: member,
		id:     sequence.MustNewStepID("accounts:member:" + member.User + ":" + member.Group),
		dir:    dir,
	}
}

// ID returns the step identifier.
func (s *MemberStep) ID() sequence.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *MemberStep) DependsOn() []sequence.StepID {
	return []sequence.StepID{sequence.MustNewStepID("accounts:group:" + s.member.Group)}
}

// Critical reports that membership failures only warn.
func (s *MemberStep) Critical() bool {
	return false
}

// Check determines whether the user is already a member.
func (s *MemberStep) Check(ctx sequence.RunContext) (sequence.StepStatus, error) {
	group, exists, err := s.dir.LookupGroup(ctx.Context(), s.member.Group)
	if err != nil {
		return sequence.StatusUnknown, err
	}
	if !exists {
		return sequence.StatusNeedsApply, nil
	}
	for _, m := range group.Members {
		if m == s.member.User {
			return sequence.StatusSatisfied, nil
		}
	}
	return sequence.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *MemberStep) Plan(_ sequence.RunContext) (sequence.Diff, error) {
	return sequence.NewDiff(sequence.DiffTypeModify, "membership", s.member.User, "join "+s.member.Group), nil
}

// Apply adds the user to the group.
func (s *MemberStep) Apply(ctx sequence.RunContext) error {
	if err := validation.ValidateAccountName(s.member.User); err != nil {
		return fmt.Errorf("invalid user name: %w", err)
	}
	return s.dir.AddToGroup(ctx.Context(), s.member.User, s.member.Group)
}

// Explain provides a human-readable explanation.
func (s *MemberStep) Explain() sequence.Explanation {
	return sequence.NewExplanation(
		"Add Group Membership",
		fmt.Sprintf("Adds %s to the %s group for write access to shared paths.", s.member.User, s.member.Group),
		nil,
	)
}
