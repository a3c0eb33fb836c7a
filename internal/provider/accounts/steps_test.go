package accounts_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundwork-sh/groundwork/internal/domain/sequence"
	"github.com/groundwork-sh/groundwork/internal/ports"
	"github.com/groundwork-sh/groundwork/internal/provider/accounts"
	"github.com/groundwork-sh/groundwork/internal/testutil/mocks"
)

func runCtx() sequence.RunContext {
	return sequence.NewRunContext(context.Background())
}

func TestGroupStep_Check_Existing(t *testing.T) {
	t.Parallel()

	dir := mocks.NewAccountDirectory()
	dir.AddGroup(ports.Group{Name: "linuxbrew", GID: "996"})

	step := accounts.NewGroupStep(accounts.Group{Name: "linuxbrew"}, dir)

	status, err := step.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, sequence.StatusSatisfied, status)
}

func TestGroupStep_Check_Missing(t *testing.T) {
	t.Parallel()

	step := accounts.NewGroupStep(accounts.Group{Name: "linuxbrew"}, mocks.NewAccountDirectory())

	status, err := step.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, sequence.StatusNeedsApply, status)
}

func TestGroupStep_Apply(t *testing.T) {
	t.Parallel()

	dir := mocks.NewAccountDirectory()
	step := accounts.NewGroupStep(accounts.Group{Name: "linuxbrew"}, dir)

	require.NoError(t, step.Apply(runCtx()))
	assert.Equal(t, []string{"group:linuxbrew"}, dir.Created())
}

func TestGroupStep_Apply_Failure(t *testing.T) {
	t.Parallel()

	dir := mocks.NewAccountDirectory()
	dir.FailOn("group:linuxbrew", errors.New("groupadd: permission denied"))

	step := accounts.NewGroupStep(accounts.Group{Name: "linuxbrew"}, dir)

	err := step.Apply(runCtx())
	assert.ErrorContains(t, err, "permission denied")
	assert.True(t, step.Critical())
}

func TestUserStep_Check_Existing(t *testing.T) {
	t.Parallel()

	dir := mocks.NewAccountDirectory()
	dir.AddUser(ports.User{Name: "linuxbrew", HomeDir: "/home/linuxbrew"})

	step := accounts.NewUserStep(accounts.User{Name: "linuxbrew", Home: "/home/linuxbrew"}, dir)

	status, err := step.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, sequence.StatusSatisfied, status)
}

func TestUserStep_Apply(t *testing.T) {
	t.Parallel()

	dir := mocks.NewAccountDirectory()
	step := accounts.NewUserStep(accounts.User{
		Name:   "linuxbrew",
		Home:   "/home/linuxbrew",
		Shell:  "/bin/bash",
		Group:  "linuxbrew",
		System: true,
	}, dir)

	require.NoError(t, step.Apply(runCtx()))
	assert.Equal(t, []string{"user:linuxbrew"}, dir.Created())
}

func TestUserStep_DependsOnGroup(t *testing.T) {
	t.Parallel()

	dir := mocks.NewAccountDirectory()

	withGroup := accounts.NewUserStep(accounts.User{Name: "linuxbrew", Group: "linuxbrew"}, dir)
	require.Len(t, withGroup.DependsOn(), 1)
	assert.Equal(t, "accounts:group:linuxbrew", withGroup.DependsOn()[0].String())

	ungrouped := accounts.NewUserStep(accounts.User{Name: "deploy"}, dir)
	assert.Empty(t, ungrouped.DependsOn())
}

func TestUserStep_Apply_RejectsRelativeHome(t *testing.T) {
	t.Parallel()

	dir := mocks.NewAccountDirectory()
	step := accounts.NewUserStep(accounts.User{Name: "linuxbrew", Home: "home/linuxbrew"}, dir)

	err := step.Apply(runCtx())
	assert.ErrorContains(t, err, "invalid home directory")
	assert.Empty(t, dir.Created())
}

func TestMemberStep_Check_AlreadyMember(t *testing.T) {
	t.Parallel()

	dir := mocks.NewAccountDirectory()
	dir.AddGroup(ports.Group{Name: "linuxbrew", Members: []string{"alice"}})

	step := accounts.NewMemberStep(accounts.Membership{User: "alice", Group: "linuxbrew"}, dir)

	status, err := step.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, sequence.StatusSatisfied, status)
}

func TestMemberStep_Check_NotMember(t *testing.T) {
	t.Parallel()

	dir := mocks.NewAccountDirectory()
	dir.AddGroup(ports.Group{Name: "linuxbrew", Members: []string{"alice"}})

	step := accounts.NewMemberStep(accounts.Membership{User: "bob", Group: "linuxbrew"}, dir)

	status, err := step.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, sequence.StatusNeedsApply, status)
}

func TestMemberStep_Apply(t *testing.T) {
	t.Parallel()

	dir := mocks.NewAccountDirectory()
	dir.AddGroup(ports.Group{Name: "linuxbrew"})

	step := accounts.NewMemberStep(accounts.Membership{User: "alice", Group: "linuxbrew"}, dir)

	require.NoError(t, step.Apply(runCtx()))
	assert.Equal(t, []string{"member:alice:linuxbrew"}, dir.Created())
}

func TestMemberStep_IsNotCritical(t *testing.T) {
	t.Parallel()

	step := accounts.NewMemberStep(accounts.Membership{User: "alice", Group: "linuxbrew"}, mocks.NewAccountDirectory())

	assert.False(t, step.Critical())
	require.Len(t, step.DependsOn(), 1)
	assert.Equal(t, "accounts:group:linuxbrew", step.DependsOn()[0].String())
}
