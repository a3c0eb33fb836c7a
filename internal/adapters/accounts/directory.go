// Package accounts implements the user/group directory collaborator on
// top of the standard directory tools (getent, groupadd, useradd,
// usermod) so lookups and mutations go through the same surface the
// operator would use by hand.
package accounts

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/groundwork-sh/groundwork/internal/ports"
)

// UID boundaries for human login accounts on Debian-family hosts.
const (
	minLoginUID = 1000
	maxLoginUID = 60000
)

// Directory implements ports.AccountDirectory through a CommandRunner.
type Directory struct {
	runner ports.CommandRunner
}

// NewDirectory creates a new Directory.
func NewDirectory(runner ports.CommandRunner) *Directory {
	return &Directory{runner: runner}
}

// LookupUser queries the passwd database for the account.
func (d *Directory) LookupUser(ctx context.Context, name string) (ports.User, bool, error) {
	result, err := d.runner.Run(ctx, "getent", "passwd", name)
	if err != nil {
		return ports.User{}, false, err
	}
	// getent exits 2 when the key is not found.
	if !result.Success() {
		return ports.User{}, false, nil
	}

	user, err := parsePasswdLine(strings.TrimSpace(result.Stdout))
	if err != nil {
		return ports.User{}, false, err
	}
	return user, true, nil
}

// LookupGroup queries the group database for the group.
func (d *Directory) LookupGroup(ctx context.Context, name string) (ports.Group, bool, error) {
	result, err := d.runner.Run(ctx, "getent", "group", name)
	if err != nil {
		return ports.Group{}, false, err
	}
	if !result.Success() {
		return ports.Group{}, false, nil
	}

	group, err := parseGroupLine(strings.TrimSpace(result.Stdout))
	if err != nil {
		return ports.Group{}, false, err
	}
	return group, true, nil
}

// CreateUser creates the account with useradd.
func (d *Directory) CreateUser(ctx context.Context, spec ports.NewUserSpec) error {
	args := []string{"useradd", "--create-home"}
	if spec.System {
		args = append(args, "--system")
	}
	if spec.HomeDir != "" {
		args = append(args, "--home-dir", spec.HomeDir)
	}
	if spec.Shell != "" {
		args = append(args, "--shell", spec.Shell)
	}
	if spec.Group != "" {
		args = append(args, "--gid", spec.Group)
	}
	args = append(args, spec.Name)

	result, err := d.runner.Run(ctx, "sudo", args...)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("useradd %s failed: %s", spec.Name, result.Stderr)
	}
	return nil
}

// CreateGroup creates a system group with groupadd.
func (d *Directory) CreateGroup(ctx context.Context, name string) error {
	result, err := d.runner.Run(ctx, "sudo", "groupadd", "--system", name)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("groupadd %s failed: %s", name, result.Stderr)
	}
	return nil
}

// AddToGroup appends the user to the group's member list.
func (d *Directory) AddToGroup(ctx context.Context, user, group string) error {
	result, err := d.runner.Run(ctx, "sudo", "usermod", "-aG", group, user)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("usermod -aG %s %s failed: %s", group, user, result.Stderr)
	}
	return nil
}

// LoginUsers enumerates the human accounts currently on the host: root
// plus every account in the login UID range. The set is dynamic; callers
// must treat per-user work as best effort.
func (d *Directory) LoginUsers(ctx context.Context) ([]ports.User, error) {
	result, err := d.runner.Run(ctx, "getent", "passwd")
	if err != nil {
		return nil, err
	}
	if !result.Success() {
		return nil, fmt.Errorf("getent passwd failed: %s", result.Stderr)
	}

	users := make([]ports.User, 0)
	for _, line := range strings.Split(result.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		user, err := parsePasswdLine(line)
		if err != nil {
			continue
		}
		if isLoginUser(user) {
			users = append(users, user)
		}
	}
	return users, nil
}

func isLoginUser(user ports.User) bool {
	uid, err := strconv.Atoi(user.UID)
	if err != nil {
		return false
	}
	if uid == 0 {
		return true
	}
	if uid < minLoginUID || uid > maxLoginUID {
		return false
	}
	switch user.Shell {
	case "/usr/sbin/nologin", "/sbin/nologin", "/bin/false", "":
		return false
	}
	return true
}

// parsePasswdLine parses "name:x:uid:gid:gecos:home:shell".
func parsePasswdLine(line string) (ports.User, error) {
	parts := strings.Split(line, ":")
	if len(parts) < 7 {
		return ports.User{}, fmt.Errorf("malformed passwd entry: %q", line)
	}
	return ports.User{
		Name:    parts[0],
		UID:     parts[2],
		GID:     parts[3],
		HomeDir: parts[5],
		Shell:   parts[6],
	}, nil
}

// parseGroupLine parses "name:x:gid:member1,member2".
func parseGroupLine(line string) (ports.Group, error) {
	parts := strings.Split(line, ":")
	if len(parts) < 4 {
		return ports.Group{}, fmt.Errorf("malformed group entry: %q", line)
	}
	group := ports.Group{
		Name: parts[0],
		GID:  parts[2],
	}
	if parts[3] != "" {
		group.Members = strings.Split(parts[3], ",")
	}
	return group, nil
}

// Ensure Directory implements ports.AccountDirectory.
var _ ports.AccountDirectory = (*Directory)(nil)
