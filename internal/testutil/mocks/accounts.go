package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/groundwork-sh/groundwork/internal/ports"
)

// AccountDirectory is a thread-safe test double for
// ports.AccountDirectory.
type AccountDirectory struct {
	mu         sync.RWMutex
	users      map[string]ports.User
	groups     map[string]ports.Group
	loginUsers []ports.User
	created    []string
	failFor    map[string]error
}

// NewAccountDirectory creates a new AccountDirectory mock.
func NewAccountDirectory() *AccountDirectory {
	return &AccountDirectory{
		users:   make(map[string]ports.User),
		groups:  make(map[string]ports.Group),
		failFor: make(map[string]error),
	}
}

// AddUser seeds an existing account.
func (d *AccountDirectory) AddUser(user ports.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[user.Name] = user
}

// AddGroup seeds an existing group.
func (d *AccountDirectory) AddGroup(group ports.Group) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.groups[group.Name] = group
}

// SetLoginUsers fixes the set LoginUsers reports.
func (d *AccountDirectory) SetLoginUsers(users []ports.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loginUsers = users
}

// FailOn makes the named mutation ("user:<name>", "group:<name>",
// "member:<user>:<group>") return the given error.
func (d *AccountDirectory) FailOn(key string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failFor[key] = err
}

// Created returns the mutation keys applied, in order.
func (d *AccountDirectory) Created() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	created := make([]string, len(d.created))
	copy(created, d.created)
	return created
}

// LookupUser reports a seeded or created account.
func (d *AccountDirectory) LookupUser(_ context.Context, name string) (ports.User, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	user, ok := d.users[name]
	return user, ok, nil
}

// LookupGroup reports a seeded or created group.
func (d *AccountDirectory) LookupGroup(_ context.Context, name string) (ports.Group, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	group, ok := d.groups[name]
	return group, ok, nil
}

// CreateUser records the account creation.
func (d *AccountDirectory) CreateUser(_ context.Context, spec ports.NewUserSpec) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := "user:" + spec.Name
	if err, ok := d.failFor[key]; ok {
		return err
	}
	if _, exists := d.users[spec.Name]; exists {
		return fmt.Errorf("user %s already exists", spec.Name)
	}
	d.users[spec.Name] = ports.User{
		Name:    spec.Name,
		HomeDir: spec.HomeDir,
		Shell:   spec.Shell,
	}
	d.created = append(d.created, key)
	return nil
}

// CreateGroup records the group creation.
func (d *AccountDirectory) CreateGroup(_ context.Context, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := "group:" + name
	if err, ok := d.failFor[key]; ok {
		return err
	}
	if _, exists := d.groups[name]; exists {
		return fmt.Errorf("group %s already exists", name)
	}
	d.groups[name] = ports.Group{Name: name}
	d.created = append(d.created, key)
	return nil
}

// AddToGroup records the membership change.
func (d *AccountDirectory) AddToGroup(_ context.Context, user, group string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := "member:" + user + ":" + group
	if err, ok := d.failFor[key]; ok {
		return err
	}
	g, ok := d.groups[group]
	if !ok {
		return fmt.Errorf("group %s does not exist", group)
	}
	g.Members = append(g.Members, user)
	d.groups[group] = g
	d.created = append(d.created, key)
	return nil
}

// LoginUsers returns the fixed login user set.
func (d *AccountDirectory) LoginUsers(_ context.Context) ([]ports.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	users := make([]ports.User, len(d.loginUsers))
	copy(users, d.loginUsers)
	return users, nil
}

// Ensure AccountDirectory implements ports.AccountDirectory.
var _ ports.AccountDirectory = (*AccountDirectory)(nil)
