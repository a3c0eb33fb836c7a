package ports

import "context"

// User is a local account record as the user directory reports it.
type User struct {
	Name    string
	UID     string
	GID     string
	HomeDir string
	Shell   string
}

// Group is a local group record.
type Group struct {
	Name    string
	GID     string
	Members []string
}

// NewUserSpec describes an account to create. System accounts get no
// password and are excluded from login screens.
type NewUserSpec struct {
	Name    string
	HomeDir string
	Shell   string
	Group   string
	System  bool
}

// AccountDirectory queries and mutates the host's user and group tables.
// Account names are unique across the host; creation is skipped when the
// record already exists.
type AccountDirectory interface {
	// LookupUser returns the user record, or ok=false when absent.
	LookupUser(ctx context.Context, name string) (User, bool, error)

	// LookupGroup returns the group record, or ok=false when absent.
	LookupGroup(ctx context.Context, name string) (Group, bool, error)

	// CreateUser creates the account. Callers check existence first.
	CreateUser(ctx context.Context, spec NewUserSpec) error

	// CreateGroup creates a system group.
	CreateGroup(ctx context.Context, name string) error

	// AddToGroup appends the user to the group's member list.
	AddToGroup(ctx context.Context, user, group string) error

	// LoginUsers returns the human accounts currently present on the
	// host (UID within the login range, home under /home, plus root).
	LoginUsers(ctx context.Context) ([]User, error)
}
