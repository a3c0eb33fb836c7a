// Package brew provides the provider that installs Linuxbrew into a
// shared prefix owned by a dedicated service account.
package brew

import (
	"fmt"

	"github.com/groundwork-sh/groundwork/internal/validation"
)

// Defaults for a Linuxbrew installation shared through a group.
const (
	DefaultPrefix  = "/home/linuxbrew/.linuxbrew"
	DefaultUser    = "linuxbrew"
	DefaultGroup   = "linuxbrew"
	DefaultGitRepo = "https://github.com/Homebrew/brew"
)

// Config represents the brew section of the manifest.
type Config struct {
	// User is the service account that owns the prefix and runs brew.
	User string

	// Group is the group granted write access to the prefix.
	Group string

	// Prefix is the installation root; brew lives at <prefix>/bin/brew.
	Prefix string

	// Repo is the git repository cloned into the prefix.
	Repo string
}

// ParseConfig parses the brew configuration from a raw section map.
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	cfg := &Config{
		User:   DefaultUser,
		Group:  DefaultGroup,
		Prefix: DefaultPrefix,
		Repo:   DefaultGitRepo,
	}

	for key, target := range map[string]*string{
		"user":   &cfg.User,
		"group":  &cfg.Group,
		"prefix": &cfg.Prefix,
		"repo":   &cfg.Repo,
	} {
		if raw[key] == nil {
			continue
		}
		s, ok := raw[key].(string)
		if !ok {
			return nil, fmt.Errorf("%s must be a string", key)
		}
		*target = s
	}

	// The user and group end up in step IDs and sudo arguments.
	if err := validation.ValidateAccountName(cfg.User); err != nil {
		return nil, fmt.Errorf("user %q: %w", cfg.User, err)
	}
	if err := validation.ValidateAccountName(cfg.Group); err != nil {
		return nil, fmt.Errorf("group %q: %w", cfg.Group, err)
	}

	return cfg, nil
}
