// Package accounts provides the provider for service accounts and
// groups, such as the dedicated owner of the brew prefix.
package accounts

import (
	"fmt"

	"github.com/groundwork-sh/groundwork/internal/validation"
)

// Config represents the accounts section of the manifest.
type Config struct {
	Groups  []Group
	Users   []User
	Members []Membership
}

// Group describes a group to ensure.
type Group struct {
	Name string
}

// User describes an account to ensure.
type User struct {
	Name   string
	Home   string
	Shell  string
	Group  string
	System bool
}

// Membership adds an existing user to a group.
type Membership struct {
	User  string
	Group string
}

// ParseConfig parses the accounts configuration from a raw section map.
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	cfg := &Config{}

	if groups, ok := raw["groups"]; ok {
		list, ok := groups.([]interface{})
		if !ok {
			return nil, fmt.Errorf("groups must be a list")
		}
		for _, g := range list {
			group, err := parseGroup(g)
			if err != nil {
				return nil, err
			}
			cfg.Groups = append(cfg.Groups, group)
		}
	}

	if users, ok := raw["users"]; ok {
		list, ok := users.([]interface{})
		if !ok {
			return nil, fmt.Errorf("users must be a list")
		}
		for _, u := range list {
			user, err := parseUser(u)
			if err != nil {
				return nil, err
			}
			cfg.Users = append(cfg.Users, user)
		}
	}

	if members, ok := raw["members"]; ok {
		list, ok := members.([]interface{})
		if !ok {
			return nil, fmt.Errorf("members must be a list")
		}
		for _, m := range list {
			membership, err := parseMembership(m)
			if err != nil {
				return nil, err
			}
			cfg.Members = append(cfg.Members, membership)
		}
	}

	return cfg, nil
}

func parseGroup(raw interface{}) (Group, error) {
	switch v := raw.(type) {
	case string:
		if err := validation.ValidateAccountName(v); err != nil {
			return Group{}, fmt.Errorf("group %q: %w", v, err)
		}
		return Group{Name: v}, nil
	case map[string]interface{}:
		name, ok := v["name"].(string)
		if !ok || name == "" {
			return Group{}, fmt.Errorf("group must have a name")
		}
		if err := validation.ValidateAccountName(name); err != nil {
			return Group{}, fmt.Errorf("group %q: %w", name, err)
		}
		return Group{Name: name}, nil
	default:
		return Group{}, fmt.Errorf("group must be a string or object")
	}
}

func parseUser(raw interface{}) (User, error) {
	v, ok := raw.(map[string]interface{})
	if !ok {
		return User{}, fmt.Errorf("user must be an object")
	}

	user := User{Shell: "/bin/bash"}
	if name, ok := v["name"].(string); ok && name != "" {
		user.Name = name
	} else {
		return User{}, fmt.Errorf("user must have a name")
	}
	if err := validation.ValidateAccountName(user.Name); err != nil {
		return User{}, fmt.Errorf("user %q: %w", user.Name, err)
	}
	if home, ok := v["home"].(string); ok {
		user.Home = home
	}
	if user.Home == "" {
		user.Home = "/home/" + user.Name
	}
	if shell, ok := v["shell"].(string); ok {
		user.Shell = shell
	}
	if group, ok := v["group"].(string); ok {
		user.Group = group
	}
	if user.Group != "" {
		if err := validation.ValidateAccountName(user.Group); err != nil {
			return User{}, fmt.Errorf("group %q: %w", user.Group, err)
		}
	}
	if system, ok := v["system"].(bool); ok {
		user.System = system
	}
	return user, nil
}

func parseMembership(raw interface{}) (Membership, error) {
	v, ok := raw.(map[string]interface{})
	if !ok {
		return Membership{}, fmt.Errorf("membership must be an object")
	}

	m := Membership{}
	if user, ok := v["user"].(string); ok && user != "" {
		m.User = user
	} else {
		return Membership{}, fmt.Errorf("membership must name a user")
	}
	if group, ok := v["group"].(string); ok && group != "" {
		m.Group = group
	} else {
		return Membership{}, fmt.Errorf("membership must name a group")
	}
	if err := validation.ValidateAccountName(m.User); err != nil {
		return Membership{}, fmt.Errorf("user %q: %w", m.User, err)
	}
	if err := validation.ValidateAccountName(m.Group); err != nil {
		return Membership{}, fmt.Errorf("group %q: %w", m.Group, err)
	}
	return m, nil
}
