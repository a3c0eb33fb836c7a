package profile

import "fmt"

// Defaults for the environment fragment targets.
const (
	DefaultSection        = "env"
	DefaultSystemwidePath = "/etc/profile.d/groundwork.sh"
	DefaultSkelPath       = "/etc/skel/.bashrc"
)

// Config represents the profile section of the manifest.
type Config struct {
	// Section names the managed block in the markers.
	Section string

	// BrewPrefix, when set, emits a guarded shellenv eval for the brew
	// installation at that prefix.
	BrewPrefix string

	// Lines are extra literal lines included in the fragment body.
	Lines []string

	// Skel controls whether /etc/skel/.bashrc receives the fragment.
	Skel bool

	// Users controls whether existing login users receive the fragment.
	Users bool
}

// ParseConfig parses the profile configuration from a raw section map.
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	cfg := &Config{
		Section: DefaultSection,
		Skel:    true,
		Users:   true,
	}

	if section, ok := raw["section"]; ok {
		s, ok := section.(string)
		if !ok {
			return nil, fmt.Errorf("section must be a string")
		}
		cfg.Section = s
	}

	if prefix, ok := raw["brew_prefix"]; ok {
		s, ok := prefix.(string)
		if !ok {
			return nil, fmt.Errorf("brew_prefix must be a string")
		}
		cfg.BrewPrefix = s
	}

	if lines, ok := raw["lines"]; ok {
		list, ok := lines.([]interface{})
		if !ok {
			return nil, fmt.Errorf("lines must be a list")
		}
		for _, l := range list {
			s, ok := l.(string)
			if !ok {
				return nil, fmt.Errorf("lines must contain strings")
			}
			cfg.Lines = append(cfg.Lines, s)
		}
	}

	if skel, ok := raw["skel"]; ok {
		b, ok := skel.(bool)
		if !ok {
			return nil, fmt.Errorf("skel must be a boolean")
		}
		cfg.Skel = b
	}

	if users, ok := raw["users"]; ok {
		b, ok := users.(bool)
		if !ok {
			return nil, fmt.Errorf("users must be a boolean")
		}
		cfg.Users = b
	}

	return cfg, nil
}

// Body renders the fragment body placed between the markers.
func (c *Config) Body() string {
	body := ""
	if c.BrewPrefix != "" {
		brew := c.BrewPrefix + "/bin/brew"
		body += "if [ -x \"" + brew + "\" ]; then\n"
		body += "  eval \"$(" + brew + " shellenv)\"\n"
		body += "fi"
	}
	for _, line := range c.Lines {
		if body != "" {
			body += "\n"
		}
		body += line
	}
	return body
}
