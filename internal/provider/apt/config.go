// Package apt provides the provider for prerequisite OS packages on
// Debian/Ubuntu hosts.
package apt

import "fmt"

// Config represents the apt section of the manifest.
type Config struct {
	Packages []string
}

// ParseConfig parses the apt configuration from a raw section map.
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	cfg := &Config{
		Packages: make([]string, 0),
	}

	if packages, ok := raw["packages"]; ok {
		packageList, ok := packages.([]interface{})
		if !ok {
			return nil, fmt.Errorf("packages must be a list")
		}
		for _, p := range packageList {
			name, ok := p.(string)
			if !ok {
				return nil, fmt.Errorf("package must be a string")
			}
			cfg.Packages = append(cfg.Packages, name)
		}
	}

	return cfg, nil
}
