// Package node provides the provider that activates the pnpm package
// manager through the corepack shim layer that ships with Node.js.
package node

import "fmt"

// DefaultShimDir is where corepack installs its shim binaries so every
// login shell finds them without PATH changes.
const DefaultShimDir = "/usr/local/bin"

// Config represents the node section of the manifest.
type Config struct {
	// PnpmVersion pins the pnpm release to activate. Empty means the
	// version corepack considers current.
	PnpmVersion string

	// ShimDir is the corepack shim install directory.
	ShimDir string
}

// ParseConfig parses the node configuration from a raw section map.
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	cfg := &Config{ShimDir: DefaultShimDir}

	if version, ok := raw["pnpm"]; ok {
		s, ok := version.(string)
		if !ok {
			return nil, fmt.Errorf("pnpm version must be a string")
		}
		cfg.PnpmVersion = s
	}

	if dir, ok := raw["shim_dir"]; ok {
		s, ok := dir.(string)
		if !ok {
			return nil, fmt.Errorf("shim_dir must be a string")
		}
		cfg.ShimDir = s
	}

	return cfg, nil
}

// PnpmSpec returns the corepack package manager spec, pnpm@<version>
// when pinned and bare pnpm otherwise.
func (c *Config) PnpmSpec() string {
	if c.PnpmVersion == "" {
		return "pnpm"
	}
	return "pnpm@" + c.PnpmVersion
}
