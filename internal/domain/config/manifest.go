// Package config loads the groundwork.yaml manifest.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Default precondition requirements. The corepack shim ships with Node
// 16.9, but the supported baseline is the oldest LTS line; the brew
// clone needs a git recent enough for partial clones.
const (
	DefaultFamily  = "ubuntu"
	defaultNodeMin = "18"
	defaultGitMin  = "2.30"
)

// HostConfig is the precondition section of the manifest.
type HostConfig struct {
	Family string       `yaml:"family"`
	Tools  []ToolConfig `yaml:"tools"`
}

// ToolConfig is one tool version requirement.
type ToolConfig struct {
	Name    string   `yaml:"name"`
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	Min     string   `yaml:"min"`
}

// Manifest is the parsed groundwork.yaml: a typed host section plus raw
// provider sections, which each provider parses itself.
type Manifest struct {
	Host     HostConfig
	Sections map[string]interface{}
}

// ParseManifest parses manifest YAML.
func ParseManifest(data []byte) (*Manifest, error) {
	sections := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}

	manifest := &Manifest{Sections: sections}

	if rawHost, ok := sections["host"]; ok {
		hostBytes, err := yaml.Marshal(rawHost)
		if err != nil {
			return nil, fmt.Errorf("yaml: %w", err)
		}
		if err := yaml.Unmarshal(hostBytes, &manifest.Host); err != nil {
			return nil, fmt.Errorf("yaml: %w", err)
		}
		delete(sections, "host")
	}

	if manifest.Host.Family == "" {
		manifest.Host.Family = DefaultFamily
	}

	return manifest, nil
}

// HasSection reports whether a provider section is present.
func (m *Manifest) HasSection(name string) bool {
	_, ok := m.Sections[name]
	return ok
}

// ToolRequirements returns the configured tool requirements, or defaults
// derived from the sections in use: the corepack shim needs a modern
// node, the brew clone needs git.
func (m *Manifest) ToolRequirements() []ToolConfig {
	if len(m.Host.Tools) > 0 {
		tools := make([]ToolConfig, len(m.Host.Tools))
		copy(tools, m.Host.Tools)
		for i := range tools {
			if tools[i].Command == "" {
				tools[i].Command = tools[i].Name
			}
			if len(tools[i].Args) == 0 {
				tools[i].Args = []string{"--version"}
			}
		}
		return tools
	}

	tools := make([]ToolConfig, 0, 2)
	if m.HasSection("node") {
		tools = append(tools, ToolConfig{
			Name:    "node",
			Command: "node",
			Args:    []string{"--version"},
			Min:     defaultNodeMin,
		})
	}
	if m.HasSection("brew") {
		tools = append(tools, ToolConfig{
			Name:    "git",
			Command: "git",
			Args:    []string{"--version"},
			Min:     defaultGitMin,
		})
	}
	return tools
}
