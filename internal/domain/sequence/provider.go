package sequence

// Provider compiles one section of the manifest into executable steps.
// Each provider owns one kind of host resource (apt packages, accounts,
// the corepack shim, profile fragments).
type Provider interface {
	// Name returns the provider's identifier (e.g., "apt", "profile").
	Name() string

	// Compile transforms configuration into a list of steps. Steps are
	// independent within the provider; cross-provider ordering is
	// expressed through Step.DependsOn().
	Compile(ctx CompileContext) ([]Step, error)
}

// CompileContext carries the merged manifest data to providers during
// compilation.
type CompileContext struct {
	config map[string]interface{}
}

// NewCompileContext creates a new CompileContext with the given
// configuration sections.
func NewCompileContext(config map[string]interface{}) CompileContext {
	return CompileContext{config: config}
}

// Config returns the full configuration map.
func (c CompileContext) Config() map[string]interface{} {
	return c.config
}

// GetSection returns a specific section of the configuration by key.
// Returns nil if the section doesn't exist or isn't a map.
func (c CompileContext) GetSection(key string) map[string]interface{} {
	if c.config == nil {
		return nil
	}
	section, ok := c.config[key]
	if !ok {
		return nil
	}
	sectionMap, ok := section.(map[string]interface{})
	if !ok {
		return nil
	}
	return sectionMap
}
