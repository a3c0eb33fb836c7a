package sequence

import "fmt"

// Sequencer aggregates providers and compiles the manifest into a
// validated StepGraph: Config → Provider → StepGraph.
type Sequencer struct {
	providers []Provider
}

// NewSequencer creates a new Sequencer.
func NewSequencer() *Sequencer {
	return &Sequencer{
		providers: make([]Provider, 0),
	}
}

// RegisterProvider adds a provider. Providers are compiled in
// registration order, which fixes the base ordering of the run.
func (s *Sequencer) RegisterProvider(provider Provider) {
	s.providers = append(s.providers, provider)
}

// Providers returns all registered providers.
func (s *Sequencer) Providers() []Provider {
	return s.providers
}

// Compile transforms configuration into a validated StepGraph.
// Returns an error if any provider fails, a step ID is duplicated, a
// dependency is missing, or the dependency graph has a cycle.
func (s *Sequencer) Compile(config map[string]interface{}) (*StepGraph, error) {
	return s.CompileWithContext(NewCompileContext(config))
}

// CompileWithContext compiles using the provided compilation context.
func (s *Sequencer) CompileWithContext(ctx CompileContext) (*StepGraph, error) {
	graph := NewStepGraph()

	for _, provider := range s.providers {
		steps, err := provider.Compile(ctx)
		if err != nil {
			return nil, NewProviderFailedError(provider.Name(), err)
		}

		for _, step := range steps {
			if err := graph.Add(step); err != nil {
				return nil, fmt.Errorf("provider %q, step %q: %w",
					provider.Name(), step.ID().String(), err)
			}
		}
	}

	if err := graph.Validate(); err != nil {
		return nil, err
	}

	if _, err := graph.TopologicalSort(); err != nil {
		return nil, err
	}

	return graph, nil
}
