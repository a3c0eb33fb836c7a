package sequence

import (
	"errors"
	"fmt"
	"sort"
)

// Errors for StepGraph operations.
var (
	ErrDuplicateStep    = errors.New("step with this ID already exists")
	ErrCyclicDependency = errors.New("cyclic dependency detected")
	ErrMissingDep       = errors.New("step depends on nonexistent step")
)

// StepGraph is a directed acyclic graph of steps. It tracks dependencies
// and yields a deterministic execution order: dependencies first, and
// registration order among independent steps.
type StepGraph struct {
	steps      map[string]Step
	order      map[string]int      // step ID -> registration index
	dependsOn  map[string][]string // step ID -> dependency IDs
	dependedBy map[string][]string // step ID -> dependent IDs
	count      int
}

// NewStepGraph creates an empty StepGraph.
func NewStepGraph() *StepGraph {
	return &StepGraph{
		steps:      make(map[string]Step),
		order:      make(map[string]int),
		dependsOn:  make(map[string][]string),
		dependedBy: make(map[string][]string),
	}
}

// Len returns the number of steps in the graph.
func (g *StepGraph) Len() int {
	return len(g.steps)
}

// Add adds a step to the graph.
// Returns ErrDuplicateStep if a step with the same ID already exists.
func (g *StepGraph) Add(step Step) error {
	id := step.ID().String()

	if _, exists := g.steps[id]; exists {
		return ErrDuplicateStep
	}

	g.steps[id] = step
	g.order[id] = g.count
	g.count++

	deps := step.DependsOn()
	depIDs := make([]string, len(deps))
	for i, dep := range deps {
		depID := dep.String()
		depIDs[i] = depID
		g.dependedBy[depID] = append(g.dependedBy[depID], id)
	}
	g.dependsOn[id] = depIDs

	return nil
}

// Get retrieves a step by ID.
func (g *StepGraph) Get(id StepID) (Step, bool) {
	step, ok := g.steps[id.String()]
	return step, ok
}

// Steps returns all steps in registration order.
func (g *StepGraph) Steps() []Step {
	steps := make([]Step, 0, len(g.steps))
	for _, step := range g.steps {
		steps = append(steps, step)
	}
	sort.Slice(steps, func(i, j int) bool {
		return g.order[steps[i].ID().String()] < g.order[steps[j].ID().String()]
	})
	return steps
}

// Validate checks that all dependencies exist.
func (g *StepGraph) Validate() error {
	for id, deps := range g.dependsOn {
		for _, depID := range deps {
			if _, exists := g.steps[depID]; !exists {
				return fmt.Errorf("%w: step %q depends on %q", ErrMissingDep, id, depID)
			}
		}
	}
	return nil
}

// TopologicalSort returns steps in dependency order using Kahn's
// algorithm. Among the steps whose dependencies are satisfied, the
// earliest-registered one always runs next, so a run is the same
// ordered list every time.
// Returns ErrCyclicDependency if the graph contains a cycle.
func (g *StepGraph) TopologicalSort() ([]Step, error) {
	inDegree := make(map[string]int, len(g.steps))
	for id := range g.steps {
		inDegree[id] = 0
	}
	for id := range g.steps {
		for _, depID := range g.dependsOn[id] {
			if _, exists := g.steps[depID]; exists {
				inDegree[id]++
			}
		}
	}

	ready := make([]string, 0, len(g.steps))
	for id, degree := range inDegree {
		if degree == 0 {
			ready = append(ready, id)
		}
	}
	g.sortByRegistration(ready)

	sorted := make([]Step, 0, len(g.steps))

	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]

		sorted = append(sorted, g.steps[id])

		released := false
		for _, dependentID := range g.dependedBy[id] {
			if _, exists := g.steps[dependentID]; !exists {
				continue
			}
			inDegree[dependentID]--
			if inDegree[dependentID] == 0 {
				ready = append(ready, dependentID)
				released = true
			}
		}
		// Keep the ready list ordered by registration index so a freshly
		// released early step runs before later-registered independent ones.
		if released {
			g.sortByRegistration(ready)
		}
	}

	if len(sorted) != len(g.steps) {
		return nil, ErrCyclicDependency
	}

	return sorted, nil
}

func (g *StepGraph) sortByRegistration(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		return g.order[ids[i]] < g.order[ids[j]]
	})
}
