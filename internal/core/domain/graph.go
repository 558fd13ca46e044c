// Package domain contains the core domain models of the build pipeline.
package domain

import (
	"iter"

	"go.trai.ch/zerr"
)

// StepGraph represents the dependency graph of library build steps.
type StepGraph struct {
	steps          map[string]StepSpec
	declared       []string
	executionOrder []string
}

// NewStepGraph creates a new empty StepGraph.
func NewStepGraph() *StepGraph {
	return &StepGraph{
		steps: make(map[string]StepSpec),
	}
}

// AddStep adds a step to the graph.
// It returns an error if a step with the same name already exists.
func (g *StepGraph) AddStep(s StepSpec) error {
	if _, exists := g.steps[s.Name]; exists {
		return zerr.With(zerr.Wrap(ErrStepAlreadyExists, "duplicate step"), "step", s.Name)
	}
	g.steps[s.Name] = s
	g.declared = append(g.declared, s.Name)
	return nil
}

// Validate checks for cycles and unknown prerequisites using a topological sort.
// Steps are visited in declaration order so the resulting order is stable.
func (g *StepGraph) Validate() error {
	g.executionOrder = make([]string, 0, len(g.steps))
	visited := make(map[string]int) // 0: unvisited, 1: visiting, 2: visited
	var path []string

	var visit func(u string) error
	visit = func(u string) error {
		visited[u] = 1
		path = append(path, u)

		step := g.steps[u]
		for _, dep := range step.Requires {
			if _, exists := g.steps[dep]; !exists {
				return zerr.With(zerr.With(zerr.Wrap(ErrMissingDependency, "unknown prerequisite"),
					"step", u), "dependency", dep)
			}
			if visited[dep] == 1 {
				return g.buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u)
		return nil
	}

	for _, name := range g.declared {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func (g *StepGraph) buildCycleError(path []string, dep string) error {
	cyclePath := ""
	startIdx := 0
	for i, node := range path {
		if node == dep {
			startIdx = i
			break
		}
	}
	for i := startIdx; i < len(path); i++ {
		cyclePath += path[i] + " -> "
	}
	cyclePath += dep
	return zerr.With(zerr.Wrap(ErrCycleDetected, "step graph has a cycle"), "cycle", cyclePath)
}

// Walk returns an iterator that yields steps in execution order.
// It assumes Validate() has been called and returned nil.
func (g *StepGraph) Walk() iter.Seq[StepSpec] {
	return func(yield func(StepSpec) bool) {
		for _, name := range g.executionOrder {
			if !yield(g.steps[name]) {
				return
			}
		}
	}
}

// Len returns the number of steps in the graph.
func (g *StepGraph) Len() int {
	return len(g.steps)
}
