package graph

import (
	"slices"
	"sync"
)

// Graph is a dependency graph keyed by service id. Nodes keep their
// insertion order so every walk over the graph is deterministic.
type Graph struct {
	mu    sync.RWMutex
	order []string
	edges map[string][]string
}

type Missing struct {
	Node       string
	Dependency string
}

func New() *Graph {
	return &Graph{
		edges: make(map[string][]string),
	}
}

// AddNode inserts or replaces a node. A replaced node keeps its position.
func (g *Graph) AddNode(id string, dependencies []string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.edges[id]; !exists {
		g.order = append(g.order, id)
	}
	g.edges[id] = slices.Clone(dependencies)
}

func (g *Graph) RemoveNode(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.edges[id]; !exists {
		return
	}
	delete(g.edges, id)
	g.order = slices.DeleteFunc(g.order, func(n string) bool { return n == id })
}

func (g *Graph) HasNode(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, exists := g.edges[id]
	return exists
}

func (g *Graph) Dependencies(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return slices.Clone(g.edges[id])
}

func (g *Graph) Dependents(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var dependents []string
	for _, node := range g.order {
		if slices.Contains(g.edges[node], id) {
			dependents = append(dependents, node)
		}
	}
	return dependents
}

func (g *Graph) Nodes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return slices.Clone(g.order)
}

func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.order)
}

// Missing lists every declared dependency that has no node of its own.
func (g *Graph) Missing() []Missing {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var missing []Missing
	for _, node := range g.order {
		for _, dep := range g.edges[node] {
			if _, exists := g.edges[dep]; !exists {
				missing = append(missing, Missing{Node: node, Dependency: dep})
			}
		}
	}
	return missing
}
