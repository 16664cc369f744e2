package graph

import "errors"

var ErrCycleDetected = errors.New("cycle detected in graph")

type tarjan struct {
	g       *Graph
	index   int
	stack   []string
	onStack map[string]bool
	indices map[string]int
	lowlink map[string]int
	sccs    [][]string
}

// Cycles returns one closed path (first element repeated at the end) for
// every strongly connected component that forms a cycle.
func (g *Graph) Cycles() [][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	t := &tarjan{
		g:       g,
		onStack: make(map[string]bool),
		indices: make(map[string]int),
		lowlink: make(map[string]int),
	}

	for _, id := range g.order {
		if _, visited := t.indices[id]; !visited {
			t.strongConnect(id)
		}
	}

	var paths [][]string
	for _, scc := range t.sccs {
		if len(scc) == 1 && !g.selfLoop(scc[0]) {
			continue
		}
		if path := g.cyclePathFrom(g.firstInOrder(scc)); path != nil {
			paths = append(paths, path)
		}
	}
	return paths
}

func (t *tarjan) strongConnect(id string) {
	t.indices[id] = t.index
	t.lowlink[id] = t.index
	t.index++
	t.stack = append(t.stack, id)
	t.onStack[id] = true

	for _, dep := range t.g.edges[id] {
		if _, exists := t.g.edges[dep]; !exists {
			continue
		}

		if _, visited := t.indices[dep]; !visited {
			t.strongConnect(dep)
			t.lowlink[id] = min(t.lowlink[id], t.lowlink[dep])
		} else if t.onStack[dep] {
			t.lowlink[id] = min(t.lowlink[id], t.indices[dep])
		}
	}

	if t.lowlink[id] != t.indices[id] {
		return
	}

	var scc []string
	for {
		n := len(t.stack) - 1
		w := t.stack[n]
		t.stack = t.stack[:n]
		t.onStack[w] = false
		scc = append(scc, w)
		if w == id {
			break
		}
	}
	t.sccs = append(t.sccs, scc)
}

func (g *Graph) HasCycle() bool {
	return len(g.Cycles()) > 0
}

// CyclePath returns the first cycle reachable from start, or nil.
func (g *Graph) CyclePath(start string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.cyclePathFrom(start)
}

func (g *Graph) selfLoop(id string) bool {
	for _, dep := range g.edges[id] {
		if dep == id {
			return true
		}
	}
	return false
}

func (g *Graph) firstInOrder(ids []string) string {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	for _, id := range g.order {
		if set[id] {
			return id
		}
	}
	return ids[0]
}

func (g *Graph) cyclePathFrom(start string) []string {
	visited := make(map[string]bool)
	inPath := make(map[string]bool)
	var path []string

	var dfs func(id string) []string
	dfs = func(id string) []string {
		if inPath[id] {
			for i, p := range path {
				if p == id {
					cycle := append([]string{}, path[i:]...)
					return append(cycle, id)
				}
			}
		}
		if visited[id] {
			return nil
		}

		visited[id] = true
		inPath[id] = true
		path = append(path, id)

		for _, dep := range g.edges[id] {
			if _, exists := g.edges[dep]; !exists {
				continue
			}
			if cycle := dfs(dep); cycle != nil {
				return cycle
			}
		}

		path = path[:len(path)-1]
		inPath[id] = false
		return nil
	}

	return dfs(start)
}
