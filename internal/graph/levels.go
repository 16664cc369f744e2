package graph

// Level groups nodes whose dependencies all live in lower levels. Nodes of
// the same level never depend on each other.
type Level struct {
	Depth int
	Nodes []string
}

// Levels partitions the graph by dependency depth. Edges to unknown nodes
// are ignored. Within a level, nodes keep insertion order.
func (g *Graph) Levels() ([]Level, error) {
	if g.HasCycle() {
		return nil, ErrCycleDetected
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	depths := make(map[string]int, len(g.order))

	var depthOf func(id string) int
	depthOf = func(id string) int {
		if d, ok := depths[id]; ok {
			return d
		}

		d := 0
		for _, dep := range g.edges[id] {
			if _, exists := g.edges[dep]; !exists {
				continue
			}
			d = max(d, depthOf(dep)+1)
		}
		depths[id] = d
		return d
	}

	maxDepth := -1
	for _, id := range g.order {
		maxDepth = max(maxDepth, depthOf(id))
	}

	levels := make([]Level, maxDepth+1)
	for i := range levels {
		levels[i].Depth = i
	}
	for _, id := range g.order {
		d := depths[id]
		levels[d].Nodes = append(levels[d].Nodes, id)
	}

	return levels, nil
}

// Subgraph returns a new graph restricted to the given nodes, keeping this
// graph's insertion order.
func (g *Graph) Subgraph(ids []string) *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}

	sub := New()
	for _, id := range g.order {
		if !keep[id] {
			continue
		}
		var deps []string
		for _, dep := range g.edges[id] {
			if keep[dep] {
				deps = append(deps, dep)
			}
		}
		sub.order = append(sub.order, id)
		sub.edges[id] = deps
	}
	return sub
}
