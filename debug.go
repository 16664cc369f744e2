package kiln

import (
	"fmt"
	"io"
	"strings"
)

type GraphInfo struct {
	Services []ServiceInfo
}

type ServiceInfo struct {
	ID           string
	Lifetime     Lifetime
	Category     string
	Dependencies []string
	Dependents   []string
	Instantiated bool
}

// Graph snapshots the registrations and their edges in registration order.
func (c *Container) Graph() GraphInfo {
	graph := c.internal.Graph()
	keys := c.internal.Keys()
	services := make([]ServiceInfo, 0, len(keys))

	for _, id := range keys {
		info, ok := c.internal.Info(id)
		if !ok {
			continue
		}

		services = append(
			services, ServiceInfo{
				ID:           id,
				Lifetime:     info.Lifetime,
				Category:     info.Metadata.Category,
				Dependencies: graph.Dependencies(id),
				Dependents:   graph.Dependents(id),
				Instantiated: info.Instantiated,
			},
		)
	}

	return GraphInfo{Services: services}
}

func (c *Container) FprintGraph(w io.Writer) {
	info := c.Graph()

	if len(info.Services) == 0 {
		_, _ = fmt.Fprintln(w, "(empty container)")
		return
	}

	for _, svc := range info.Services {
		status := "○"
		if svc.Instantiated {
			status = "●"
		}

		if len(svc.Dependencies) == 0 {
			_, _ = fmt.Fprintf(w, "%s %s [%s]\n", status, svc.ID, svc.Lifetime)
		} else {
			_, _ = fmt.Fprintf(w, "%s %s [%s] ← %s\n", status, svc.ID, svc.Lifetime, strings.Join(svc.Dependencies, ", "))
		}
	}
}

func (c *Container) SprintGraph() string {
	var sb strings.Builder
	c.FprintGraph(&sb)
	return sb.String()
}

func (c *Container) FprintGraphDOT(w io.Writer) {
	info := c.Graph()

	_, _ = fmt.Fprintln(w, "digraph dependencies {")
	_, _ = fmt.Fprintln(w, "  rankdir=LR;")
	_, _ = fmt.Fprintln(w, "  node [shape=box];")

	for _, svc := range info.Services {
		style := ""
		switch {
		case svc.Instantiated:
			style = ", style=filled, fillcolor=lightblue"
		case svc.Lifetime == Scoped:
			style = ", style=dashed"
		}
		_, _ = fmt.Fprintf(w, "  %q [label=%q%s];\n", svc.ID, escapeLabel(svc.ID), style)
	}

	_, _ = fmt.Fprintln(w)

	for _, svc := range info.Services {
		for _, dep := range svc.Dependencies {
			_, _ = fmt.Fprintf(w, "  %q -> %q;\n", svc.ID, dep)
		}
	}

	_, _ = fmt.Fprintln(w, "}")
}

func (c *Container) SprintGraphDOT() string {
	var sb strings.Builder
	c.FprintGraphDOT(&sb)
	return sb.String()
}

// escapeLabel shortens type-derived identifiers such as
// "*github.com/acme/app.Service" to "app.Service".
func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "*", "")
	if idx := strings.LastIndex(s, "/"); idx != -1 {
		s = s[idx+1:]
	}
	return s
}
