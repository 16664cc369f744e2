package container

import "slices"

// Dependencies holds the instances resolved for a registration's declared
// dependency list, in declaration order.
type Dependencies struct {
	ids    []string
	values map[string]any
}

func newDependencies(capacity int) Dependencies {
	return Dependencies{
		ids:    make([]string, 0, capacity),
		values: make(map[string]any, capacity),
	}
}

func (d *Dependencies) set(id string, value any) {
	if _, exists := d.values[id]; !exists {
		d.ids = append(d.ids, id)
	}
	d.values[id] = value
}

func (d Dependencies) Get(id string) (any, bool) {
	v, ok := d.values[id]
	return v, ok
}

func (d Dependencies) IDs() []string {
	return slices.Clone(d.ids)
}

func (d Dependencies) Len() int {
	return len(d.ids)
}
