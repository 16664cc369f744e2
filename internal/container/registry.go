package container

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/danpasecinic/kiln/internal/lifetime"
)

// ProviderFunc builds an instance from its already resolved dependencies.
type ProviderFunc func(ctx context.Context, deps Dependencies) (any, error)

// Metadata is informational only; the container never acts on it beyond
// category and tag lookups.
type Metadata struct {
	Description string
	Category    string
	Tags        []string
	Version     string
	Author      string
}

func (m Metadata) HasTag(tag string) bool {
	return slices.Contains(m.Tags, tag)
}

func (m Metadata) clone() Metadata {
	m.Tags = slices.Clone(m.Tags)
	return m
}

type ServiceEntry struct {
	ID           string
	Provider     ProviderFunc
	Lifetime     lifetime.Kind
	Dependencies []string
	Metadata     Metadata
	RegisteredAt time.Time
}

// Registry keeps entries in registration order. Replacing an entry keeps
// its original position.
type Registry struct {
	mu       sync.RWMutex
	services map[string]*ServiceEntry
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{
		services: make(map[string]*ServiceEntry),
	}
}

// Put stores entry and reports whether it replaced an existing one.
func (r *Registry) Put(entry *ServiceEntry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, replaced := r.services[entry.ID]
	if !replaced {
		r.order = append(r.order, entry.ID)
	}
	r.services[entry.ID] = entry
	return replaced
}

func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.services[id]
	return exists
}

func (r *Registry) Get(id string) (*ServiceEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.services[id]
	return entry, exists
}

func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.services[id]; !exists {
		return false
	}
	delete(r.services, id)
	r.order = slices.DeleteFunc(r.order, func(k string) bool { return k == id })
	return true
}

func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.order)
}

func (r *Registry) Entries() []*ServiceEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*ServiceEntry, 0, len(r.order))
	for _, id := range r.order {
		entries = append(entries, r.services[id])
	}
	return entries
}

func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.services)
}

func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.services = make(map[string]*ServiceEntry)
	r.order = nil
}

func (r *Registry) Filter(match func(*ServiceEntry) bool) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for _, id := range r.order {
		if match(r.services[id]) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (r *Registry) ByCategory(category string) []string {
	return r.Filter(func(e *ServiceEntry) bool { return e.Metadata.Category == category })
}

func (r *Registry) ByTag(tag string) []string {
	return r.Filter(func(e *ServiceEntry) bool { return e.Metadata.HasTag(tag) })
}

func (r *Registry) ByLifetime(kind lifetime.Kind) []string {
	return r.Filter(func(e *ServiceEntry) bool { return e.Lifetime == kind })
}
