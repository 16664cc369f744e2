package container

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/danpasecinic/kiln/events"
)

type instanceRecord struct {
	id       string
	instance any
}

// scopeStore is the private instance store of one named scope. Mutated
// only under the container build lock.
type scopeStore struct {
	id        string
	createdAt time.Time

	mu        sync.Mutex
	instances map[string]any
	order     []string
	disposed  bool
}

func newScopeStore(id string) *scopeStore {
	return &scopeStore{
		id:        id,
		createdAt: time.Now(),
		instances: make(map[string]any),
	}
}

func (s *scopeStore) get(id string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	instance, ok := s.instances[id]
	return instance, ok
}

func (s *scopeStore) put(id string, instance any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return false
	}
	if _, exists := s.instances[id]; !exists {
		s.order = append(s.order, id)
	}
	s.instances[id] = instance
	return true
}

func (s *scopeStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.instances)
}

// detach marks the scope disposed and hands back its instances, most
// recently constructed first.
func (s *scopeStore) detach() []instanceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.disposed = true
	records := make([]instanceRecord, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		id := s.order[i]
		records = append(records, instanceRecord{id: id, instance: s.instances[id]})
	}
	s.instances = make(map[string]any)
	s.order = nil
	return records
}

// CreateScope registers an empty scope. An empty id asks for a generated
// one; an explicit id must not collide with a live scope.
func (c *Container) CreateScope(id string) (string, error) {
	c.mu.Lock()
	if c.state != StateActive {
		c.mu.Unlock()
		return "", errContainerDisposed()
	}

	if id == "" {
		for {
			id = c.newScopeID()
			if _, taken := c.scopes[id]; !taken {
				break
			}
		}
	} else if _, taken := c.scopes[id]; taken {
		c.mu.Unlock()
		return "", errScopeExists(id)
	}

	c.scopes[id] = newScopeStore(id)
	c.scopeOrder = append(c.scopeOrder, id)
	c.mu.Unlock()

	c.logger.Debug("scope created", "scope", id)
	c.emit(events.New(events.ScopeCreated, "").InScope(id))
	return id, nil
}

// DisposeScope tears down a scope. Unknown or already disposed scopes only
// produce a warning.
func (c *Container) DisposeScope(ctx context.Context, id string) {
	// Container teardown already owns every live scope.
	if c.State() != StateActive {
		c.logger.Warn("container is disposing or disposed, ignoring scope disposal", "scope", id)
		return
	}

	c.buildMu.Lock()
	records, ok := c.detachScope(id)
	c.buildMu.Unlock()

	if !ok {
		c.logger.Warn("scope not found or already disposed", "scope", id)
		return
	}

	c.finishScope(ctx, id, records)
}

func (c *Container) detachScope(id string) ([]instanceRecord, bool) {
	c.mu.Lock()
	store, ok := c.scopes[id]
	if ok {
		delete(c.scopes, id)
		c.scopeOrder = slices.DeleteFunc(c.scopeOrder, func(s string) bool { return s == id })
	}
	c.mu.Unlock()

	if !ok {
		return nil, false
	}
	return store.detach(), true
}

func (c *Container) finishScope(ctx context.Context, id string, records []instanceRecord) {
	for _, rec := range records {
		c.disposeInstance(ctx, rec.id, rec.instance, id)
	}

	c.logger.Debug("scope disposed", "scope", id, "instances", len(records))
	c.emit(events.New(events.ScopeDisposed, "").InScope(id))
}

func (c *Container) HasScope(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.scopes[id]
	return ok
}

// Scopes lists live scopes in creation order.
func (c *Container) Scopes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.scopeOrder)
}

func (c *Container) lookupScope(id string) (*scopeStore, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	store, ok := c.scopes[id]
	return store, ok
}
