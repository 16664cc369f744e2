package kiln

import (
	"context"

	"github.com/danpasecinic/kiln/internal/lifetime"
)

type Lifetime = lifetime.Kind

const (
	Singleton = lifetime.Singleton
	Transient = lifetime.Transient
	Scoped    = lifetime.Scoped
)

func ParseLifetime(s string) (Lifetime, error) {
	return lifetime.Parse(s)
}

// CreateScope opens a scope. Pass "" to get a generated identifier.
func (c *Container) CreateScope(id string) (string, error) {
	return c.internal.CreateScope(id)
}

func (c *Container) DisposeScope(ctx context.Context, id string) {
	c.internal.DisposeScope(ctx, id)
}

func (c *Container) HasScope(id string) bool {
	return c.internal.HasScope(id)
}

func (c *Container) Scopes() []string {
	return c.internal.Scopes()
}

// WithScope runs fn inside a fresh scope and disposes the scope when fn
// returns, whatever the outcome.
func (c *Container) WithScope(ctx context.Context, fn func(scopeID string) error) error {
	id, err := c.CreateScope("")
	if err != nil {
		return err
	}
	defer c.DisposeScope(ctx, id)

	return fn(id)
}
