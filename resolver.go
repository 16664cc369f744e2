package kiln

import (
	"context"

	"github.com/danpasecinic/kiln/internal/reflect"
)

type ResolveOption func(*resolveConfig)

type resolveConfig struct {
	scopeID string
}

// InScope resolves against the named scope. Scoped registrations require
// it; for other lifetimes it is handed down to dependencies.
func InScope(scopeID string) ResolveOption {
	return func(cfg *resolveConfig) {
		cfg.scopeID = scopeID
	}
}

func Resolve[T any](ctx context.Context, c *Container, token Token[T], opts ...ResolveOption) (T, error) {
	cfg := &resolveConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var zero T
	instance, err := c.internal.Resolve(ctx, token.ID(), cfg.scopeID)
	if err != nil {
		return zero, err
	}

	return cast[T](token.ID(), instance)
}

func MustResolve[T any](ctx context.Context, c *Container, token Token[T], opts ...ResolveOption) T {
	v, err := Resolve(ctx, c, token, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

func TryResolve[T any](ctx context.Context, c *Container, token Token[T], opts ...ResolveOption) (T, bool) {
	v, err := Resolve(ctx, c, token, opts...)
	return v, err == nil
}

// Dep returns the resolved dependency for token from the set handed to a
// factory or a DependencyAcceptor.
func Dep[T any](deps Dependencies, token Token[T]) (T, error) {
	var zero T

	instance, ok := deps.Get(token.ID())
	if !ok {
		return zero, errNotDeclared(token.ID())
	}

	return cast[T](token.ID(), instance)
}

func MustDep[T any](deps Dependencies, token Token[T]) T {
	v, err := Dep(deps, token)
	if err != nil {
		panic(err)
	}
	return v
}

func cast[T any](id string, instance any) (T, error) {
	var zero T
	if instance == nil {
		return zero, nil
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, errTypeMismatch(id, reflect.TypeName[T](), reflect.ValueTypeName(instance))
	}
	return typed, nil
}
