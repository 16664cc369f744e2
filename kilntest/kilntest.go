// Package kilntest provides helpers for tests that build kiln containers.
package kilntest

import (
	"context"

	"github.com/danpasecinic/kiln"
)

type TB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Cleanup(f func())
}

// TestContainer wraps a container that is disposed when the test ends.
type TestContainer struct {
	*kiln.Container
	tb TB
}

func New(tb TB, opts ...kiln.Option) *TestContainer {
	tb.Helper()

	c := kiln.New(opts...)
	tc := &TestContainer{
		Container: c,
		tb:        tb,
	}

	tb.Cleanup(func() {
		if !c.IsDisposed() {
			c.Dispose(context.Background())
		}
	})

	return tc
}

func (tc *TestContainer) RequireInitialize(ctx context.Context) {
	tc.tb.Helper()

	if err := tc.InitializeAll(ctx); err != nil {
		tc.tb.Fatalf("failed to initialize container: %v", err)
	}
}

func (tc *TestContainer) RequireValidate() {
	tc.tb.Helper()

	if err := tc.Validate(); err != nil {
		tc.tb.Fatalf("container validation failed: %v", err)
	}
}

// RequireScope opens a scope that is disposed when the test ends.
func (tc *TestContainer) RequireScope() string {
	tc.tb.Helper()

	id, err := tc.CreateScope("")
	if err != nil {
		tc.tb.Fatalf("failed to create scope: %v", err)
	}
	tc.tb.Cleanup(func() {
		tc.DisposeScope(context.Background(), id)
	})
	return id
}

// Replace swaps the registration behind token for a fixed value.
func Replace[T any](tc *TestContainer, token kiln.Token[T], value T) {
	tc.tb.Helper()

	if err := kiln.RegisterInstance(tc.Container, token, value); err != nil {
		tc.tb.Fatalf("failed to replace %s: %v", token, err)
	}
}

func ReplaceFactory[T any](tc *TestContainer, token kiln.Token[T], factory kiln.Factory[T], opts ...kiln.RegisterOption) {
	tc.tb.Helper()

	if err := kiln.Register(tc.Container, token, factory, opts...); err != nil {
		tc.tb.Fatalf("failed to replace factory %s: %v", token, err)
	}
}

func AssertRegistered(tc *TestContainer, id kiln.Identifier) {
	tc.tb.Helper()

	if !tc.IsRegistered(id.ID()) {
		tc.tb.Fatalf("expected container to have %s", id.ID())
	}
}

func AssertNotRegistered(tc *TestContainer, id kiln.Identifier) {
	tc.tb.Helper()

	if tc.IsRegistered(id.ID()) {
		tc.tb.Fatalf("expected container to not have %s", id.ID())
	}
}

func MustResolve[T any](tc *TestContainer, token kiln.Token[T], opts ...kiln.ResolveOption) T {
	tc.tb.Helper()

	v, err := kiln.Resolve(context.Background(), tc.Container, token, opts...)
	if err != nil {
		tc.tb.Fatalf("failed to resolve %s: %v", token, err)
	}
	return v
}

func MustRegister[T any](tc *TestContainer, token kiln.Token[T], factory kiln.Factory[T], opts ...kiln.RegisterOption) {
	tc.tb.Helper()

	if err := kiln.Register(tc.Container, token, factory, opts...); err != nil {
		tc.tb.Fatalf("failed to register %s: %v", token, err)
	}
}

func MustRegisterInstance[T any](tc *TestContainer, token kiln.Token[T], value T, opts ...kiln.RegisterOption) {
	tc.tb.Helper()

	if err := kiln.RegisterInstance(tc.Container, token, value, opts...); err != nil {
		tc.tb.Fatalf("failed to register instance %s: %v", token, err)
	}
}
