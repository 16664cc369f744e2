package container

import (
	"context"

	"github.com/danpasecinic/kiln/events"
)

// Initializer is awaited by InitializeAll after the instance is constructed.
type Initializer interface {
	Initialize(ctx context.Context) error
}

// Disposer is invoked when the owning scope or the container is disposed.
type Disposer interface {
	Dispose(ctx context.Context) error
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) bool
}

// DependencyAcceptor receives the resolved dependencies right after the
// factory returns, for services that prefer field injection.
type DependencyAcceptor interface {
	InjectDependencies(deps Dependencies) error
}

type EventEmitterAcceptor interface {
	SetEventEmitter(emitter events.Emitter)
}

type ProgressReporterAcceptor interface {
	SetProgressReporter(reporter events.ProgressReporter)
}
