package kiln

import "github.com/danpasecinic/kiln/internal/container"

// Capabilities are discovered by type assertion on constructed instances.
type (
	Initializer              = container.Initializer
	Disposer                 = container.Disposer
	HealthChecker            = container.HealthChecker
	DependencyAcceptor       = container.DependencyAcceptor
	EventEmitterAcceptor     = container.EventEmitterAcceptor
	ProgressReporterAcceptor = container.ProgressReporterAcceptor
)

type Dependencies = container.Dependencies
