package kiln

import (
	"log/slog"

	"github.com/danpasecinic/kiln/events"
)

type Option func(*containerConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *containerConfig) {
		cfg.logger = logger
	}
}

func WithEventEmitter(emitter events.Emitter) Option {
	return func(cfg *containerConfig) {
		cfg.emitter = emitter
	}
}

func WithProgressReporter(reporter events.ProgressReporter) Option {
	return func(cfg *containerConfig) {
		cfg.reporter = reporter
	}
}

// WithParallelInitialize makes InitializeAll initialize services of the
// same dependency level concurrently. Without it services are initialized
// one by one in registration order.
func WithParallelInitialize() Option {
	return func(cfg *containerConfig) {
		cfg.parallel = true
	}
}

func WithResolveObserver(hook ResolveHook) Option {
	return func(cfg *containerConfig) {
		cfg.onResolve = append(cfg.onResolve, hook)
	}
}

func WithDisposeObserver(hook DisposeHook) Option {
	return func(cfg *containerConfig) {
		cfg.onDispose = append(cfg.onDispose, hook)
	}
}

// WithScopeIDGenerator replaces the UUID generator used by CreateScope("").
func WithScopeIDGenerator(gen func() string) Option {
	return func(cfg *containerConfig) {
		cfg.scopeID = gen
	}
}
