package kiln

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/danpasecinic/kiln/events"
	"github.com/danpasecinic/kiln/internal/container"
)

type Container struct {
	internal *container.Container
	config   *containerConfig
}

type containerConfig struct {
	logger    *slog.Logger
	emitter   events.Emitter
	reporter  events.ProgressReporter
	parallel  bool
	onResolve []ResolveHook
	onDispose []DisposeHook
	scopeID   func() string
}

func New(opts ...Option) *Container {
	cfg := &containerConfig{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	internal := container.New(
		&container.Config{
			Logger:             cfg.logger,
			Emitter:            cfg.emitter,
			Reporter:           cfg.reporter,
			ParallelInitialize: cfg.parallel,
			OnResolve:          cfg.onResolve,
			OnDispose:          cfg.onDispose,
			ScopeIDGenerator:   cfg.scopeID,
		},
	)

	return &Container{
		internal: internal,
		config:   cfg,
	}
}

type (
	RegistrationInfo = container.Info
	Statistics       = container.Statistics
)

func (c *Container) IsRegistered(id string) bool {
	return c.internal.Has(id)
}

func (c *Container) Registration(id string) (RegistrationInfo, bool) {
	return c.internal.Info(id)
}

// RegisteredServices lists identifiers in registration order.
func (c *Container) RegisteredServices() []string {
	return c.internal.Keys()
}

func (c *Container) ServicesByCategory(category string) []string {
	return c.internal.ByCategory(category)
}

func (c *Container) ServicesByTag(tag string) []string {
	return c.internal.ByTag(tag)
}

func (c *Container) Unregister(id string) bool {
	return c.internal.Unregister(id)
}

func (c *Container) Size() int {
	return c.internal.Size()
}

func (c *Container) Statistics() Statistics {
	return c.internal.Statistics()
}

// Resolve is the untyped form of the package level Resolve.
func (c *Container) Resolve(ctx context.Context, id, scopeID string) (any, error) {
	return c.internal.Resolve(ctx, id, scopeID)
}

func (c *Container) TryResolve(ctx context.Context, id, scopeID string) (any, bool) {
	return c.internal.TryResolve(ctx, id, scopeID)
}

func (c *Container) SetEventEmitter(emitter events.Emitter) {
	c.internal.SetEmitter(emitter)
}

func (c *Container) SetProgressReporter(reporter events.ProgressReporter) {
	c.internal.SetReporter(reporter)
}

func (c *Container) Validate() error {
	return c.internal.Validate()
}

func (c *Container) InitializeAll(ctx context.Context) error {
	return c.internal.InitializeAll(ctx)
}

func (c *Container) Dispose(ctx context.Context) {
	c.internal.Dispose(ctx)
}

func (c *Container) IsDisposed() bool {
	return c.internal.State() != container.StateActive
}

func (c *Container) Logger() *slog.Logger {
	return c.config.logger
}

// Run initializes every singleton, blocks until ctx is done or the process
// receives SIGINT or SIGTERM, then disposes the container.
func (c *Container) Run(ctx context.Context) error {
	if err := c.InitializeAll(ctx); err != nil {
		c.Dispose(context.Background())
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctx.Done():
	case <-quit:
	}

	signal.Stop(quit)

	c.Dispose(context.Background())
	return nil
}
