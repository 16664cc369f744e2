package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/danpasecinic/kiln"
	"github.com/danpasecinic/kiln/events"
	"github.com/danpasecinic/kiln/internal/config"
	"github.com/danpasecinic/kiln/internal/server"
	"github.com/danpasecinic/kiln/internal/services"
)

const serverID = "introspectionServer"

var serverToken = kiln.NewToken[*server.Server](serverID)

type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	container *kiln.Container
	bus       *events.Bus[events.Event]
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	bus := events.NewBus[events.Event]()
	bus.Subscribe(func(e events.Event) {
		logger.Debug("container event", "event", e.String())
	})
	bus.Subscribe(events.OfType(func(e events.Event) {
		logger.Warn("container error", "service", e.ServiceID, "scope", e.ScopeID, "error", e.Err)
	}, events.Error))

	opts := []kiln.Option{
		kiln.WithLogger(logger),
		kiln.WithEventEmitter(bus),
		kiln.WithProgressReporter(events.LogProgress(logger)),
	}
	if cfg.ParallelInit {
		opts = append(opts, kiln.WithParallelInitialize())
	}

	c := kiln.New(opts...)
	if err := c.Apply(services.Module(cfg.Manifest)); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		c.Dispose(context.Background())
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, container: c, bus: bus}, nil
}

// addServer registers the introspection server as a singleton; Run starts and
// stops it with the rest of the container.
func (a *app) addServer(addr string) error {
	c := a.container
	return kiln.RegisterSingleton(c, serverToken,
		func(context.Context, kiln.Dependencies) (*server.Server, error) {
			return server.New(addr, c, a.logger), nil
		},
		kiln.WithCategory("runtime"),
		kiln.WithDescription(fmt.Sprintf("introspection HTTP server on %s", addr)),
	)
}

func (a *app) close() {
	if !a.container.IsDisposed() {
		a.container.Dispose(context.Background())
	}
}
