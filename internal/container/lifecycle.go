package container

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/danpasecinic/kiln/events"
	"github.com/danpasecinic/kiln/internal/graph"
	"github.com/danpasecinic/kiln/internal/lifetime"
	"github.com/danpasecinic/kiln/internal/reflect"
)

// InitializeAll constructs every singleton in registration order and awaits
// Initialize on those implementing Initializer. The first failure aborts.
// Services already initialized by an earlier call are skipped.
func (c *Container) InitializeAll(ctx context.Context) error {
	if c.State() != StateActive {
		return errContainerDisposed()
	}

	ids := c.registry.ByLifetime(lifetime.Singleton)

	if c.parallel {
		if levels, err := c.Graph().Subgraph(ids).Levels(); err == nil {
			return c.initializeLevels(ctx, levels, len(ids))
		}
		c.logger.Warn("dependency cycle among singletons, falling back to sequential initialization")
	}

	for i, id := range ids {
		if err := c.initializeService(ctx, id, i+1, len(ids)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Container) initializeService(ctx context.Context, id string, current, total int) error {
	instance, err := c.Resolve(ctx, id, "")
	if err != nil {
		return errInitializationFailed(id, err)
	}

	return c.runInitializer(ctx, id, instance, current, total)
}

func (c *Container) runInitializer(ctx context.Context, id string, instance any, current, total int) error {
	initializer, ok := instance.(Initializer)
	if !ok || reflect.IsNil(instance) || c.isInitialized(id) {
		return nil
	}

	c.report(events.Progress{
		Operation: "initialize",
		ServiceID: id,
		Current:   current,
		Total:     total,
		Message:   "initializing service",
	})

	c.logger.Debug("initializing service", "service", id)
	if err := safeInitialize(ctx, initializer); err != nil {
		wrapped := errInitializationFailed(id, err)
		c.emit(events.New(events.Error, id).WithError(wrapped))
		return wrapped
	}

	c.mu.Lock()
	c.initialized[id] = true
	c.mu.Unlock()
	return nil
}

// initializeLevels constructs each dependency level sequentially and then
// initializes its members concurrently. A level only starts once the
// previous one fully succeeded.
func (c *Container) initializeLevels(ctx context.Context, levels []graph.Level, total int) error {
	done := 0
	for _, level := range levels {
		instances := make([]any, len(level.Nodes))
		for i, id := range level.Nodes {
			instance, err := c.Resolve(ctx, id, "")
			if err != nil {
				return errInitializationFailed(id, err)
			}
			instances[i] = instance
		}

		errs := make([]error, len(level.Nodes))
		var wg sync.WaitGroup
		for i, id := range level.Nodes {
			wg.Add(1)
			go func(i int, id string) {
				defer wg.Done()
				errs[i] = c.runInitializer(ctx, id, instances[i], done+i+1, total)
			}(i, id)
		}
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				return err
			}
		}
		done += len(level.Nodes)
	}
	return nil
}

func (c *Container) isInitialized(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.initialized[id]
}

// Dispose tears down every live scope, then every constructed singleton in
// reverse construction order. Individual failures are logged and do not
// stop the teardown. Calling Dispose twice only warns.
func (c *Container) Dispose(ctx context.Context) {
	c.mu.Lock()
	if c.state != StateActive {
		c.mu.Unlock()
		c.logger.Warn("container already disposed")
		return
	}
	c.state = StateDisposing
	scopeIDs := append([]string(nil), c.scopeOrder...)
	c.mu.Unlock()

	c.buildMu.Lock()
	defer c.buildMu.Unlock()

	for _, id := range scopeIDs {
		if records, ok := c.detachScope(id); ok {
			c.finishScope(ctx, id, records)
		}
	}

	c.mu.Lock()
	created := c.created
	c.created = nil
	c.mu.Unlock()

	total := len(created)
	for i := total - 1; i >= 0; i-- {
		rec := created[i]
		c.report(events.Progress{
			Operation: "dispose",
			ServiceID: rec.id,
			Current:   total - i,
			Total:     total,
			Message:   "disposing service",
		})
		c.disposeInstance(ctx, rec.id, rec.instance, "")
	}

	c.mu.Lock()
	c.singletons = make(map[string]any)
	c.initialized = make(map[string]bool)
	c.scopes = make(map[string]*scopeStore)
	c.scopeOrder = nil
	c.registry.Clear()
	c.graph = graph.New()
	c.state = StateDisposed
	c.mu.Unlock()

	c.logger.Debug("container disposed", "instances", total)
	c.emit(events.New(events.ContainerDisposed, ""))
}

func (c *Container) disposeInstance(ctx context.Context, id string, instance any, scopeID string) {
	disposer, ok := instance.(Disposer)
	if !ok || reflect.IsNil(instance) {
		return
	}

	start := time.Now()
	err := safeDispose(ctx, disposer)
	duration := time.Since(start)

	if err != nil {
		wrapped := errDisposalFailed(id, err).WithScope(scopeID)
		c.logger.Warn("failed to dispose service", "service", id, "scope", scopeID, "error", err)
		c.emit(events.New(events.Error, id).InScope(scopeID).WithError(wrapped))
		err = wrapped
	} else {
		c.logger.Debug("service disposed", "service", id, "scope", scopeID)
	}

	for _, hook := range c.onDispose {
		hook(id, duration, err)
	}
}

func safeInitialize(ctx context.Context, i Initializer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return i.Initialize(ctx)
}

func safeDispose(ctx context.Context, d Disposer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return d.Dispose(ctx)
}

// Validate checks the registered graph statically: every declared
// dependency must be registered and no cycle may exist.
func (c *Container) Validate() error {
	g := c.Graph()

	var problems []string
	for _, m := range g.Missing() {
		problems = append(problems, fmt.Sprintf("%s depends on unregistered %s", m.Node, m.Dependency))
	}
	for _, cycle := range g.Cycles() {
		problems = append(problems, "cycle "+strings.Join(cycle, " -> "))
	}

	if len(problems) == 0 {
		return nil
	}
	return NewError(ErrCodeValidationFailed, strings.Join(problems, "; "), nil)
}
