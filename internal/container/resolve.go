package container

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/danpasecinic/kiln/events"
	"github.com/danpasecinic/kiln/internal/lifetime"
	"github.com/danpasecinic/kiln/internal/reflect"
)

type resolutionKey struct{}

// resolution is the per-call state of one outermost Resolve: the stack of
// ids under construction. Factories that resolve through the context they
// were handed join the same resolution.
type resolution struct {
	owner *Container
	stack []string
}

func (c *Container) activeResolution(ctx context.Context) *resolution {
	if res, ok := ctx.Value(resolutionKey{}).(*resolution); ok && res.owner == c {
		return res
	}
	return nil
}

// Resolve returns the instance registered under id. scopeID is required for
// scoped registrations and ignored otherwise, except that it is passed on to
// dependencies.
func (c *Container) Resolve(ctx context.Context, id, scopeID string) (any, error) {
	start := time.Now()

	if res := c.activeResolution(ctx); res != nil {
		instance, err := c.resolve(ctx, res, id, scopeID)
		c.callResolveHooks(id, time.Since(start), err)
		return instance, err
	}

	if instance, ok, err := c.cachedSingleton(id); ok || err != nil {
		c.callResolveHooks(id, time.Since(start), err)
		return instance, err
	}

	c.buildMu.Lock()
	res := &resolution{owner: c}
	instance, err := c.resolve(context.WithValue(ctx, resolutionKey{}, res), res, id, scopeID)
	c.buildMu.Unlock()

	if err != nil {
		c.logger.Debug("resolution failed", "service", id, "scope", scopeID, "error", err)
		c.emit(events.New(events.Error, id).InScope(scopeID).WithError(err))
	}
	c.callResolveHooks(id, time.Since(start), err)
	return instance, err
}

func (c *Container) TryResolve(ctx context.Context, id, scopeID string) (any, bool) {
	instance, err := c.Resolve(ctx, id, scopeID)
	if err != nil {
		return nil, false
	}
	return instance, true
}

func (c *Container) cachedSingleton(id string) (any, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.state != StateActive {
		return nil, false, errContainerDisposed().WithService(id)
	}
	instance, ok := c.singletons[id]
	return instance, ok, nil
}

func (c *Container) callResolveHooks(id string, duration time.Duration, err error) {
	for _, hook := range c.onResolve {
		hook(id, duration, err)
	}
}

func (c *Container) resolve(ctx context.Context, res *resolution, id, scopeID string) (any, error) {
	if c.State() != StateActive {
		return nil, errContainerDisposed().WithService(id)
	}

	if i := slices.Index(res.stack, id); i >= 0 {
		path := append(slices.Clone(res.stack[i:]), id)
		return nil, errCircularDependency(path)
	}

	entry, exists := c.registry.Get(id)
	if !exists {
		return nil, errServiceNotFound(id, res.stack)
	}

	res.stack = append(res.stack, id)
	defer func() {
		res.stack = res.stack[:len(res.stack)-1]
	}()

	switch entry.Lifetime {
	case lifetime.Transient:
		return c.resolveTransient(ctx, res, entry, scopeID)
	case lifetime.Scoped:
		return c.resolveScoped(ctx, res, entry, scopeID)
	default:
		return c.resolveSingleton(ctx, res, entry, scopeID)
	}
}

func (c *Container) resolveSingleton(ctx context.Context, res *resolution, entry *ServiceEntry, scopeID string) (any, error) {
	c.mu.RLock()
	instance, ok := c.singletons[entry.ID]
	c.mu.RUnlock()
	if ok {
		return instance, nil
	}

	instance, err := c.construct(ctx, res, entry, scopeID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if current, exists := c.registry.Get(entry.ID); exists && current == entry {
		c.singletons[entry.ID] = instance
	}
	c.created = append(c.created, instanceRecord{id: entry.ID, instance: instance})
	c.mu.Unlock()

	c.logger.Debug("singleton created", "service", entry.ID)
	c.emit(events.New(events.SingletonCreated, entry.ID))
	return instance, nil
}

func (c *Container) resolveTransient(ctx context.Context, res *resolution, entry *ServiceEntry, scopeID string) (any, error) {
	instance, err := c.construct(ctx, res, entry, scopeID)
	if err != nil {
		return nil, err
	}

	c.emit(events.New(events.TransientCreated, entry.ID).InScope(scopeID))
	return instance, nil
}

func (c *Container) resolveScoped(ctx context.Context, res *resolution, entry *ServiceEntry, scopeID string) (any, error) {
	if scopeID == "" {
		return nil, errScopeRequired(entry.ID).WithStack(res.stack)
	}

	store, ok := c.lookupScope(scopeID)
	if !ok {
		return nil, errScopeNotFound(entry.ID, scopeID).WithStack(res.stack)
	}

	if instance, ok := store.get(entry.ID); ok {
		return instance, nil
	}

	instance, err := c.construct(ctx, res, entry, scopeID)
	if err != nil {
		return nil, err
	}

	if !store.put(entry.ID, instance) {
		return nil, errScopeNotFound(entry.ID, scopeID).WithStack(res.stack)
	}

	c.logger.Debug("scoped instance created", "service", entry.ID, "scope", scopeID)
	c.emit(events.New(events.ScopedCreated, entry.ID).InScope(scopeID))
	return instance, nil
}

// construct resolves the declared dependencies depth-first, runs the
// factory, then applies the injection capabilities.
func (c *Container) construct(ctx context.Context, res *resolution, entry *ServiceEntry, scopeID string) (any, error) {
	deps := newDependencies(len(entry.Dependencies))
	for _, dep := range entry.Dependencies {
		instance, err := c.resolve(ctx, res, dep, scopeID)
		if err != nil {
			return nil, err
		}
		deps.set(dep, instance)
	}

	instance, err := c.invoke(ctx, entry, deps)
	if err != nil {
		return nil, err.WithStack(res.stack)
	}

	// Typed nil results are stored as-is; capability methods are not called on them.
	if reflect.IsNil(instance) {
		return instance, nil
	}

	if acceptor, ok := instance.(DependencyAcceptor); ok {
		if err := acceptor.InjectDependencies(deps); err != nil {
			return nil, errInjectionFailed(entry.ID, err).WithStack(res.stack)
		}
	}

	emitter, reporter := c.observers()
	if acceptor, ok := instance.(EventEmitterAcceptor); ok && emitter != nil {
		acceptor.SetEventEmitter(emitter)
	}
	if acceptor, ok := instance.(ProgressReporterAcceptor); ok && reporter != nil {
		acceptor.SetProgressReporter(reporter)
	}

	return instance, nil
}

func (c *Container) invoke(ctx context.Context, entry *ServiceEntry, deps Dependencies) (instance any, err *Error) {
	defer func() {
		if r := recover(); r != nil {
			instance = nil
			err = errProviderFailed(entry.ID, fmt.Errorf("panic: %v", r))
		}
	}()

	instance, cause := entry.Provider(ctx, deps)
	if cause != nil {
		return nil, errProviderFailed(entry.ID, cause)
	}
	return instance, nil
}
