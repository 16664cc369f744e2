package container

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danpasecinic/kiln/events"
	"github.com/danpasecinic/kiln/internal/graph"
	"github.com/danpasecinic/kiln/internal/lifetime"
	"github.com/danpasecinic/kiln/internal/reflect"
)

type State int

const (
	StateActive State = iota
	StateDisposing
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateDisposing:
		return "disposing"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

type (
	ResolveHook func(id string, duration time.Duration, err error)
	DisposeHook func(id string, duration time.Duration, err error)
)

type Container struct {
	mu       sync.RWMutex
	registry *Registry
	graph    *graph.Graph
	logger   *slog.Logger
	state    State

	// buildMu serializes instance construction and scope teardown. It is
	// taken by the outermost Resolve call only.
	buildMu sync.Mutex

	singletons  map[string]any
	created     []instanceRecord
	initialized map[string]bool

	scopes     map[string]*scopeStore
	scopeOrder []string
	newScopeID func() string

	emitter  events.Emitter
	reporter events.ProgressReporter

	parallel  bool
	onResolve []ResolveHook
	onDispose []DisposeHook
}

type Config struct {
	Logger             *slog.Logger
	Emitter            events.Emitter
	Reporter           events.ProgressReporter
	ParallelInitialize bool
	OnResolve          []ResolveHook
	OnDispose          []DisposeHook
	ScopeIDGenerator   func() string
}

func New(cfg *Config) *Container {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	newScopeID := cfg.ScopeIDGenerator
	if newScopeID == nil {
		newScopeID = uuid.NewString
	}

	return &Container{
		registry:    NewRegistry(),
		graph:       graph.New(),
		logger:      logger,
		singletons:  make(map[string]any),
		initialized: make(map[string]bool),
		scopes:      make(map[string]*scopeStore),
		newScopeID:  newScopeID,
		emitter:     cfg.Emitter,
		reporter:    cfg.Reporter,
		parallel:    cfg.ParallelInitialize,
		onResolve:   cfg.OnResolve,
		onDispose:   cfg.OnDispose,
	}
}

// Register stores or replaces a registration. Replacing evicts a cached
// singleton; the evicted instance is still disposed with the container.
func (c *Container) Register(entry ServiceEntry) error {
	entry.Dependencies = slices.Clone(entry.Dependencies)
	entry.Metadata = entry.Metadata.clone()
	entry.RegisteredAt = time.Now()

	c.mu.Lock()
	if c.state != StateActive {
		c.mu.Unlock()
		return errContainerDisposed().WithService(entry.ID)
	}

	replaced := c.registry.Put(&entry)
	delete(c.singletons, entry.ID)
	delete(c.initialized, entry.ID)
	c.graph.AddNode(entry.ID, entry.Dependencies)
	c.mu.Unlock()

	if replaced {
		c.logger.Warn("service already registered, replacing", "service", entry.ID)
	}
	c.logger.Debug("service registered", "service", entry.ID, "lifetime", entry.Lifetime)
	c.emit(events.New(events.ServiceRegistered, entry.ID))
	return nil
}

// RegisterInstance registers a prebuilt singleton. The instance counts as
// constructed at registration time.
func (c *Container) RegisterInstance(id string, instance any, meta Metadata) error {
	entry := &ServiceEntry{
		ID: id,
		Provider: func(_ context.Context, _ Dependencies) (any, error) {
			return instance, nil
		},
		Lifetime:     lifetime.Singleton,
		Metadata:     meta.clone(),
		RegisteredAt: time.Now(),
	}

	c.mu.Lock()
	if c.state != StateActive {
		c.mu.Unlock()
		return errContainerDisposed().WithService(id)
	}

	replaced := c.registry.Put(entry)
	delete(c.initialized, id)
	if current, seated := c.singletons[id]; !seated || !reflect.Same(current, instance) {
		c.created = append(c.created, instanceRecord{id: id, instance: instance})
	}
	c.singletons[id] = instance
	c.graph.AddNode(id, nil)
	c.mu.Unlock()

	if replaced {
		c.logger.Warn("service already registered, replacing", "service", id)
	}
	c.logger.Debug("instance registered", "service", id)
	c.emit(events.New(events.InstanceRegistered, id))
	return nil
}

// Unregister drops a registration and its cached singleton. It reports
// whether anything was registered under id.
func (c *Container) Unregister(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.registry.Remove(id) {
		return false
	}
	delete(c.singletons, id)
	delete(c.initialized, id)
	c.graph.RemoveNode(id)
	return true
}

func (c *Container) Has(id string) bool {
	return c.registry.Has(id)
}

type Info struct {
	ID           string
	Lifetime     lifetime.Kind
	Dependencies []string
	Metadata     Metadata
	Instantiated bool
	RegisteredAt time.Time
}

func (c *Container) Info(id string) (Info, bool) {
	entry, ok := c.registry.Get(id)
	if !ok {
		return Info{}, false
	}

	c.mu.RLock()
	_, instantiated := c.singletons[id]
	c.mu.RUnlock()

	return Info{
		ID:           entry.ID,
		Lifetime:     entry.Lifetime,
		Dependencies: slices.Clone(entry.Dependencies),
		Metadata:     entry.Metadata.clone(),
		Instantiated: instantiated,
		RegisteredAt: entry.RegisteredAt,
	}, true
}

func (c *Container) Keys() []string {
	return c.registry.Keys()
}

func (c *Container) Size() int {
	return c.registry.Size()
}

func (c *Container) ByCategory(category string) []string {
	return c.registry.ByCategory(category)
}

func (c *Container) ByTag(tag string) []string {
	return c.registry.ByTag(tag)
}

// Instance returns the cached singleton for id without constructing it.
func (c *Container) Instance(id string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	instance, ok := c.singletons[id]
	return instance, ok
}

func (c *Container) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.state
}

func (c *Container) Graph() *graph.Graph {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.graph.Subgraph(c.graph.Nodes())
}

func (c *Container) SetEmitter(emitter events.Emitter) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.emitter = emitter
}

func (c *Container) SetReporter(reporter events.ProgressReporter) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reporter = reporter
}

func (c *Container) observers() (events.Emitter, events.ProgressReporter) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.emitter, c.reporter
}

func (c *Container) emit(e events.Event) {
	if emitter, _ := c.observers(); emitter != nil {
		emitter.Publish(e)
	}
}

func (c *Container) ReportProgress(p events.Progress) {
	c.report(p)
}

func (c *Container) report(p events.Progress) {
	if _, reporter := c.observers(); reporter != nil {
		reporter.Report(p)
	}
}

const uncategorized = "uncategorized"

type Statistics struct {
	Total      int
	ByLifetime map[lifetime.Kind]int
	ByCategory map[string]int
	Singletons int
	Scopes     int
}

func (c *Container) Statistics() Statistics {
	stats := Statistics{
		ByLifetime: make(map[lifetime.Kind]int),
		ByCategory: make(map[string]int),
	}

	for _, entry := range c.registry.Entries() {
		stats.Total++
		stats.ByLifetime[entry.Lifetime]++

		category := entry.Metadata.Category
		if category == "" {
			category = uncategorized
		}
		stats.ByCategory[category]++
	}

	c.mu.RLock()
	stats.Singletons = len(c.singletons)
	stats.Scopes = len(c.scopes)
	c.mu.RUnlock()

	return stats
}
