// Package kiln is the service runtime behind the kiln scaffolding CLI.
//
// A Container holds named service registrations, builds instances on
// demand, caches them according to their lifetime, and tears them down in
// reverse construction order.
//
// # Quick Start
//
// Declare typed tokens and register factories against them:
//
//	var (
//	    ConfigToken   = kiln.NewToken[*Config]("config")
//	    TemplateToken = kiln.NewToken[*TemplateService]("templateService")
//	)
//
//	c := kiln.New()
//
//	kiln.RegisterInstance(c, ConfigToken, &Config{Root: "./templates"})
//
//	kiln.RegisterSingleton(c, TemplateToken,
//	    func(ctx context.Context, deps kiln.Dependencies) (*TemplateService, error) {
//	        cfg := kiln.MustDep(deps, ConfigToken)
//	        return NewTemplateService(cfg), nil
//	    },
//	    kiln.DependsOn(ConfigToken),
//	)
//
//	svc, err := kiln.Resolve(ctx, c, TemplateToken)
//
// Dependencies are resolved depth-first before the factory runs and are
// handed to it in a Dependencies set. TypeToken derives an identifier from
// the Go type when a name is not needed.
//
// # Lifetimes
//
//	kiln.RegisterSingleton(c, token, factory)  // one instance per container
//	kiln.RegisterTransient(c, token, factory)  // new instance per resolve
//	kiln.RegisterScoped(c, token, factory)     // one instance per scope
//
// Scoped services must be resolved inside a scope:
//
//	scope, _ := c.CreateScope("")
//	defer c.DisposeScope(ctx, scope)
//	gen, err := kiln.Resolve(ctx, c, GeneratorToken, kiln.InScope(scope))
//
// or with WithScope, which disposes the scope when the callback returns.
//
// # Capabilities
//
// Instances opt into container behavior by implementing small interfaces:
// Initializer (awaited by InitializeAll), Disposer (called on disposal),
// HealthChecker (consulted by Health), DependencyAcceptor (field style
// injection), EventEmitterAcceptor and ProgressReporterAcceptor (receive
// the container's observers at construction).
//
// # Resolving From Factories
//
// A factory that resolves other services directly must pass along the ctx
// it received. Resolution is serialized per container, and that ctx is what
// lets the nested call join the running resolution and take part in cycle
// detection.
//
// # Lifecycle
//
//	c.InitializeAll(ctx)  // construct and initialize singletons
//	c.Dispose(ctx)        // dispose scopes, then singletons, newest first
//	c.Run(ctx)            // initialize, wait for a signal, dispose
//
// After Dispose every registration, resolution or scope request fails with
// a ContainerDisposed error.
//
// # Observability
//
// Attach an events.Emitter (events.Bus works) and a progress reporter:
//
//	bus := events.NewBus[events.Event]()
//	c := kiln.New(
//	    kiln.WithEventEmitter(bus),
//	    kiln.WithProgressReporter(events.LogProgress(logger)),
//	    kiln.WithResolveObserver(func(id string, d time.Duration, err error) {
//	        metrics.RecordResolve(id, d, err)
//	    }),
//	)
//
// # Debug Visualization
//
//	c.FprintGraph(os.Stdout)     // ASCII
//	c.FprintGraphDOT(os.Stdout)  // Graphviz DOT
//	err := c.Validate()          // missing dependencies and cycles
//
// # Modules
//
//	var Generators = kiln.NewModule("generators")
//	kiln.ModuleRegister(Generators, ComponentToken, NewComponentGenerator,
//	    kiln.WithLifetime(kiln.Scoped), kiln.DependsOn(TemplateToken))
//
//	c.Apply(Generators)
package kiln
