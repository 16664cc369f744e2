package kiln_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danpasecinic/kiln"
)

type Config struct {
	Root string
}

type TemplateService struct {
	Config *Config
}

type Generator struct {
	Templates *TemplateService
}

var (
	configToken    = kiln.NewToken[*Config]("config")
	templateToken  = kiln.NewToken[*TemplateService]("templateService")
	generatorToken = kiln.NewToken[*Generator]("componentGenerator")
)

func newConfig(ctx context.Context, deps kiln.Dependencies) (*Config, error) {
	return &Config{Root: "./templates"}, nil
}

func newTemplateService(ctx context.Context, deps kiln.Dependencies) (*TemplateService, error) {
	cfg, err := kiln.Dep(deps, configToken)
	if err != nil {
		return nil, err
	}
	return &TemplateService{Config: cfg}, nil
}

func newGenerator(ctx context.Context, deps kiln.Dependencies) (*Generator, error) {
	return &Generator{Templates: kiln.MustDep(deps, templateToken)}, nil
}

func TestNew(t *testing.T) {
	t.Parallel()

	c := kiln.New()
	if c == nil {
		t.Fatal("New() returned nil")
	}
}

func TestNewWithLogger(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	c := kiln.New(kiln.WithLogger(logger))
	if c.Logger() != logger {
		t.Fatal("New() should keep the configured logger")
	}
}

func TestRegisterAndResolve(t *testing.T) {
	t.Parallel()

	c := kiln.New()

	err := kiln.RegisterSingleton(c, configToken, newConfig)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	cfg, err := kiln.Resolve(context.Background(), c, configToken)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if cfg.Root != "./templates" {
		t.Errorf("expected root ./templates, got %s", cfg.Root)
	}
}

func TestResolveDependencyChain(t *testing.T) {
	t.Parallel()

	c := kiln.New()
	ctx := context.Background()

	require.NoError(t, kiln.RegisterSingleton(c, configToken, newConfig))
	require.NoError(t, kiln.RegisterSingleton(c, templateToken, newTemplateService, kiln.DependsOn(configToken)))
	require.NoError(t, kiln.RegisterTransient(c, generatorToken, newGenerator, kiln.DependsOn(templateToken)))

	g1, err := kiln.Resolve(ctx, c, generatorToken)
	require.NoError(t, err)
	g2, err := kiln.Resolve(ctx, c, generatorToken)
	require.NoError(t, err)

	assert.NotSame(t, g1, g2)
	assert.Same(t, g1.Templates, g2.Templates)

	cfg := kiln.MustResolve(ctx, c, configToken)
	assert.Same(t, cfg, g1.Templates.Config)
}

func TestTypeToken(t *testing.T) {
	t.Parallel()

	c := kiln.New()
	token := kiln.TypeToken[*Config]()

	assert.Equal(t, "*github.com/danpasecinic/kiln_test.Config", token.ID())

	require.NoError(t, kiln.RegisterInstance(c, token, &Config{Root: "typed"}))

	cfg, err := kiln.Resolve(context.Background(), c, token)
	require.NoError(t, err)
	assert.Equal(t, "typed", cfg.Root)
}

func TestResolveTypeMismatch(t *testing.T) {
	t.Parallel()

	c := kiln.New()
	require.NoError(t, kiln.RegisterInstance(c, kiln.NewToken[string]("name"), "kiln"))

	_, err := kiln.Resolve(context.Background(), c, kiln.NewToken[int]("name"))
	require.Error(t, err)
	assert.True(t, kiln.IsTypeMismatch(err))
	assert.Contains(t, err.Error(), "expected int, got string")
}

func TestResolveNotRegistered(t *testing.T) {
	t.Parallel()

	c := kiln.New()

	_, err := kiln.Resolve(context.Background(), c, configToken)
	if !kiln.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}

	if _, ok := kiln.TryResolve(context.Background(), c, configToken); ok {
		t.Error("TryResolve should report false")
	}
	if _, ok := c.TryResolve(context.Background(), "config", ""); ok {
		t.Error("untyped TryResolve should report false")
	}
}

func TestMustResolvePanics(t *testing.T) {
	t.Parallel()

	c := kiln.New()

	assert.Panics(t, func() {
		kiln.MustResolve(context.Background(), c, configToken)
	})
}

func TestCircularDependency(t *testing.T) {
	t.Parallel()

	c := kiln.New()
	x := kiln.NewToken[*Config]("X")
	y := kiln.NewToken[*Config]("Y")

	_ = kiln.Register(c, x, newConfig, kiln.DependsOn(y))
	_ = kiln.Register(c, y, newConfig, kiln.DependsOn(x))

	_, err := kiln.Resolve(context.Background(), c, x)
	require.Error(t, err)
	assert.True(t, kiln.IsCircularDependency(err))
	assert.Contains(t, err.Error(), "X -> Y -> X")
}

func TestFactoryError(t *testing.T) {
	t.Parallel()

	c := kiln.New()
	boom := errors.New("template root missing")

	_ = kiln.Register(c, configToken, func(ctx context.Context, deps kiln.Dependencies) (*Config, error) {
		return nil, boom
	})

	_, err := kiln.Resolve(context.Background(), c, configToken)
	require.Error(t, err)
	assert.True(t, kiln.IsProviderFailed(err))
	assert.ErrorIs(t, err, boom)

	var kerr *kiln.Error
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, "config", kerr.Service)
}

func TestFactoryResolvesThroughContext(t *testing.T) {
	t.Parallel()

	c := kiln.New()
	ctx := context.Background()

	_ = kiln.RegisterSingleton(c, configToken, newConfig)
	_ = kiln.RegisterSingleton(c, templateToken, func(ctx context.Context, _ kiln.Dependencies) (*TemplateService, error) {
		cfg, err := kiln.Resolve(ctx, c, configToken)
		if err != nil {
			return nil, err
		}
		return &TemplateService{Config: cfg}, nil
	})

	svc, err := kiln.Resolve(ctx, c, templateToken)
	require.NoError(t, err)
	assert.Same(t, kiln.MustResolve(ctx, c, configToken), svc.Config)
}

func TestDepNotDeclared(t *testing.T) {
	t.Parallel()

	c := kiln.New()
	_ = kiln.RegisterSingleton(c, configToken, newConfig)
	_ = kiln.RegisterSingleton(c, templateToken, newTemplateService)

	_, err := kiln.Resolve(context.Background(), c, templateToken)
	require.Error(t, err)
	assert.True(t, kiln.IsProviderFailed(err))
	assert.True(t, kiln.IsNotFound(err))
}

type fieldInjected struct {
	Config *Config
}

func (f *fieldInjected) InjectDependencies(deps kiln.Dependencies) error {
	cfg, err := kiln.Dep(deps, configToken)
	f.Config = cfg
	return err
}

func TestDependencyAcceptor(t *testing.T) {
	t.Parallel()

	c := kiln.New()
	token := kiln.NewToken[*fieldInjected]("fieldInjected")

	_ = kiln.RegisterSingleton(c, configToken, newConfig)
	_ = kiln.RegisterSingleton(c, token, func(ctx context.Context, _ kiln.Dependencies) (*fieldInjected, error) {
		return &fieldInjected{}, nil
	}, kiln.DependsOn(configToken))

	svc, err := kiln.Resolve(context.Background(), c, token)
	require.NoError(t, err)
	assert.NotNil(t, svc.Config)
}

func TestRegisterInstance(t *testing.T) {
	t.Parallel()

	c := kiln.New()
	cfg := &Config{Root: "/srv"}

	require.NoError(t, kiln.RegisterInstance(c, configToken, cfg, kiln.WithCategory("config")))

	info, ok := c.Registration("config")
	require.True(t, ok)
	assert.Equal(t, kiln.Singleton, info.Lifetime)
	assert.True(t, info.Instantiated)
	assert.Equal(t, "config", info.Metadata.Category)

	got := kiln.MustResolve(context.Background(), c, configToken)
	assert.Same(t, cfg, got)
}

func TestReRegisterReplaces(t *testing.T) {
	t.Parallel()

	c := kiln.New()
	ctx := context.Background()

	_ = kiln.RegisterInstance(c, configToken, &Config{Root: "first"})
	_ = kiln.RegisterInstance(c, configToken, &Config{Root: "second"})

	cfg := kiln.MustResolve(ctx, c, configToken)
	assert.Equal(t, "second", cfg.Root)
	assert.Equal(t, 1, c.Size())
}

func TestUnregister(t *testing.T) {
	t.Parallel()

	c := kiln.New()
	_ = kiln.RegisterSingleton(c, configToken, newConfig)

	assert.True(t, c.Unregister("config"))
	assert.False(t, c.IsRegistered("config"))
	assert.False(t, c.Unregister("config"))
}

func TestRegistrationQueries(t *testing.T) {
	t.Parallel()

	c := kiln.New()

	_ = kiln.RegisterSingleton(c, configToken, newConfig, kiln.WithCategory("core"))
	_ = kiln.RegisterSingleton(c, templateToken, newTemplateService,
		kiln.DependsOn(configToken),
		kiln.WithCategory("core"),
		kiln.WithTags("templates", "io"),
		kiln.WithDescription("renders templates"),
		kiln.WithVersion("1.2.0"),
		kiln.WithAuthor("platform"),
	)
	_ = kiln.RegisterScoped(c, generatorToken, newGenerator,
		kiln.DependsOn(templateToken),
		kiln.WithMetadata(kiln.Metadata{Category: "generator", Tags: []string{"templates"}}),
	)

	assert.Equal(t, []string{"config", "templateService", "componentGenerator"}, c.RegisteredServices())
	assert.Equal(t, []string{"config", "templateService"}, c.ServicesByCategory("core"))
	assert.Equal(t, []string{"templateService", "componentGenerator"}, c.ServicesByTag("templates"))
	assert.Empty(t, c.ServicesByTag("missing"))

	info, ok := c.Registration("templateService")
	require.True(t, ok)
	assert.Equal(t, []string{"config"}, info.Dependencies)
	assert.Equal(t, "renders templates", info.Metadata.Description)
	assert.Equal(t, "1.2.0", info.Metadata.Version)
	assert.Equal(t, "platform", info.Metadata.Author)
	assert.False(t, info.Instantiated)

	gen, ok := c.Registration("componentGenerator")
	require.True(t, ok)
	assert.Equal(t, kiln.Scoped, gen.Lifetime)

	_, ok = c.Registration("nope")
	assert.False(t, ok)
}

func TestStatistics(t *testing.T) {
	t.Parallel()

	c := kiln.New()
	ctx := context.Background()

	_ = kiln.RegisterSingleton(c, configToken, newConfig, kiln.WithCategory("core"))
	_ = kiln.RegisterSingleton(c, templateToken, newTemplateService, kiln.DependsOn(configToken))
	_ = kiln.RegisterScoped(c, generatorToken, newGenerator, kiln.DependsOn(templateToken))

	_ = kiln.MustResolve(ctx, c, configToken)
	_, _ = c.CreateScope("")

	stats := c.Statistics()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByLifetime[kiln.Singleton])
	assert.Equal(t, 1, stats.ByLifetime[kiln.Scoped])
	assert.Equal(t, 1, stats.ByCategory["core"])
	assert.Equal(t, 2, stats.ByCategory["uncategorized"])
	assert.Equal(t, 1, stats.Singletons)
	assert.Equal(t, 1, stats.Scopes)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	c := kiln.New()
	_ = kiln.RegisterSingleton(c, templateToken, newTemplateService, kiln.DependsOn(configToken))

	err := c.Validate()
	require.Error(t, err)
	assert.True(t, kiln.IsValidationFailed(err))
	assert.Contains(t, err.Error(), "templateService depends on unregistered config")

	_ = kiln.RegisterSingleton(c, configToken, newConfig)
	assert.NoError(t, c.Validate())
}

func TestParseLifetime(t *testing.T) {
	t.Parallel()

	l, err := kiln.ParseLifetime("scoped")
	require.NoError(t, err)
	assert.Equal(t, kiln.Scoped, l)

	_, err = kiln.ParseLifetime("pooled")
	assert.Error(t, err)
}
