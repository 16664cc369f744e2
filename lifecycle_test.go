package kiln_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danpasecinic/kiln"
)

type tracked struct {
	name    string
	mu      *sync.Mutex
	log     *[]string
	initErr error
	dispErr error
}

func (s *tracked) Initialize(ctx context.Context) error {
	s.record("init:" + s.name)
	return s.initErr
}

func (s *tracked) Dispose(ctx context.Context) error {
	s.record("dispose:" + s.name)
	return s.dispErr
}

func (s *tracked) record(entry string) {
	s.mu.Lock()
	*s.log = append(*s.log, entry)
	s.mu.Unlock()
}

type recorder struct {
	mu  sync.Mutex
	log []string
}

func (r *recorder) factory(name string, initErr, dispErr error) kiln.Factory[*tracked] {
	return func(ctx context.Context, deps kiln.Dependencies) (*tracked, error) {
		return &tracked{name: name, mu: &r.mu, log: &r.log, initErr: initErr, dispErr: dispErr}, nil
	}
}

func (r *recorder) entries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.log...)
}

func trackedToken(id string) kiln.Token[*tracked] {
	return kiln.NewToken[*tracked](id)
}

func TestInitializeAllRegistrationOrder(t *testing.T) {
	t.Parallel()

	c := kiln.New()
	r := &recorder{}

	_ = kiln.RegisterSingleton(c, trackedToken("db"), r.factory("db", nil, nil))
	_ = kiln.RegisterSingleton(c, trackedToken("cache"), r.factory("cache", nil, nil))
	_ = kiln.RegisterTransient(c, trackedToken("job"), r.factory("job", nil, nil))
	_ = kiln.RegisterScoped(c, trackedToken("request"), r.factory("request", nil, nil))

	err := c.InitializeAll(context.Background())
	if err != nil {
		t.Fatalf("InitializeAll failed: %v", err)
	}

	want := []string{"init:db", "init:cache"}
	if got := r.entries(); !assert.Equal(t, want, got) {
		return
	}

	require.NoError(t, c.InitializeAll(context.Background()))
	assert.Equal(t, want, r.entries(), "second call should not re-initialize")
}

func TestInitializeAllFailure(t *testing.T) {
	t.Parallel()

	c := kiln.New()
	r := &recorder{}
	boom := errors.New("migration failed")

	_ = kiln.RegisterSingleton(c, trackedToken("db"), r.factory("db", boom, nil))
	_ = kiln.RegisterSingleton(c, trackedToken("cache"), r.factory("cache", nil, nil))

	err := c.InitializeAll(context.Background())
	require.Error(t, err)
	assert.True(t, kiln.IsInitializationFailed(err))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"init:db"}, r.entries())
}

func TestInitializeAllConstructionFailure(t *testing.T) {
	t.Parallel()

	c := kiln.New()
	_ = kiln.RegisterSingleton(c, templateToken, newTemplateService, kiln.DependsOn(configToken))

	err := c.InitializeAll(context.Background())
	require.Error(t, err)
	assert.True(t, kiln.IsInitializationFailed(err))
	assert.True(t, kiln.IsNotFound(err))
}

func TestParallelInitialize(t *testing.T) {
	t.Parallel()

	c := kiln.New(kiln.WithParallelInitialize())
	r := &recorder{}

	_ = kiln.RegisterSingleton(c, trackedToken("config"), r.factory("config", nil, nil))
	_ = kiln.RegisterSingleton(c, trackedToken("db"), r.factory("db", nil, nil), kiln.WithDependencies("config"))
	_ = kiln.RegisterSingleton(c, trackedToken("cache"), r.factory("cache", nil, nil), kiln.WithDependencies("config"))
	_ = kiln.RegisterSingleton(c, trackedToken("api"), r.factory("api", nil, nil), kiln.WithDependencies("db", "cache"))

	require.NoError(t, c.InitializeAll(context.Background()))

	got := r.entries()
	require.Len(t, got, 4)
	assert.Equal(t, "init:config", got[0])
	assert.ElementsMatch(t, []string{"init:db", "init:cache"}, got[1:3])
	assert.Equal(t, "init:api", got[3])
}

func TestDisposeReverseConstructionOrder(t *testing.T) {
	t.Parallel()

	c := kiln.New()
	r := &recorder{}
	ctx := context.Background()

	_ = kiln.RegisterSingleton(c, trackedToken("db"), r.factory("db", nil, errors.New("close failed")))
	_ = kiln.RegisterSingleton(c, trackedToken("repo"), r.factory("repo", nil, nil), kiln.WithDependencies("db"))
	_ = kiln.RegisterSingleton(c, trackedToken("unused"), r.factory("unused", nil, nil))
	_ = kiln.RegisterScoped(c, trackedToken("request"), r.factory("request", nil, nil))

	scope, _ := c.CreateScope("")
	_ = kiln.MustResolve(ctx, c, trackedToken("request"), kiln.InScope(scope))
	_ = kiln.MustResolve(ctx, c, trackedToken("repo"))

	c.Dispose(ctx)

	assert.Equal(t, []string{"dispose:request", "dispose:repo", "dispose:db"}, r.entries())
	assert.True(t, c.IsDisposed())
}

func TestDisposeTerminal(t *testing.T) {
	t.Parallel()

	c := kiln.New()
	ctx := context.Background()
	_ = kiln.RegisterSingleton(c, configToken, newConfig)

	c.Dispose(ctx)
	c.Dispose(ctx)

	err := kiln.RegisterSingleton(c, configToken, newConfig)
	assert.True(t, kiln.IsContainerDisposed(err))

	_, err = kiln.Resolve(ctx, c, configToken)
	assert.True(t, kiln.IsContainerDisposed(err))

	_, err = c.CreateScope("")
	assert.True(t, kiln.IsContainerDisposed(err))

	assert.True(t, kiln.IsContainerDisposed(c.InitializeAll(ctx)))
	assert.Zero(t, c.Size())
}

func TestReplacedSingletonStillDisposed(t *testing.T) {
	t.Parallel()

	c := kiln.New()
	r := &recorder{}
	ctx := context.Background()

	_ = kiln.RegisterSingleton(c, trackedToken("db"), r.factory("old", nil, nil))
	_ = kiln.MustResolve(ctx, c, trackedToken("db"))

	_ = kiln.RegisterSingleton(c, trackedToken("db"), r.factory("new", nil, nil))
	_ = kiln.MustResolve(ctx, c, trackedToken("db"))

	c.Dispose(ctx)

	assert.Equal(t, []string{"dispose:new", "dispose:old"}, r.entries())
}

func TestRun(t *testing.T) {
	t.Parallel()

	c := kiln.New()
	r := &recorder{}
	_ = kiln.RegisterSingleton(c, trackedToken("server"), r.factory("server", nil, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.NoError(t, c.Run(ctx))
	assert.Equal(t, []string{"init:server", "dispose:server"}, r.entries())
	assert.True(t, c.IsDisposed())
}

func TestRunInitializeFailure(t *testing.T) {
	t.Parallel()

	c := kiln.New()
	r := &recorder{}
	_ = kiln.RegisterSingleton(c, trackedToken("server"), r.factory("server", errors.New("port in use"), nil))

	err := c.Run(context.Background())
	assert.True(t, kiln.IsInitializationFailed(err))
	assert.True(t, c.IsDisposed())
}
