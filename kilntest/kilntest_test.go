package kilntest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danpasecinic/kiln"
	"github.com/danpasecinic/kiln/events"
	"github.com/danpasecinic/kiln/kilntest"
)

type Renderer interface {
	Render(name string) string
}

type stubRenderer struct {
	prefix string
}

func (s *stubRenderer) Render(name string) string {
	return s.prefix + name
}

type closer struct {
	closed *bool
}

func (c *closer) Dispose(ctx context.Context) error {
	*c.closed = true
	return nil
}

var (
	rendererToken = kiln.NewToken[Renderer]("renderer")
	closerToken   = kiln.NewToken[*closer]("closer")
)

func TestNew(t *testing.T) {
	t.Parallel()

	tc := kilntest.New(t)
	if tc == nil {
		t.Fatal("New() returned nil")
	}
}

func TestNewDisposesOnCleanup(t *testing.T) {
	t.Parallel()

	closed := false

	t.Run("inner", func(t *testing.T) {
		tc := kilntest.New(t)
		kilntest.MustRegister(tc, closerToken, func(ctx context.Context, _ kiln.Dependencies) (*closer, error) {
			return &closer{closed: &closed}, nil
		})
		tc.RequireInitialize(context.Background())
	})

	assert.True(t, closed, "container should be disposed by cleanup")
}

func TestReplace(t *testing.T) {
	t.Parallel()

	tc := kilntest.New(t)
	kilntest.MustRegister(tc, rendererToken, func(ctx context.Context, _ kiln.Dependencies) (Renderer, error) {
		return &stubRenderer{prefix: "real:"}, nil
	})

	kilntest.Replace[Renderer](tc, rendererToken, &stubRenderer{prefix: "fake:"})

	r := kilntest.MustResolve(tc, rendererToken)
	assert.Equal(t, "fake:page", r.Render("page"))
}

func TestReplaceFactory(t *testing.T) {
	t.Parallel()

	tc := kilntest.New(t)
	kilntest.MustRegisterInstance[Renderer](tc, rendererToken, &stubRenderer{prefix: "real:"})

	kilntest.ReplaceFactory(tc, rendererToken, func(ctx context.Context, _ kiln.Dependencies) (Renderer, error) {
		return &stubRenderer{prefix: "mock:"}, nil
	}, kiln.WithLifetime(kiln.Transient))

	r := kilntest.MustResolve(tc, rendererToken)
	assert.Equal(t, "mock:api", r.Render("api"))
}

func TestAssertRegistered(t *testing.T) {
	t.Parallel()

	tc := kilntest.New(t)
	kilntest.AssertNotRegistered(tc, rendererToken)

	kilntest.MustRegisterInstance[Renderer](tc, rendererToken, &stubRenderer{})
	kilntest.AssertRegistered(tc, rendererToken)
	tc.RequireValidate()
}

func TestRequireScope(t *testing.T) {
	t.Parallel()

	tc := kilntest.New(t)
	kilntest.MustRegister(tc, rendererToken, func(ctx context.Context, _ kiln.Dependencies) (Renderer, error) {
		return &stubRenderer{}, nil
	}, kiln.WithLifetime(kiln.Scoped))

	scope := tc.RequireScope()
	a := kilntest.MustResolve(tc, rendererToken, kiln.InScope(scope))
	b := kilntest.MustResolve(tc, rendererToken, kiln.InScope(scope))
	assert.Same(t, a, b)
}

func TestRecorder(t *testing.T) {
	t.Parallel()

	rec := kilntest.NewRecorder()
	tc := kilntest.New(t, kiln.WithEventEmitter(rec))

	kilntest.MustRegisterInstance[Renderer](tc, rendererToken, &stubRenderer{})
	_, err := kiln.Resolve(context.Background(), tc.Container, kiln.NewToken[Renderer]("missing"))
	require.Error(t, err)

	assert.Equal(t, []events.Type{events.InstanceRegistered, events.Error}, rec.Types())

	errs := rec.OfType(events.Error)
	require.Len(t, errs, 1)
	assert.Equal(t, "missing", errs[0].ServiceID)
	assert.True(t, kiln.IsNotFound(errs[0].Err))

	rec.Reset()
	assert.Empty(t, rec.Events())
}
