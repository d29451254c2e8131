package container_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/km-arc/go-syringe/framework/container"
)

func newGraph(t *testing.T, ctors ...any) *container.Container {
	t.Helper()
	c := container.New()
	for _, fn := range ctors {
		require.NoError(t, c.Constructor(fn))
	}
	return c
}

// ── Auto-construction ─────────────────────────────────────────────────────────

func TestFindFactory_ResolvesConstructorDependencies(t *testing.T) {
	c := newGraph(t, NewDependent)

	f, err := c.FindFactory(container.TypeOf[*Dependent]())
	require.NoError(t, err)
	require.NotNil(t, f)

	v, err := f()
	require.NoError(t, err)
	d := v.(*Dependent)
	assert.NotNil(t, d.Dependency)
}

func TestFindFactory_InterfaceWithoutRegistrationIsNotFound(t *testing.T) {
	c := container.New()

	f, err := c.FindFactory(container.TypeOf[Storage]())
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestFindFactory_ExplicitRegistrationWins(t *testing.T) {
	c := newGraph(t, NewDependent)
	want := &Dependent{}
	require.NoError(t, container.RegisterValue(c, want))

	f, err := c.FindFactory(container.TypeOf[*Dependent]())
	require.NoError(t, err)
	got, err := f()
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestFindFactory_RegisteredInterfaceSatisfiesParameter(t *testing.T) {
	c := newGraph(t, NewReport)
	require.NoError(t, container.RegisterAs[Storage, *LocalStorage](c))

	f, err := c.FindFactory(container.TypeOf[*Report]())
	require.NoError(t, err)
	require.NotNil(t, f)
	v, err := f()
	require.NoError(t, err)
	assert.Equal(t, "local", v.(*Report).Storage.Name())
}

func TestFindFactory_MissingDependencyIsNotFound(t *testing.T) {
	c := newGraph(t, NewReport)

	f, err := c.FindFactory(container.TypeOf[*Report]())
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestFindFactory_DoesNotCacheAutoConstructedTypes(t *testing.T) {
	c := newGraph(t, NewDependent)

	f, err := c.FindFactory(container.TypeOf[*Dependent]())
	require.NoError(t, err)
	_, err = f()
	require.NoError(t, err)

	assert.False(t, c.Bound(container.TypeOf[*Dependent]()))
	_, err = c.Resolve(container.TypeOf[*Dependent]())
	assert.ErrorIs(t, err, container.ErrUnregisteredType)

	// A later explicit registration still takes effect.
	want := &Dependent{}
	require.NoError(t, container.RegisterValue(c, want))
	got, err := container.Resolve[*Dependent](c)
	require.NoError(t, err)
	assert.Same(t, want, got)
}

// ── Cycles ────────────────────────────────────────────────────────────────────

func TestFindFactory_CircularConstructorsFail(t *testing.T) {
	c := newGraph(t, NewA, NewB, NewC)

	f, err := c.FindFactory(container.TypeOf[*A]())
	assert.Nil(t, f)
	require.ErrorIs(t, err, container.ErrCircularDependency)

	var cycle *container.CircularDependencyError
	require.True(t, errors.As(err, &cycle))
	require.Len(t, cycle.Path, 4)
	assert.Equal(t, container.TypeOf[*A](), cycle.Path[0])
	assert.Equal(t, container.TypeOf[*A](), cycle.Path[3])
	assert.Equal(t,
		"container: circular dependency detected: *container_test.A -> *container_test.B -> *container_test.C -> *container_test.A",
		cycle.Error())
}

// A cycle is fatal even when another constructor could have been tried.
func TestFindFactory_CycleIsNotSwallowedByFallback(t *testing.T) {
	c := newGraph(t, NewA, NewB, NewC)
	require.NoError(t, c.Constructor(func() *C { return &C{} }))

	_, err := c.FindFactory(container.TypeOf[*A]())
	assert.ErrorIs(t, err, container.ErrCircularDependency)
}

func TestFindFactory_SelfDependency(t *testing.T) {
	c := newGraph(t, func(d *Dependency) *Dependency { return d })

	_, err := c.FindFactory(container.TypeOf[*Dependency]())
	assert.ErrorIs(t, err, container.ErrCircularDependency)
}

func TestFindFactory_CycleIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := container.New(container.WithLogger(zap.New(core)))
	for _, fn := range []any{NewA, NewB, NewC} {
		require.NoError(t, c.Constructor(fn))
	}

	_, err := c.FindFactory(container.TypeOf[*A]())
	require.Error(t, err)

	warn := logs.FilterMessage("circular dependency").All()
	require.Len(t, warn, 1)
	assert.Equal(t, zapcore.WarnLevel, warn[0].Level)
	assert.Equal(t, c.ID(), warn[0].ContextMap()["container"])
}

// ── Constructor selection ─────────────────────────────────────────────────────

func newManyConstructors(t *testing.T) *container.Container {
	t.Helper()
	c := container.New()
	require.NoError(t, c.Constructor(NewManyFromString))
	require.NoError(t, c.Constructor(NewManyFromInt, container.Preferred()))
	require.NoError(t, c.Constructor(NewManyFromIntString))
	require.NoError(t, c.Constructor(NewManyFromInts, container.Preferred()))
	return c
}

func TestConstructorSelection(t *testing.T) {
	tests := []struct {
		name     string
		register func(c *container.Container) error
		want     string
	}{
		{
			name:     "preferred with most parameters",
			register: func(c *container.Container) error { return container.RegisterValue(c, 7) },
			want:     "int,int=7,7",
		},
		{
			name: "preferred beats larger untagged",
			register: func(c *container.Container) error {
				if err := container.RegisterValue(c, 1); err != nil {
					return err
				}
				return container.RegisterValue(c, "s")
			},
			want: "int,int=1,1",
		},
		{
			name:     "falls through to untagged",
			register: func(c *container.Container) error { return container.RegisterValue(c, "s") },
			want:     "string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newManyConstructors(t)
			require.NoError(t, tt.register(c))
			require.NoError(t, container.Register[*ManyConstructors](c))

			got, err := container.Resolve[*ManyConstructors](c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Picked)
		})
	}
}

func TestConstructorSelection_NoneSatisfiable(t *testing.T) {
	c := newManyConstructors(t)

	err := container.Register[*ManyConstructors](c)
	assert.ErrorIs(t, err, container.ErrNoConstructor)
	assert.NotErrorIs(t, err, container.ErrCircularDependency)
}

// ── Member injection ──────────────────────────────────────────────────────────

func TestMemberInjection_ClosesCycleBackToOrigin(t *testing.T) {
	c := container.New()
	require.NoError(t, container.Register[*X](c))
	require.NoError(t, container.Register[*Y](c))

	x, err := container.Resolve[*X](c)
	require.NoError(t, err)
	y, err := container.Resolve[*Y](c)
	require.NoError(t, err)

	require.NotNil(t, x.Y)
	require.NotNil(t, y.X)
	assert.Same(t, x, x.Y.X)
	assert.Same(t, y, y.X.Y)
}

func TestMemberInjection_SingletonCycleThroughInterface(t *testing.T) {
	c := container.New()
	require.NoError(t, container.Register[*PingClient](c))
	require.NoError(t, container.RegisterAs[Pinger, *PingServer](c, container.AsSingleton()))

	var (
		got Pinger
		err error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		got, err = container.Resolve[Pinger](c)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Resolve did not return")
	}

	require.NoError(t, err)
	server, ok := got.(*PingServer)
	require.True(t, ok)
	require.NotNil(t, server.Client)
	assert.Same(t, server, server.Client.Server)
	assert.Same(t, server, container.MustResolve[Pinger](c))
}

func TestMemberInjection_RestoresMappingAfterBuild(t *testing.T) {
	c := container.New()
	require.NoError(t, container.Register[*X](c))
	require.NoError(t, container.Register[*Y](c))

	first := container.MustResolve[*X](c)
	second := container.MustResolve[*X](c)
	assert.NotSame(t, first, second, "transient registration must not keep the temporary instance")

	// An unregistered auto-constructed type leaves no entry behind.
	f, err := c.FindFactory(container.TypeOf[*Dependent]())
	require.NoError(t, err)
	_, err = f()
	require.NoError(t, err)
	_, err = c.Resolve(container.TypeOf[*Dependent]())
	assert.ErrorIs(t, err, container.ErrUnregisteredType)
}

func TestResolve_ConstructorErrorPropagates(t *testing.T) {
	c := newGraph(t, NewBroken)
	require.NoError(t, container.Register[*Broken](c))

	_, err := container.Resolve[*Broken](c)
	assert.ErrorIs(t, err, errBoom)
}
