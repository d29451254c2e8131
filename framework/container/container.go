package container

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ── Binding metadata ──────────────────────────────────────────────────────────

// Kind tells how a binding was registered.
type Kind string

const (
	KindType     Kind = "type"
	KindFactory  Kind = "factory"
	KindInstance Kind = "instance"
)

// Binding describes one entry of the factory mapping.
type Binding struct {
	Key reflect.Type

	// Concrete is the constructed type for KindType and the value's type for
	// KindInstance. It is nil for factories and nil instances.
	Concrete reflect.Type

	Kind     Kind
	Lifetime Lifetime

	// Extended counts the decorators applied through Extend.
	Extended int
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container maps types to factories and builds unregistered types from
// their constructors.
//
// It supports:
//   - RegisterType / RegisterTypeAs / RegisterFactory / RegisterInstance
//   - Resolve / Augment (and the generic helpers)
//   - Constructor and InjectMethod declarations
//   - Contextual binding (when A needs B, give it C)
//   - Extend (decorate resolved instances)
//   - Resolved event callbacks
//
// A Container has a single logical owner. It is not safe for concurrent
// registration or resolution; singleton factories alone are safe to call
// concurrently once their first run has finished.
type Container struct {
	id  string
	log *zap.Logger

	// type → factory; shared with the resolver
	factories map[reflect.Type]Factory

	// type → registration metadata
	bindings map[reflect.Type]Binding

	// contextual: when[consumer][dependency] = factory
	contextual map[reflect.Type]map[reflect.Type]Factory

	catalog  *ConstructorCatalog
	tagged   *TagMembers
	resolver *resolver

	// resolved callbacks: []func(type, instance)
	afterResolving []func(reflect.Type, any)
}

// New creates an empty container.
func New(opts ...Option) *Container {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Container{
		id:         uuid.NewString(),
		factories:  make(map[reflect.Type]Factory),
		bindings:   make(map[reflect.Type]Binding),
		contextual: make(map[reflect.Type]map[reflect.Type]Factory),
		catalog:    NewConstructorCatalog(),
		tagged:     NewTagMembers(o.tag),
	}
	c.log = o.log.With(zap.String("container", c.id))

	constructors := ConstructorProvider(c.catalog)
	if o.constructors != nil {
		constructors = o.constructors
	}
	members := MemberProvider(c.tagged)
	if o.members != nil {
		members = o.members
	}

	c.resolver = &resolver{
		factories:    c.factories,
		contextual:   c.contextual,
		constructors: constructors,
		members:      members,
		log:          c.log,
	}
	return c
}

// ID returns the unique identifier of the container.
func (c *Container) ID() string { return c.id }

// ── Declarations ──────────────────────────────────────────────────────────────

// Constructor declares fn as a way of building its first result type.
//
//	c.Constructor(NewMailer)
//	c.Constructor(NewMailerWithTransport, container.Preferred())
func (c *Container) Constructor(fn any, opts ...ConstructorOption) error {
	t, err := c.catalog.Declare(fn, opts...)
	if err != nil {
		return err
	}
	c.log.Debug("constructor declared", zap.Stringer("type", t), zap.String("fn", fmt.Sprintf("%T", fn)))
	return nil
}

// InjectMethod marks the named method of t as an injection point used by
// Augment. The method's parameters are resolved from the container.
func (c *Container) InjectMethod(t reflect.Type, name string) error {
	return c.tagged.Method(t, name)
}

// ── Registration ──────────────────────────────────────────────────────────────

// RegisterType registers t to be built from its constructors, replacing
// any previous registration of t. The constructor graph is resolved now;
// if it cannot be satisfied the registration fails and the mapping is left
// unchanged.
func (c *Container) RegisterType(t reflect.Type, opts ...RegisterOption) error {
	return c.RegisterTypeAs(t, t, opts...)
}

// RegisterTypeAs registers from to be built as a to.
//
//	c.RegisterTypeAs(container.TypeOf[Mailer](), container.TypeOf[*SMTPMailer]())
func (c *Container) RegisterTypeAs(from, to reflect.Type, opts ...RegisterOption) error {
	if !to.AssignableTo(from) {
		return fmt.Errorf("%w: %s to %s", ErrNotAssignable, to, from)
	}

	f, err := c.resolver.Construct(to, from)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNoConstructor, to, err)
	}
	if f == nil {
		return fmt.Errorf("%w: %s", ErrNoConstructor, to)
	}

	c.bind(from, Binding{Concrete: to, Kind: KindType}, f, opts)
	return nil
}

// RegisterFactory registers f as the factory for from.
//
//	c.RegisterFactory(container.TypeOf[*Clock](), func() (any, error) {
//	    return NewClock(time.UTC), nil
//	}, container.AsSingleton())
func (c *Container) RegisterFactory(from reflect.Type, f Factory, opts ...RegisterOption) error {
	if f == nil {
		return fmt.Errorf("container: nil factory for %s", from)
	}
	c.bind(from, Binding{Kind: KindFactory}, f, opts)
	return nil
}

// RegisterInstance registers a pre-built value for from.
func (c *Container) RegisterInstance(from reflect.Type, value any) error {
	if _, err := valueOf(value, from); err != nil {
		return err
	}
	var concrete reflect.Type
	if value != nil {
		concrete = reflect.TypeOf(value)
	}
	c.bind(from, Binding{Concrete: concrete, Kind: KindInstance}, constant(value), nil)
	return nil
}

// bind stores f under key, replacing any previous entry.
func (c *Container) bind(key reflect.Type, b Binding, f Factory, opts []RegisterOption) {
	reg := registration{lifetime: Transient}
	for _, opt := range opts {
		opt(&reg)
	}
	if reg.lifetime == Singleton {
		f = Lazy(f)
	}

	b.Key = key
	b.Lifetime = reg.lifetime
	if _, replaced := c.bindings[key]; replaced {
		c.log.Debug("binding replaced", zap.Stringer("type", key))
	}
	c.factories[key] = f
	c.bindings[key] = b
	c.log.Debug("registered",
		zap.Stringer("type", key),
		zap.String("kind", string(b.Kind)),
		zap.Stringer("lifetime", b.Lifetime))
}

// ── Contextual Binding ────────────────────────────────────────────────────────

// When starts a contextual binding chain.
//
//	c.When(container.TypeOf[*ReportService]()).
//	    Needs(container.TypeOf[Storage]()).
//	    Give(func() (any, error) { return NewS3Storage(), nil })
func (c *Container) When(consumer reflect.Type) *ContextualBuilder {
	return &ContextualBuilder{container: c, consumer: consumer}
}

// ── Extend ────────────────────────────────────────────────────────────────────

// Extend decorates every instance resolved for t. Singleton registrations
// stay single-instance: the decorator runs once.
//
//	c.Extend(container.TypeOf[Logger](), func(instance any) (any, error) {
//	    return &TimestampLogger{Inner: instance.(Logger)}, nil
//	})
func (c *Container) Extend(t reflect.Type, fn func(instance any) (any, error)) error {
	inner, ok := c.factories[t]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnregisteredType, t)
	}

	b := c.bindings[t]
	f := Factory(func() (any, error) {
		instance, err := inner()
		if err != nil {
			return nil, err
		}
		return fn(instance)
	})
	if b.Lifetime == Singleton {
		f = Lazy(f)
	}

	b.Extended++
	c.factories[t] = f
	c.bindings[t] = b
	return nil
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Resolve invokes the factory registered for t. Types that were never
// registered fail with ErrUnregisteredType, even when they could be
// auto-constructed; use FindFactory for that.
func (c *Container) Resolve(t reflect.Type) (any, error) {
	f, ok := c.factories[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnregisteredType, t)
	}

	instance, err := f()
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", t, err)
	}

	c.fireAfterResolving(t, instance)
	return instance, nil
}

// FindFactory returns the registered factory for t or builds one from t's
// constructors. It returns (nil, nil) when t cannot be built and an error
// only for a circular constructor graph. Built factories are not stored.
func (c *Container) FindFactory(t reflect.Type) (Factory, error) {
	return c.resolver.FindFactory(t)
}

// Augment injects the unpopulated members of obj from the container.
// Members whose dependencies cannot be resolved are left untouched.
func (c *Container) Augment(obj any) error {
	return c.resolver.Augment(obj)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Bound reports whether t has been registered.
func (c *Container) Bound(t reflect.Type) bool {
	_, ok := c.bindings[t]
	return ok
}

// Forget removes the registration of t.
func (c *Container) Forget(t reflect.Type) {
	delete(c.factories, t)
	delete(c.bindings, t)
	delete(c.contextual, t)
}

// Flush removes every registration and contextual binding. Declared
// constructors and injection methods are kept.
func (c *Container) Flush() {
	clear(c.factories)
	clear(c.bindings)
	clear(c.contextual)
}

// Bindings returns the registered bindings ordered by key name.
func (c *Container) Bindings() []Binding {
	out := make([]Binding, 0, len(c.bindings))
	for _, b := range c.bindings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key.String() < out[j].Key.String()
	})
	return out
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// AfterResolving registers a callback fired after every successful Resolve.
func (c *Container) AfterResolving(cb func(t reflect.Type, instance any)) {
	c.afterResolving = append(c.afterResolving, cb)
}

func (c *Container) fireAfterResolving(t reflect.Type, instance any) {
	for _, cb := range c.afterResolving {
		cb(t, instance)
	}
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// TypeOf returns the type key of T. Interfaces are supported:
//
//	key := container.TypeOf[io.Writer]()
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Register registers T to be built from its constructors.
func Register[T any](c *Container, opts ...RegisterOption) error {
	return c.RegisterType(TypeOf[T](), opts...)
}

// RegisterAs registers From to be built as a To.
//
//	container.RegisterAs[Mailer, *SMTPMailer](c, container.AsSingleton())
func RegisterAs[From, To any](c *Container, opts ...RegisterOption) error {
	return c.RegisterTypeAs(TypeOf[From](), TypeOf[To](), opts...)
}

// RegisterFunc registers fn as the factory for From. To must be assignable
// to From.
func RegisterFunc[From, To any](c *Container, fn func() (To, error), opts ...RegisterOption) error {
	from, to := TypeOf[From](), TypeOf[To]()
	if !to.AssignableTo(from) {
		return fmt.Errorf("%w: %s to %s", ErrNotAssignable, to, from)
	}
	return c.RegisterFactory(from, func() (any, error) {
		return fn()
	}, opts...)
}

// RegisterValue registers a pre-built value for T.
func RegisterValue[T any](c *Container, value T) error {
	return c.RegisterInstance(TypeOf[T](), value)
}

// Resolve is a generic helper that calls Container.Resolve and type-asserts
// the result.
//
//	mailer, err := container.Resolve[Mailer](c)
func Resolve[T any](c *Container) (T, error) {
	var zero T
	instance, err := c.Resolve(TypeOf[T]())
	if err != nil || instance == nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T to %s", ErrNotAssignable, instance, TypeOf[T]())
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](c *Container) T {
	typed, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return typed
}
