package container

import (
	"fmt"
	"reflect"
	"slices"

	"go.uber.org/zap"
)

// resolver builds factories for types that have no explicit registration.
// It reads and, while a built factory runs, temporarily writes the factory
// mapping it shares with the Container.
type resolver struct {
	factories    map[reflect.Type]Factory
	contextual   map[reflect.Type]map[reflect.Type]Factory
	constructors ConstructorProvider
	members      MemberProvider
	log          *zap.Logger
}

// FindFactory returns a factory for t. A nil factory with a nil error means
// t cannot be built; an error is returned only for a dependency cycle.
func (r *resolver) FindFactory(t reflect.Type) (Factory, error) {
	return r.findFactory(t, []reflect.Type{t})
}

// Construct is FindFactory without the lookup of t's own entry: t is always
// built from its constructors. While its members are injected the new
// instance is also installed under each alias.
func (r *resolver) Construct(t reflect.Type, aliases ...reflect.Type) (Factory, error) {
	return r.construct(t, []reflect.Type{t}, aliases)
}

func (r *resolver) findFactory(t reflect.Type, stack []reflect.Type) (Factory, error) {
	if f, ok := r.factories[t]; ok {
		return f, nil
	}
	return r.construct(t, stack, nil)
}

func (r *resolver) construct(t reflect.Type, stack, aliases []reflect.Type) (Factory, error) {
	if t.Kind() == reflect.Interface {
		return nil, nil
	}

	for _, k := range r.constructors.Constructors(t) {
		args, ok, err := r.resolveParams(t, k.Params, stack)
		if err != nil {
			return nil, err
		}
		if !ok {
			r.log.Debug("constructor not satisfiable",
				zap.Stringer("type", t), zap.Stringer("constructor", k))
			continue
		}
		r.log.Debug("constructor selected",
			zap.Stringer("type", t), zap.Stringer("constructor", k))
		return r.build(t, aliases, k, args), nil
	}
	return nil, nil
}

// resolveParams finds a factory for every parameter type. ok is false when
// any parameter cannot be resolved; err is set only for a cycle, which must
// not be swallowed by the caller's search over constructors.
func (r *resolver) resolveParams(owner reflect.Type, params []reflect.Type, stack []reflect.Type) ([]Factory, bool, error) {
	args := make([]Factory, len(params))
	for i, p := range params {
		if f, ok := r.contextual[owner][p]; ok {
			args[i] = f
			continue
		}
		if slices.Contains(stack, p) {
			err := circularError(stack, p)
			r.log.Warn("circular dependency", zap.Error(err))
			return nil, false, err
		}

		f, err := r.findFactory(p, append(slices.Clip(stack), p))
		if err != nil {
			return nil, false, err
		}
		if f == nil {
			return nil, false, nil
		}
		args[i] = f
	}
	return args, true, nil
}

// build returns the factory for an auto-constructed type. After the
// constructor runs, the new instance is installed under its own type and
// its aliases while its members are injected, so members that refer back
// to t receive this instance. The previous entries are restored on every
// exit path.
func (r *resolver) build(t reflect.Type, aliases []reflect.Type, k Constructor, args []Factory) Factory {
	keys := []reflect.Type{t}
	for _, alias := range aliases {
		if !slices.Contains(keys, alias) {
			keys = append(keys, alias)
		}
	}

	return func() (any, error) {
		in, err := materialize(args, k.Params)
		if err != nil {
			return nil, fmt.Errorf("constructing %s: %w", t, err)
		}
		obj, err := k.Invoke(in)
		if err != nil {
			return nil, fmt.Errorf("constructing %s: %w", t, err)
		}

		self := constant(obj)
		for _, key := range keys {
			restore := r.install(key, self)
			defer restore()
		}

		if err := r.Augment(obj); err != nil {
			return nil, err
		}
		return obj, nil
	}
}

func (r *resolver) install(t reflect.Type, f Factory) (restore func()) {
	prev, had := r.factories[t]
	r.factories[t] = f
	return func() {
		if had {
			r.factories[t] = prev
		} else {
			delete(r.factories, t)
		}
	}
}

// Augment injects every unpopulated member of obj whose dependencies can be
// resolved. Members with unresolvable dependencies are skipped.
func (r *resolver) Augment(obj any) error {
	if obj == nil {
		return nil
	}
	target := reflect.ValueOf(obj)
	if target.Kind() == reflect.Pointer && target.IsNil() {
		return nil
	}

	t := target.Type()
	for _, m := range r.members.Members(t) {
		if m.Populated != nil && m.Populated(target) {
			continue
		}
		args, ok, err := r.resolveParams(t, m.Params, nil)
		if err != nil {
			return fmt.Errorf("augmenting %s.%s: %w", t, m.Name, err)
		}
		if !ok {
			r.log.Debug("member skipped",
				zap.Stringer("type", t), zap.String("member", m.Name))
			continue
		}
		in, err := materialize(args, m.Params)
		if err != nil {
			return fmt.Errorf("augmenting %s.%s: %w", t, m.Name, err)
		}
		m.Inject(target, in)
	}
	return nil
}

// materialize invokes each factory and converts the results to the
// parameter types they are passed as.
func materialize(factories []Factory, params []reflect.Type) ([]reflect.Value, error) {
	in := make([]reflect.Value, len(factories))
	for i, f := range factories {
		v, err := f()
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", params[i], err)
		}
		rv, err := valueOf(v, params[i])
		if err != nil {
			return nil, err
		}
		in[i] = rv
	}
	return in, nil
}

func valueOf(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("%w: nil to %s", ErrNotAssignable, t)
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(t) {
		return reflect.Value{}, fmt.Errorf("%w: %s to %s", ErrNotAssignable, rv.Type(), t)
	}
	return rv, nil
}
