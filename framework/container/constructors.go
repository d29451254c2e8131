package container

import (
	"fmt"
	"reflect"
	"sort"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Constructor describes one way of building a value of its result type.
type Constructor struct {
	// Fn is the constructor function. It returns (T) or (T, error).
	Fn reflect.Value

	// Params are the parameter types of Fn, resolved from the container.
	Params []reflect.Type

	// Preferred marks a constructor that is tried before the others.
	Preferred bool
}

// Invoke calls the constructor with already materialized arguments.
func (k Constructor) Invoke(args []reflect.Value) (any, error) {
	out := k.Fn.Call(args)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

// String renders the constructor signature for logs and errors.
func (k Constructor) String() string {
	return k.Fn.Type().String()
}

// ConstructorProvider yields the constructors of a type in the order the
// resolver should try them.
type ConstructorProvider interface {
	Constructors(t reflect.Type) []Constructor
}

// ConstructorOption configures a declared constructor.
type ConstructorOption func(*Constructor)

// Preferred marks the constructor as explicitly preferred.
func Preferred() ConstructorOption {
	return func(k *Constructor) {
		k.Preferred = true
	}
}

// ConstructorCatalog is the default ConstructorProvider. Constructors are
// declared per result type; pointer-to-struct types without declarations
// get an implicit zero-parameter constructor.
type ConstructorCatalog struct {
	declared map[reflect.Type][]Constructor
}

// NewConstructorCatalog returns an empty catalog.
func NewConstructorCatalog() *ConstructorCatalog {
	return &ConstructorCatalog{declared: make(map[reflect.Type][]Constructor)}
}

// Declare adds fn as a constructor for its first result type.
//
//	catalog.Declare(NewMailer)
//	catalog.Declare(NewMailerWithRetry, container.Preferred())
func (c *ConstructorCatalog) Declare(fn any, opts ...ConstructorOption) (reflect.Type, error) {
	k, err := newConstructor(fn)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(&k)
	}
	out := k.Fn.Type().Out(0)
	c.declared[out] = append(c.declared[out], k)
	return out, nil
}

// Constructors returns the constructors of t, preferred ones first and then
// by descending parameter count. Declaration order breaks ties.
func (c *ConstructorCatalog) Constructors(t reflect.Type) []Constructor {
	declared := c.declared[t]
	if len(declared) == 0 {
		if k, ok := implicitConstructor(t); ok {
			return []Constructor{k}
		}
		return nil
	}

	ordered := make([]Constructor, len(declared))
	copy(ordered, declared)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Preferred != ordered[j].Preferred {
			return ordered[i].Preferred
		}
		return len(ordered[i].Params) > len(ordered[j].Params)
	})
	return ordered
}

func newConstructor(fn any) (Constructor, error) {
	val := reflect.ValueOf(fn)
	if !val.IsValid() || val.Kind() != reflect.Func || val.IsNil() {
		return Constructor{}, fmt.Errorf("%w: %T is not a function", ErrInvalidConstructor, fn)
	}

	typ := val.Type()
	if typ.IsVariadic() {
		return Constructor{}, fmt.Errorf("%w: %s is variadic", ErrInvalidConstructor, typ)
	}
	switch typ.NumOut() {
	case 1:
	case 2:
		if typ.Out(1) != errorType {
			return Constructor{}, fmt.Errorf("%w: second result of %s must be error", ErrInvalidConstructor, typ)
		}
	default:
		return Constructor{}, fmt.Errorf("%w: %s must return (T) or (T, error)", ErrInvalidConstructor, typ)
	}

	params := make([]reflect.Type, typ.NumIn())
	for i := range params {
		params[i] = typ.In(i)
	}
	return Constructor{Fn: val, Params: params}, nil
}

// implicitConstructor stands in for a struct's zero value constructor.
func implicitConstructor(t reflect.Type) (Constructor, bool) {
	if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return Constructor{}, false
	}
	elem := t.Elem()
	fn := reflect.MakeFunc(reflect.FuncOf(nil, []reflect.Type{t}, false), func([]reflect.Value) []reflect.Value {
		return []reflect.Value{reflect.New(elem)}
	})
	return Constructor{Fn: fn}, true
}
