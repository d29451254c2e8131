package container

import (
	"errors"
	"reflect"
	"strings"
)

var (
	// ErrUnregisteredType is returned by Resolve when no factory is
	// registered for the requested type.
	ErrUnregisteredType = errors.New("container: unregistered type")

	// ErrNoConstructor is returned by RegisterType when none of the type's
	// constructors can be satisfied from the container.
	ErrNoConstructor = errors.New("container: no satisfiable constructor")

	// ErrCircularDependency is returned when a type is requested again while
	// its own constructor parameters are still being resolved.
	ErrCircularDependency = errors.New("container: circular dependency detected")

	// ErrInvalidConstructor is returned when a declared constructor is not a
	// func returning (T) or (T, error).
	ErrInvalidConstructor = errors.New("container: invalid constructor")

	// ErrNotAssignable is returned when a concrete type or value cannot be
	// stored under the requested key.
	ErrNotAssignable = errors.New("container: not assignable")
)

// CircularDependencyError carries the resolution path that closed a cycle.
// The last element of Path is the type that was requested twice.
type CircularDependencyError struct {
	Path []reflect.Type
}

func (e *CircularDependencyError) Error() string {
	chain := make([]string, len(e.Path))
	for i, t := range e.Path {
		chain[i] = t.String()
	}
	return ErrCircularDependency.Error() + ": " + strings.Join(chain, " -> ")
}

// Unwrap lets errors.Is match ErrCircularDependency.
func (e *CircularDependencyError) Unwrap() error { return ErrCircularDependency }

func circularError(stack []reflect.Type, t reflect.Type) error {
	path := make([]reflect.Type, len(stack)+1)
	copy(path, stack)
	path[len(stack)] = t
	return &CircularDependencyError{Path: path}
}
