package container

import (
	"fmt"
	"sync"
)

// Factory produces an instance for a registered type.
type Factory func() (any, error)

// Lazy wraps f so that it runs at most once, on the first call. Every call
// returns the outcome of that first run, error included.
//
// A call made while the first run is still in progress, typically from f
// itself through a dependency cycle, fails with ErrCircularDependency
// instead of blocking. Once the first run has finished the factory is safe
// for concurrent use.
func Lazy(f Factory) Factory {
	var (
		mu       sync.Mutex
		building bool
		done     bool
		val      any
		err      error
	)
	return func() (any, error) {
		mu.Lock()
		if done {
			mu.Unlock()
			return val, err
		}
		if building {
			mu.Unlock()
			return nil, fmt.Errorf("%w: singleton requested while it is being built", ErrCircularDependency)
		}
		building = true
		mu.Unlock()

		v, e := f()

		mu.Lock()
		val, err, done, building = v, e, true, false
		mu.Unlock()
		return v, e
	}
}

// constant returns a factory that always yields v.
func constant(v any) Factory {
	return func() (any, error) { return v, nil }
}
