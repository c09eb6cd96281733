// Package pool provides small generic sync.Pool wrappers for the
// fixed-shape buffers the validator core reuses across invocations:
// proof-interpreter stacks and change-set entry slices. It generalizes the teacher library's
// internal/pool (which wrapped sync.Pool around *big.Int, []byte and
// []string specifically) into a single generic type, since this domain's
// buffers are a few distinct fixed shapes rather than one dominant type.
package pool

import "sync"

// Pool is a typed wrapper around sync.Pool. T should be a pointer or slice
// type so that Put does not need to special-case zero values.
type Pool[T any] struct {
	pool sync.Pool
	new  func() T
}

// New creates a Pool whose Get falls back to newFn when empty.
func New[T any](newFn func() T) *Pool[T] {
	p := &Pool[T]{new: newFn}
	p.pool.New = func() any { return newFn() }
	return p
}

// Get retrieves an item from the pool, allocating one if the pool is empty.
func (p *Pool[T]) Get() T {
	return p.pool.Get().(T)
}

// Put returns an item to the pool for reuse. Callers must not retain v
// after calling Put.
func (p *Pool[T]) Put(v T) {
	p.pool.Put(v)
}
