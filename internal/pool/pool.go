// Package pool provides typed object pooling for parser scratch state.
// Used by getopt.Parser so one Parser can serve concurrent Parse calls while
// each call works on its own flattener buffers.
package pool

import (
	"sync"
)

// Pool is a type-safe wrapper around sync.Pool with an optional reset hook.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(*T) // called on every Get before the object is handed out
}

// New creates a pool backed by factory.
func New[T any](factory func() *T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return factory()
			},
		},
	}
}

// NewWithReset creates a pool that calls reset on objects before reuse.
func NewWithReset[T any](factory func() *T, reset func(*T)) *Pool[T] {
	p := New(factory)
	p.reset = reset
	return p
}

// Get returns a pooled object or a fresh one from the factory.
func (p *Pool[T]) Get() *T {
	obj := p.pool.Get().(*T)
	if p.reset != nil {
		p.reset(obj)
	}
	return obj
}

// Put hands obj back to the pool. Nil is ignored.
func (p *Pool[T]) Put(obj *T) {
	if obj == nil {
		return
	}
	p.pool.Put(obj)
}

// With runs fn with a pooled object and returns it to the pool afterwards.
func (p *Pool[T]) With(fn func(*T)) {
	obj := p.Get()
	defer p.Put(obj)
	fn(obj)
}

// maxPooledBuffer keeps oversized buffers out of the shared pool.
const maxPooledBuffer = 64 << 10

var buffers = NewWithReset(
	func() *[]byte {
		b := make([]byte, 0, 256)
		return &b
	},
	func(b *[]byte) { *b = (*b)[:0] },
)

// GetBuffer returns an empty byte slice with at least minCap capacity.
func GetBuffer(minCap int) *[]byte {
	b := buffers.Get()
	if cap(*b) < minCap {
		*b = make([]byte, 0, minCap)
	}
	return b
}

// PutBuffer returns a buffer obtained from GetBuffer.
func PutBuffer(b *[]byte) {
	if b == nil || cap(*b) > maxPooledBuffer {
		return
	}
	buffers.Put(b)
}
