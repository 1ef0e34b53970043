package app

import (
	"context"
	"sync"
	"sync/atomic"
)

// latest is a single-slot mailbox between one producer and one consumer.
// A put replaces any value the consumer has not taken yet; the replaced value
// is handed to discard and counted as dropped.
type latest[T any] struct {
	mu      sync.Mutex
	value   T
	full    bool
	ready   chan struct{}
	discard func(T)
	dropped atomic.Uint64
}

func newLatest[T any](discard func(T)) *latest[T] {
	return &latest[T]{
		ready:   make(chan struct{}, 1),
		discard: discard,
	}
}

// put stores v, overwriting an untaken value.
func (l *latest[T]) put(v T) {
	l.mu.Lock()
	if l.full {
		l.drop(l.value)
	}
	l.value = v
	l.full = true
	l.mu.Unlock()

	select {
	case l.ready <- struct{}{}:
	default:
	}
}

// take blocks until a value is available or ctx is done.
func (l *latest[T]) take(ctx context.Context) (T, bool) {
	var zero T
	for {
		select {
		case <-ctx.Done():
			return zero, false
		case <-l.ready:
		}

		l.mu.Lock()
		if l.full {
			v := l.value
			l.value = zero
			l.full = false
			l.mu.Unlock()
			return v, true
		}
		l.mu.Unlock()
	}
}

// clear discards a pending value, if any.
func (l *latest[T]) clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.full {
		l.drop(l.value)
		var zero T
		l.value = zero
		l.full = false
	}
}

func (l *latest[T]) drop(v T) {
	if l.discard != nil {
		l.discard(v)
	}
	l.dropped.Add(1)
}
