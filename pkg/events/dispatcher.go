package events

import (
	"context"
	"errors"
	"sync"
)

// Handler receives published values.
type Handler[T any] func(ctx context.Context, v T) error

// Dispatcher fans a published value out to every subscriber, synchronously and
// in subscription order. It is safe for concurrent use.
type Dispatcher[T any] struct {
	mu       sync.RWMutex
	handlers []Handler[T]
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher[T any]() *Dispatcher[T] {
	return &Dispatcher[T]{}
}

// Subscribe registers fn. Nil handlers are ignored.
func (d *Dispatcher[T]) Subscribe(fn Handler[T]) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, fn)
}

// Publish calls every subscriber with v. A failing subscriber does not stop
// the others; all errors are joined.
func (d *Dispatcher[T]) Publish(ctx context.Context, v T) error {
	if d == nil {
		return nil
	}
	d.mu.RLock()
	handlers := make([]Handler[T], len(d.handlers))
	copy(handlers, d.handlers)
	d.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of subscribers.
func (d *Dispatcher[T]) Len() int {
	if d == nil {
		return 0
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers)
}
