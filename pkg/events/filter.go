package events

import (
	"context"
	"slices"
	"sync"
)

// DefaultPriority is the priority used by callers that do not care about ordering.
const DefaultPriority = 10

// FilterFunc transforms a value.
type FilterFunc[T any] func(ctx context.Context, v T) T

type filterEntry[T any] struct {
	priority int
	seq      int
	fn       FilterFunc[T]
}

// Filter runs callbacks over a value in ascending priority; callbacks with the
// same priority run in registration order. It is safe for concurrent use.
type Filter[T any] struct {
	mu      sync.RWMutex
	entries []filterEntry[T]
	seq     int
}

// NewFilter creates an empty Filter.
func NewFilter[T any]() *Filter[T] {
	return &Filter[T]{}
}

// Add registers fn with the given priority. Nil callbacks are ignored.
func (f *Filter[T]) Add(priority int, fn FilterFunc[T]) {
	if fn == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.entries = append(f.entries, filterEntry[T]{priority: priority, seq: f.seq, fn: fn})
	slices.SortStableFunc(f.entries, func(a, b filterEntry[T]) int {
		if a.priority != b.priority {
			return a.priority - b.priority
		}
		return a.seq - b.seq
	})
}

// Apply passes v through every callback and returns the result.
// A nil Filter returns v unchanged.
func (f *Filter[T]) Apply(ctx context.Context, v T) T {
	if f == nil {
		return v
	}
	f.mu.RLock()
	entries := make([]filterEntry[T], len(f.entries))
	copy(entries, f.entries)
	f.mu.RUnlock()

	for _, e := range entries {
		v = e.fn(ctx, v)
	}
	return v
}
