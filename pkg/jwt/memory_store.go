package jwt

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	pem       string
	expiresAt time.Time
}

// MemoryStore is an in-process KeyStore. Entries expire after their TTL and
// are never evicted otherwise.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, kid string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[kid]
	if !ok || !s.now().Before(e.expiresAt) {
		return "", false, nil
	}
	return e.pem, true, nil
}

func (s *MemoryStore) SetMany(_ context.Context, keys map[string]string, ttl time.Duration) error {
	expiresAt := s.now().Add(ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	for kid, pem := range keys {
		s.entries[kid] = memoryEntry{pem: pem, expiresAt: expiresAt}
	}
	return nil
}

var _ KeyStore = (*MemoryStore)(nil)
