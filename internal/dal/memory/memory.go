package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/corray333/backend-labs/dukan/internal/dal/interfaces/ikvstore"
)

// Store is a process-local key/value store. A positive maxValueBytes
// rejects larger values with ErrQuotaExceeded, the way browser storage does.
type Store struct {
	mu            sync.RWMutex
	values        map[string][]byte
	maxValueBytes int
}

// NewStore creates an empty store.
func NewStore(maxValueBytes int) *Store {
	return &Store{
		values:        make(map[string][]byte),
		maxValueBytes: maxValueBytes,
	}
}

// Get returns a copy of the stored value.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, ikvstore.ErrNotFound
	}

	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	if s.maxValueBytes > 0 && len(value) > s.maxValueBytes {
		return fmt.Errorf("%w: %d bytes for %q, limit %d", ikvstore.ErrQuotaExceeded, len(value), key, s.maxValueBytes)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)

	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)

	return nil
}
