// Package memory provides an in-process KeyValue implementation. It is the
// default backend for tests and for sessions that do not need persistence
// across restarts.
package memory

import (
	"context"
	"sync"

	"github.com/PigSoilPlus/pigsoil-notify/store"
)

// Store is an in-memory KeyValue backed by a map.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ store.KeyValue = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{values: make(map[string]string)}
}

// Get returns the value stored under key, or store.ErrNotFound.
func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return "", store.ErrNotFound
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}
