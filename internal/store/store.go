package store

import (
	"context"
	"fmt"
	"sync"
)

// Backend is the byte oriented key/value medium underneath the store.
// Get returns ok=false when the key has never been written.
type Backend interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store owns the injected backend and serializes every logical operation so
// the whole-collection read-modify-write cycles never interleave.
type Store struct {
	backend Backend
	mu      sync.Mutex
}

// New wraps a backend.
func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// Do runs fn while holding the store-wide write lock. fn must not call Do.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(ctx)
}

// Has reports whether the key has been initialised.
func (s *Store) Has(ctx context.Context, key Key) (bool, error) {
	_, ok, err := s.backend.Get(ctx, string(key))
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	return ok, nil
}

// Remove deletes the key from the backend.
func (s *Store) Remove(ctx context.Context, key Key) error {
	if err := s.backend.Delete(ctx, string(key)); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
