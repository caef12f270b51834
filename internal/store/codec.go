package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Load decodes the collection stored under key. A key that was never written
// yields an empty collection. Unreadable bytes yield a KindCorruptState error.
func Load[T any](ctx context.Context, s *Store, key Key) ([]T, error) {
	raw, ok, err := s.backend.Get(ctx, string(key))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return []T{}, nil
	}

	if err := validateDocument(key, raw); err != nil {
		return nil, corrupt(key, err)
	}

	items := []T{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, corrupt(key, err)
	}
	return items, nil
}

// Save replaces the whole collection stored under key, preserving order.
func Save[T any](ctx context.Context, s *Store, key Key, items []T) error {
	if items == nil {
		items = []T{}
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	if err := s.backend.Put(ctx, string(key), raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// LoadOne decodes a singleton document. ok is false when the key is absent.
func LoadOne[T any](ctx context.Context, s *Store, key Key) (item T, ok bool, err error) {
	raw, found, err := s.backend.Get(ctx, string(key))
	if err != nil {
		return item, false, fmt.Errorf("read %s: %w", key, err)
	}
	if !found {
		return item, false, nil
	}

	if err := validateDocument(key, raw); err != nil {
		return item, false, corrupt(key, err)
	}
	if err := json.Unmarshal(raw, &item); err != nil {
		return item, false, corrupt(key, err)
	}
	return item, true, nil
}

// SaveOne writes a singleton document.
func SaveOne[T any](ctx context.Context, s *Store, key Key, item T) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	if err := s.backend.Put(ctx, string(key), raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
