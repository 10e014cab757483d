package kv

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory VersionedBackend intended for tests, examples,
// and single-process use. Every write stamps a fresh UUID version.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Item
	now     func() time.Time
}

var _ VersionedBackend = (*MemoryStore)(nil)

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithMemoryClock overrides the clock used for Item.UpdatedAt.
func WithMemoryClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		records: map[string]Item{},
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *MemoryStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	item, ok, err := s.GetItemVersion(ctx, key)
	if err != nil || !ok {
		return "", false, err
	}
	return item.Value, true, nil
}

func (s *MemoryStore) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	s.records[key] = s.stamp(key, value)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.records, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) GetItemVersion(_ context.Context, key string) (Item, bool, error) {
	s.mu.RLock()
	item, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return Item{}, false, nil
	}
	return item, true, nil
}

func (s *MemoryStore) SetItemIfVersion(_ context.Context, key, value, version string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.records[key]
	switch {
	case !ok && version != "":
		return Item{}, fmt.Errorf("%w: key %q expected version %q, key is absent", ErrVersionConflict, key, version)
	case ok && current.Version != version:
		return Item{}, fmt.Errorf("%w: key %q expected version %q, got %q", ErrVersionConflict, key, version, current.Version)
	}

	item := s.stamp(key, value)
	s.records[key] = item
	return item, nil
}

// Keys returns the stored keys sorted alphabetically.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.records))
	for key := range s.records {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored keys.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) stamp(key, value string) Item {
	return Item{
		Key:       key,
		Value:     value,
		Version:   uuid.NewString(),
		UpdatedAt: s.now(),
	}
}
