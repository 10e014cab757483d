package kv

import (
	"context"
	"errors"
	"time"
)

// ErrVersionConflict reports that a conditional write observed a version other
// than the one the caller read.
var ErrVersionConflict = errors.New("kv: version conflict")

// Backend is the asynchronous flat store consumed by the accessor. GetItem
// reports ok=false for keys that were never written or were removed.
type Backend interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// Item is one stored blob together with storage-owned metadata.
type Item struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Version   string    `json:"version,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// VersionedBackend is a Backend that can detect lost updates. An empty version
// passed to SetItemIfVersion means "the key must not exist yet".
type VersionedBackend interface {
	Backend
	GetItemVersion(ctx context.Context, key string) (Item, bool, error)
	SetItemIfVersion(ctx context.Context, key, value, version string) (Item, error)
}
