package storage

import (
	"context"
	"time"
)

// TableStore is the primary, authoritative record store. Records are keyed
// by their string "id" attribute; Put is a full replace of the stored item.
type TableStore interface {
	Put(ctx context.Context, table string, record interface{}) error
	Get(ctx context.Context, table, id string, out interface{}) error
	Delete(ctx context.Context, table, id string) error
	Scan(ctx context.Context, table string, out interface{}) error
}

// Cache is the secondary fast-lookup store mirroring primary content.
type Cache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, key string) error
}

// ObjectStore holds uploaded image bytes and resolves each object to a
// public URL.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
	Delete(ctx context.Context, key string) error
}
