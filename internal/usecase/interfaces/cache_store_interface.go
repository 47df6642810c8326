package interfaces

import (
	"context"
	"time"
)

// ICacheStore is a shared key/value store with per-entry TTL.
//
// SetIfAbsent must be atomic across processes: exactly one of several
// concurrent callers for the same key observes true. Expired entries count as
// absent. DeleteIfValue removes key only while it still holds value.
type ICacheStore interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
	DeleteIfValue(ctx context.Context, key string, value []byte) (bool, error)
}
