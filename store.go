package keyspace

import (
	"context"
	"time"
)

// FieldValue is one hash field with its raw value, used where write order
// matters.
type FieldValue struct {
	Field string
	Value []byte
}

// Store is the capability the client drives: the native command set of the
// underlying key-value store. Keys arriving here are already namespaced and
// arguments already validated. Implementations must be safe for concurrent
// use.
//
// Reads signal a missing key or field with ErrNotFound. HMGet instead uses a
// nil element for a missing field, so present-but-empty values stay
// distinguishable in batch replies.
type Store interface {
	// Set writes a string key. With xx the write only happens if the key
	// already exists; the bool reports whether the write ran. With keepTTL
	// an existing expiration survives the write, otherwise it is cleared.
	Set(ctx context.Context, key string, value []byte, xx, keepTTL bool) (bool, error)
	Get(ctx context.Context, key string) ([]byte, error)

	Expire(ctx context.Context, key string, ttl time.Duration) error
	// TTL returns the remaining time-to-live, -1 when the key has no
	// expiration, ErrNotFound when the key does not exist.
	TTL(ctx context.Context, key string) (time.Duration, error)

	Exists(ctx context.Context, keys ...string) (int64, error)
	Del(ctx context.Context, keys ...string) (int64, error)

	// HSet writes hash fields in order, returning the count of fields that
	// did not exist before.
	HSet(ctx context.Context, key string, fields []FieldValue) (int64, error)
	HGet(ctx context.Context, key, field string) ([]byte, error)
	// HMGet returns one element per requested field; nil marks a missing
	// field, a non-nil empty slice a present empty value.
	HMGet(ctx context.Context, key string, fields []string) ([][]byte, error)
	HGetAll(ctx context.Context, key string) (map[string][]byte, error)
	HDel(ctx context.Context, key string, fields ...string) (int64, error)

	// LPush prepends values one at a time, so the last value ends up at the
	// head. RPush appends. Both return the resulting list length.
	LPush(ctx context.Context, key string, vals [][]byte) (int64, error)
	RPush(ctx context.Context, key string, vals [][]byte) (int64, error)
	LLen(ctx context.Context, key string) (int64, error)
}
