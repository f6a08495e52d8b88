package keyspace

import (
	"context"
	"sync"
	"time"
)

type entryKind uint8

const (
	kindString entryKind = iota
	kindHash
	kindList
)

type entry struct {
	kind   entryKind
	value  []byte
	hash   map[string][]byte
	list   [][]byte
	expire time.Time
}

func (e entry) expired() bool {
	if e.expire.IsZero() {
		return false
	}
	return time.Now().After(e.expire)
}

// Memory implements Store with thread-safe in-memory storage. Expired
// entries are dropped lazily on access.
type Memory struct {
	mu   sync.RWMutex
	data map[string]entry
}

// NewMemory creates an in-memory Store instance.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]entry)}
}

// live returns the entry for key, deleting it first if it has expired.
// Callers must hold the write lock and store mutated copies back.
func (m *Memory) live(key string) (entry, bool) {
	e, ok := m.data[key]
	if !ok {
		return entry{}, false
	}
	if e.expired() {
		delete(m.data, key)
		return entry{}, false
	}
	return e, true
}

func (m *Memory) Set(ctx context.Context, key string, value []byte, xx, keepTTL bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.live(key)
	if xx && !ok {
		return false, nil
	}

	e := entry{kind: kindString, value: clone(value)}
	if keepTTL && ok {
		e.expire = old.expire
	}
	m.data[key] = e
	return true, nil
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	// Fast path: optimistic read with RLock.
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	if !e.expired() {
		if e.kind != kindString {
			return nil, ErrTypeMismatch
		}
		return cloneNonNil(e.value), nil
	}

	// Slow path: entry expired, need write lock to delete.
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok = m.live(key)
	if !ok {
		return nil, ErrNotFound
	}
	if e.kind != kindString {
		return nil, ErrTypeMismatch
	}
	return cloneNonNil(e.value), nil
}

func (m *Memory) Expire(ctx context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(key)
	if !ok {
		return ErrNotFound
	}
	e.expire = expiry(ttl)
	m.data[key] = e
	return nil
}

// TTL returns the remaining time-to-live, -1 if the key has no expiration.
func (m *Memory) TTL(ctx context.Context, key string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(key)
	if !ok {
		return 0, ErrNotFound
	}
	if e.expire.IsZero() {
		return -1, nil
	}
	return time.Until(e.expire), nil
}

func (m *Memory) Exists(ctx context.Context, keys ...string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, key := range keys {
		if _, ok := m.live(key); ok {
			count++
		}
	}
	return count, nil
}

func (m *Memory) Del(ctx context.Context, keys ...string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, key := range keys {
		if _, ok := m.live(key); ok {
			delete(m.data, key)
			count++
		}
	}
	return count, nil
}

func (m *Memory) HSet(ctx context.Context, key string, fields []FieldValue) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(key)
	if ok && e.kind != kindHash {
		return 0, ErrTypeMismatch
	}
	if !ok {
		e = entry{kind: kindHash, hash: make(map[string][]byte, len(fields))}
	}

	var created int64
	for _, fv := range fields {
		if _, exists := e.hash[fv.Field]; !exists {
			created++
		}
		e.hash[fv.Field] = clone(fv.Value)
	}
	m.data[key] = e
	return created, nil
}

func (m *Memory) HGet(ctx context.Context, key, field string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(key)
	if !ok {
		return nil, ErrNotFound
	}
	if e.kind != kindHash {
		return nil, ErrTypeMismatch
	}
	v, ok := e.hash[field]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneNonNil(v), nil
}

func (m *Memory) HMGet(ctx context.Context, key string, fields []string) ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([][]byte, len(fields))
	e, ok := m.live(key)
	if !ok {
		return out, nil
	}
	if e.kind != kindHash {
		return nil, ErrTypeMismatch
	}
	for i, field := range fields {
		if v, ok := e.hash[field]; ok {
			out[i] = cloneNonNil(v)
		}
	}
	return out, nil
}

func (m *Memory) HGetAll(ctx context.Context, key string) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make(map[string][]byte)
	e, ok := m.live(key)
	if !ok {
		return result, nil
	}
	if e.kind != kindHash {
		return nil, ErrTypeMismatch
	}
	for field, v := range e.hash {
		result[field] = cloneNonNil(v)
	}
	return result, nil
}

func (m *Memory) HDel(ctx context.Context, key string, fields ...string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(key)
	if !ok {
		return 0, nil
	}
	if e.kind != kindHash {
		return 0, ErrTypeMismatch
	}

	var count int64
	for _, field := range fields {
		if _, ok := e.hash[field]; ok {
			delete(e.hash, field)
			count++
		}
	}
	// A hash with no fields left does not exist.
	if len(e.hash) == 0 {
		delete(m.data, key)
	}
	return count, nil
}

func (m *Memory) LPush(ctx context.Context, key string, vals [][]byte) (int64, error) {
	return m.push(key, vals, true)
}

func (m *Memory) RPush(ctx context.Context, key string, vals [][]byte) (int64, error) {
	return m.push(key, vals, false)
}

func (m *Memory) push(key string, vals [][]byte, front bool) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(key)
	if ok && e.kind != kindList {
		return 0, ErrTypeMismatch
	}
	if !ok {
		e = entry{kind: kindList}
	}

	for _, v := range vals {
		if front {
			e.list = append([][]byte{clone(v)}, e.list...)
		} else {
			e.list = append(e.list, clone(v))
		}
	}
	m.data[key] = e
	return int64(len(e.list)), nil
}

func (m *Memory) LLen(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(key)
	if !ok {
		return 0, nil
	}
	if e.kind != kindList {
		return 0, ErrTypeMismatch
	}
	return int64(len(e.list)), nil
}

func expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}

func clone(src []byte) []byte {
	if len(src) == 0 {
		return nil
	}
	dst := make([]byte, len(src))
	copy(dst, src)
	return dst
}

// cloneNonNil always returns a non-nil slice so a present empty value stays
// distinguishable from the nil absent marker in batch replies.
func cloneNonNil(src []byte) []byte {
	dst := make([]byte, len(src))
	copy(dst, src)
	return dst
}
