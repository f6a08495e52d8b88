package keyspace

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTTL is the expiration applied to every write that does not carry
// its own TTL option: 1,209,600 seconds (14 days).
const DefaultTTL = 14 * 24 * time.Hour

// Option customizes Client behavior at construction time.
type Option func(*Client)

// WithPrefix sets the instance-level namespace prefix. Per-call Pre
// overrides take precedence.
func WithPrefix(pre string) Option {
	return func(c *Client) { c.pre = pre }
}

// WithVersion sets the instance-level namespace version. Per-call Ver
// overrides take precedence.
func WithVersion(ver string) Option {
	return func(c *Client) { c.ver = ver }
}

// WithTTL replaces DefaultTTL as the expiration applied on writes.
func WithTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithStore specifies the storage backend.
// If not provided, NewMemory() is used.
func WithStore(s Store) Option {
	return func(c *Client) {
		if s != nil {
			c.store = s
		}
	}
}

// WithLogger specifies a logger for operation failures.
// If not provided, logging is disabled.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// Client exposes namespaced operations over a Store. The namespace context
// and default TTL are fixed at construction, so a single Client is safe for
// concurrent use.
type Client struct {
	pre   string
	ver   string
	ttl   time.Duration
	store Store
	log   zerolog.Logger
}

// New creates a Client. Without options it stores in memory, applies
// DefaultTTL on writes and uses no namespace segments.
func New(opts ...Option) *Client {
	c := &Client{
		ttl:   DefaultTTL,
		store: NewMemory(),
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FormatKey returns the namespaced key this client would use for key,
// honoring Pre and Ver overrides.
func (c *Client) FormatKey(key string, opts ...CallOption) string {
	a := applyOpts(opts)
	return composeKey(c.pre, c.ver, a.pre, a.ver, key)
}

func (c *Client) key(a callArgs, key string) string {
	return composeKey(c.pre, c.ver, a.pre, a.ver, key)
}

// expire re-applies the write expiration policy: the call's TTL if one was
// given, the client default otherwise.
func (c *Client) expire(ctx context.Context, key string, a callArgs) error {
	ttl := c.ttl
	if a.ttlSet {
		ttl = a.ttl
	}
	if err := c.store.Expire(ctx, key, ttl); err != nil {
		c.log.Error().Err(err).Str("key", key).Msg("expire failed")
		return err
	}
	return nil
}

// Set writes a scalar value. With XX the write only happens if the key
// already exists; with KeepTTL an existing expiration survives. Returns
// whether the underlying SET ran. A successful write always gets an
// expiration applied afterwards; the two steps are not atomic.
func (c *Client) Set(ctx context.Context, key string, val any, opts ...CallOption) (bool, error) {
	m, err := newSetModel(key, val, opts)
	if err != nil {
		return false, err
	}

	k := c.key(m.callArgs, m.key)
	ok, err := c.store.Set(ctx, k, m.val, m.xx, m.keepTTL)
	if err != nil {
		c.log.Error().Err(err).Str("key", k).Msg("set failed")
		return false, err
	}
	if !ok {
		// XX miss: nothing was written, nothing to expire.
		return false, nil
	}
	if err := c.expire(ctx, k, m.callArgs); err != nil {
		return false, err
	}
	return true, nil
}

// Get reads a scalar value. An absent key yields an absent Value with a nil
// error; use Value.Or for default substitution.
func (c *Client) Get(ctx context.Context, key string, opts ...CallOption) (Value, error) {
	m, err := newGetModel("get", key, opts)
	if err != nil {
		return Value{}, err
	}

	k := c.key(m.callArgs, m.key)
	b, err := c.store.Get(ctx, k)
	if errors.Is(err, ErrNotFound) {
		return Value{}, nil
	}
	if err != nil {
		c.log.Error().Err(err).Str("key", k).Msg("get failed")
		return Value{}, err
	}
	return newValue(b), nil
}

// HSet writes a single hash field and re-applies the expiration. Returns the
// count of fields newly created; updating an existing field counts as 0.
func (c *Client) HSet(ctx context.Context, key, field string, val any, opts ...CallOption) (int64, error) {
	m, err := newHSetModel(key, field, val, opts)
	if err != nil {
		return 0, err
	}
	return c.hset(ctx, m)
}

// HMSet writes a batch of hash fields and re-applies the expiration. An
// empty mapping returns 0 without a store round-trip. Returns the count of
// fields newly created.
func (c *Client) HMSet(ctx context.Context, key string, mapping map[string]any, opts ...CallOption) (int64, error) {
	if len(mapping) == 0 {
		return 0, nil
	}
	m, err := newHMSetModel(key, mapping, opts)
	if err != nil {
		return 0, err
	}
	return c.hset(ctx, m)
}

func (c *Client) hset(ctx context.Context, m *hsetModel) (int64, error) {
	k := c.key(m.callArgs, m.key)
	created, err := c.store.HSet(ctx, k, m.fields)
	if err != nil {
		c.log.Error().Err(err).Str("key", k).Msg("hset failed")
		return 0, err
	}
	if err := c.expire(ctx, k, m.callArgs); err != nil {
		return 0, err
	}
	return created, nil
}

// HGet reads a single hash field with the same absent-vs-falsy contract as
// Get.
func (c *Client) HGet(ctx context.Context, key, field string, opts ...CallOption) (Value, error) {
	m, err := newGetModel("hget", key, opts)
	if err != nil {
		return Value{}, err
	}

	k := c.key(m.callArgs, m.key)
	b, err := c.store.HGet(ctx, k, field)
	if errors.Is(err, ErrNotFound) {
		return Value{}, nil
	}
	if err != nil {
		c.log.Error().Err(err).Str("key", k).Str("field", field).Msg("hget failed")
		return Value{}, err
	}
	return newValue(b), nil
}

// HMGet reads hash fields. A nil fields slice fetches the entire hash. An
// explicit empty slice returns an empty map without contacting the store.
// Every requested field appears in the result; fields missing from the hash
// map to an absent Value rather than being dropped.
func (c *Client) HMGet(ctx context.Context, key string, fields []string, opts ...CallOption) (map[string]Value, error) {
	if fields != nil && len(fields) == 0 {
		return map[string]Value{}, nil
	}

	m, err := newHMGetModel(key, fields, opts)
	if err != nil {
		return nil, err
	}
	k := c.key(m.callArgs, m.key)

	if m.fields == nil {
		all, err := c.store.HGetAll(ctx, k)
		if err != nil {
			c.log.Error().Err(err).Str("key", k).Msg("hgetall failed")
			return nil, err
		}
		result := make(map[string]Value, len(all))
		for field, v := range all {
			result[field] = newValue(v)
		}
		return result, nil
	}

	vals, err := c.store.HMGet(ctx, k, m.fields)
	if err != nil {
		c.log.Error().Err(err).Str("key", k).Msg("hmget failed")
		return nil, err
	}
	result := make(map[string]Value, len(m.fields))
	for i, field := range m.fields {
		if vals[i] == nil {
			result[field] = Value{}
			continue
		}
		result[field] = newValue(vals[i])
	}
	return result, nil
}

// HDel removes fields from the hash at key. Returns the count of fields
// actually removed.
func (c *Client) HDel(ctx context.Context, key string, fields []string, opts ...CallOption) (int64, error) {
	m, err := newHDelModel(key, fields, opts)
	if err != nil {
		return 0, err
	}

	k := c.key(m.callArgs, m.key)
	count, err := c.store.HDel(ctx, k, m.fields...)
	if err != nil {
		c.log.Error().Err(err).Str("key", k).Msg("hdel failed")
		return 0, err
	}
	return count, nil
}

// Delete removes keys, composing each base key independently against the
// same overrides, and issues a single multi-key delete. Returns the count of
// keys actually removed.
func (c *Client) Delete(ctx context.Context, keys []string, opts ...CallOption) (int64, error) {
	m, err := newKeysModel("delete", keys, opts)
	if err != nil {
		return 0, err
	}

	composed := make([]string, len(m.keys))
	for i, key := range m.keys {
		composed[i] = c.key(m.callArgs, key)
	}
	count, err := c.store.Del(ctx, composed...)
	if err != nil {
		c.log.Error().Err(err).Strs("keys", composed).Msg("delete failed")
		return 0, err
	}
	return count, nil
}

// Exists counts how many of the given keys exist.
func (c *Client) Exists(ctx context.Context, keys []string, opts ...CallOption) (int64, error) {
	m, err := newKeysModel("exists", keys, opts)
	if err != nil {
		return 0, err
	}

	composed := make([]string, len(m.keys))
	for i, key := range m.keys {
		composed[i] = c.key(m.callArgs, key)
	}
	count, err := c.store.Exists(ctx, composed...)
	if err != nil {
		c.log.Error().Err(err).Strs("keys", composed).Msg("exists failed")
		return 0, err
	}
	return count, nil
}

// Push appends scalar values to the list at key; Insert(Start) prepends
// instead. Applies the write expiration policy like Set. Returns the
// resulting list length.
func (c *Client) Push(ctx context.Context, key string, vals []any, opts ...CallOption) (int64, error) {
	m, err := newPushModel(key, vals, opts)
	if err != nil {
		return 0, err
	}

	k := c.key(m.callArgs, m.key)
	var length int64
	if m.insert == Start {
		length, err = c.store.LPush(ctx, k, m.vals)
	} else {
		length, err = c.store.RPush(ctx, k, m.vals)
	}
	if err != nil {
		c.log.Error().Err(err).Str("key", k).Msg("push failed")
		return 0, err
	}
	if err := c.expire(ctx, k, m.callArgs); err != nil {
		return 0, err
	}
	return length, nil
}

// LLen returns the length of the list at key; 0 when the key is absent.
func (c *Client) LLen(ctx context.Context, key string, opts ...CallOption) (int64, error) {
	m, err := newGetModel("llen", key, opts)
	if err != nil {
		return 0, err
	}

	k := c.key(m.callArgs, m.key)
	length, err := c.store.LLen(ctx, k)
	if err != nil {
		c.log.Error().Err(err).Str("key", k).Msg("llen failed")
		return 0, err
	}
	return length, nil
}

// TTL returns the remaining time-to-live of the composed key, -1 when the
// key has no expiration, ErrNotFound when it does not exist.
func (c *Client) TTL(ctx context.Context, key string, opts ...CallOption) (time.Duration, error) {
	m, err := newGetModel("ttl", key, opts)
	if err != nil {
		return 0, err
	}

	k := c.key(m.callArgs, m.key)
	ttl, err := c.store.TTL(ctx, k)
	if err != nil && !errors.Is(err, ErrNotFound) {
		c.log.Error().Err(err).Str("key", k).Msg("ttl failed")
	}
	return ttl, err
}
