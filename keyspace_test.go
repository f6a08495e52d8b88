package keyspace

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockStore counts every store round-trip and lets individual calls be
// intercepted through func fields. Unset funcs return benign defaults.
type mockStore struct {
	calls       int
	expireCalls int

	setFunc     func(ctx context.Context, key string, value []byte, xx, keepTTL bool) (bool, error)
	getFunc     func(ctx context.Context, key string) ([]byte, error)
	expireFunc  func(ctx context.Context, key string, ttl time.Duration) error
	ttlFunc     func(ctx context.Context, key string) (time.Duration, error)
	existsFunc  func(ctx context.Context, keys ...string) (int64, error)
	delFunc     func(ctx context.Context, keys ...string) (int64, error)
	hsetFunc    func(ctx context.Context, key string, fields []FieldValue) (int64, error)
	hgetFunc    func(ctx context.Context, key, field string) ([]byte, error)
	hmgetFunc   func(ctx context.Context, key string, fields []string) ([][]byte, error)
	hgetallFunc func(ctx context.Context, key string) (map[string][]byte, error)
	hdelFunc    func(ctx context.Context, key string, fields ...string) (int64, error)
	lpushFunc   func(ctx context.Context, key string, vals [][]byte) (int64, error)
	rpushFunc   func(ctx context.Context, key string, vals [][]byte) (int64, error)
	llenFunc    func(ctx context.Context, key string) (int64, error)
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte, xx, keepTTL bool) (bool, error) {
	m.calls++
	if m.setFunc != nil {
		return m.setFunc(ctx, key, value, xx, keepTTL)
	}
	return true, nil
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.calls++
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	return []byte("value"), nil
}

func (m *mockStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	m.calls++
	m.expireCalls++
	if m.expireFunc != nil {
		return m.expireFunc(ctx, key, ttl)
	}
	return nil
}

func (m *mockStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	m.calls++
	if m.ttlFunc != nil {
		return m.ttlFunc(ctx, key)
	}
	return -1, nil
}

func (m *mockStore) Exists(ctx context.Context, keys ...string) (int64, error) {
	m.calls++
	if m.existsFunc != nil {
		return m.existsFunc(ctx, keys...)
	}
	return 0, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) (int64, error) {
	m.calls++
	if m.delFunc != nil {
		return m.delFunc(ctx, keys...)
	}
	return 0, nil
}

func (m *mockStore) HSet(ctx context.Context, key string, fields []FieldValue) (int64, error) {
	m.calls++
	if m.hsetFunc != nil {
		return m.hsetFunc(ctx, key, fields)
	}
	return int64(len(fields)), nil
}

func (m *mockStore) HGet(ctx context.Context, key, field string) ([]byte, error) {
	m.calls++
	if m.hgetFunc != nil {
		return m.hgetFunc(ctx, key, field)
	}
	return []byte("value"), nil
}

func (m *mockStore) HMGet(ctx context.Context, key string, fields []string) ([][]byte, error) {
	m.calls++
	if m.hmgetFunc != nil {
		return m.hmgetFunc(ctx, key, fields)
	}
	return make([][]byte, len(fields)), nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string][]byte, error) {
	m.calls++
	if m.hgetallFunc != nil {
		return m.hgetallFunc(ctx, key)
	}
	return map[string][]byte{}, nil
}

func (m *mockStore) HDel(ctx context.Context, key string, fields ...string) (int64, error) {
	m.calls++
	if m.hdelFunc != nil {
		return m.hdelFunc(ctx, key, fields...)
	}
	return 0, nil
}

func (m *mockStore) LPush(ctx context.Context, key string, vals [][]byte) (int64, error) {
	m.calls++
	if m.lpushFunc != nil {
		return m.lpushFunc(ctx, key, vals)
	}
	return int64(len(vals)), nil
}

func (m *mockStore) RPush(ctx context.Context, key string, vals [][]byte) (int64, error) {
	m.calls++
	if m.rpushFunc != nil {
		return m.rpushFunc(ctx, key, vals)
	}
	return int64(len(vals)), nil
}

func (m *mockStore) LLen(ctx context.Context, key string) (int64, error) {
	m.calls++
	if m.llenFunc != nil {
		return m.llenFunc(ctx, key)
	}
	return 0, nil
}

func TestClient_Set_ComposesKey(t *testing.T) {
	var capturedKey string
	var capturedVal []byte

	store := &mockStore{
		setFunc: func(_ context.Context, key string, value []byte, _, _ bool) (bool, error) {
			capturedKey = key
			capturedVal = value
			return true, nil
		},
	}
	c := New(WithStore(store), WithPrefix("app"), WithVersion("v1"))

	ok, err := c.Set(context.Background(), "user", "alice")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "app:v1:user", capturedKey)
	assert.Equal(t, "alice", string(capturedVal))

	_, err = c.Set(context.Background(), "user", "bob", Pre("other"))
	require.NoError(t, err)
	assert.Equal(t, "other:v1:user", capturedKey)
}

func TestClient_Set_AppliesDefaultTTL(t *testing.T) {
	var capturedTTL time.Duration

	store := &mockStore{
		expireFunc: func(_ context.Context, _ string, ttl time.Duration) error {
			capturedTTL = ttl
			return nil
		},
	}
	c := New(WithStore(store))
	ctx := context.Background()

	_, err := c.Set(ctx, "k", "v")
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, capturedTTL)
	assert.Equal(t, 1209600.0, DefaultTTL.Seconds())

	_, err = c.Set(ctx, "k", "v", TTL(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, time.Minute, capturedTTL)
}

func TestClient_Set_XXMissSkipsExpire(t *testing.T) {
	store := &mockStore{
		setFunc: func(_ context.Context, _ string, _ []byte, xx, _ bool) (bool, error) {
			if xx {
				return false, nil
			}
			return true, nil
		},
	}
	c := New(WithStore(store))

	ok, err := c.Set(context.Background(), "missing", "v", XX())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, store.expireCalls)
}

func TestClient_Set_PropagatesStoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	store := &mockStore{
		setFunc: func(context.Context, string, []byte, bool, bool) (bool, error) {
			return false, storeErr
		},
	}
	c := New(WithStore(store))

	_, err := c.Set(context.Background(), "k", "v")
	assert.True(t, errors.Is(err, storeErr), "store errors must propagate unmodified")
}

func TestClient_Get_AbsentSubstitutesDefault(t *testing.T) {
	store := &mockStore{
		getFunc: func(_ context.Context, key string) ([]byte, error) {
			switch key {
			case "present":
				return []byte("hello"), nil
			case "empty":
				return []byte{}, nil
			default:
				return nil, ErrNotFound
			}
		},
	}
	c := New(WithStore(store))
	ctx := context.Background()

	v, err := c.Get(ctx, "present")
	require.NoError(t, err)
	assert.Equal(t, "hello", v.Or("D"))

	// Present but empty must not be replaced by the default.
	v, err = c.Get(ctx, "empty")
	require.NoError(t, err)
	assert.True(t, v.Present())
	assert.Equal(t, "", v.Or("D"))

	v, err = c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, v.Present())
	assert.Equal(t, "D", v.Or("D"))
}

func TestClient_HSet_CountsAndExpires(t *testing.T) {
	var capturedKey string
	var capturedFields []FieldValue

	store := &mockStore{
		hsetFunc: func(_ context.Context, key string, fields []FieldValue) (int64, error) {
			capturedKey = key
			capturedFields = fields
			return 1, nil
		},
	}
	c := New(WithStore(store), WithPrefix("app"))

	created, err := c.HSet(context.Background(), "user", "name", "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), created)
	assert.Equal(t, "app:user", capturedKey)
	require.Len(t, capturedFields, 1)
	assert.Equal(t, "name", capturedFields[0].Field)
	assert.Equal(t, "alice", string(capturedFields[0].Value))
	assert.Equal(t, 1, store.expireCalls)
}

func TestClient_HMSet_EmptyMappingShortCircuits(t *testing.T) {
	store := &mockStore{}
	c := New(WithStore(store))

	created, err := c.HMSet(context.Background(), "user", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), created)
	assert.Equal(t, 0, store.calls)

	created, err = c.HMSet(context.Background(), "user", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), created)
	assert.Equal(t, 0, store.calls)
}

func TestClient_HMGet_EmptySliceShortCircuits(t *testing.T) {
	store := &mockStore{}
	c := New(WithStore(store))

	result, err := c.HMGet(context.Background(), "user", []string{})
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.Equal(t, 0, store.calls)
}

func TestClient_HMGet_NilFetchesAll(t *testing.T) {
	store := &mockStore{
		hgetallFunc: func(_ context.Context, key string) (map[string][]byte, error) {
			return map[string][]byte{"age": []byte("34"), "name": []byte("alice")}, nil
		},
	}
	c := New(WithStore(store))

	result, err := c.HMGet(context.Background(), "user", nil)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "34", result["age"].Str())
	assert.Equal(t, "alice", result["name"].Str())
}

func TestClient_HMGet_PairsAbsentFields(t *testing.T) {
	store := &mockStore{
		hmgetFunc: func(_ context.Context, _ string, fields []string) ([][]byte, error) {
			out := make([][]byte, len(fields))
			for i, f := range fields {
				if f == "age" {
					out[i] = []byte("34")
				}
			}
			return out, nil
		},
	}
	c := New(WithStore(store))

	result, err := c.HMGet(context.Background(), "user", []string{"age", "missing"})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "34", result["age"].Str())

	// The missing field is paired with the absent marker, not dropped.
	missing, ok := result["missing"]
	require.True(t, ok)
	assert.False(t, missing.Present())
}

func TestClient_HDel(t *testing.T) {
	var capturedFields []string

	store := &mockStore{
		hdelFunc: func(_ context.Context, _ string, fields ...string) (int64, error) {
			capturedFields = fields
			return 2, nil
		},
	}
	c := New(WithStore(store))

	count, err := c.HDel(context.Background(), "user", []string{"age", "name"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, []string{"age", "name"}, capturedFields)
	// hdel carries no TTL policy.
	assert.Equal(t, 0, store.expireCalls)
}

func TestClient_Delete_ComposesEachKey(t *testing.T) {
	var capturedKeys []string

	store := &mockStore{
		delFunc: func(_ context.Context, keys ...string) (int64, error) {
			capturedKeys = keys
			return 1, nil
		},
	}
	c := New(WithStore(store), WithPrefix("app"), WithVersion("v1"))

	count, err := c.Delete(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, []string{"app:v1:a", "app:v1:b"}, capturedKeys)

	// A single override applies identically to every key in the batch.
	_, err = c.Delete(context.Background(), []string{"a", "b"}, Pre("other"))
	require.NoError(t, err)
	assert.Equal(t, []string{"other:v1:a", "other:v1:b"}, capturedKeys)
}

func TestClient_Exists(t *testing.T) {
	var capturedKeys []string

	store := &mockStore{
		existsFunc: func(_ context.Context, keys ...string) (int64, error) {
			capturedKeys = keys
			return 2, nil
		},
	}
	c := New(WithStore(store), WithPrefix("app"))

	count, err := c.Exists(context.Background(), []string{"one", "two", "three"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, []string{"app:one", "app:two", "app:three"}, capturedKeys)
}

func TestClient_Push_InsertSelectsEnd(t *testing.T) {
	var lpush, rpush int

	store := &mockStore{
		lpushFunc: func(_ context.Context, _ string, vals [][]byte) (int64, error) {
			lpush++
			return int64(len(vals)), nil
		},
		rpushFunc: func(_ context.Context, _ string, vals [][]byte) (int64, error) {
			rpush++
			return int64(len(vals)), nil
		},
	}
	c := New(WithStore(store))
	ctx := context.Background()

	_, err := c.Push(ctx, "many", []any{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 0, lpush)
	assert.Equal(t, 1, rpush)

	_, err = c.Push(ctx, "many", []any{"c"}, Insert(Start))
	require.NoError(t, err)
	assert.Equal(t, 1, lpush)

	// Push is a write, so the TTL policy applies.
	assert.Equal(t, 2, store.expireCalls)
}

func TestClient_TTL_PropagatesNotFound(t *testing.T) {
	store := &mockStore{
		ttlFunc: func(context.Context, string) (time.Duration, error) {
			return 0, ErrNotFound
		},
	}
	c := New(WithStore(store))

	_, err := c.TTL(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestClient_ExpireFailurePropagates(t *testing.T) {
	expireErr := errors.New("expire failed")
	store := &mockStore{
		expireFunc: func(context.Context, string, time.Duration) error {
			return expireErr
		},
	}
	c := New(WithStore(store))

	_, err := c.Set(context.Background(), "k", "v")
	assert.True(t, errors.Is(err, expireErr))
}
