package keyspace

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
)

// RedisConfig holds the connection settings for a redis-backed Store.
type RedisConfig struct {
	Address         string        `yaml:"address"`
	Password        string        `yaml:"password"`
	DB              int           `yaml:"db"`
	MaxRetries      int           `yaml:"max_retries"`
	PoolSize        int           `yaml:"pool_size"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	DialTimeout     time.Duration `yaml:"dial_timeout"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
}

func (c *RedisConfig) applyDefaults() {
	if c.Address == "" {
		c.Address = "localhost:6379"
	}
	// Accept redis:// style addresses as plain host:port.
	c.Address = strings.TrimPrefix(c.Address, "redis://")
	c.Address = strings.TrimPrefix(c.Address, "rediss://")

	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.PoolSize == 0 {
		c.PoolSize = 10
	}
	if c.ConnMaxIdleTime == 0 {
		c.ConnMaxIdleTime = 5 * time.Minute
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 3 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 3 * time.Second
	}
}

// LoadRedisConfig reads a RedisConfig from a YAML file. An empty path yields
// the defaults. REDIS_ADDR, REDIS_PASSWORD and REDIS_DB environment
// variables override whatever the file says.
func LoadRedisConfig(path string) (*RedisConfig, error) {
	var cfg RedisConfig

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Address = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
		}
		cfg.DB = db
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// RedisStore implements Store on top of a go-redis client.
type RedisStore struct {
	rdb *redis.Client
}

// DialRedis connects to redis with the given config and verifies the
// connection with a PING.
func DialRedis(ctx context.Context, cfg *RedisConfig) (*RedisStore, error) {
	if cfg == nil {
		cfg = &RedisConfig{}
	}
	cfg.applyDefaults()

	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Address,
		Password:        cfg.Password,
		DB:              cfg.DB,
		MaxRetries:      cfg.MaxRetries,
		PoolSize:        cfg.PoolSize,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
		DialTimeout:     cfg.DialTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

// NewRedisStore wraps an existing go-redis client. The caller keeps
// ownership of the client's lifecycle.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, xx, keepTTL bool) (bool, error) {
	args := redis.SetArgs{KeepTTL: keepTTL}
	if xx {
		args.Mode = "XX"
	}
	err := s.rdb.SetArgs(ctx, key, value, args).Err()
	if err == redis.Nil {
		// SET XX against a missing key: not an error, just no write.
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	ok, err := s.rdb.Expire(ctx, key, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	d, err := s.rdb.TTL(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	switch d {
	case -2:
		return 0, ErrNotFound
	case -1:
		return -1, nil
	}
	return d, nil
}

func (s *RedisStore) Exists(ctx context.Context, keys ...string) (int64, error) {
	return s.rdb.Exists(ctx, keys...).Result()
}

func (s *RedisStore) Del(ctx context.Context, keys ...string) (int64, error) {
	return s.rdb.Del(ctx, keys...).Result()
}

func (s *RedisStore) HSet(ctx context.Context, key string, fields []FieldValue) (int64, error) {
	pairs := make([]interface{}, 0, len(fields)*2)
	for _, fv := range fields {
		pairs = append(pairs, fv.Field, fv.Value)
	}
	return s.rdb.HSet(ctx, key, pairs...).Result()
}

func (s *RedisStore) HGet(ctx context.Context, key, field string) ([]byte, error) {
	b, err := s.rdb.HGet(ctx, key, field).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *RedisStore) HMGet(ctx context.Context, key string, fields []string) ([][]byte, error) {
	vals, err := s.rdb.HMGet(ctx, key, fields...).Result()
	if err != nil {
		return nil, err
	}

	out := make([][]byte, len(fields))
	for i, raw := range vals {
		str, ok := raw.(string)
		if !ok {
			continue // missing field, leave the nil marker
		}
		b := make([]byte, len(str))
		copy(b, str)
		out[i] = b
	}
	return out, nil
}

func (s *RedisStore) HGetAll(ctx context.Context, key string) (map[string][]byte, error) {
	vals, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	result := make(map[string][]byte, len(vals))
	for field, v := range vals {
		b := make([]byte, len(v))
		copy(b, v)
		result[field] = b
	}
	return result, nil
}

func (s *RedisStore) HDel(ctx context.Context, key string, fields ...string) (int64, error) {
	return s.rdb.HDel(ctx, key, fields...).Result()
}

func (s *RedisStore) LPush(ctx context.Context, key string, vals [][]byte) (int64, error) {
	return s.rdb.LPush(ctx, key, asAnySlice(vals)...).Result()
}

func (s *RedisStore) RPush(ctx context.Context, key string, vals [][]byte) (int64, error) {
	return s.rdb.RPush(ctx, key, asAnySlice(vals)...).Result()
}

func (s *RedisStore) LLen(ctx context.Context, key string) (int64, error) {
	return s.rdb.LLen(ctx, key).Result()
}

func asAnySlice(vals [][]byte) []interface{} {
	out := make([]interface{}, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}
