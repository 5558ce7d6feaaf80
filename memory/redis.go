package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hupe1980/socialmesh/core"
	"github.com/hupe1980/socialmesh/logging"
)

// RedisOptions configures the Redis-backed store.
type RedisOptions struct {
	// Addr is the host:port of the Redis server.
	Addr string

	// Password is the optional server password.
	Password string

	// DB selects the Redis logical database.
	DB int

	// KeyPrefix namespaces all keys written by this store.
	// Defaults to "socialmesh:memory:".
	KeyPrefix string

	// DialTimeout bounds the initial connectivity check. Defaults to 5s.
	DialTimeout time.Duration

	// Logger defaults to NoOpLogger if nil.
	Logger logging.Logger
}

// Redis is a core.MemoryStore backed by a remote Redis server. Records are
// stored as JSON values under a namespaced key, so Data survives only in its
// JSON-decoded form (numbers come back as float64, structs as maps).
//
// Connectivity is verified once at construction; operational failures
// afterwards propagate to the caller rather than silently degrading.
type Redis struct {
	client    *redis.Client
	keyPrefix string
	logger    logging.Logger
	now       func() time.Time
}

var _ core.MemoryStore = (*Redis)(nil)

// NewRedis creates a Redis-backed store and verifies connectivity with a
// bounded ping. Use NewRedisFromClient to reuse an existing client.
func NewRedis(ctx context.Context, optFns ...func(o *RedisOptions)) (*Redis, error) {
	opts := redisOptions(optFns)
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	return &Redis{client: client, keyPrefix: opts.KeyPrefix, logger: opts.Logger, now: time.Now}, nil
}

// NewRedisFromClient wraps an existing client without a connectivity check.
func NewRedisFromClient(client *redis.Client, optFns ...func(o *RedisOptions)) *Redis {
	opts := redisOptions(optFns)
	return &Redis{client: client, keyPrefix: opts.KeyPrefix, logger: opts.Logger, now: time.Now}
}

func redisOptions(optFns []func(o *RedisOptions)) RedisOptions {
	opts := RedisOptions{
		Addr:        "localhost:6379",
		KeyPrefix:   "socialmesh:memory:",
		DialTimeout: 5 * time.Second,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return opts
}

// Close releases the underlying client.
func (r *Redis) Close() error { return r.client.Close() }

// Ping checks server reachability.
func (r *Redis) Ping(ctx context.Context) error { return r.client.Ping(ctx).Err() }

func (r *Redis) redisKey(key string) string { return r.keyPrefix + key }

// Store creates (or replaces) the record under key with version 1.
func (r *Redis) Store(ctx context.Context, key string, data any, metadata map[string]any) (*core.MemoryRecord, error) {
	if key == "" {
		return nil, fmt.Errorf("key is required")
	}
	rec := &core.MemoryRecord{
		Key:       key,
		Data:      data,
		Metadata:  metadata,
		Timestamp: r.now(),
		Version:   1,
	}
	if err := r.write(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Retrieve returns the record for key or core.ErrNotFound.
func (r *Redis) Retrieve(ctx context.Context, key string) (*core.MemoryRecord, error) {
	raw, err := r.client.Get(ctx, r.redisKey(key)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("memory key %q: %w", key, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve %q: %w", key, err)
	}
	var rec core.MemoryRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode record %q: %w", key, err)
	}
	return &rec, nil
}

// Update bumps the version of an existing record or creates it with version 1.
func (r *Redis) Update(ctx context.Context, key string, data any, metadata map[string]any) (*core.MemoryRecord, error) {
	if key == "" {
		return nil, fmt.Errorf("key is required")
	}
	version := 1
	if prev, err := r.Retrieve(ctx, key); err == nil {
		version = prev.Version + 1
	}
	rec := &core.MemoryRecord{
		Key:       key,
		Data:      data,
		Metadata:  metadata,
		Timestamp: r.now(),
		Version:   version,
	}
	if err := r.write(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes the record for key.
func (r *Redis) Delete(ctx context.Context, key string) error {
	n, err := r.client.Del(ctx, r.redisKey(key)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	if n == 0 {
		return fmt.Errorf("memory key %q: %w", key, core.ErrNotFound)
	}
	return nil
}

// List scans for records whose key starts with prefix, most recent first.
func (r *Redis) List(ctx context.Context, prefix string, limit int) ([]*core.MemoryRecord, error) {
	pattern := r.keyPrefix + prefix + "*"
	var results []*core.MemoryRecord

	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		raw, err := r.client.Get(ctx, iter.Val()).Bytes()
		if err == redis.Nil {
			continue // expired between scan and get
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", iter.Val(), err)
		}
		var rec core.MemoryRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			r.logger.Warn("skipping undecodable memory record", "key", iter.Val(), "error", err)
			continue
		}
		results = append(results, &rec)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan memory keys: %w", err)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Timestamp.Equal(results[j].Timestamp) {
			return results[i].Key < results[j].Key
		}
		return results[i].Timestamp.After(results[j].Timestamp)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (r *Redis) write(ctx context.Context, rec *core.MemoryRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record %q: %w", rec.Key, err)
	}
	if err := r.client.Set(ctx, r.redisKey(rec.Key), raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to persist %q: %w", rec.Key, err)
	}
	return nil
}
