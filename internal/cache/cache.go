// Package cache stores translation replies so identical screenshots are not
// sent to the model twice.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ironsheep/overlay-translate-mcp/internal/overlay"
)

// KeyPrefix namespaces every key this package writes.
const KeyPrefix = "overlay:translation:"

// Cache stores translation entries by key.
type Cache interface {
	// Get returns the cached entries and whether the key was present.
	Get(ctx context.Context, key string) ([]overlay.TranslationEntry, bool, error)
	Set(ctx context.Context, key string, entries []overlay.TranslationEntry) error
	Close() error
}

// Key derives a cache key from the model name and the encoded image.
func Key(model string, image []byte) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write(image)
	return KeyPrefix + hex.EncodeToString(h.Sum(nil))
}

// Redis is a Cache backed by a Redis server.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to redisURL (redis://[:password@]host:port/db) and checks
// the connection. Entries expire after ttl.
func NewRedis(ctx context.Context, redisURL string, ttl time.Duration) (*Redis, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("RedisURL is required")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisWithClient(client, ttl), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Get implements Cache.
func (r *Redis) Get(ctx context.Context, key string) ([]overlay.TranslationEntry, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var entries []overlay.TranslationEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false, fmt.Errorf("cache entry %s is corrupt: %w", key, err)
	}
	return entries, true, nil
}

// Set implements Cache.
func (r *Redis) Set(ctx context.Context, key string, entries []overlay.TranslationEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Close implements Cache.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Nop never stores anything.
type Nop struct{}

// Get implements Cache.
func (Nop) Get(context.Context, string) ([]overlay.TranslationEntry, bool, error) {
	return nil, false, nil
}

// Set implements Cache.
func (Nop) Set(context.Context, string, []overlay.TranslationEntry) error { return nil }

// Close implements Cache.
func (Nop) Close() error { return nil }
