package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ukaji3/exmerge-go/pkg/exmerge/models"
)

// DefaultRedisKey is the hash key holding the template.
const DefaultRedisKey = "exmerge:template"

const (
	fieldID         = "id"
	fieldName       = "name"
	fieldData       = "data"
	fieldUploadedAt = "uploaded_at"
)

// RedisOptions configures a Redis-backed store.
type RedisOptions struct {
	Address  string
	Password string
	DB       int
	// Key is the hash key holding the template. Defaults to DefaultRedisKey.
	Key string
	// TTL expires the template after the given duration. Zero keeps it until cleared.
	TTL time.Duration
}

// Redis is a Store shared by every server instance pointing at the same Redis.
// The template lives in one hash that is replaced inside MULTI/EXEC.
type Redis struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// OpenRedis connects to Redis and verifies the connection.
func OpenRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Address,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	r := NewRedis(client, opts.Key, opts.TTL)
	if err := r.Ping(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return r, nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, key string, ttl time.Duration) *Redis {
	if key == "" {
		key = DefaultRedisKey
	}
	return &Redis{client: client, key: key, ttl: ttl}
}

// Set replaces the template hash in one MULTI/EXEC transaction.
func (r *Redis) Set(ctx context.Context, tpl models.Template) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		pipe.HSet(ctx, r.key, map[string]interface{}{
			fieldID:         tpl.ID,
			fieldName:       tpl.Name,
			fieldData:       tpl.Data,
			fieldUploadedAt: tpl.UploadedAt.UTC().Format(time.RFC3339Nano),
		})
		if r.ttl > 0 {
			pipe.Expire(ctx, r.key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set template: %w", err)
	}
	return nil
}

// Get reads the template hash, or returns ErrNotFound when the key is absent.
func (r *Redis) Get(ctx context.Context) (models.Template, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return models.Template{}, fmt.Errorf("redis get template: %w", err)
	}
	data, ok := fields[fieldData]
	if !ok {
		return models.Template{}, ErrNotFound
	}

	tpl := models.Template{
		ID:   fields[fieldID],
		Name: fields[fieldName],
		Data: []byte(data),
	}
	if ts := fields[fieldUploadedAt]; ts != "" {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			tpl.UploadedAt = t
		}
	}
	return tpl, nil
}

// Clear deletes the template key.
func (r *Redis) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis clear template: %w", err)
	}
	return nil
}

// Has reports whether the template key exists.
func (r *Redis) Has(ctx context.Context) (bool, error) {
	n, err := r.client.Exists(ctx, r.key).Result()
	if err != nil {
		return false, fmt.Errorf("redis check template: %w", err)
	}
	return n > 0, nil
}

// Ping checks the Redis connection.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
