package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/citizenjaivik/jaivik/config"
)

// Redis is the production Store, persisting documents as JSON strings.
type Redis struct {
	rdb *redis.Client
	ctx context.Context
}

// Connect initialises the Redis-backed store and verifies the connection
// with a ping. Returns an error so the caller can react (log a warning and
// stay on the memory store, or abort).
func Connect() (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("kv: redis ping: %w", err)
	}

	return &Redis{rdb: rdb, ctx: ctx}, nil
}

func (r *Redis) Get(key string, dest interface{}) bool {
	val, err := r.rdb.Get(r.ctx, key).Result()
	if err != nil {
		return false
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false
	}

	return true
}

func (r *Redis) Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return r.rdb.Set(r.ctx, key, data, ttl).Err()
}

func (r *Redis) Del(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.rdb.Del(r.ctx, keys...).Err()
}

// Client exposes the underlying redis client for components that need raw
// commands (the queue's Redis driver shares this connection).
func (r *Redis) Client() *redis.Client { return r.rdb }
