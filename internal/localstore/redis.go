package localstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "localstore:"

// RedisBackend stores each device as a Redis hash. Keys carry no TTL.
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend connects to Redis and verifies the connection
func NewRedisBackend(ctx context.Context, addr, password string, db int) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &RedisBackend{client: client}, nil
}

// NewRedisBackendWithClient wraps an existing client
func NewRedisBackendWithClient(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

func (r *RedisBackend) GetItem(ctx context.Context, deviceID, key string) (string, bool, error) {
	v, err := r.client.HGet(ctx, redisKeyPrefix+deviceID, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read item %s: %w", key, err)
	}
	return v, true, nil
}

func (r *RedisBackend) SetItem(ctx context.Context, deviceID, key, value string) error {
	if err := r.client.HSet(ctx, redisKeyPrefix+deviceID, key, value).Err(); err != nil {
		return fmt.Errorf("failed to write item %s: %w", key, err)
	}
	return nil
}

func (r *RedisBackend) RemoveItem(ctx context.Context, deviceID, key string) error {
	if err := r.client.HDel(ctx, redisKeyPrefix+deviceID, key).Err(); err != nil {
		return fmt.Errorf("failed to remove item %s: %w", key, err)
	}
	return nil
}

func (r *RedisBackend) Close() error {
	return r.client.Close()
}
