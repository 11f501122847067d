package hidelist

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
)

// RedisKV keeps hidden sets in Redis. Keys carry no TTL: hidden
// conversations survive across sessions until restored.
type RedisKV struct {
	client *goredis.Client
}

func NewRedisKV(client *goredis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err == goredis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

// Ping checks that Redis is reachable. Used by the health endpoint.
func (r *RedisKV) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
