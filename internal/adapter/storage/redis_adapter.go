package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	stockKeyPrefix    = "stock:"
	idempotencyKeyTTL = 24 * time.Hour
)

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// SetStock mirrors the stock level of an entity under stock:<key>.
func (r *RedisAdapter) SetStock(ctx context.Context, key string, stock int) error {
	return r.client.Set(ctx, stockKeyPrefix+key, stock, 0).Err()
}

func (r *RedisAdapter) DeleteStock(ctx context.Context, key string) error {
	return r.client.Del(ctx, stockKeyPrefix+key).Err()
}

// Stock reads a mirrored stock level. ok is false when the key is absent.
func (r *RedisAdapter) Stock(ctx context.Context, key string) (stock int, ok bool, err error) {
	stock, err = r.client.Get(ctx, stockKeyPrefix+key).Int()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return stock, true, nil
}
