package recordstore

import (
	"context"

	"github.com/go-redis/redis/v8"
)

// RedisBackend 以 Redis string 键保存 slot 内容
type RedisBackend struct {
	client *redis.Client
}

func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

func (b *RedisBackend) Get(ctx context.Context, slot string) ([]byte, error) {
	data, err := b.client.Get(ctx, slot).Bytes()
	if err == redis.Nil {
		return nil, ErrNoSlot
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (b *RedisBackend) Set(ctx context.Context, slot string, data []byte) error {
	return b.client.Set(ctx, slot, data, 0).Err()
}

func (b *RedisBackend) Delete(ctx context.Context, slot string) error {
	return b.client.Del(ctx, slot).Err()
}
