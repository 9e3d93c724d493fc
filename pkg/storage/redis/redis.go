package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/riskpulse/riskpulse/pkg/docstore"
)

// Connect parses a redis:// URL, opens a client and pings it.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// KV adapts a go-redis client to the docstore cache interface.
type KV struct {
	client *redis.Client
}

func NewKV(client *redis.Client) *KV { return &KV{client: client} }

func (k *KV) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := k.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, docstore.ErrCacheMiss
	}
	return val, err
}

func (k *KV) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return k.client.Set(ctx, key, val, ttl).Err()
}

func (k *KV) Del(ctx context.Context, keys ...string) error {
	return k.client.Del(ctx, keys...).Err()
}
