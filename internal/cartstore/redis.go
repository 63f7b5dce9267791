package cartstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopwidget/internal/models"

	"github.com/redis/go-redis/v9"
)

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{
		client: client,
		ttl:    ttl,
		now:    time.Now,
	}
}

type Redis struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func (r *Redis) Load(ctx context.Context, key string) ([]models.CartItem, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	items, ok, err := decodeEnvelope(data, r.now(), r.ttl)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Expired envelopes are dropped whole, and the key with them.
		if errDel := r.client.Del(ctx, key).Err(); errDel != nil {
			return nil, fmt.Errorf("redis delete failed: %w", errDel)
		}
		return nil, nil
	}

	return items, nil
}

func (r *Redis) Save(ctx context.Context, key string, items []models.CartItem) error {
	payload, err := encodeEnvelope(items, r.now())
	if err != nil {
		return err
	}

	// The envelope timestamp is authoritative; the redis expiry just keeps
	// abandoned carts from piling up server-side.
	if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
