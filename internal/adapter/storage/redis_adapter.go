package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/stockledger/internal/core/domain"
)

const DefaultDivergenceKey = "stockledger:divergences"

// RedisAdapter journals divergences in a Redis list so they survive the
// session that produced them.
type RedisAdapter struct {
	client *redis.Client
	key    string
}

func NewRedisAdapter(client *redis.Client, key string) *RedisAdapter {
	if key == "" {
		key = DefaultDivergenceKey
	}
	return &RedisAdapter{client: client, key: key}
}

func (r *RedisAdapter) Record(ctx context.Context, d domain.Divergence) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal divergence: %w", err)
	}
	return r.client.RPush(ctx, r.key, payload).Err()
}

func (r *RedisAdapter) List(ctx context.Context) ([]domain.Divergence, error) {
	raw, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]domain.Divergence, 0, len(raw))
	for _, entry := range raw {
		var d domain.Divergence
		if err := json.Unmarshal([]byte(entry), &d); err != nil {
			return nil, fmt.Errorf("unmarshal divergence: %w", err)
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *RedisAdapter) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}
