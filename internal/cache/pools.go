// Package cache keeps the pool listing in Redis between reads.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"poolledger/internal/domain"
)

const poolsKey = "poolledger:pools"

// PoolCache stores the JSON-encoded pool listing under one key with a TTL.
type PoolCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPoolCache(client *redis.Client, ttl time.Duration) *PoolCache {
	return &PoolCache{client: client, ttl: ttl}
}

func (c *PoolCache) GetPools(ctx context.Context) ([]domain.Pool, bool, error) {
	raw, err := c.client.Get(ctx, poolsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get pools: %w", err)
	}
	var pools []domain.Pool
	if err := json.Unmarshal(raw, &pools); err != nil {
		return nil, false, fmt.Errorf("decode pools: %w", err)
	}
	return pools, true, nil
}

func (c *PoolCache) SetPools(ctx context.Context, pools []domain.Pool) error {
	raw, err := json.Marshal(pools)
	if err != nil {
		return fmt.Errorf("encode pools: %w", err)
	}
	if err := c.client.Set(ctx, poolsKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set pools: %w", err)
	}
	return nil
}

func (c *PoolCache) InvalidatePools(ctx context.Context) error {
	if err := c.client.Del(ctx, poolsKey).Err(); err != nil {
		return fmt.Errorf("invalidate pools: %w", err)
	}
	return nil
}
