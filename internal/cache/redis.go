package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/fjod/go_food/internal/domain"
	"github.com/redis/go-redis/v9"
)

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r RedisCache) Get(ctx context.Context, foodID string) (*domain.Food, error) {
	data, err := r.client.Get(ctx, cacheKey(foodID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var food domain.Food
	if err2 := json.Unmarshal(data, &food); err2 != nil {
		return nil, fmt.Errorf("%w: unmarshal food failed: %v", ErrCacheCorrupt, err2)
	}

	return &food, nil
}

func (r RedisCache) Set(ctx context.Context, food *domain.Food) error {
	jsonFood, err := json.Marshal(food)
	if err != nil {
		return fmt.Errorf("marshal food failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(5)) * time.Minute
	ttl := r.baseTTL + jitter
	if err := r.client.Set(ctx, cacheKey(food.ID.Hex()), jsonFood, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r RedisCache) Delete(ctx context.Context, foodID string) error {
	if err := r.client.Del(ctx, cacheKey(foodID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}

	return nil
}

func cacheKey(foodID string) string {
	return fmt.Sprintf("food:%s", foodID)
}
