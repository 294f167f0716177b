package cache

import (
	"context"
	"errors"

	"github.com/fjod/go_food/internal/domain"
)

type FoodCache interface {
	Get(ctx context.Context, foodID string) (*domain.Food, error)
	Set(ctx context.Context, food *domain.Food) error
	Delete(ctx context.Context, foodID string) error
}

var (
	ErrCacheMiss = errors.New("cache miss")
	// ErrCacheCorrupt means the entry exists but cannot be decoded.
	ErrCacheCorrupt = errors.New("cache entry corrupt")
)
