package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/fjod/go_food/internal/cache"
	"github.com/fjod/go_food/internal/domain"
	"github.com/fjod/go_food/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"
)

// CatalogService reads foods through the cache.
type CatalogService struct {
	repo  repository.FoodRepository
	cache cache.FoodCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewCatalogService(repo repository.FoodRepository, cache cache.FoodCache) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
	}
}

// GetFood returns repository.ErrFoodNotFound for unknown ids.
func (s *CatalogService) GetFood(ctx context.Context, id primitive.ObjectID) (*domain.Food, error) {
	key := id.Hex()
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		food, err := s.cache.Get(ctx, key)
		if err == nil {
			return food, nil
		}

		switch {
		case errors.Is(err, cache.ErrCacheCorrupt):
			log.Printf("dropping corrupt cache entry for food %s: %v", key, err)
			if errDel := s.cache.Delete(ctx, key); errDel != nil {
				log.Printf("cache delete error: %v", errDel)
			}
		case !errors.Is(err, cache.ErrCacheMiss):
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		food, errGet := s.repo.GetFood(ctx, id)
		if errGet != nil {
			return nil, errGet
		}

		go s.fill(food)

		return food, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Food), nil
}

// ListFoods always reads the store and rewrites the cached entries, so a price
// change reaches order placement once the menu has been loaded.
func (s *CatalogService) ListFoods(ctx context.Context) ([]domain.Food, error) {
	foods, err := s.repo.ListFoods(ctx)
	if err != nil {
		return nil, err
	}

	for _, food := range foods {
		go s.fill(&food)
	}
	return foods, nil
}

func (s *CatalogService) fill(food *domain.Food) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Set(ctx, food); err != nil {
		log.Printf("cache set error: %v", err)
	}
}
