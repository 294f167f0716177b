package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fjod/go_food/internal/cache"
	"github.com/fjod/go_food/internal/domain"
	"github.com/fjod/go_food/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGetFood_FromCache(t *testing.T) {
	food := &domain.Food{ID: primitive.NewObjectID(), Name: "Pasta", Price: 8}
	repo := &mockFoodRepository{err: errors.New("should not be called")}
	c := &mockCache{food: food}
	s := NewCatalogService(repo, c)

	got, err := s.GetFood(context.Background(), food.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pasta", got.Name)
	assert.Equal(t, 0, repo.callCount())
}

func TestGetFood_MissFillsCache(t *testing.T) {
	food := &domain.Food{ID: primitive.NewObjectID(), Name: "Pasta", Price: 8}
	repo := &mockFoodRepository{food: food}
	c := &mockCache{}
	s := NewCatalogService(repo, c)

	got, err := s.GetFood(context.Background(), food.ID)
	require.NoError(t, err)
	assert.Equal(t, food.ID, got.ID)

	require.Eventually(t, func() bool {
		return c.cached() != nil
	}, time.Second, 10*time.Millisecond)
}

func TestGetFood_CacheErrorFallsBackToRepo(t *testing.T) {
	food := &domain.Food{ID: primitive.NewObjectID(), Name: "Pasta", Price: 8}
	repo := &mockFoodRepository{food: food}
	c := &mockCache{err: errors.New("redis down")}
	s := NewCatalogService(repo, c)

	got, err := s.GetFood(context.Background(), food.ID)
	require.NoError(t, err)
	assert.Equal(t, food.ID, got.ID)
	assert.Equal(t, 1, repo.callCount())
}

func TestGetFood_CorruptEntryIsDropped(t *testing.T) {
	food := &domain.Food{ID: primitive.NewObjectID(), Name: "Pasta", Price: 8}
	repo := &mockFoodRepository{food: food}
	c := &mockCache{err: fmt.Errorf("%w: bad json", cache.ErrCacheCorrupt)}
	s := NewCatalogService(repo, c)

	got, err := s.GetFood(context.Background(), food.ID)
	require.NoError(t, err)
	assert.Equal(t, food.ID, got.ID)
	assert.Equal(t, 1, c.deleteCount())

	require.Eventually(t, func() bool {
		return c.cached() != nil
	}, time.Second, 10*time.Millisecond)
}

func TestListFoods_RefreshesCache(t *testing.T) {
	stale := &domain.Food{ID: primitive.NewObjectID(), Name: "Pasta", Price: 8}
	fresh := *stale
	fresh.Price = 9.5
	repo := &mockFoodRepository{food: &fresh}
	c := &mockCache{food: stale}
	s := NewCatalogService(repo, c)

	foods, err := s.ListFoods(context.Background())
	require.NoError(t, err)
	require.Len(t, foods, 1)

	require.Eventually(t, func() bool {
		return c.cached().Price == 9.5
	}, time.Second, 10*time.Millisecond)

	got, err := s.GetFood(context.Background(), stale.ID)
	require.NoError(t, err)
	assert.Equal(t, 9.5, got.Price)
}

func TestGetFood_NotFound(t *testing.T) {
	repo := &mockFoodRepository{err: repository.ErrFoodNotFound}
	s := NewCatalogService(repo, &mockCache{})

	_, err := s.GetFood(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, repository.ErrFoodNotFound)
}

func TestGetFood_ConcurrentMissesCollapse(t *testing.T) {
	food := &domain.Food{ID: primitive.NewObjectID(), Name: "Pasta", Price: 8}
	repo := &slowFoodRepository{food: food, delay: 100 * time.Millisecond}
	s := NewCatalogService(repo, &mockCache{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.GetFood(context.Background(), food.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Less(t, repo.callCount(), 10)
}

type slowFoodRepository struct {
	mockFoodRepository
	food  *domain.Food
	delay time.Duration
}

func (s *slowFoodRepository) GetFood(ctx context.Context, id primitive.ObjectID) (*domain.Food, error) {
	time.Sleep(s.delay)
	s.mockFoodRepository.m.Lock()
	s.calls++
	s.mockFoodRepository.m.Unlock()
	return s.food, nil
}
