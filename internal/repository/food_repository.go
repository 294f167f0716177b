package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/go_food/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type foodRepository struct {
	collection *mongo.Collection
}

func NewFoodRepository(db *mongo.Database) FoodRepository {
	return &foodRepository{
		collection: db.Collection("foods"),
	}
}

func (f *foodRepository) GetFood(ctx context.Context, id primitive.ObjectID) (*domain.Food, error) {
	var food domain.Food

	err := f.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&food)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrFoodNotFound
		}
		return nil, fmt.Errorf("failed to get food: %w", err)
	}

	return &food, nil
}

func (f *foodRepository) ListFoods(ctx context.Context) ([]domain.Food, error) {
	cursor, err := f.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list foods: %w", err)
	}

	foods := make([]domain.Food, 0)
	if err := cursor.All(ctx, &foods); err != nil {
		return nil, fmt.Errorf("failed to decode foods: %w", err)
	}

	return foods, nil
}
