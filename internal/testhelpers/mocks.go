package testhelpers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hearthplan/backend/internal/models"
	"github.com/hearthplan/backend/internal/service"
)

// MockSuggestionClient is a mock implementation of the SuggestionClient interface
type MockSuggestionClient struct {
	mock.Mock
}

func (m *MockSuggestionClient) SuggestMeals(ctx context.Context, cuisines, dietary []string, mealType string) ([]service.MealSuggestion, error) {
	args := m.Called(ctx, cuisines, dietary, mealType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.MealSuggestion), args.Error(1)
}

func (m *MockSuggestionClient) ShoppingItems(ctx context.Context, meals []models.Meal) ([]service.SuggestedItem, error) {
	args := m.Called(ctx, meals)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.SuggestedItem), args.Error(1)
}
