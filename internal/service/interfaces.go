package service

import (
	"context"

	"github.com/hearthplan/backend/internal/models"
)

// SuggestionClient is the boundary to the external generative-text service.
type SuggestionClient interface {
	SuggestMeals(ctx context.Context, cuisines, dietary []string, mealType string) ([]MealSuggestion, error)
	ShoppingItems(ctx context.Context, meals []models.Meal) ([]SuggestedItem, error)
}
