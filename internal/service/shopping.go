package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hearthplan/backend/internal/models"
)

const dateLayout = "2006-01-02"

// ShoppingService derives shopping lists from meal plans and meal
// selections. Each call creates a brand-new list; nothing is deduplicated
// across calls.
type ShoppingService struct {
	db  *gorm.DB
	llm SuggestionClient
}

func NewShoppingService(db *gorm.DB, llm SuggestionClient) *ShoppingService {
	return &ShoppingService{db: db, llm: llm}
}

// GenerateFromDateRange collects every ingredient of every meal planned in
// the inclusive date range, deduplicates by exact string match, and
// materializes the result as a new list. A range with no planned meals
// yields a list with zero items. The list and its items are created in one
// transaction.
func (s *ShoppingService) GenerateFromDateRange(ctx context.Context, startDate, endDate string, userID uuid.UUID) (*models.ShoppingList, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date %q", ErrInvalidInput, startDate)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date %q", ErrInvalidInput, endDate)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date precedes start date", ErrInvalidInput)
	}

	var ingredients []string
	seen := make(map[string]struct{})

	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		var plans []models.MealPlan
		if err := s.db.WithContext(ctx).Where("planned_date = ?", date.Format(dateLayout)).Find(&plans).Error; err != nil {
			return nil, err
		}

		for _, plan := range plans {
			var meal models.Meal
			if err := s.db.WithContext(ctx).First(&meal, "id = ?", plan.MealID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					continue
				}
				return nil, err
			}
			for _, ingredient := range meal.Ingredients {
				if _, ok := seen[ingredient]; ok {
					continue
				}
				seen[ingredient] = struct{}{}
				ingredients = append(ingredients, ingredient)
			}
		}
	}

	list := models.ShoppingList{
		Name:      fmt.Sprintf("Shopping List %s to %s", startDate, endDate),
		CreatedBy: userID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&list).Error; err != nil {
			return err
		}
		for _, ingredient := range ingredients {
			item := models.ShoppingItem{
				ListID:   list.ID,
				Name:     ingredient,
				Category: "ingredient",
				AddedBy:  userID,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			list.Items = append(list.Items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &list, nil
}

// GenerateFromMeals resolves the selected meals, asks the AI service for a
// consolidated shopping list, and materializes the returned items. Unknown
// meal ids are skipped; when none resolve the call fails without creating
// anything.
func (s *ShoppingService) GenerateFromMeals(ctx context.Context, mealIDs []uuid.UUID, userID uuid.UUID) (*models.ShoppingList, error) {
	if len(mealIDs) == 0 {
		return nil, fmt.Errorf("%w: meal ids are required", ErrInvalidInput)
	}

	var meals []models.Meal
	for _, id := range mealIDs {
		var meal models.Meal
		if err := s.db.WithContext(ctx).First(&meal, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				continue
			}
			return nil, err
		}
		meals = append(meals, meal)
	}
	if len(meals) == 0 {
		return nil, fmt.Errorf("%w: no meals found", ErrNotFound)
	}

	suggested, err := s.llm.ShoppingItems(ctx, meals)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(meals))
	for i, meal := range meals {
		names[i] = meal.Name
	}
	mealNames := strings.Join(names, ", ")

	list := models.ShoppingList{
		Name:      fmt.Sprintf("Shopping List for: %s", mealNames),
		CreatedBy: userID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&list).Error; err != nil {
			return err
		}
		for _, entry := range suggested {
			category := entry.Category
			if category == "" {
				category = "general"
			}
			item := models.ShoppingItem{
				ListID:      list.ID,
				Name:        entry.Name,
				Quantity:    entry.Quantity,
				Category:    category,
				AddedBy:     userID,
				RelatedMeal: mealNames,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			list.Items = append(list.Items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &list, nil
}

// DeleteList removes a list together with its items in one transaction.
func (s *ShoppingService) DeleteList(ctx context.Context, listID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var list models.ShoppingList
		if err := tx.First(&list, "id = ?", listID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: shopping list %s", ErrNotFound, listID)
			}
			return err
		}
		if err := tx.Delete(&models.ShoppingItem{}, "list_id = ?", listID).Error; err != nil {
			return err
		}
		return tx.Delete(&list).Error
	})
}
