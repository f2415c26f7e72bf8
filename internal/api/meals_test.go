package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hearthplan/backend/internal/models"
	"github.com/hearthplan/backend/internal/service"
)

func TestCreateAndListMeals(t *testing.T) {
	app := setupAPI(t)
	userID, token := app.loginAs(t, "cook@example.com", models.RoleCook)

	w := app.request(t, http.MethodPost, "/api/meals", gin.H{
		"name":        "Pad Thai",
		"cuisine":     "Thai",
		"ingredients": []string{"noodles", "peanuts"},
		"meal_type":   "dinner",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Meal
	decodeJSON(t, w, &created)
	assert.Equal(t, "Pad Thai", created.Name)
	assert.Equal(t, 4, created.Servings)
	assert.Equal(t, userID, created.CreatedBy.String())

	w = app.request(t, http.MethodGet, "/api/meals", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var meals []models.Meal
	decodeJSON(t, w, &meals)
	require.Len(t, meals, 1)
	assert.Equal(t, created.ID, meals[0].ID)
}

func TestListMealsFilters(t *testing.T) {
	app := setupAPI(t)
	_, token := app.loginAs(t, "cook@example.com", models.RoleCook)

	for _, m := range []gin.H{
		{"name": "Pancakes", "meal_type": "breakfast"},
		{"name": "Pad Thai", "cuisine": "Thai", "meal_type": "dinner"},
		{"name": "Green Curry", "cuisine": "Thai", "meal_type": "dinner"},
	} {
		w := app.request(t, http.MethodPost, "/api/meals", m, token)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := app.request(t, http.MethodGet, "/api/meals?mealType=breakfast", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var meals []models.Meal
	decodeJSON(t, w, &meals)
	require.Len(t, meals, 1)
	assert.Equal(t, "Pancakes", meals[0].Name)

	w = app.request(t, http.MethodGet, "/api/meals?q=thai", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	meals = nil
	decodeJSON(t, w, &meals)
	assert.Len(t, meals, 2)
}

func TestMealsRequireCookOrParent(t *testing.T) {
	app := setupAPI(t)
	_, childToken := app.loginAs(t, "kid@example.com", models.RoleChild)

	w := app.request(t, http.MethodPost, "/api/meals", gin.H{
		"name":      "Candy Dinner",
		"meal_type": "dinner",
	}, childToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	require.NoError(t, app.db.Model(&models.Meal{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	w = app.request(t, http.MethodGet, "/api/meals", nil, childToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMealSuggestions(t *testing.T) {
	app := setupAPI(t)
	_, token := app.loginAs(t, "parent@example.com", models.RoleParent)

	app.llm.On("SuggestMeals", mock.Anything, []string{"Thai"}, []string{"vegetarian"}, "dinner").
		Return([]service.MealSuggestion{
			{Name: "Veggie Pad Thai", Cuisine: "Thai", Servings: 4},
		}, nil)

	w := app.request(t, http.MethodPost, "/api/meals/suggestions", gin.H{
		"cuisines": []string{"Thai"},
		"dietary":  []string{"vegetarian"},
		"mealType": "dinner",
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	var suggestions []service.MealSuggestion
	decodeJSON(t, w, &suggestions)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "Veggie Pad Thai", suggestions[0].Name)
	app.llm.AssertExpectations(t)
}

func TestMealSuggestionsUpstreamFailure(t *testing.T) {
	app := setupAPI(t)
	_, token := app.loginAs(t, "parent@example.com", models.RoleParent)

	app.llm.On("SuggestMeals", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: no JSON object found in response", service.ErrUpstream))

	w := app.request(t, http.MethodPost, "/api/meals/suggestions", gin.H{}, token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
