package api_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hearthplan/backend/internal/models"
	"github.com/hearthplan/backend/internal/service"
)

func seedPlannedMeal(t *testing.T, app *testApp, userID, name, date string, ingredients ...string) models.Meal {
	t.Helper()
	meal := models.Meal{
		Name:        name,
		Ingredients: models.JSONBStringArray(ingredients),
		MealType:    "dinner",
		Servings:    4,
	}
	require.NoError(t, app.db.Create(&meal).Error)

	uid, err := uuid.Parse(userID)
	require.NoError(t, err)
	plan := models.MealPlan{
		UserID:      uid,
		MealID:      meal.ID,
		PlannedDate: date,
		MealType:    "dinner",
	}
	require.NoError(t, app.db.Create(&plan).Error)
	return meal
}

func TestGenerateShoppingListFromDateRange(t *testing.T) {
	app := setupAPI(t)
	userID, token := app.loginAs(t, "parent@example.com", models.RoleParent)

	seedPlannedMeal(t, app, userID, "Omelette", "2024-01-02", "egg", "milk")
	seedPlannedMeal(t, app, userID, "Pancakes", "2024-01-05", "egg", "flour")

	w := app.request(t, http.MethodPost, "/api/shopping-lists/generate", gin.H{
		"startDate": "2024-01-01",
		"endDate":   "2024-01-07",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	var list models.ShoppingList
	decodeJSON(t, w, &list)
	assert.Equal(t, "Shopping List 2024-01-01 to 2024-01-07", list.Name)
	require.Len(t, list.Items, 3)
	assert.Equal(t, "egg", list.Items[0].Name)
	assert.Equal(t, "milk", list.Items[1].Name)
	assert.Equal(t, "flour", list.Items[2].Name)
	assert.Equal(t, userID, list.CreatedBy.String())
}

func TestGenerateShoppingListRejectsBadDates(t *testing.T) {
	app := setupAPI(t)
	_, token := app.loginAs(t, "parent@example.com", models.RoleParent)

	w := app.request(t, http.MethodPost, "/api/shopping-lists/generate", gin.H{
		"startDate": "not-a-date",
		"endDate":   "2024-01-07",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.request(t, http.MethodPost, "/api/shopping-lists/generate", gin.H{}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateShoppingListRequiresRole(t *testing.T) {
	app := setupAPI(t)
	_, childToken := app.loginAs(t, "kid@example.com", models.RoleChild)

	w := app.request(t, http.MethodPost, "/api/shopping-lists/generate", gin.H{
		"startDate": "2024-01-01",
		"endDate":   "2024-01-07",
	}, childToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	require.NoError(t, app.db.Model(&models.ShoppingList{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestGenerateFromMealsEndpoint(t *testing.T) {
	app := setupAPI(t)
	userID, token := app.loginAs(t, "cook@example.com", models.RoleCook)

	meal := seedPlannedMeal(t, app, userID, "Tacos", "2024-02-01", "tortillas", "chicken")

	app.llm.On("ShoppingItems", mock.Anything, mock.Anything).Return([]service.SuggestedItem{
		{Name: "tortillas", Quantity: "2 packs", Category: "pantry"},
		{Name: "chicken breast", Quantity: "1 lb", Category: "meat"},
	}, nil)

	w := app.request(t, http.MethodPost, "/api/shopping-lists/generate-from-meals", gin.H{
		"mealIds": []string{meal.ID.String()},
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	var list models.ShoppingList
	decodeJSON(t, w, &list)
	assert.Equal(t, "Shopping List for: Tacos", list.Name)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "Tacos", list.Items[0].RelatedMeal)
}

func TestGenerateFromMealsNoMealsFound(t *testing.T) {
	app := setupAPI(t)
	_, token := app.loginAs(t, "cook@example.com", models.RoleCook)

	w := app.request(t, http.MethodPost, "/api/shopping-lists/generate-from-meals", gin.H{
		"mealIds": []string{uuid.NewString()},
	}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShoppingListLifecycle(t *testing.T) {
	app := setupAPI(t)
	_, token := app.loginAs(t, "parent@example.com", models.RoleParent)

	w := app.request(t, http.MethodPost, "/api/shopping-lists", gin.H{"name": "Weekly"}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	var list models.ShoppingList
	decodeJSON(t, w, &list)

	w = app.request(t, http.MethodPost, "/api/shopping-items", gin.H{
		"list_id":  list.ID.String(),
		"name":     "milk",
		"quantity": "2L",
		"category": "dairy",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	var item models.ShoppingItem
	decodeJSON(t, w, &item)

	w = app.request(t, http.MethodGet, "/api/shopping-lists", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var lists []models.ShoppingList
	decodeJSON(t, w, &lists)
	require.Len(t, lists, 1)
	require.Len(t, lists[0].Items, 1)
	assert.Equal(t, "milk", lists[0].Items[0].Name)

	w = app.request(t, http.MethodPut, "/api/shopping-items/"+item.ID.String(), gin.H{
		"completed": true,
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.ShoppingItem
	require.NoError(t, app.db.First(&stored, "id = ?", item.ID).Error)
	assert.True(t, stored.Completed)

	w = app.request(t, http.MethodDelete, "/api/shopping-lists/"+list.ID.String(), nil, token)
	require.Equal(t, http.StatusNoContent, w.Code)

	var items int64
	require.NoError(t, app.db.Model(&models.ShoppingItem{}).Count(&items).Error)
	assert.Equal(t, int64(0), items)
}

func TestCreateItemUnknownList(t *testing.T) {
	app := setupAPI(t)
	_, token := app.loginAs(t, "parent@example.com", models.RoleParent)

	w := app.request(t, http.MethodPost, "/api/shopping-items", gin.H{
		"list_id": uuid.NewString(),
		"name":    "milk",
	}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
