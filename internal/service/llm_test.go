package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthplan/backend/internal/models"
	"github.com/hearthplan/backend/internal/service"
)

// completionServer fakes the chat-completions API, returning content as the
// single choice's message and recording the last prompt it saw.
func completionServer(t *testing.T, content string) (*httptest.Server, *string) {
	t.Helper()
	var lastPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req service.Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Messages)
		lastPrompt = req.Messages[len(req.Messages)-1].Content

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &lastPrompt
}

func newLLMService(t *testing.T, apiURL string) *service.LLMService {
	t.Helper()
	t.Setenv("DEEPSEEK_API_KEY", "test-key")
	t.Setenv("DEEPSEEK_API_URL", apiURL)
	svc, err := service.NewLLMService()
	require.NoError(t, err)
	return svc
}

func TestSuggestMeals(t *testing.T) {
	body := `{"meals": [{"name": "Pad Thai", "description": "Noodles", "cuisine": "Thai", "ingredients": ["noodles", "peanuts"], "instructions": "Stir fry.", "prepTimeMinutes": 25, "servings": 4}]}`
	srv, lastPrompt := completionServer(t, body)
	svc := newLLMService(t, srv.URL)

	meals, err := svc.SuggestMeals(context.Background(), []string{"Thai"}, []string{"nut-free"}, "dinner")
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, "Pad Thai", meals[0].Name)
	assert.Equal(t, []string{"noodles", "peanuts"}, meals[0].Ingredients)
	assert.Equal(t, 25, meals[0].PrepTimeMinutes)

	assert.Contains(t, *lastPrompt, "Thai")
	assert.Contains(t, *lastPrompt, "nut-free")
	assert.Contains(t, *lastPrompt, "dinner")
}

func TestSuggestMealsExtractsEmbeddedJSON(t *testing.T) {
	body := "Here are your meals:\n```json\n" +
		`{"meals": [{"name": "Ramen", "cuisine": "Japanese", "ingredients": ["noodles"], "servings": 2}]}` +
		"\n```\nEnjoy!"
	srv, _ := completionServer(t, body)
	svc := newLLMService(t, srv.URL)

	meals, err := svc.SuggestMeals(context.Background(), nil, nil, "")
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, "Ramen", meals[0].Name)
}

func TestSuggestMealsMalformedResponse(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no json", "sorry, I cannot help with that"},
		{"empty meals", `{"meals": []}`},
		{"nameless meal", `{"meals": [{"cuisine": "Thai"}]}`},
		{"wrong shape", `{"recipes": "yes"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := completionServer(t, tc.content)
			svc := newLLMService(t, srv.URL)

			_, err := svc.SuggestMeals(context.Background(), nil, nil, "dinner")
			assert.ErrorIs(t, err, service.ErrUpstream)
		})
	}
}

func TestSuggestMealsUpstreamStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)
	svc := newLLMService(t, srv.URL)

	_, err := svc.SuggestMeals(context.Background(), nil, nil, "dinner")
	assert.ErrorIs(t, err, service.ErrUpstream)
}

func TestShoppingItemsPromptContainsMeals(t *testing.T) {
	body := `{"items": [{"name": "tortillas", "quantity": "2 packs", "category": "pantry"}]}`
	srv, lastPrompt := completionServer(t, body)
	svc := newLLMService(t, srv.URL)

	meals := []models.Meal{
		{Name: "Tacos", Ingredients: models.JSONBStringArray{"tortillas", "chicken"}},
		{Name: "Mystery Stew"},
	}
	items, err := svc.ShoppingItems(context.Background(), meals)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "tortillas", items[0].Name)

	assert.Contains(t, *lastPrompt, "Tacos: tortillas, chicken")
	assert.Contains(t, *lastPrompt, "Mystery Stew: No ingredients listed")
}

func TestShoppingItemsMalformedResponse(t *testing.T) {
	srv, _ := completionServer(t, `{"items": []}`)
	svc := newLLMService(t, srv.URL)

	_, err := svc.ShoppingItems(context.Background(), []models.Meal{{Name: "Tacos"}})
	assert.ErrorIs(t, err, service.ErrUpstream)
}

func TestNewLLMServiceRequiresKey(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "")
	t.Setenv("DEEPSEEK_API_KEY_FILE", "")

	_, err := service.NewLLMService()
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "DEEPSEEK_API_KEY"))
}
