package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/hearthplan/backend/internal/models"
)

// MealSuggestion is a single AI-proposed meal.
type MealSuggestion struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Cuisine         string   `json:"cuisine"`
	Ingredients     []string `json:"ingredients"`
	Instructions    string   `json:"instructions"`
	PrepTimeMinutes int      `json:"prepTimeMinutes"`
	Servings        int      `json:"servings"`
}

// SuggestedItem is a single AI-proposed shopping entry.
type SuggestedItem struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Category string `json:"category"`
}

// LLMService talks to the external chat-completions API. The contract with
// the model is best effort: it returns text that usually contains a JSON
// object of the requested shape, and anything else surfaces as ErrUpstream.
type LLMService struct {
	apiKey string
	apiURL string
}

// NewLLMService creates a new LLMService instance
func NewLLMService() (*LLMService, error) {
	apiKey := os.Getenv("DEEPSEEK_API_KEY")
	if apiKey == "" {
		apiKeyFile := os.Getenv("DEEPSEEK_API_KEY_FILE")
		if apiKeyFile == "" {
			return nil, fmt.Errorf("DEEPSEEK_API_KEY or DEEPSEEK_API_KEY_FILE must be set")
		}

		apiKeyBytes, err := os.ReadFile(apiKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read API key file: %w", err)
		}

		apiKey = strings.TrimSpace(string(apiKeyBytes))
		if apiKey == "" {
			return nil, fmt.Errorf("API key file is empty")
		}
	}

	apiURL := os.Getenv("DEEPSEEK_API_URL")
	if apiURL == "" {
		apiURL = "https://api.deepseek.com/v1/chat/completions"
	}

	return &LLMService{
		apiKey: apiKey,
		apiURL: apiURL,
	}, nil
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a request to the chat-completions API
type Request struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
}

// SuggestMeals asks the model for five meal ideas honoring the given
// cuisines, dietary restrictions and meal type.
func (s *LLMService) SuggestMeals(ctx context.Context, cuisines, dietary []string, mealType string) ([]MealSuggestion, error) {
	if mealType == "" {
		mealType = "dinner"
	}

	cuisineList := strings.Join(cuisines, ", ")
	if cuisineList == "" {
		cuisineList = "any"
	}
	dietaryList := strings.Join(dietary, ", ")
	if dietaryList == "" {
		dietaryList = "none"
	}

	prompt := fmt.Sprintf(`Generate 5 %s meal suggestions with the following preferences:
- Cuisines: %s
- Dietary restrictions: %s

For each meal, provide:
- name: string
- description: string (brief)
- cuisine: string
- ingredients: array of strings
- instructions: string (brief cooking instructions)
- prepTimeMinutes: number
- servings: number (default 4)

Return ONLY valid JSON in this exact format:
{
    "meals": [
        {
            "name": "Meal Name",
            "description": "Brief description",
            "cuisine": "Cuisine Type",
            "ingredients": ["ingredient1", "ingredient2"],
            "instructions": "Brief cooking instructions",
            "prepTimeMinutes": 30,
            "servings": 4
        }
    ]
}`, mealType, cuisineList, dietaryList)

	content, err := s.complete(ctx, "You are a family meal planner. Respond only with JSON of the requested shape.", prompt)
	if err != nil {
		return nil, err
	}

	raw, err := extractJSONObject(content)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Meals []MealSuggestion `json:"meals"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: parsing meal suggestions: %v", ErrUpstream, err)
	}
	if len(parsed.Meals) == 0 {
		return nil, fmt.Errorf("%w: response contained no meals", ErrUpstream)
	}
	for _, m := range parsed.Meals {
		if m.Name == "" {
			return nil, fmt.Errorf("%w: suggestion with empty name", ErrUpstream)
		}
	}

	return parsed.Meals, nil
}

// ShoppingItems asks the model for a consolidated shopping list covering
// the given meals.
func (s *LLMService) ShoppingItems(ctx context.Context, meals []models.Meal) ([]SuggestedItem, error) {
	lines := make([]string, 0, len(meals))
	for _, meal := range meals {
		ingredients := strings.Join(meal.Ingredients, ", ")
		if ingredients == "" {
			ingredients = "No ingredients listed"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", meal.Name, ingredients))
	}

	prompt := fmt.Sprintf(`Generate a comprehensive shopping list for these meals:
%s

Please provide:
1. All ingredients needed with appropriate quantities for %d meals
2. Group similar items together
3. Include basic pantry items that might be needed
4. Consider standard serving sizes

Return ONLY valid JSON in this format:
{
    "items": [
        {
            "name": "item name",
            "quantity": "amount needed",
            "category": "produce/dairy/meat/pantry/etc"
        }
    ]
}`, strings.Join(lines, "\n"), len(meals))

	content, err := s.complete(ctx, "You are a household shopping assistant. Respond only with JSON of the requested shape.", prompt)
	if err != nil {
		return nil, err
	}

	raw, err := extractJSONObject(content)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Items []SuggestedItem `json:"items"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: parsing shopping items: %v", ErrUpstream, err)
	}
	if len(parsed.Items) == 0 {
		return nil, fmt.Errorf("%w: response contained no items", ErrUpstream)
	}
	for _, item := range parsed.Items {
		if item.Name == "" {
			return nil, fmt.Errorf("%w: item with empty name", ErrUpstream)
		}
	}

	return parsed.Items, nil
}

// complete performs one chat-completions round trip and returns the first
// choice's message content.
func (s *LLMService) complete(ctx context.Context, system, user string) (string, error) {
	reqBody := Request{
		Model: "deepseek-chat",
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: map[string]string{
			"type": "json_object",
		},
		Temperature: 0.9,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: API request failed with status %d: %s", ErrUpstream, resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrUpstream, err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: no response from API", ErrUpstream)
	}

	return result.Choices[0].Message.Content, nil
}

// extractJSONObject locates the first JSON object span in free-form model
// output. The span runs from the first '{' to the last '}'.
func extractJSONObject(text string) ([]byte, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("%w: no JSON object found in response", ErrUpstream)
	}
	return []byte(text[start : end+1]), nil
}
