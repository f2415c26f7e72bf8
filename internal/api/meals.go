package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hearthplan/backend/internal/middleware"
	"github.com/hearthplan/backend/internal/models"
	"github.com/hearthplan/backend/internal/service"
)

type MealsHandler struct {
	db  *gorm.DB
	llm service.SuggestionClient
}

func NewMealsHandler(db *gorm.DB, llm service.SuggestionClient) *MealsHandler {
	return &MealsHandler{db: db, llm: llm}
}

func (h *MealsHandler) List(c *gin.Context) {
	var meals []models.Meal

	query := h.db.WithContext(c.Request.Context())

	if search := c.Query("q"); search != "" {
		if h.db.Dialector.Name() == "postgres" {
			vec := service.GenerateEmbedding(search)
			query = query.Clauses(clause.OrderBy{
				Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
			})
		} else {
			like := "%" + strings.ToLower(search) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(cuisine) LIKE ?", like, like)
		}
	}

	if mealType := c.Query("mealType"); mealType != "" {
		query = query.Where("meal_type = ?", mealType)
	}

	if err := query.Find(&meals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch meals"})
		return
	}
	c.JSON(http.StatusOK, meals)
}

type CreateMealRequest struct {
	Name            string   `json:"name" binding:"required"`
	Description     string   `json:"description"`
	Cuisine         string   `json:"cuisine"`
	Ingredients     []string `json:"ingredients"`
	Instructions    string   `json:"instructions"`
	MealType        string   `json:"meal_type" binding:"required"`
	Servings        int      `json:"servings"`
	PrepTimeMinutes int      `json:"prep_time_minutes"`
}

func (h *MealsHandler) Create(c *gin.Context) {
	var req CreateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid meal data"})
		return
	}

	if req.Servings == 0 {
		req.Servings = 4
	}

	caller := middleware.CurrentUser(c)
	meal := models.Meal{
		Name:            req.Name,
		Description:     req.Description,
		Cuisine:         req.Cuisine,
		Ingredients:     req.Ingredients,
		Instructions:    req.Instructions,
		MealType:        req.MealType,
		Servings:        req.Servings,
		PrepTimeMinutes: req.PrepTimeMinutes,
		CreatedBy:       caller.ID,
		Embedding:       service.GenerateEmbedding(req.Name + " " + req.Cuisine),
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&meal).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create meal"})
		return
	}
	c.JSON(http.StatusCreated, meal)
}

type SuggestionsRequest struct {
	Cuisines []string `json:"cuisines"`
	Dietary  []string `json:"dietary"`
	MealType string   `json:"mealType"`
}

// Suggestions asks the AI service for meal ideas matching the caller's
// constraints.
func (h *MealsHandler) Suggestions(c *gin.Context) {
	var req SuggestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	suggestions, err := h.llm.SuggestMeals(c.Request.Context(), req.Cuisines, req.Dietary, req.MealType)
	if err != nil {
		log.Printf("[MealsHandler] suggestion error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate meal suggestions"})
		return
	}
	c.JSON(http.StatusOK, suggestions)
}
