package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hearthplan/backend/internal/middleware"
	"github.com/hearthplan/backend/internal/models"
)

type MealPlansHandler struct {
	db *gorm.DB
}

func NewMealPlansHandler(db *gorm.DB) *MealPlansHandler {
	return &MealPlansHandler{db: db}
}

// MealPlanResponse is a meal plan enriched with its meal.
type MealPlanResponse struct {
	models.MealPlan
	Meal *models.Meal `json:"meal,omitempty"`
}

// List returns meal plans filtered by userId or date; without a filter it
// returns the current week, Monday through Sunday.
func (h *MealPlansHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	query := h.db.WithContext(ctx)

	if userID := c.Query("userId"); userID != "" {
		id, err := uuid.Parse(userID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid userId"})
			return
		}
		query = query.Where("user_id = ?", id)
	} else if date := c.Query("date"); date != "" {
		query = query.Where("planned_date = ?", date)
	} else {
		now := time.Now()
		offset := (int(now.Weekday()) + 6) % 7 // days since Monday
		monday := now.AddDate(0, 0, -offset)
		week := make([]string, 7)
		for i := range week {
			week[i] = monday.AddDate(0, 0, i).Format("2006-01-02")
		}
		query = query.Where("planned_date IN ?", week)
	}

	var plans []models.MealPlan
	if err := query.Find(&plans).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch meal plans"})
		return
	}

	enriched := make([]MealPlanResponse, 0, len(plans))
	for _, plan := range plans {
		resp := MealPlanResponse{MealPlan: plan}
		var meal models.Meal
		if err := h.db.WithContext(ctx).First(&meal, "id = ?", plan.MealID).Error; err == nil {
			resp.Meal = &meal
		}
		enriched = append(enriched, resp)
	}
	c.JSON(http.StatusOK, enriched)
}

type CreateMealPlanRequest struct {
	UserID      *uuid.UUID `json:"user_id"`
	MealID      uuid.UUID  `json:"meal_id" binding:"required"`
	PlannedDate string     `json:"planned_date" binding:"required"`
	MealType    string     `json:"meal_type" binding:"required"`
}

func (h *MealPlansHandler) Create(c *gin.Context) {
	var req CreateMealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid meal plan data"})
		return
	}

	userID := middleware.CurrentUser(c).ID
	if req.UserID != nil {
		userID = *req.UserID
	}

	plan := models.MealPlan{
		UserID:      userID,
		MealID:      req.MealID,
		PlannedDate: req.PlannedDate,
		MealType:    req.MealType,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&plan).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create meal plan"})
		return
	}
	c.JSON(http.StatusCreated, plan)
}

type UpdateMealPlanRequest struct {
	MealID      *uuid.UUID `json:"meal_id"`
	PlannedDate *string    `json:"planned_date"`
	MealType    *string    `json:"meal_type"`
	Completed   *bool      `json:"completed"`
}

func (h *MealPlansHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid meal plan id"})
		return
	}

	var plan models.MealPlan
	if err := h.db.WithContext(c.Request.Context()).First(&plan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Meal plan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch meal plan"})
		return
	}

	var req UpdateMealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to update meal plan"})
		return
	}

	updates := map[string]interface{}{}
	if req.MealID != nil {
		updates["meal_id"] = *req.MealID
	}
	if req.PlannedDate != nil {
		updates["planned_date"] = *req.PlannedDate
	}
	if req.MealType != nil {
		updates["meal_type"] = *req.MealType
	}
	if req.Completed != nil {
		updates["completed"] = *req.Completed
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(c.Request.Context()).Model(&plan).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update meal plan"})
			return
		}
	}
	c.JSON(http.StatusOK, plan)
}

func (h *MealPlansHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid meal plan id"})
		return
	}

	result := h.db.WithContext(c.Request.Context()).Delete(&models.MealPlan{}, "id = ?", id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete meal plan"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Meal plan not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
