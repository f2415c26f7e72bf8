package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hearthplan/backend/internal/middleware"
	"github.com/hearthplan/backend/internal/models"
	"github.com/hearthplan/backend/internal/service"
)

type ShoppingHandler struct {
	db       *gorm.DB
	shopping *service.ShoppingService
}

func NewShoppingHandler(db *gorm.DB, shopping *service.ShoppingService) *ShoppingHandler {
	return &ShoppingHandler{db: db, shopping: shopping}
}

// ListLists returns every shopping list enriched with its items.
func (h *ShoppingHandler) ListLists(c *gin.Context) {
	var lists []models.ShoppingList
	if err := h.db.WithContext(c.Request.Context()).Preload("Items").Find(&lists).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch shopping lists"})
		return
	}
	c.JSON(http.StatusOK, lists)
}

type CreateListRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *ShoppingHandler) CreateList(c *gin.Context) {
	var req CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid shopping list data"})
		return
	}

	list := models.ShoppingList{
		Name:      req.Name,
		CreatedBy: middleware.CurrentUser(c).ID,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create shopping list"})
		return
	}
	c.JSON(http.StatusCreated, list)
}

// DeleteList removes a list and, transactionally, all of its items.
func (h *ShoppingHandler) DeleteList(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid shopping list id"})
		return
	}

	if err := h.shopping.DeleteList(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Shopping list not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete shopping list"})
		return
	}
	c.Status(http.StatusNoContent)
}

type GenerateRequest struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
}

// Generate builds a shopping list from the meal plans in a date range.
func (h *ShoppingHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "startDate and endDate are required"})
		return
	}

	list, err := h.shopping.GenerateFromDateRange(c.Request.Context(), req.StartDate, req.EndDate, middleware.CurrentUser(c).ID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		log.Printf("[ShoppingHandler] generate error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate shopping list"})
		return
	}
	c.JSON(http.StatusCreated, list)
}

type GenerateFromMealsRequest struct {
	MealIDs []uuid.UUID `json:"mealIds" binding:"required"`
}

// GenerateFromMeals builds a shopping list for selected meals with AI help.
func (h *ShoppingHandler) GenerateFromMeals(c *gin.Context) {
	var req GenerateFromMealsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Meal IDs are required"})
		return
	}

	list, err := h.shopping.GenerateFromMeals(c.Request.Context(), req.MealIDs, middleware.CurrentUser(c).ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Meal IDs are required"})
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "No meals found"})
		case errors.Is(err, service.ErrUpstream):
			log.Printf("[ShoppingHandler] AI generation error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate shopping list with AI"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate shopping list"})
		}
		return
	}
	c.JSON(http.StatusCreated, list)
}

type CreateItemRequest struct {
	ListID      uuid.UUID `json:"list_id" binding:"required"`
	Name        string    `json:"name" binding:"required"`
	Quantity    string    `json:"quantity"`
	Category    string    `json:"category"`
	RelatedMeal string    `json:"related_meal"`
}

func (h *ShoppingHandler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid shopping item data"})
		return
	}

	var list models.ShoppingList
	if err := h.db.WithContext(c.Request.Context()).First(&list, "id = ?", req.ListID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Shopping list not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create shopping item"})
		return
	}

	item := models.ShoppingItem{
		ListID:      req.ListID,
		Name:        req.Name,
		Quantity:    req.Quantity,
		Category:    req.Category,
		AddedBy:     middleware.CurrentUser(c).ID,
		RelatedMeal: req.RelatedMeal,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create shopping item"})
		return
	}
	c.JSON(http.StatusCreated, item)
}

type UpdateItemRequest struct {
	Name      *string `json:"name"`
	Quantity  *string `json:"quantity"`
	Category  *string `json:"category"`
	Completed *bool   `json:"completed"`
}

func (h *ShoppingHandler) UpdateItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid shopping item id"})
		return
	}

	var item models.ShoppingItem
	if err := h.db.WithContext(c.Request.Context()).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Shopping item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch shopping item"})
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to update shopping item"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil && *req.Name != "" {
		updates["name"] = *req.Name
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Completed != nil {
		updates["completed"] = *req.Completed
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(c.Request.Context()).Model(&item).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update shopping item"})
			return
		}
	}
	c.JSON(http.StatusOK, item)
}

func (h *ShoppingHandler) DeleteItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid shopping item id"})
		return
	}

	result := h.db.WithContext(c.Request.Context()).Delete(&models.ShoppingItem{}, "id = ?", id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete shopping item"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Shopping item not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
