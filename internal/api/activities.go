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

type ActivitiesHandler struct {
	db *gorm.DB
}

func NewActivitiesHandler(db *gorm.DB) *ActivitiesHandler {
	return &ActivitiesHandler{db: db}
}

// ActivityResponse is an activity enriched with user summaries.
type ActivityResponse struct {
	models.Activity
	AssignedUser  *UserSummary `json:"assigned_user,omitempty"`
	CreatedByUser *UserSummary `json:"created_by_user,omitempty"`
}

// List returns activities filtered by userId (assignee) or date.
func (h *ActivitiesHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	query := h.db.WithContext(ctx)

	if userID := c.Query("userId"); userID != "" {
		id, err := uuid.Parse(userID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid userId"})
			return
		}
		query = query.Where("assigned_to = ?", id)
	} else if date := c.Query("date"); date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid date"})
			return
		}
		query = query.Where("start_time >= ? AND start_time < ?", day, day.AddDate(0, 0, 1))
	}

	var activities []models.Activity
	if err := query.Order("start_time").Find(&activities).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch activities"})
		return
	}

	enriched := make([]ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		resp := ActivityResponse{Activity: activity}
		if activity.AssignedTo != nil {
			if summary := h.userSummary(c, *activity.AssignedTo); summary != nil {
				resp.AssignedUser = summary
			}
		}
		if summary := h.userSummary(c, activity.CreatedBy); summary != nil {
			resp.CreatedByUser = summary
		}
		enriched = append(enriched, resp)
	}
	c.JSON(http.StatusOK, enriched)
}

func (h *ActivitiesHandler) userSummary(c *gin.Context, id uuid.UUID) *UserSummary {
	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, "id = ?", id).Error; err != nil {
		return nil
	}
	summary := summarize(&user)
	return &summary
}

type CreateActivityRequest struct {
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description"`
	StartTime    time.Time  `json:"start_time" binding:"required"`
	EndTime      *time.Time `json:"end_time"`
	Location     string     `json:"location"`
	AssignedTo   *uuid.UUID `json:"assigned_to"`
	ActivityType string     `json:"activity_type" binding:"required"`
	Recurring    bool       `json:"recurring"`
}

func (h *ActivitiesHandler) Create(c *gin.Context) {
	var req CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid activity data"})
		return
	}

	activity := models.Activity{
		Title:        req.Title,
		Description:  req.Description,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Location:     req.Location,
		AssignedTo:   req.AssignedTo,
		CreatedBy:    middleware.CurrentUser(c).ID,
		ActivityType: req.ActivityType,
		Recurring:    req.Recurring,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&activity).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create activity"})
		return
	}
	c.JSON(http.StatusCreated, activity)
}

type UpdateActivityRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	StartTime    *time.Time `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	Location     *string    `json:"location"`
	AssignedTo   *uuid.UUID `json:"assigned_to"`
	ActivityType *string    `json:"activity_type"`
	Recurring    *bool      `json:"recurring"`
	Completed    *bool      `json:"completed"`
}

func (h *ActivitiesHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid activity id"})
		return
	}

	var activity models.Activity
	if err := h.db.WithContext(c.Request.Context()).First(&activity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Activity not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch activity"})
		return
	}

	var req UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to update activity"})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.StartTime != nil {
		updates["start_time"] = *req.StartTime
	}
	if req.EndTime != nil {
		updates["end_time"] = *req.EndTime
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.AssignedTo != nil {
		updates["assigned_to"] = *req.AssignedTo
	}
	if req.ActivityType != nil {
		updates["activity_type"] = *req.ActivityType
	}
	if req.Recurring != nil {
		updates["recurring"] = *req.Recurring
	}
	if req.Completed != nil {
		updates["completed"] = *req.Completed
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(c.Request.Context()).Model(&activity).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update activity"})
			return
		}
	}
	c.JSON(http.StatusOK, activity)
}

func (h *ActivitiesHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid activity id"})
		return
	}

	result := h.db.WithContext(c.Request.Context()).Delete(&models.Activity{}, "id = ?", id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete activity"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Activity not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
