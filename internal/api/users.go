package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hearthplan/backend/internal/middleware"
	"github.com/hearthplan/backend/internal/models"
	"github.com/hearthplan/backend/internal/service"
)

const maxAvatarBytes = 5 << 20

type UsersHandler struct {
	db      *gorm.DB
	auth    *service.AuthService
	avatars *service.AvatarService
}

// NewUsersHandler creates the handler. avatars may be nil when S3 is not
// configured; the avatar endpoint then responds with 503.
func NewUsersHandler(db *gorm.DB, auth *service.AuthService, avatars *service.AvatarService) *UsersHandler {
	return &UsersHandler{db: db, auth: auth, avatars: avatars}
}

func (h *UsersHandler) List(c *gin.Context) {
	var users []models.User
	if err := h.db.WithContext(c.Request.Context()).Order("created_at").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch users"})
		return
	}

	summaries := make([]UserSummary, len(users))
	for i := range users {
		summaries[i] = summarize(&users[i])
	}
	c.JSON(http.StatusOK, summaries)
}

func (h *UsersHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user id"})
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch user"})
		return
	}
	c.JSON(http.StatusOK, summarize(&user))
}

type CreateUserRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Role        string `json:"role"`
	Password    string `json:"password"`
	DateOfBirth string `json:"date_of_birth"`
}

// Create lets a parent add family members. A missing password falls back
// to the starter password the family app hands out to new members.
func (h *UsersHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name and email are required"})
		return
	}

	if req.Password == "" {
		req.Password = "default123"
	}

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrConflict):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create user"})
		}
		return
	}

	caller := middleware.CurrentUser(c)
	updates := map[string]interface{}{}
	if req.DateOfBirth != "" {
		updates["date_of_birth"] = req.DateOfBirth
	}
	if user.Role == models.RoleChild && caller != nil {
		updates["parent_id"] = caller.ID
	}
	if len(updates) > 0 {
		if err := h.db.WithContext(c.Request.Context()).Model(user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create user"})
			return
		}
	}

	c.JSON(http.StatusCreated, summarize(user))
}

type UpdateUserRequest struct {
	Name        *string          `json:"name"`
	Avatar      *string          `json:"avatar"`
	Preferences *models.JSONBMap `json:"preferences"`
}

// Update applies a partial update. Users may update themselves; parents
// may update anyone in the family.
func (h *UsersHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user id"})
		return
	}

	caller := middleware.CurrentUser(c)
	if caller.ID != id && caller.Role != models.RoleParent {
		c.JSON(http.StatusForbidden, gin.H{"message": "Permission denied"})
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch user"})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil && *req.Name != "" {
		updates["name"] = *req.Name
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if req.Preferences != nil {
		updates["preferences"] = *req.Preferences
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(c.Request.Context()).Model(&user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update user"})
			return
		}
	}

	c.JSON(http.StatusOK, summarize(&user))
}

// UploadAvatar stores an avatar image in S3 and records its URL.
func (h *UsersHandler) UploadAvatar(c *gin.Context) {
	if h.avatars == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Avatar storage is not configured"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user id"})
		return
	}

	caller := middleware.CurrentUser(c)
	if caller.ID != id && caller.Role != models.RoleParent {
		c.JSON(http.StatusForbidden, gin.H{"message": "Permission denied"})
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch user"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxAvatarBytes+1))
	if err != nil || len(data) == 0 || len(data) > maxAvatarBytes {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid avatar image"})
		return
	}

	url, err := h.avatars.Upload(c.Request.Context(), user.ID, data, c.ContentType())
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid avatar image"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upload avatar"})
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Model(&user).Update("avatar", url).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update user"})
		return
	}

	user.Avatar = url
	c.JSON(http.StatusOK, summarize(&user))
}
