package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hearthplan/backend/internal/models"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "session_id"

const userContextKey = "current_user"

// SessionResolver maps a session token to its active user. A (nil, nil)
// result means the session is unknown or expired.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*models.User, error)
}

// SessionAuth creates a middleware that resolves the session cookie into a
// user and stores it on the request context.
func SessionAuth(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			c.Abort()
			return
		}

		user, err := resolver.ResolveSession(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to resolve session"})
			c.Abort()
			return
		}
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}

// RequireRole creates a middleware that rejects users whose role is not in
// the allowed set. It must run after SessionAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			c.Abort()
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"message": "Insufficient permissions"})
		c.Abort()
	}
}

// CurrentUser returns the user resolved by SessionAuth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
