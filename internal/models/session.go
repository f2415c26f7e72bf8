package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is a server-side login session keyed by an opaque token. The
// token is delivered to the client as a cookie; the row is the source of
// truth so sessions survive process restarts.
type Session struct {
	Token     string    `gorm:"size:64;primarykey" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Data      JSONBMap  `gorm:"type:jsonb;not null;default:'{}'" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}

func (Session) TableName() string {
	return "sessions"
}
