package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles assignable to a family member.
const (
	RoleParent = "parent"
	RoleCook   = "cook"
	RoleChild  = "child"
	RoleAdmin  = "admin"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleParent, RoleCook, RoleChild, RoleAdmin:
		return true
	}
	return false
}

// JSONBMap is a custom type for handling free-form objects in JSONB
type JSONBMap map[string]interface{}

// Value implements the driver.Valuer interface
func (m JSONBMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface
func (m *JSONBMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONBMap{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, m)
}

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         string     `gorm:"size:20;not null;default:'parent'" json:"role"`
	Name         string     `gorm:"not null" json:"name"`
	Avatar       string     `gorm:"size:255" json:"avatar,omitempty"`
	DateOfBirth  string     `gorm:"size:10" json:"date_of_birth,omitempty"`
	ParentID     *uuid.UUID `gorm:"type:uuid" json:"parent_id,omitempty"`
	Preferences  JSONBMap   `gorm:"type:jsonb;not null;default:'{}'" json:"preferences"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
