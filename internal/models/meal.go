package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
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

	return json.Unmarshal(bytes, a)
}

type Meal struct {
	ID              uuid.UUID        `gorm:"type:uuid;primarykey" json:"id"`
	Name            string           `gorm:"size:255;not null" json:"name"`
	Description     string           `gorm:"type:text" json:"description,omitempty"`
	Cuisine         string           `gorm:"size:50" json:"cuisine,omitempty"`
	Ingredients     JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Instructions    string           `gorm:"type:text" json:"instructions,omitempty"`
	MealType        string           `gorm:"size:20;not null" json:"meal_type"`
	Servings        int              `gorm:"not null;default:4" json:"servings"`
	PrepTimeMinutes int              `json:"prep_time_minutes,omitempty"`
	CreatedBy       uuid.UUID        `gorm:"type:uuid" json:"created_by"`
	Embedding       pgvector.Vector  `gorm:"type:vector(3)" json:"-"`
}

func (m *Meal) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// MealPlan assigns a meal to a calendar date and meal slot for a user.
// PlannedDate is stored as a plain YYYY-MM-DD string, matching how the
// planner UI exchanges dates.
type MealPlan struct {
	ID          uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	MealID      uuid.UUID `gorm:"type:uuid;not null" json:"meal_id"`
	PlannedDate string    `gorm:"size:10;not null;index" json:"planned_date"`
	MealType    string    `gorm:"size:20;not null" json:"meal_type"`
	Completed   bool      `gorm:"not null;default:false" json:"completed"`
}

func (p *MealPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
