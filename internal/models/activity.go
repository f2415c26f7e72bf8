package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Activity struct {
	ID           uuid.UUID  `gorm:"type:uuid;primarykey" json:"id"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description,omitempty"`
	StartTime    time.Time  `gorm:"not null" json:"start_time"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	Location     string     `gorm:"size:255" json:"location,omitempty"`
	AssignedTo   *uuid.UUID `gorm:"type:uuid" json:"assigned_to,omitempty"`
	CreatedBy    uuid.UUID  `gorm:"type:uuid" json:"created_by"`
	ActivityType string     `gorm:"size:30;not null" json:"activity_type"`
	Recurring    bool       `gorm:"not null;default:false" json:"recurring"`
	Completed    bool       `gorm:"not null;default:false" json:"completed"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
