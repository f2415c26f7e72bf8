package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShoppingList struct {
	ID        uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	CreatedBy uuid.UUID      `gorm:"type:uuid" json:"created_by"`
	Completed bool           `gorm:"not null;default:false" json:"completed"`
	Items     []ShoppingItem `gorm:"foreignKey:ListID" json:"items,omitempty"`
}

func (l *ShoppingList) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

type ShoppingItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	ListID      uuid.UUID `gorm:"type:uuid;not null;index" json:"list_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Quantity    string    `gorm:"size:100" json:"quantity,omitempty"`
	Category    string    `gorm:"size:50" json:"category,omitempty"`
	Completed   bool      `gorm:"not null;default:false" json:"completed"`
	AddedBy     uuid.UUID `gorm:"type:uuid" json:"added_by"`
	RelatedMeal string    `gorm:"size:255" json:"related_meal,omitempty"`
}

func (i *ShoppingItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
