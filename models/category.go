package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category represents a tea category.
// Names are unique across the catalog.
type Category struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	Name        string `gorm:"uniqueIndex;size:100;not null"`
	Description string `gorm:"size:1000;not null"`
}

func (c *Category) TableName() string {
	return "categories"
}

// URL is the canonical path of the category.
func (c Category) URL() string {
	return "/catalog/category/" + c.ID
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
