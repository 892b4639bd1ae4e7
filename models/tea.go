package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tea represents a tea in the catalog.
// It belongs to exactly one category and may carry an uploaded picture.
type Tea struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)"`
	Name        string          `gorm:"not null"`
	Description string          `gorm:"not null"`
	CategoryID  string          `gorm:"type:varchar(36);not null;index"`
	Category    Category        `gorm:"foreignKey:CategoryID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity    int             `gorm:"not null"`
	Picture     string
}

func (t *Tea) TableName() string {
	return "teas"
}

// URL is the canonical path of the tea.
func (t Tea) URL() string {
	return "/catalog/tea/" + t.ID
}

func (t *Tea) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
