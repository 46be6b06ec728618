package entity

import "github.com/shopspring/decimal"

type Meal struct {
	Model
	Name        string          `gorm:"not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
}
