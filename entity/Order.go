package entity

import "github.com/shopspring/decimal"

type Order struct {
	Model
	UserID string          `gorm:"index;not null;size:36" json:"userId"`
	Items  []OrderItem     `gorm:"serializer:json;type:text" json:"items"`
	Total  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Status OrderStatus     `gorm:"not null;default:pending" json:"status"`
}
