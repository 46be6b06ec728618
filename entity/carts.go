package entity

import "github.com/shopspring/decimal"

// Cart is one per user. Items live inside the cart record; TotalAmount is
// derived from them and refreshed by Recalculate before every write.
type Cart struct {
	Model
	UserID      string          `gorm:"uniqueIndex;not null;size:36" json:"userId"`
	Items       []CartItem      `gorm:"serializer:json;type:text" json:"items"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
	Version     int64           `gorm:"not null;default:0" json:"-"`
}

// Recalculate sets TotalAmount to the sum of quantity * unitPrice.
func (c *Cart) Recalculate() {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Subtotal())
	}
	c.TotalAmount = total
}

// Find returns the index of the line for mealID, or -1.
func (c *Cart) Find(mealID string) int {
	for i, it := range c.Items {
		if it.MealID == mealID {
			return i
		}
	}
	return -1
}
