package entity

import "github.com/shopspring/decimal"

// MaxLineQuantity caps the quantity of a single cart or order line.
const MaxLineQuantity = 1000

// CartItem has no identity of its own. UnitPrice is the meal price at the
// moment the line was first added.
type CartItem struct {
	MealID    string          `json:"mealId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

func (it CartItem) Subtotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}
