package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCartRecalculate(t *testing.T) {
	c := &Cart{Items: []CartItem{
		{MealID: "m1", Quantity: 3, UnitPrice: decimal.NewFromInt(10)},
		{MealID: "m2", Quantity: 2, UnitPrice: decimal.RequireFromString("2.25")},
	}}
	c.Recalculate()
	assert.True(t, decimal.RequireFromString("34.5").Equal(c.TotalAmount), c.TotalAmount.String())

	c.Items = nil
	c.Recalculate()
	assert.True(t, c.TotalAmount.IsZero())
}

func TestCartFind(t *testing.T) {
	c := &Cart{Items: []CartItem{{MealID: "a"}, {MealID: "b"}}}
	assert.Equal(t, 1, c.Find("b"))
	assert.Equal(t, -1, c.Find("z"))
}
