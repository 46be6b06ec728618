package repository

import (
	"fmt"
	"time"

	"foodorder/entity"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BSON has no encoder for decimal.Decimal, so records are copied through
// these documents with prices stored as Decimal128.

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, ok := primitive.ParseDecimal128FromBigInt(d.Coefficient(), int(d.Exponent()))
	if !ok {
		return primitive.Decimal128{}, fmt.Errorf("amount %s does not fit decimal128", d.String())
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	coef, exp, err := v.BigInt()
	if err != nil {
		return decimal.Zero, fmt.Errorf("stored amount %s: %w", v.String(), err)
	}
	return decimal.NewFromBigInt(coef, int32(exp)), nil
}

type userDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	Password  string    `bson:"password"`
	Role      string    `bson:"role"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func newUserDoc(u *entity.User) userDoc {
	return userDoc{ID: u.ID, Name: u.Name, Email: u.Email, Password: u.Password, Role: u.Role, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

func (d userDoc) entity() *entity.User {
	return &entity.User{
		Model: entity.Model{ID: d.ID, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
		Name:  d.Name, Email: d.Email, Password: d.Password, Role: d.Role,
	}
}

type mealDoc struct {
	ID          string               `bson:"_id"`
	Name        string               `bson:"name"`
	Price       primitive.Decimal128 `bson:"price"`
	Description string               `bson:"description,omitempty"`
	ImageURL    string               `bson:"imageUrl,omitempty"`
	CreatedAt   time.Time            `bson:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt"`
}

func newMealDoc(m *entity.Meal) (mealDoc, error) {
	price, err := toDecimal128(m.Price)
	if err != nil {
		return mealDoc{}, fmt.Errorf("meal %s price: %w", m.ID, err)
	}
	return mealDoc{
		ID: m.ID, Name: m.Name, Price: price, Description: m.Description,
		ImageURL: m.ImageURL, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}, nil
}

func (d mealDoc) entity() (entity.Meal, error) {
	price, err := fromDecimal128(d.Price)
	if err != nil {
		return entity.Meal{}, fmt.Errorf("meal %s price: %w", d.ID, err)
	}
	return entity.Meal{
		Model: entity.Model{ID: d.ID, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
		Name:  d.Name, Price: price, Description: d.Description, ImageURL: d.ImageURL,
	}, nil
}

type lineDoc struct {
	MealID    string               `bson:"mealId"`
	Quantity  int                  `bson:"quantity"`
	UnitPrice primitive.Decimal128 `bson:"unitPrice"`
}

type cartDoc struct {
	ID          string               `bson:"_id"`
	UserID      string               `bson:"userId"`
	Items       []lineDoc            `bson:"items"`
	TotalAmount primitive.Decimal128 `bson:"totalAmount"`
	Version     int64                `bson:"version"`
	CreatedAt   time.Time            `bson:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt"`
}

func newLineDoc(mealID string, quantity int, unitPrice decimal.Decimal) (lineDoc, error) {
	p, err := toDecimal128(unitPrice)
	if err != nil {
		return lineDoc{}, fmt.Errorf("line %s unit price: %w", mealID, err)
	}
	return lineDoc{MealID: mealID, Quantity: quantity, UnitPrice: p}, nil
}

func newCartDoc(c *entity.Cart) (cartDoc, error) {
	items := make([]lineDoc, 0, len(c.Items))
	for _, it := range c.Items {
		line, err := newLineDoc(it.MealID, it.Quantity, it.UnitPrice)
		if err != nil {
			return cartDoc{}, err
		}
		items = append(items, line)
	}
	total, err := toDecimal128(c.TotalAmount)
	if err != nil {
		return cartDoc{}, fmt.Errorf("cart total: %w", err)
	}
	return cartDoc{
		ID: c.ID, UserID: c.UserID, Items: items, TotalAmount: total,
		Version: c.Version, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}, nil
}

func (d cartDoc) entity() (*entity.Cart, error) {
	items := make([]entity.CartItem, 0, len(d.Items))
	for _, it := range d.Items {
		p, err := fromDecimal128(it.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("cart %s: %w", d.ID, err)
		}
		items = append(items, entity.CartItem{MealID: it.MealID, Quantity: it.Quantity, UnitPrice: p})
	}
	total, err := fromDecimal128(d.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("cart %s: %w", d.ID, err)
	}
	return &entity.Cart{
		Model:  entity.Model{ID: d.ID, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
		UserID: d.UserID, Items: items, TotalAmount: total, Version: d.Version,
	}, nil
}

type orderDoc struct {
	ID        string               `bson:"_id"`
	UserID    string               `bson:"userId"`
	Items     []lineDoc            `bson:"items"`
	Total     primitive.Decimal128 `bson:"total"`
	Status    string               `bson:"status"`
	CreatedAt time.Time            `bson:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

func newOrderDoc(o *entity.Order) (orderDoc, error) {
	items := make([]lineDoc, 0, len(o.Items))
	for _, it := range o.Items {
		line, err := newLineDoc(it.MealID, it.Quantity, it.UnitPrice)
		if err != nil {
			return orderDoc{}, err
		}
		items = append(items, line)
	}
	total, err := toDecimal128(o.Total)
	if err != nil {
		return orderDoc{}, fmt.Errorf("order total: %w", err)
	}
	return orderDoc{
		ID: o.ID, UserID: o.UserID, Items: items, Total: total,
		Status: string(o.Status), CreatedAt: o.CreatedAt, UpdatedAt: o.UpdatedAt,
	}, nil
}

func (d orderDoc) entity() (entity.Order, error) {
	items := make([]entity.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		p, err := fromDecimal128(it.UnitPrice)
		if err != nil {
			return entity.Order{}, fmt.Errorf("order %s: %w", d.ID, err)
		}
		items = append(items, entity.OrderItem{MealID: it.MealID, Quantity: it.Quantity, UnitPrice: p})
	}
	total, err := fromDecimal128(d.Total)
	if err != nil {
		return entity.Order{}, fmt.Errorf("order %s: %w", d.ID, err)
	}
	return entity.Order{
		Model:  entity.Model{ID: d.ID, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
		UserID: d.UserID, Items: items, Total: total, Status: entity.OrderStatus(d.Status),
	}, nil
}
