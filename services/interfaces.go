package services

import (
	"context"
	"time"

	"foodorder/entity"

	"github.com/shopspring/decimal"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
	CountByEmail(ctx context.Context, email string) (int64, error)
	Create(ctx context.Context, user *entity.User) error
}

type MealRepository interface {
	FindAll(ctx context.Context) ([]entity.Meal, error)
	FindByID(ctx context.Context, id string) (*entity.Meal, error)
	FindByIDs(ctx context.Context, ids []string) ([]entity.Meal, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, meal *entity.Meal) error
	Update(ctx context.Context, meal *entity.Meal) error
	Delete(ctx context.Context, id string) error
}

// CartRepository stores whole carts. Save must fail with apperr.ErrConflict
// when the stored version differs from cart.Version.
type CartRepository interface {
	FindByUser(ctx context.Context, userID string) (*entity.Cart, error)
	Create(ctx context.Context, cart *entity.Cart) error
	Save(ctx context.Context, cart *entity.Cart) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	ListForUser(ctx context.Context, userID string, limit int) ([]entity.Order, error)
	FindForUser(ctx context.Context, userID, orderID string) (*entity.Order, error)
}

const OrderCreatedEvent = "order.created"

// OrderEvent is what gets fanned out after an order is persisted.
type OrderEvent struct {
	Type      string             `json:"type"`
	OrderID   string             `json:"orderId"`
	UserID    string             `json:"userId"`
	Total     decimal.Decimal    `json:"total"`
	Items     []entity.OrderItem `json:"items"`
	CreatedAt time.Time          `json:"createdAt"`
}

type OrderEventPublisher interface {
	PublishOrder(ctx context.Context, evt OrderEvent) error
}
