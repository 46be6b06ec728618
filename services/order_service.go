package services

import (
	"context"
	"errors"
	"fmt"

	"foodorder/entity"
	"foodorder/pkg/apperr"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultOrderListLimit = 50
	maxOrderListLimit     = 200
)

type OrderService struct {
	Orders    OrderRepository
	Meals     MealRepository
	Publisher OrderEventPublisher // optional

	log *zap.Logger
}

func NewOrderService(orders OrderRepository, meals MealRepository, publisher OrderEventPublisher, log *zap.Logger) *OrderService {
	return &OrderService{Orders: orders, Meals: meals, Publisher: publisher, log: log}
}

// ----- DTOs from Controller -----
type OrderItemIn struct {
	MealID   string `json:"mealId"`
	Quantity int    `json:"quantity" binding:"max=1000"` // entity.MaxLineQuantity
}
type CreateOrderReq struct {
	Items []OrderItemIn `json:"items" binding:"dive"`
}

// ----- Create -----

// Create prices every requested line from the current catalog and persists
// a pending order. Lines are not merged: the same meal twice gives two lines.
// The user's cart is left as it is.
func (s *OrderService) Create(ctx context.Context, userID string, req *CreateOrderReq) (*entity.Order, error) {
	if req == nil || len(req.Items) == 0 {
		return nil, fmt.Errorf("order must have at least one item: %w", apperr.ErrInvalidRequest)
	}

	ids := make([]string, 0, len(req.Items))
	seen := make(map[string]struct{}, len(req.Items))
	for _, it := range req.Items {
		if it.MealID == "" {
			return nil, fmt.Errorf("mealId is required for every item: %w", apperr.ErrInvalidRequest)
		}
		if it.Quantity < 1 || it.Quantity > entity.MaxLineQuantity {
			return nil, errLineQuantity
		}
		if _, ok := seen[it.MealID]; !ok {
			seen[it.MealID] = struct{}{}
			ids = append(ids, it.MealID)
		}
	}

	meals, err := s.Meals.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(meals) < len(ids) {
		return nil, fmt.Errorf("one or more items do not exist: %w", apperr.ErrNotFound)
	}
	byID := make(map[string]entity.Meal, len(meals))
	for _, m := range meals {
		byID[m.ID] = m
	}

	total := decimal.Zero
	items := make([]entity.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		meal, ok := byID[it.MealID]
		if !ok {
			return nil, fmt.Errorf("one or more items do not exist: %w", apperr.ErrNotFound)
		}
		line := entity.OrderItem{MealID: meal.ID, Quantity: it.Quantity, UnitPrice: meal.Price}
		total = total.Add(line.Subtotal())
		items = append(items, line)
	}

	order := &entity.Order{
		UserID: userID,
		Items:  items,
		Total:  total,
		Status: entity.OrderPending,
	}
	if err := s.Orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.log.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Int("lines", len(items)),
		zap.String("total", total.String()),
	)
	s.publish(ctx, order)
	return order, nil
}

// publish is best effort: the order is already stored.
func (s *OrderService) publish(ctx context.Context, o *entity.Order) {
	if s.Publisher == nil {
		return
	}
	evt := OrderEvent{
		Type:      OrderCreatedEvent,
		OrderID:   o.ID,
		UserID:    o.UserID,
		Total:     o.Total,
		Items:     o.Items,
		CreatedAt: o.CreatedAt,
	}
	if err := s.Publisher.PublishOrder(ctx, evt); err != nil {
		s.log.Warn("publish order event failed", zap.String("order_id", o.ID), zap.Error(err))
	}
}

// ----- List & Detail -----
func (s *OrderService) ListForUser(ctx context.Context, userID string, limit int) ([]entity.Order, error) {
	if limit <= 0 {
		limit = defaultOrderListLimit
	}
	if limit > maxOrderListLimit {
		limit = maxOrderListLimit
	}
	out, err := s.Orders.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []entity.Order{}
	}
	return out, nil
}

func (s *OrderService) DetailForUser(ctx context.Context, userID, orderID string) (*entity.Order, error) {
	o, err := s.Orders.FindForUser(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("order not found: %w", apperr.ErrNotFound)
		}
		return nil, err
	}
	return o, nil
}
