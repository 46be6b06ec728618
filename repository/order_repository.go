package repository

import (
	"context"

	"foodorder/entity"

	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// Create persists the order and its items in a single insert.
func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	return r.DB.WithContext(ctx).Create(o).Error
}

// ListForUser returns the user's orders, newest first.
func (r *OrderRepository) ListForUser(ctx context.Context, userID string, limit int) ([]entity.Order, error) {
	var out []entity.Order
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *OrderRepository) FindForUser(ctx context.Context, userID, orderID string) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", orderID, userID).First(&o).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}
