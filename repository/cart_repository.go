package repository

import (
	"context"
	"time"

	"foodorder/entity"
	"foodorder/pkg/apperr"

	"gorm.io/gorm"
)

type CartRepository struct{ DB *gorm.DB }

func NewCartRepository(db *gorm.DB) *CartRepository { return &CartRepository{DB: db} }

func (r *CartRepository) FindByUser(ctx context.Context, userID string) (*entity.Cart, error) {
	var c entity.Cart
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// Create inserts an empty cart. The unique index on user_id rejects a second
// cart for the same user.
func (r *CartRepository) Create(ctx context.Context, c *entity.Cart) error {
	if c.Items == nil {
		c.Items = []entity.CartItem{}
	}
	c.Recalculate()
	return r.DB.WithContext(ctx).Create(c).Error
}

// Save writes the whole cart back if nobody else wrote it since it was read.
// On success c.Version is bumped; a stale version yields apperr.ErrConflict.
func (r *CartRepository) Save(ctx context.Context, c *entity.Cart) error {
	c.Recalculate()
	next := *c
	next.Version = c.Version + 1
	next.UpdatedAt = time.Now()

	res := r.DB.WithContext(ctx).Model(&next).
		Where("version = ?", c.Version).
		Select("Items", "TotalAmount", "Version", "UpdatedAt").
		Updates(&next)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrConflict
	}
	c.Version = next.Version
	c.UpdatedAt = next.UpdatedAt
	return nil
}
