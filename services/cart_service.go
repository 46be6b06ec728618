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

// CartService keeps exactly one cart per user. Every mutation is
// read-modify-write of the whole cart under the user's lock, and the
// repository rejects the write if the stored version moved in between.
type CartService struct {
	Carts CartRepository
	Meals MealRepository

	locks *userLocks
	log   *zap.Logger
}

func NewCartService(carts CartRepository, meals MealRepository, log *zap.Logger) *CartService {
	return &CartService{Carts: carts, Meals: meals, locks: newUserLocks(), log: log}
}

type AddToCartIn struct {
	MealID   string `json:"mealId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1,max=1000"` // entity.MaxLineQuantity
}

// CartLineView is a cart line with its meal joined in for display. Meal is
// nil when the meal has since been removed from the catalog.
type CartLineView struct {
	MealID    string          `json:"mealId"`
	Meal      *entity.Meal    `json:"meal"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type CartView struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Items       []CartLineView  `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

func (s *CartService) Get(ctx context.Context, userID string) (*CartView, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	c, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

// AddItem merges quantity into an existing line (keeping its unit price) or
// appends a new line priced at the meal's current price.
func (s *CartService) AddItem(ctx context.Context, userID, mealID string, quantity int) (*CartView, error) {
	if mealID == "" {
		return nil, fmt.Errorf("mealId is required: %w", apperr.ErrInvalidRequest)
	}
	if quantity < 1 || quantity > entity.MaxLineQuantity {
		return nil, errLineQuantity
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	// FindByIDs always reads the store; the snapshot must not come from the
	// meal cache.
	found, err := s.Meals.FindByIDs(ctx, []string{mealID})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, mealErr(apperr.ErrNotFound)
	}
	meal := found[0]

	c, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if i := c.Find(mealID); i >= 0 {
		if c.Items[i].Quantity > entity.MaxLineQuantity-quantity {
			return nil, fmt.Errorf("cart already holds %d of this meal, at most %d allowed: %w",
				c.Items[i].Quantity, entity.MaxLineQuantity, apperr.ErrInvalidRequest)
		}
		c.Items[i].Quantity += quantity
	} else {
		c.Items = append(c.Items, entity.CartItem{
			MealID:    meal.ID,
			Quantity:  quantity,
			UnitPrice: meal.Price,
		})
	}

	if err := s.Carts.Save(ctx, c); err != nil {
		return nil, cartWriteErr(err)
	}
	return s.view(ctx, c)
}

// RemoveItem takes one unit of mealID out of the cart, dropping the line
// when it reaches zero.
func (s *CartService) RemoveItem(ctx context.Context, userID, mealID string) (*CartView, error) {
	if mealID == "" {
		return nil, fmt.Errorf("mealId is required: %w", apperr.ErrInvalidRequest)
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	c, err := s.Carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("cart not found: %w", apperr.ErrNotFound)
		}
		return nil, err
	}

	i := c.Find(mealID)
	if i < 0 {
		return nil, fmt.Errorf("item not found in cart: %w", apperr.ErrNotFound)
	}
	if c.Items[i].Quantity > 1 {
		c.Items[i].Quantity--
	} else {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}

	if err := s.Carts.Save(ctx, c); err != nil {
		return nil, cartWriteErr(err)
	}
	return s.view(ctx, c)
}

// Clear empties the cart, creating it first if the user never had one.
func (s *CartService) Clear(ctx context.Context, userID string) (*CartView, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	c, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(c.Items) > 0 || !c.TotalAmount.IsZero() {
		c.Items = []entity.CartItem{}
		if err := s.Carts.Save(ctx, c); err != nil {
			return nil, cartWriteErr(err)
		}
	}
	return s.view(ctx, c)
}

func (s *CartService) getOrCreate(ctx context.Context, userID string) (*entity.Cart, error) {
	c, err := s.Carts.FindByUser(ctx, userID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	c = &entity.Cart{UserID: userID, Items: []entity.CartItem{}}
	if err := s.Carts.Create(ctx, c); err != nil {
		// another instance may have created it first; the unique index on
		// user id guarantees there is only one to read back
		if existing, ferr := s.Carts.FindByUser(ctx, userID); ferr == nil {
			return existing, nil
		}
		return nil, err
	}
	s.log.Debug("cart created", zap.String("user_id", userID), zap.String("cart_id", c.ID))
	return c, nil
}

// view joins live meal details onto the cart lines. Prices shown per line
// stay the snapshot.
func (s *CartService) view(ctx context.Context, c *entity.Cart) (*CartView, error) {
	ids := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.MealID)
	}
	meals, err := s.Meals.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Meal, len(meals))
	for i := range meals {
		byID[meals[i].ID] = &meals[i]
	}

	lines := make([]CartLineView, 0, len(c.Items))
	for _, it := range c.Items {
		lines = append(lines, CartLineView{
			MealID:    it.MealID,
			Meal:      byID[it.MealID],
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal(),
		})
	}
	return &CartView{ID: c.ID, UserID: c.UserID, Items: lines, TotalAmount: c.TotalAmount}, nil
}

var errLineQuantity = fmt.Errorf("quantity must be between 1 and %d: %w", entity.MaxLineQuantity, apperr.ErrInvalidRequest)

func cartWriteErr(err error) error {
	if errors.Is(err, apperr.ErrConflict) {
		return fmt.Errorf("cart was modified concurrently, retry: %w", apperr.ErrConflict)
	}
	return err
}
