package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"foodorder/entity"
	"foodorder/pkg/apperr"

	"github.com/shopspring/decimal"
)

type MealService struct {
	Repo MealRepository
}

func NewMealService(repo MealRepository) *MealService {
	return &MealService{Repo: repo}
}

type CreateMealIn struct {
	Name        string           `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Description string           `json:"description"`
	ImageURL    string           `json:"imageUrl"`
}

// UpdateMealIn is a partial update: nil fields are left alone.
type UpdateMealIn struct {
	Name        *string          `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	ImageURL    *string          `json:"imageUrl"`
}

func (s *MealService) List(ctx context.Context) ([]entity.Meal, error) {
	meals, err := s.Repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if meals == nil {
		meals = []entity.Meal{}
	}
	return meals, nil
}

func (s *MealService) Get(ctx context.Context, id string) (*entity.Meal, error) {
	meal, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, mealErr(err)
	}
	return meal, nil
}

func (s *MealService) Create(ctx context.Context, in CreateMealIn) (*entity.Meal, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Price == nil {
		return nil, fmt.Errorf("name and price are required: %w", apperr.ErrInvalidRequest)
	}
	if err := validatePrice(*in.Price); err != nil {
		return nil, err
	}

	meal := &entity.Meal{
		Name:        name,
		Price:       *in.Price,
		Description: strings.TrimSpace(in.Description),
		ImageURL:    strings.TrimSpace(in.ImageURL),
	}
	if err := s.Repo.Create(ctx, meal); err != nil {
		return nil, err
	}
	return meal, nil
}

func (s *MealService) Update(ctx context.Context, id string, in UpdateMealIn) (*entity.Meal, error) {
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return nil, err
		}
	}

	meal, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, mealErr(err)
	}

	if in.Name != nil {
		if name := strings.TrimSpace(*in.Name); name != "" {
			meal.Name = name
		}
	}
	if in.Price != nil {
		meal.Price = *in.Price
	}
	if in.Description != nil {
		meal.Description = strings.TrimSpace(*in.Description)
	}
	if in.ImageURL != nil {
		meal.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	meal.UpdatedAt = time.Now()

	if err := s.Repo.Update(ctx, meal); err != nil {
		return nil, mealErr(err)
	}
	return meal, nil
}

func (s *MealService) Delete(ctx context.Context, id string) error {
	return mealErr(s.Repo.Delete(ctx, id))
}

// maxPrice is the first amount that no longer fits decimal(12,2).
var maxPrice = decimal.New(1, 10)

func validatePrice(p decimal.Decimal) error {
	switch {
	case p.IsNegative():
		return fmt.Errorf("price must be a non-negative number: %w", apperr.ErrInvalidRequest)
	case !p.Equal(p.Round(2)):
		return fmt.Errorf("price must have at most 2 decimal places: %w", apperr.ErrInvalidRequest)
	case p.GreaterThanOrEqual(maxPrice):
		return fmt.Errorf("price must be below %s: %w", maxPrice.String(), apperr.ErrInvalidRequest)
	}
	return nil
}

func mealErr(err error) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return fmt.Errorf("meal not found: %w", apperr.ErrNotFound)
	}
	return err
}
