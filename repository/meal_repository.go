package repository

import (
	"context"

	"foodorder/entity"
	"foodorder/pkg/apperr"

	"gorm.io/gorm"
)

type MealRepository struct {
	DB *gorm.DB
}

func NewMealRepository(db *gorm.DB) *MealRepository {
	return &MealRepository{DB: db}
}

func (r *MealRepository) FindAll(ctx context.Context) ([]entity.Meal, error) {
	var meals []entity.Meal
	err := r.DB.WithContext(ctx).Order("created_at ASC").Find(&meals).Error
	return meals, err
}

func (r *MealRepository) FindByID(ctx context.Context, id string) (*entity.Meal, error) {
	var meal entity.Meal
	if err := r.DB.WithContext(ctx).First(&meal, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &meal, nil
}

// FindByIDs loads every meal in ids with one query. Missing ids are simply
// absent from the result.
func (r *MealRepository) FindByIDs(ctx context.Context, ids []string) ([]entity.Meal, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var meals []entity.Meal
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&meals).Error
	return meals, err
}

func (r *MealRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&entity.Meal{}).Count(&n).Error
	return n, err
}

func (r *MealRepository) Create(ctx context.Context, meal *entity.Meal) error {
	return r.DB.WithContext(ctx).Create(meal).Error
}

func (r *MealRepository) Update(ctx context.Context, meal *entity.Meal) error {
	res := r.DB.WithContext(ctx).Model(meal).
		Select("Name", "Price", "Description", "ImageURL", "UpdatedAt").
		Updates(meal)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *MealRepository) Delete(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&entity.Meal{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
