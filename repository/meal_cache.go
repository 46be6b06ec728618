package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"foodorder/entity"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type mealStore interface {
	FindAll(ctx context.Context) ([]entity.Meal, error)
	FindByID(ctx context.Context, id string) (*entity.Meal, error)
	FindByIDs(ctx context.Context, ids []string) ([]entity.Meal, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, meal *entity.Meal) error
	Update(ctx context.Context, meal *entity.Meal) error
	Delete(ctx context.Context, id string) error
}

// CachedMealRepository keeps single meals in redis (cache-aside). Batch
// lookups and listings always hit the store so order pricing never mixes
// cached and fresh rows.
type CachedMealRepository struct {
	mealStore
	Client *redis.Client
	TTL    time.Duration
	log    *zap.Logger
}

func NewCachedMealRepository(store mealStore, client *redis.Client, ttl time.Duration, log *zap.Logger) *CachedMealRepository {
	return &CachedMealRepository{mealStore: store, Client: client, TTL: ttl, log: log}
}

func (r *CachedMealRepository) MealKey(id string) string {
	return "meal:" + id
}

func (r *CachedMealRepository) FindByID(ctx context.Context, id string) (*entity.Meal, error) {
	key := r.MealKey(id)
	raw, err := r.Client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var meal entity.Meal
		if jerr := json.Unmarshal(raw, &meal); jerr == nil {
			return &meal, nil
		}
	case !errors.Is(err, redis.Nil):
		r.log.Warn("meal cache read failed", zap.String("key", key), zap.Error(err))
	}

	meal, err := r.mealStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payload, jerr := json.Marshal(meal); jerr == nil {
		if serr := r.Client.Set(ctx, key, payload, r.TTL).Err(); serr != nil {
			r.log.Warn("meal cache write failed", zap.String("key", key), zap.Error(serr))
		}
	}
	return meal, nil
}

func (r *CachedMealRepository) Update(ctx context.Context, meal *entity.Meal) error {
	if err := r.mealStore.Update(ctx, meal); err != nil {
		return err
	}
	r.evict(ctx, meal.ID)
	return nil
}

func (r *CachedMealRepository) Delete(ctx context.Context, id string) error {
	if err := r.mealStore.Delete(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

func (r *CachedMealRepository) evict(ctx context.Context, id string) {
	if err := r.Client.Del(ctx, r.MealKey(id)).Err(); err != nil {
		r.log.Warn("meal cache evict failed", zap.String("id", id), zap.Error(err))
	}
}
