package services_test

import (
	"context"
	"math"
	"sync"
	"testing"

	"foodorder/entity"
	"foodorder/pkg/apperr"
	"foodorder/repository"
	"foodorder/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func assertTotal(t *testing.T, v *services.CartView) {
	t.Helper()
	sum := decimal.Zero
	for _, it := range v.Items {
		sum = sum.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	assert.True(t, sum.Equal(v.TotalAmount), "total %s != sum of lines %s", v.TotalAmount, sum)
}

func TestCartService_GetCreatesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.cart.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, first.Items)
	assert.True(t, first.TotalAmount.IsZero())

	second, err := f.cart.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestCartService_AddItem_MergeKeepsSnapshotPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := f.meal(t, "Sushi", "10")

	v, err := f.cart.AddItem(ctx, "u1", m1.ID, 2)
	require.NoError(t, err)
	require.Len(t, v.Items, 1)
	assert.True(t, dec("10").Equal(v.Items[0].UnitPrice))
	assertTotal(t, v)

	f.setPrice(t, m1, "15")

	v, err = f.cart.AddItem(ctx, "u1", m1.ID, 1)
	require.NoError(t, err)
	require.Len(t, v.Items, 1)
	assert.Equal(t, 3, v.Items[0].Quantity)
	assert.True(t, dec("10").Equal(v.Items[0].UnitPrice), "merge must not re-snapshot the price")
	assert.True(t, dec("30").Equal(v.TotalAmount), v.TotalAmount.String())
	require.NotNil(t, v.Items[0].Meal)
	assert.True(t, dec("15").Equal(v.Items[0].Meal.Price), "meal details show the live catalog")
}

func TestCartService_AddItem_NewLineUsesCurrentPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := f.meal(t, "Sushi", "10")
	m2 := f.meal(t, "Burger", "12.99")

	_, err := f.cart.AddItem(ctx, "u1", m1.ID, 1)
	require.NoError(t, err)
	f.setPrice(t, m2, "13.49")
	v, err := f.cart.AddItem(ctx, "u1", m2.ID, 2)
	require.NoError(t, err)

	require.Len(t, v.Items, 2)
	assert.Equal(t, m1.ID, v.Items[0].MealID)
	assert.Equal(t, m2.ID, v.Items[1].MealID)
	assert.True(t, dec("13.49").Equal(v.Items[1].UnitPrice))
	assert.True(t, dec("36.98").Equal(v.TotalAmount), v.TotalAmount.String())
	assertTotal(t, v)
}

func TestCartService_AddItem_Invalid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := f.meal(t, "Sushi", "10")

	tests := []struct {
		name     string
		mealID   string
		quantity int
		wantErr  error
	}{
		{"zero_quantity", m1.ID, 0, apperr.ErrInvalidRequest},
		{"negative_quantity", m1.ID, -2, apperr.ErrInvalidRequest},
		{"empty_meal", "", 1, apperr.ErrInvalidRequest},
		{"unknown_meal", "nope", 1, apperr.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.cart.AddItem(ctx, "u1", tt.mealID, tt.quantity)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := f.carts.FindByUser(ctx, "u1")
	assert.ErrorIs(t, err, apperr.ErrNotFound, "failed adds must not write anything")
}

func TestCartService_RemoveItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := f.meal(t, "Sushi", "10")
	m2 := f.meal(t, "Burger", "5")

	_, err := f.cart.AddItem(ctx, "u1", m1.ID, 2)
	require.NoError(t, err)
	_, err = f.cart.AddItem(ctx, "u1", m2.ID, 1)
	require.NoError(t, err)

	v, err := f.cart.RemoveItem(ctx, "u1", m1.ID)
	require.NoError(t, err)
	require.Len(t, v.Items, 2)
	assert.Equal(t, 1, v.Items[0].Quantity, "decrements by exactly one")
	assert.True(t, dec("15").Equal(v.TotalAmount))

	v, err = f.cart.RemoveItem(ctx, "u1", m2.ID)
	require.NoError(t, err)
	require.Len(t, v.Items, 1, "quantity 1 removes the line")
	assert.Equal(t, m1.ID, v.Items[0].MealID)
	assertTotal(t, v)
}

func TestCartService_RemoveItem_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := f.meal(t, "Sushi", "10")

	_, err := f.cart.RemoveItem(ctx, "u1", m1.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound, "no cart yet")

	_, err = f.cart.AddItem(ctx, "u1", m1.ID, 2)
	require.NoError(t, err)
	before, err := f.carts.FindByUser(ctx, "u1")
	require.NoError(t, err)

	_, err = f.cart.RemoveItem(ctx, "u1", "other")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	after, err := f.carts.FindByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, before.Version, after.Version, "cart must be left unmodified")
	assert.Equal(t, before.Items[0].Quantity, after.Items[0].Quantity)
}

func TestCartService_Clear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := f.meal(t, "Sushi", "10")

	v, err := f.cart.Clear(ctx, "fresh")
	require.NoError(t, err)
	assert.Empty(t, v.Items)
	_, err = f.carts.FindByUser(ctx, "fresh")
	assert.NoError(t, err, "clear creates the cart when missing")

	_, err = f.cart.AddItem(ctx, "u1", m1.ID, 3)
	require.NoError(t, err)
	first, err := f.cart.Clear(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, first.Items)
	assert.True(t, first.TotalAmount.IsZero())

	stored, err := f.carts.FindByUser(ctx, "u1")
	require.NoError(t, err)
	version := stored.Version

	second, err := f.cart.Clear(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	stored, err = f.carts.FindByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, version, stored.Version, "second clear is a no-op")
}

func TestCartService_DeletedMealShowsWithoutDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := f.meal(t, "Sushi", "10")

	_, err := f.cart.AddItem(ctx, "u1", m1.ID, 1)
	require.NoError(t, err)
	require.NoError(t, f.meals.Delete(ctx, m1.ID))

	v, err := f.cart.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, v.Items, 1)
	assert.Nil(t, v.Items[0].Meal)
	assert.True(t, dec("10").Equal(v.TotalAmount))
}

func TestCartService_ConcurrentAddsLoseNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := f.meal(t, "Sushi", "2")

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.cart.AddItem(ctx, "u1", m1.ID, 1); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	v, err := f.cart.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, v.Items, 1)
	assert.Equal(t, workers, v.Items[0].Quantity)
	assert.True(t, dec("40").Equal(v.TotalAmount))
}

func TestCartService_AddItem_LineQuantityIsCapped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := f.meal(t, "Sushi", "10")

	_, err := f.cart.AddItem(ctx, "u1", m1.ID, math.MaxInt)
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
	_, err = f.cart.AddItem(ctx, "u1", m1.ID, entity.MaxLineQuantity+1)
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)

	v, err := f.cart.AddItem(ctx, "u1", m1.ID, entity.MaxLineQuantity)
	require.NoError(t, err)
	require.Len(t, v.Items, 1)
	before, err := f.carts.FindByUser(ctx, "u1")
	require.NoError(t, err)

	_, err = f.cart.AddItem(ctx, "u1", m1.ID, 1)
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest, "merging past the cap is rejected")

	after, err := f.carts.FindByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, before.Version, after.Version, "rejected merge must not write")
	require.Len(t, after.Items, 1)
	assert.Equal(t, entity.MaxLineQuantity, after.Items[0].Quantity)
	assert.True(t, dec("10000").Equal(after.TotalAmount), after.TotalAmount.String())
}

// stalePriceMeals answers single lookups with an outdated price, like a
// cache entry that missed its eviction.
type stalePriceMeals struct {
	*repository.MealRepository
	price decimal.Decimal
}

func (s stalePriceMeals) FindByID(ctx context.Context, id string) (*entity.Meal, error) {
	m, err := s.MealRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Price = s.price
	return m, nil
}

func TestCartService_AddItem_SnapshotsStorePrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := f.meal(t, "Sushi", "10")
	f.setPrice(t, m1, "15")

	svc := services.NewCartService(f.carts, stalePriceMeals{MealRepository: f.meals, price: dec("10")}, zap.NewNop())
	v, err := svc.AddItem(ctx, "u1", m1.ID, 2)
	require.NoError(t, err)

	require.Len(t, v.Items, 1)
	assert.True(t, dec("15").Equal(v.Items[0].UnitPrice), v.Items[0].UnitPrice.String())
	assert.True(t, dec("30").Equal(v.TotalAmount))
}
