package services_test

import (
	"context"
	"testing"

	"foodorder/pkg/apperr"
	"foodorder/pkg/testdb"
	"foodorder/repository"
	"foodorder/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMealService(t *testing.T) *services.MealService {
	return services.NewMealService(repository.NewMealRepository(testdb.New(t)))
}

func ptr[T any](v T) *T { return &v }

func TestMealService_CreateAndGet(t *testing.T) {
	svc := newMealService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, services.CreateMealIn{
		Name:        "  Green Bowl ",
		Price:       ptr(dec("18.99")),
		Description: "Quinoa, avocado",
	})
	require.NoError(t, err)
	assert.Equal(t, "Green Bowl", m.Name)
	assert.NotEmpty(t, m.ID)

	got, err := svc.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.Name, got.Name)
	assert.True(t, m.Price.Equal(got.Price))

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMealService_CreateValidation(t *testing.T) {
	svc := newMealService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   services.CreateMealIn
	}{
		{"missing_name", services.CreateMealIn{Price: ptr(dec("1"))}},
		{"blank_name", services.CreateMealIn{Name: "   ", Price: ptr(dec("1"))}},
		{"missing_price", services.CreateMealIn{Name: "Soup"}},
		{"negative_price", services.CreateMealIn{Name: "Soup", Price: ptr(dec("-0.01"))}},
		{"fractional_cents", services.CreateMealIn{Name: "Soup", Price: ptr(dec("4.999"))}},
		{"too_many_digits", services.CreateMealIn{Name: "Soup", Price: ptr(dec("1.000000000000000000000000000000000001"))}},
		{"too_large", services.CreateMealIn{Name: "Soup", Price: ptr(dec("1e7000"))}},
		{"above_column_range", services.CreateMealIn{Name: "Soup", Price: ptr(dec("10000000000"))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
		})
	}

	free, err := svc.Create(ctx, services.CreateMealIn{Name: "Water", Price: ptr(decimal.Zero)})
	require.NoError(t, err)
	assert.True(t, free.Price.IsZero())

	top, err := svc.Create(ctx, services.CreateMealIn{Name: "Caviar", Price: ptr(dec("9999999999.99"))})
	require.NoError(t, err)
	assert.True(t, dec("9999999999.99").Equal(top.Price))
	_, err = svc.Create(ctx, services.CreateMealIn{Name: "Tea", Price: ptr(dec("2.50"))})
	assert.NoError(t, err, "trailing zeros are fine")
}

func TestMealService_UpdatePartial(t *testing.T) {
	svc := newMealService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, services.CreateMealIn{Name: "Burger", Price: ptr(dec("12.99")), Description: "beef"})
	require.NoError(t, err)

	up, err := svc.Update(ctx, m.ID, services.UpdateMealIn{Name: ptr(""), Price: ptr(dec("13.49"))})
	require.NoError(t, err)
	assert.Equal(t, "Burger", up.Name, "empty name keeps the old one")
	assert.Equal(t, "beef", up.Description)
	assert.True(t, dec("13.49").Equal(up.Price))

	got, err := svc.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, dec("13.49").Equal(got.Price))

	_, err = svc.Update(ctx, m.ID, services.UpdateMealIn{Price: ptr(dec("-1"))})
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
	_, err = svc.Update(ctx, m.ID, services.UpdateMealIn{Price: ptr(dec("1e7000"))})
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
	_, err = svc.Update(ctx, "missing", services.UpdateMealIn{Name: ptr("x")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMealService_Delete(t *testing.T) {
	svc := newMealService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, services.CreateMealIn{Name: "Burger", Price: ptr(dec("12.99"))})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, m.ID))
	_, err = svc.Get(ctx, m.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, m.ID), apperr.ErrNotFound)
}
