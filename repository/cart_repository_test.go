package repository

import (
	"context"
	"testing"

	"foodorder/entity"
	"foodorder/pkg/apperr"
	"foodorder/pkg/testdb"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartRepository_CreateAndFind(t *testing.T) {
	repo := NewCartRepository(testdb.New(t))
	ctx := context.Background()

	_, err := repo.FindByUser(ctx, "u1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	c := &entity.Cart{UserID: "u1"}
	require.NoError(t, repo.Create(ctx, c))
	assert.NotEmpty(t, c.ID)

	got, err := repo.FindByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Empty(t, got.Items)
	assert.True(t, got.TotalAmount.IsZero())
}

func TestCartRepository_OneCartPerUser(t *testing.T) {
	repo := NewCartRepository(testdb.New(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.Cart{UserID: "u1"}))
	assert.Error(t, repo.Create(ctx, &entity.Cart{UserID: "u1"}))
}

func TestCartRepository_SaveRecomputesTotalAndBumpsVersion(t *testing.T) {
	repo := NewCartRepository(testdb.New(t))
	ctx := context.Background()

	c := &entity.Cart{UserID: "u1"}
	require.NoError(t, repo.Create(ctx, c))

	c.Items = append(c.Items,
		entity.CartItem{MealID: "m1", Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
		entity.CartItem{MealID: "m2", Quantity: 1, UnitPrice: decimal.RequireFromString("4.50")},
	)
	require.NoError(t, repo.Save(ctx, c))
	assert.Equal(t, int64(1), c.Version)

	got, err := repo.FindByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "m1", got.Items[0].MealID)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("24.5").Equal(got.TotalAmount), got.TotalAmount.String())
	assert.Equal(t, int64(1), got.Version)
}

func TestCartRepository_StaleSaveConflicts(t *testing.T) {
	repo := NewCartRepository(testdb.New(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.Cart{UserID: "u1"}))

	first, err := repo.FindByUser(ctx, "u1")
	require.NoError(t, err)
	second, err := repo.FindByUser(ctx, "u1")
	require.NoError(t, err)

	first.Items = []entity.CartItem{{MealID: "m1", Quantity: 1, UnitPrice: decimal.NewFromInt(5)}}
	require.NoError(t, repo.Save(ctx, first))

	second.Items = []entity.CartItem{{MealID: "m2", Quantity: 1, UnitPrice: decimal.NewFromInt(7)}}
	assert.ErrorIs(t, repo.Save(ctx, second), apperr.ErrConflict)

	got, err := repo.FindByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "m1", got.Items[0].MealID, "the losing write must not land")
}
