package services_test

import (
	"context"
	"sync"
	"testing"

	"foodorder/entity"
	"foodorder/pkg/testdb"
	"foodorder/repository"
	"foodorder/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	meals  *repository.MealRepository
	carts  *repository.CartRepository
	orders *repository.OrderRepository
	users  *repository.UserRepository
	pub    *recordingPublisher
	cart   *services.CartService
	order  *services.OrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.New(t)
	f := &fixture{
		meals:  repository.NewMealRepository(db),
		carts:  repository.NewCartRepository(db),
		orders: repository.NewOrderRepository(db),
		users:  repository.NewUserRepository(db),
		pub:    &recordingPublisher{},
	}
	f.cart = services.NewCartService(f.carts, f.meals, zap.NewNop())
	f.order = services.NewOrderService(f.orders, f.meals, f.pub, zap.NewNop())
	return f
}

func (f *fixture) meal(t *testing.T, name, price string) *entity.Meal {
	t.Helper()
	m := &entity.Meal{Name: name, Price: decimal.RequireFromString(price)}
	require.NoError(t, f.meals.Create(context.Background(), m))
	return m
}

func (f *fixture) setPrice(t *testing.T, m *entity.Meal, price string) {
	t.Helper()
	m.Price = decimal.RequireFromString(price)
	require.NoError(t, f.meals.Update(context.Background(), m))
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []services.OrderEvent
	err    error
}

func (p *recordingPublisher) PublishOrder(_ context.Context, evt services.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
