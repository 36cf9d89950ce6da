package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ordenes/ordersys/internal/adapter/storage"
	"github.com/ordenes/ordersys/internal/core/domain"
)

type orderFixture struct {
	orders    *OrderService
	inventory *inventoryFixture
	repo      *storage.MemoryOrderRepository
}

func newOrderFixture(t *testing.T, products ...domain.Product) *orderFixture {
	t.Helper()

	inv := newInventoryFixture(t, products...)
	repo := storage.NewMemoryOrderRepository()
	return &orderFixture{
		orders:    NewOrderService(inv.svc, repo, zap.NewNop()),
		inventory: inv,
		repo:      repo,
	}
}

func orderItem(id uuid.UUID, qty int64, price int64) domain.OrderItem {
	return domain.OrderItem{ProductID: id, Quantity: qty, UnitPrice: decimal.NewFromInt(price)}
}

func TestCreateOrder_CheckoutScenario(t *testing.T) {
	ctx := context.Background()
	p1 := makeProduct(t, "P1", 5, 1)
	p2 := makeProduct(t, "P2", 2, 1)
	f := newOrderFixture(t, p1, p2)
	clientID := uuid.New()

	order, err := f.orders.CreateOrder(ctx, clientID, []domain.OrderItem{
		orderItem(p1.ID, 3, 10),
		orderItem(p2.ID, 1, 5),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, order.Status)
	assert.True(t, order.Total().Equal(decimal.NewFromInt(35)), "total = %s", order.Total())
	assert.Equal(t, int64(2), quantityOf(t, f.inventory, p1.ID))
	assert.Equal(t, int64(1), quantityOf(t, f.inventory, p2.ID))

	history, err := f.orders.GetHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, order.ID, history[0].ID)
	assert.Equal(t, clientID, history[0].ClientID)
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.orders.CreateOrder(context.Background(), uuid.New(), nil)

	assert.ErrorIs(t, err, domain.ErrEmptyOrder)
}

func TestCreateOrder_FailedDebitCreatesNothing(t *testing.T) {
	ctx := context.Background()
	p1 := makeProduct(t, "P1", 5, 1)
	f := newOrderFixture(t, p1)

	_, err := f.orders.CreateOrder(ctx, uuid.New(), []domain.OrderItem{
		orderItem(p1.ID, 2, 10),
		orderItem(uuid.New(), 1, 5),
	})

	require.ErrorIs(t, err, domain.ErrProductNotFound)

	// No order record, no stock mutation.
	history, err := f.orders.GetHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Equal(t, int64(5), quantityOf(t, f.inventory, p1.ID))
}

func TestCreateOrder_InsufficientStockCreatesNothing(t *testing.T) {
	ctx := context.Background()
	p1 := makeProduct(t, "P1", 2, 1)
	f := newOrderFixture(t, p1)

	_, err := f.orders.CreateOrder(ctx, uuid.New(), []domain.OrderItem{
		orderItem(p1.ID, 3, 10),
	})

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(2), quantityOf(t, f.inventory, p1.ID))
}

func TestCancelOrder(t *testing.T) {
	ctx := context.Background()
	p1 := makeProduct(t, "P1", 5, 1)
	p2 := makeProduct(t, "P2", 2, 1)
	f := newOrderFixture(t, p1, p2)

	order, err := f.orders.CreateOrder(ctx, uuid.New(), []domain.OrderItem{
		orderItem(p1.ID, 3, 10),
		orderItem(p2.ID, 1, 5),
	})
	require.NoError(t, err)

	require.NoError(t, f.orders.CancelOrder(ctx, order.ID))

	// Stock restored, status flipped, record retained.
	assert.Equal(t, int64(5), quantityOf(t, f.inventory, p1.ID))
	assert.Equal(t, int64(2), quantityOf(t, f.inventory, p2.ID))

	history, err := f.orders.GetHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.OrderStatusCancelled, history[0].Status)

	// Cancelling twice fails and leaves stock alone.
	err = f.orders.CancelOrder(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
	assert.Equal(t, int64(5), quantityOf(t, f.inventory, p1.ID))
}

func TestCancelOrder_NotFound(t *testing.T) {
	f := newOrderFixture(t)

	err := f.orders.CancelOrder(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestCancelOrder_RestoresEvenWhenProductRemoved(t *testing.T) {
	ctx := context.Background()
	p1 := makeProduct(t, "P1", 5, 1)
	p2 := makeProduct(t, "P2", 2, 1)
	f := newOrderFixture(t, p1, p2)

	order, err := f.orders.CreateOrder(ctx, uuid.New(), []domain.OrderItem{
		orderItem(p1.ID, 1, 10),
		orderItem(p2.ID, 1, 5),
	})
	require.NoError(t, err)

	// Catalog management removed p2 in the meantime.
	remaining, err := f.inventory.repo.GetProducts(ctx)
	require.NoError(t, err)
	kept := remaining[:0]
	for _, p := range remaining {
		if p.ID != p2.ID {
			kept = append(kept, p)
		}
	}
	require.NoError(t, f.inventory.repo.SaveProducts(ctx, kept))

	// Cancellation still succeeds; the missing product is skipped.
	require.NoError(t, f.orders.CancelOrder(ctx, order.ID))
	assert.Equal(t, int64(5), quantityOf(t, f.inventory, p1.ID))
}

func TestOrderService_PublishesSnapshots(t *testing.T) {
	ctx := context.Background()
	p1 := makeProduct(t, "P1", 5, 1)
	f := newOrderFixture(t, p1)

	var snapshots [][]domain.Order
	f.orders.Subscribe(func(orders []domain.Order) { snapshots = append(snapshots, orders) })

	order, err := f.orders.CreateOrder(ctx, uuid.New(), []domain.OrderItem{orderItem(p1.ID, 1, 10)})
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	require.Len(t, snapshots[0], 1)
	assert.Equal(t, domain.OrderStatusCompleted, snapshots[0][0].Status)

	require.NoError(t, f.orders.CancelOrder(ctx, order.ID))
	require.Len(t, snapshots, 2)
	assert.Equal(t, domain.OrderStatusCancelled, snapshots[1][0].Status)
}
