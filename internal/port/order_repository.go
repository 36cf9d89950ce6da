package port

import (
	"context"

	"github.com/ordenes/ordersys/internal/core/domain"
)

type OrderRepository interface {
	// SaveOrder persists a new order or updates the status of an existing one.
	SaveOrder(ctx context.Context, order domain.Order) error

	// GetOrders returns all persisted orders, unordered.
	GetOrders(ctx context.Context) ([]domain.Order, error)
}
