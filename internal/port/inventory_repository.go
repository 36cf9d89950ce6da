package port

import (
	"context"

	"github.com/ordenes/ordersys/internal/core/domain"
)

type InventoryRepository interface {
	// GetProducts returns the full catalog.
	GetProducts(ctx context.Context) ([]domain.Product, error)

	// SaveProducts persists the given products in a single atomic write.
	SaveProducts(ctx context.Context, products []domain.Product) error
}
