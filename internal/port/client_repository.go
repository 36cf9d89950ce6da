package port

import (
	"context"

	"github.com/ordenes/ordersys/internal/core/domain"
)

type ClientRepository interface {
	SaveClient(ctx context.Context, client domain.Client) error
	GetClients(ctx context.Context) ([]domain.Client, error)
}
