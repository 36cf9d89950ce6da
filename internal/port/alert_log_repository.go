package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/ordenes/ordersys/internal/core/domain"
)

type AlertLogRepository interface {
	// Append adds an alert to the front of the log.
	Append(ctx context.Context, alert domain.Alert) error

	// GetAll returns the full log, most recent first.
	GetAll(ctx context.Context) ([]domain.Alert, error)

	// MarkRead flips the read flag for the given alert. Idempotent; an absent
	// id is a no-op, not an error.
	MarkRead(ctx context.Context, id uuid.UUID) error
}
