package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	// OrderStatusPending is transient and never persisted: creation is atomic
	// from the caller's perspective and lands directly in completed.
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderItem records the unit price at the time the order was placed.
type OrderItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Order is an audit record: line items are immutable after creation and the
// only legal status transition is completed -> cancelled.
type Order struct {
	ID        uuid.UUID   `json:"id"`
	ClientID  uuid.UUID   `json:"client_id"`
	Items     []OrderItem `json:"items"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

func NewOrder(clientID uuid.UUID, items []OrderItem) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	copied := make([]OrderItem, len(items))
	copy(copied, items)

	return &Order{
		ID:        uuid.New(),
		ClientID:  clientID,
		Items:     copied,
		Status:    OrderStatusCompleted,
		CreatedAt: time.Now(),
	}, nil
}

// ItemsTotal sums quantity times unit price over a set of line items. Useful
// for pre-checkout cart totals without instantiating an order.
func ItemsTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity)))
	}
	return total
}

// Total is always recomputed from the line items, never trusted from storage.
func (o *Order) Total() decimal.Decimal {
	return ItemsTotal(o.Items)
}

// Cancel flips the order to cancelled. Cancelling twice is an error.
func (o *Order) Cancel() error {
	if o.Status == OrderStatusCancelled {
		return ErrAlreadyCancelled
	}
	o.Status = OrderStatusCancelled
	return nil
}
