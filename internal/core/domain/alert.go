package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type AlertKind string

const (
	AlertOutOfStock AlertKind = "out-of-stock"
	AlertLowStock   AlertKind = "low-stock"
)

// Alert is a persisted record of a stock threshold crossing. Everything but
// the Read flag is immutable once created.
type Alert struct {
	ID        uuid.UUID `json:"id"`
	Kind      AlertKind `json:"kind"`
	Message   string    `json:"message"`
	ProductID uuid.UUID `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
	Read      bool      `json:"read"`
}

func NewAlert(kind AlertKind, message string, productID uuid.UUID) Alert {
	return Alert{
		ID:        uuid.New(),
		Kind:      kind,
		Message:   message,
		ProductID: productID,
		CreatedAt: time.Now(),
		Read:      false,
	}
}

// AlertRule pairs an alert kind with the stock condition that triggers it.
type AlertRule struct {
	Kind    AlertKind
	Matches func(p *Product) bool
	Message func(p *Product) string
}

// AlertPolicy is an ordered list of rules evaluated first-match, so earlier
// kinds take precedence. At most one rule fires per product.
type AlertPolicy []AlertRule

// DefaultAlertPolicy ranks out-of-stock above low-stock.
func DefaultAlertPolicy() AlertPolicy {
	return AlertPolicy{
		{
			Kind:    AlertOutOfStock,
			Matches: func(p *Product) bool { return p.IsOut() },
			Message: func(p *Product) string { return fmt.Sprintf("out of stock: %s", p.Name) },
		},
		{
			Kind:    AlertLowStock,
			Matches: func(p *Product) bool { return p.IsLow() },
			Message: func(p *Product) string { return fmt.Sprintf("low stock: %s (%d left)", p.Name, p.Quantity) },
		},
	}
}

// Evaluate returns the first matching rule's kind and message, or false when
// no rule applies.
func (policy AlertPolicy) Evaluate(p *Product) (AlertKind, string, bool) {
	for _, rule := range policy {
		if rule.Matches(p) {
			return rule.Kind, rule.Message(p), true
		}
	}
	return "", "", false
}
