package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the inventory aggregate for a single catalog entry. Quantity is
// mutated exclusively through Debit and Credit so the no-negative-stock
// invariant cannot be bypassed. MinStock is fixed at creation.
type Product struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	MinStock  int64           `json:"min_stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func NewProduct(name string, price decimal.Decimal, quantity, minStock int64) (*Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	if price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if quantity < 0 || minStock < 0 {
		return nil, ErrInvalidQuantity
	}

	now := time.Now()
	return &Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     price,
		Quantity:  quantity,
		MinStock:  minStock,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Debit decreases stock by quantity. It either fully succeeds or returns an
// error leaving the quantity unchanged.
func (p *Product) Debit(quantity int64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > p.Quantity {
		return fmt.Errorf("%s: %w", p.Name, ErrInsufficientStock)
	}

	p.Quantity -= quantity
	p.UpdatedAt = time.Now()
	return nil
}

// Credit increases stock by quantity. There is no upper bound.
func (p *Product) Credit(quantity int64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	p.Quantity += quantity
	p.UpdatedAt = time.Now()
	return nil
}

// IsOut reports whether the product is completely out of stock.
func (p *Product) IsOut() bool {
	return p.Quantity == 0
}

// IsLow reports whether stock is above zero but at or below the minimum
// threshold. IsOut and IsLow are mutually exclusive.
func (p *Product) IsLow() bool {
	return p.Quantity > 0 && p.Quantity <= p.MinStock
}
