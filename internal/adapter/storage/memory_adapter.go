package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ordenes/ordersys/internal/core/domain"
)

// In-memory implementations of the repository ports. They are the reference
// model for the persistence semantics (snapshot reads, single atomic write
// per batch) and back the dev mode and the test suites.

type MemoryInventoryRepository struct {
	mu       sync.RWMutex
	products []domain.Product
}

func NewMemoryInventoryRepository() *MemoryInventoryRepository {
	return &MemoryInventoryRepository{}
}

func (r *MemoryInventoryRepository) GetProducts(ctx context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]domain.Product, len(r.products))
	copy(products, r.products)
	return products, nil
}

// SaveProducts replaces the whole catalog in one step, mirroring the
// load-then-rewrite contract of the port.
func (r *MemoryInventoryRepository) SaveProducts(ctx context.Context, products []domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = make([]domain.Product, len(products))
	copy(r.products, products)
	return nil
}

type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders []domain.Order
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{}
}

func (r *MemoryOrderRepository) SaveOrder(ctx context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order.Items = append([]domain.OrderItem(nil), order.Items...)
	for i := range r.orders {
		if r.orders[i].ID == order.ID {
			r.orders[i] = order
			return nil
		}
	}
	r.orders = append(r.orders, order)
	return nil
}

func (r *MemoryOrderRepository) GetOrders(ctx context.Context) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]domain.Order, len(r.orders))
	copy(orders, r.orders)
	for i := range orders {
		orders[i].Items = append([]domain.OrderItem(nil), orders[i].Items...)
	}
	return orders, nil
}

type MemoryClientRepository struct {
	mu      sync.RWMutex
	clients []domain.Client
}

func NewMemoryClientRepository() *MemoryClientRepository {
	return &MemoryClientRepository{}
}

func (r *MemoryClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.clients {
		if r.clients[i].ID == client.ID {
			r.clients[i] = client
			return nil
		}
	}
	r.clients = append(r.clients, client)
	return nil
}

func (r *MemoryClientRepository) GetClients(ctx context.Context) ([]domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]domain.Client, len(r.clients))
	copy(clients, r.clients)
	return clients, nil
}

type MemoryAlertLog struct {
	mu     sync.RWMutex
	alerts []domain.Alert
}

func NewMemoryAlertLog() *MemoryAlertLog {
	return &MemoryAlertLog{}
}

func (r *MemoryAlertLog) Append(ctx context.Context, alert domain.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.alerts = append([]domain.Alert{alert}, r.alerts...)
	return nil
}

func (r *MemoryAlertLog) GetAll(ctx context.Context) ([]domain.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	alerts := make([]domain.Alert, len(r.alerts))
	copy(alerts, r.alerts)
	return alerts, nil
}

func (r *MemoryAlertLog) MarkRead(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.alerts {
		if r.alerts[i].ID == id {
			r.alerts[i].Read = true
			return nil
		}
	}
	return nil
}
