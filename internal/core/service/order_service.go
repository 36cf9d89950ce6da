package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ordenes/ordersys/internal/core/domain"
	"github.com/ordenes/ordersys/internal/observer"
	"github.com/ordenes/ordersys/internal/port"
)

// OrderService runs the order state machine. Creation debits stock through
// the inventory coordinator before any order is persisted; cancellation
// credits the stock back and flips the order to its terminal state.
//
// Stock and orders live in separate repositories with no distributed
// transaction between them: a crash after the stock write and before the
// order write leaves stock debited with no order record. Retry policy is the
// caller's concern.
type OrderService struct {
	inventory *InventoryService
	repo      port.OrderRepository
	changes   *observer.Observable[[]domain.Order]
	logger    *zap.Logger
}

func NewOrderService(inventory *InventoryService, repo port.OrderRepository, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		inventory: inventory,
		repo:      repo,
		changes:   observer.New[[]domain.Order](logger),
		logger:    logger,
	}
}

// Subscribe registers an order snapshot listener, notified after every
// successful creation or cancellation.
func (s *OrderService) Subscribe(fn func([]domain.Order)) *observer.Subscription {
	return s.changes.Subscribe(fn)
}

// CreateOrder debits stock for every line item as one logical unit, then
// persists the order in completed state. If the debit fails on any item, no
// order is created and no stock mutation is visible.
func (s *OrderService) CreateOrder(ctx context.Context, clientID uuid.UUID, items []domain.OrderItem) (*domain.Order, error) {
	order, err := domain.NewOrder(clientID, items)
	if err != nil {
		return nil, err
	}

	if err := s.inventory.UpdateStockBatch(ctx, batchItems(items)); err != nil {
		return nil, err
	}

	if err := s.repo.SaveOrder(ctx, *order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("client_id", clientID.String()),
		zap.String("total", order.Total().String()),
	)

	if err := s.publishSnapshot(ctx); err != nil {
		return nil, err
	}
	return order, nil
}

// CancelOrder restores stock for every line item and marks the order
// cancelled. Restoration is unconditional best-effort; the status flip and
// the persisted update happen only after it.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID) error {
	orders, err := s.repo.GetOrders(ctx)
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}

	var order *domain.Order
	for i := range orders {
		if orders[i].ID == orderID {
			order = &orders[i]
			break
		}
	}
	if order == nil {
		return domain.ErrOrderNotFound
	}
	if order.Status == domain.OrderStatusCancelled {
		return domain.ErrAlreadyCancelled
	}

	if err := s.inventory.RestoreStockBatch(ctx, batchItems(order.Items)); err != nil {
		return err
	}

	if err := order.Cancel(); err != nil {
		return err
	}

	if err := s.repo.SaveOrder(ctx, *order); err != nil {
		return fmt.Errorf("save order: %w", err)
	}

	s.logger.Info("order cancelled", zap.String("order_id", orderID.String()))

	return s.publishSnapshot(ctx)
}

// GetHistory returns all persisted orders, unordered. Sorting is a
// presentation concern.
func (s *OrderService) GetHistory(ctx context.Context) ([]domain.Order, error) {
	return s.repo.GetOrders(ctx)
}

func (s *OrderService) publishSnapshot(ctx context.Context) error {
	orders, err := s.repo.GetOrders(ctx)
	if err != nil {
		return fmt.Errorf("reload orders: %w", err)
	}
	s.changes.Publish(orders)
	return nil
}

func batchItems(items []domain.OrderItem) []BatchItem {
	batch := make([]BatchItem, len(items))
	for i, item := range items {
		batch[i] = BatchItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return batch
}
