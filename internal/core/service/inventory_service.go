package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ordenes/ordersys/internal/core/domain"
	"github.com/ordenes/ordersys/internal/observer"
	"github.com/ordenes/ordersys/internal/port"
)

// BatchItem is one line of a batch stock mutation.
type BatchItem struct {
	ProductID uuid.UUID
	Quantity  int64
}

// InventoryService coordinates batch stock mutation against the repository,
// triggers threshold alerts and republishes the catalog snapshot after every
// mutating operation.
//
// The service assumes a single logical writer. Two batches interleaving
// against the same backing store can lose updates (load-modify-store without
// versioning); callers needing stronger guarantees must serialize access.
type InventoryService struct {
	repo     port.InventoryRepository
	notifier *Notifier
	catalog  *observer.Observable[[]domain.Product]
	policy   domain.AlertPolicy
	logger   *zap.Logger
}

func NewInventoryService(repo port.InventoryRepository, notifier *Notifier, logger *zap.Logger) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{
		repo:     repo,
		notifier: notifier,
		catalog:  observer.New[[]domain.Product](logger),
		policy:   domain.DefaultAlertPolicy(),
		logger:   logger,
	}
}

// Subscribe registers a catalog snapshot listener. Every mutating operation
// publishes the freshly persisted catalog, so listeners never see a
// partially applied batch.
func (s *InventoryService) Subscribe(fn func([]domain.Product)) *observer.Subscription {
	return s.catalog.Subscribe(fn)
}

func (s *InventoryService) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.GetProducts(ctx)
}

func (s *InventoryService) CreateProduct(ctx context.Context, name string, price decimal.Decimal, stock, minStock int64) (*domain.Product, error) {
	product, err := domain.NewProduct(name, price, stock, minStock)
	if err != nil {
		return nil, err
	}

	products, err := s.repo.GetProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	if err := s.repo.SaveProducts(ctx, append(products, *product)); err != nil {
		return nil, fmt.Errorf("save catalog: %w", err)
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
	)

	if err := s.publishSnapshot(ctx); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateStockBatch applies a batch debit with all-or-nothing persistence.
// The catalog is loaded once, every line item is applied to the in-memory
// working set, and only a fully applied batch is written back. Any failure
// discards the working set, leaving the backing store at its pre-call state.
// Threshold alerts are recorded after the debit pass, at most one per
// product, ranked by the alert policy.
func (s *InventoryService) UpdateStockBatch(ctx context.Context, items []BatchItem) error {
	products, err := s.repo.GetProducts(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	affected := make([]*domain.Product, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))

	for _, item := range items {
		product := findProduct(products, item.ProductID)
		if product == nil {
			return fmt.Errorf("%s: %w", item.ProductID, domain.ErrProductNotFound)
		}
		if err := product.Debit(item.Quantity); err != nil {
			return err
		}
		if !seen[product.ID] {
			seen[product.ID] = true
			affected = append(affected, product)
		}
	}

	for _, product := range affected {
		kind, message, ok := s.policy.Evaluate(product)
		if !ok {
			continue
		}
		if _, err := s.notifier.Emit(ctx, kind, message, product.ID); err != nil {
			return err
		}
	}

	if err := s.repo.SaveProducts(ctx, products); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}

	s.logger.Info("stock batch applied", zap.Int("items", len(items)))

	return s.publishSnapshot(ctx)
}

// RestoreStockBatch credits stock back per item. Unlike the strict debit
// path, unmatched product ids are skipped: restoration is best-effort
// compensation and a product removed from the catalog since the order was
// placed must not block cancellation.
func (s *InventoryService) RestoreStockBatch(ctx context.Context, items []BatchItem) error {
	products, err := s.repo.GetProducts(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	for _, item := range items {
		product := findProduct(products, item.ProductID)
		if product == nil {
			s.logger.Warn("restore skipped unknown product",
				zap.String("product_id", item.ProductID.String()),
				zap.Int64("quantity", item.Quantity),
			)
			continue
		}
		if err := product.Credit(item.Quantity); err != nil {
			return err
		}
	}

	if err := s.repo.SaveProducts(ctx, products); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}

	return s.publishSnapshot(ctx)
}

// publishSnapshot re-reads the persisted catalog and hands it to all
// subscribers, so they observe exactly what storage holds.
func (s *InventoryService) publishSnapshot(ctx context.Context) error {
	products, err := s.repo.GetProducts(ctx)
	if err != nil {
		return fmt.Errorf("reload catalog: %w", err)
	}
	s.catalog.Publish(products)
	return nil
}

func findProduct(products []domain.Product, id uuid.UUID) *domain.Product {
	for i := range products {
		if products[i].ID == id {
			return &products[i]
		}
	}
	return nil
}
