package storage

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordenes/ordersys/internal/core/domain"
)

func getMySQLDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/ordersys?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	require.NoError(t, EnsureSchema(context.Background(), db))
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMySQLInventoryRepository_RoundTrip(t *testing.T) {
	db := getMySQLDB(t)
	ctx := context.Background()
	repo := NewMySQLInventoryRepository(db)

	p, err := domain.NewProduct("Test Widget", decimal.NewFromFloat(9.99), 10, 2)
	require.NoError(t, err)
	t.Cleanup(func() { db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, p.ID) })

	require.NoError(t, repo.SaveProducts(ctx, []domain.Product{*p}))

	products, err := repo.GetProducts(ctx)
	require.NoError(t, err)

	var got *domain.Product
	for i := range products {
		if products[i].ID == p.ID {
			got = &products[i]
		}
	}
	require.NotNil(t, got)
	assert.Equal(t, "Test Widget", got.Name)
	assert.True(t, got.Price.Equal(decimal.NewFromFloat(9.99)))
	assert.Equal(t, int64(10), got.Quantity)
	assert.Equal(t, int64(2), got.MinStock)

	// Upsert updates in place.
	got.Quantity = 7
	require.NoError(t, repo.SaveProducts(ctx, []domain.Product{*got}))

	products, err = repo.GetProducts(ctx)
	require.NoError(t, err)
	for _, q := range products {
		if q.ID == p.ID {
			assert.Equal(t, int64(7), q.Quantity)
		}
	}
}

func TestMySQLOrderRepository_RoundTrip(t *testing.T) {
	db := getMySQLDB(t)
	ctx := context.Background()
	repo := NewMySQLOrderRepository(db)

	order, err := domain.NewOrder(uuid.New(), []domain.OrderItem{
		{ProductID: uuid.New(), Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
		{ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.NewFromInt(5)},
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, order.ID)
		db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, order.ID)
	})

	require.NoError(t, repo.SaveOrder(ctx, *order))

	orders, err := repo.GetOrders(ctx)
	require.NoError(t, err)

	var got *domain.Order
	for i := range orders {
		if orders[i].ID == order.ID {
			got = &orders[i]
		}
	}
	require.NotNil(t, got)
	assert.Equal(t, domain.OrderStatusCompleted, got.Status)
	require.Len(t, got.Items, 2)
	assert.True(t, got.Total().Equal(decimal.NewFromInt(25)))

	// Status update via the same save path.
	require.NoError(t, order.Cancel())
	require.NoError(t, repo.SaveOrder(ctx, *order))

	orders, err = repo.GetOrders(ctx)
	require.NoError(t, err)
	for _, o := range orders {
		if o.ID == order.ID {
			assert.Equal(t, domain.OrderStatusCancelled, o.Status)
		}
	}
}
