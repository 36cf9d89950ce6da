package storage

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordenes/ordersys/internal/core/domain"
)

func getRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	t.Cleanup(func() {
		client.Del(context.Background(), alertLogKey)
		client.Close()
	})
	return client
}

func TestRedisAlertLog_AppendAndRead(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	log := NewRedisAlertLog(client)

	client.Del(ctx, alertLogKey)

	first := domain.NewAlert(domain.AlertLowStock, "low stock: Widget (2 left)", uuid.New())
	second := domain.NewAlert(domain.AlertOutOfStock, "out of stock: Widget", uuid.New())
	require.NoError(t, log.Append(ctx, first))
	require.NoError(t, log.Append(ctx, second))

	all, err := log.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "most recent first")
	assert.Equal(t, first.ID, all[1].ID)
	assert.Equal(t, first.Message, all[1].Message)
}

func TestRedisAlertLog_MarkRead(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	log := NewRedisAlertLog(client)

	client.Del(ctx, alertLogKey)

	alert := domain.NewAlert(domain.AlertOutOfStock, "out of stock: Widget", uuid.New())
	require.NoError(t, log.Append(ctx, alert))

	require.NoError(t, log.MarkRead(ctx, alert.ID))

	all, err := log.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Read)

	// Idempotent; unknown ids are a no-op.
	require.NoError(t, log.MarkRead(ctx, alert.ID))
	require.NoError(t, log.MarkRead(ctx, uuid.New()))
}
