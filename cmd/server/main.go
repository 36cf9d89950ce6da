package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ordenes/ordersys/internal/adapter/handler"
	"github.com/ordenes/ordersys/internal/adapter/storage"
	"github.com/ordenes/ordersys/internal/config"
	"github.com/ordenes/ordersys/internal/core/domain"
	"github.com/ordenes/ordersys/internal/core/service"
	"github.com/ordenes/ordersys/internal/logger"
	"github.com/ordenes/ordersys/internal/port"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		inventoryRepo port.InventoryRepository
		orderRepo     port.OrderRepository
		clientRepo    port.ClientRepository
		alertLog      port.AlertLogRepository
	)

	switch cfg.Storage.Backend {
	case "mysql":
		db, err := sql.Open("mysql", cfg.Database.DSN())
		if err != nil {
			log.Fatal("failed to open mysql", zap.Error(err))
		}
		defer db.Close()
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

		if err := db.PingContext(ctx); err != nil {
			log.Fatal("failed to ping mysql", zap.Error(err))
		}
		if err := storage.EnsureSchema(ctx, db); err != nil {
			log.Fatal("failed to ensure schema", zap.Error(err))
		}
		log.Info("connected to mysql", zap.String("dbname", cfg.Database.DBName))

		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("failed to connect redis", zap.Error(err))
		}
		log.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))

		inventoryRepo = storage.NewMySQLInventoryRepository(db)
		orderRepo = storage.NewMySQLOrderRepository(db)
		clientRepo = storage.NewMySQLClientRepository(db)
		alertLog = storage.NewRedisAlertLog(rdb)

	case "memory":
		log.Info("using in-memory storage")
		inventoryRepo = storage.NewMemoryInventoryRepository()
		orderRepo = storage.NewMemoryOrderRepository()
		clientRepo = storage.NewMemoryClientRepository()
		alertLog = storage.NewMemoryAlertLog()
	}

	notifier := service.NewNotifier(alertLog, log.Named("notifier"))
	inventoryService := service.NewInventoryService(inventoryRepo, notifier, log.Named("inventory"))
	orderService := service.NewOrderService(inventoryService, orderRepo, log.Named("orders"))
	clientService := service.NewClientService(clientRepo)

	// Surface stock alerts in the service log.
	notifier.On(domain.AlertOutOfStock, func(a domain.Alert) {
		log.Warn("stock alert", zap.String("kind", string(a.Kind)), zap.String("message", a.Message))
	})
	notifier.On(domain.AlertLowStock, func(a domain.Alert) {
		log.Warn("stock alert", zap.String("kind", string(a.Kind)), zap.String("message", a.Message))
	})

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	h := handler.NewHTTPHandler(inventoryService, orderService, clientService, notifier)
	h.Register(router)

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Error("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown error", zap.Error(err))
	}
	log.Info("HTTP server stopped")
}
