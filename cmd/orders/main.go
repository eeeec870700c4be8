package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/storefrontlab/orders-service/internal/cart"
	"github.com/storefrontlab/orders-service/internal/config"
	"github.com/storefrontlab/orders-service/internal/db"
	"github.com/storefrontlab/orders-service/internal/events"
	httpserver "github.com/storefrontlab/orders-service/internal/http"
	"github.com/storefrontlab/orders-service/internal/metrics"
	"github.com/storefrontlab/orders-service/internal/order"
	"github.com/storefrontlab/orders-service/internal/sequence"
)

func main() {
	cfg := config.Load()

	logger := log.New(os.Stdout, "[orders-service] ", log.LstdFlags|log.Lshortfile)

	if cfg.Database.DSN == "" {
		logger.Fatal("ORDERS_DB_DSN not set")
	}

	if err := db.RunMigrations(cfg.Database.DSN, logger); err != nil {
		logger.Fatalf("run migrations: %v", err)
	}

	database, err := db.Open(cfg.Database.DSN, db.Pool{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Fatalf("open db: %v", err)
	}
	defer database.Close()

	rabbitConn, err := amqp.Dial(cfg.Rabbit.URL)
	if err != nil {
		logger.Fatalf("dial rabbitmq: %v", err)
	}
	defer rabbitConn.Close()

	seqRepo := sequence.NewRepository(database)
	publisher, err := events.NewPublisher(rabbitConn, seqRepo)
	if err != nil {
		logger.Fatalf("create publisher: %v", err)
	}
	defer publisher.Close()

	cartStore := cart.NewStore(database)

	orderRepo := order.NewRepository(database)
	var listCache *order.RedisListCache
	if cfg.Cache.Addr != "" {
		listCache = order.NewRedisListCache(cfg.Cache.Addr, cfg.Cache.TTL)
		defer listCache.Close()
		orderRepo = order.NewCachedRepository(orderRepo, listCache, logger)
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	handler := httpserver.NewRouter(cartStore, orderRepo, publisher, m, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("orders-service listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errCh:
		logger.Fatalf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown error: %v", err)
	}
}
