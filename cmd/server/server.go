package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/rl1809/parts-inventory/internal/adapter/handler"
	"github.com/rl1809/parts-inventory/internal/adapter/handler/pb"
	"github.com/rl1809/parts-inventory/internal/adapter/storage"
	"github.com/rl1809/parts-inventory/internal/config"
	"github.com/rl1809/parts-inventory/internal/core/domain"
	"github.com/rl1809/parts-inventory/internal/core/service"
	"github.com/rl1809/parts-inventory/internal/port"
)

const shutdownTimeout = 5 * time.Second

func run(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Durable store
	var db port.DatabaseRepository
	if cfg.Storage.Driver != config.DriverMemory {
		store, closeDB, err := openDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeDB()
		db = store
		logger.Infow("connected to database", "driver", cfg.Storage.Driver)
	}

	// Redis
	var cache port.CacheRepository
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect redis: %w", err)
		}
		defer rdb.Close()
		cache = storage.NewRedisAdapter(rdb)
		logger.Infow("connected to redis", "addr", cfg.Redis.Addr)
	}

	shards := 0
	if db != nil || cache != nil {
		shards = cfg.Replication.Workers
	}
	inventoryService := service.NewInventoryService(domain.NewInventory(), cache, logger, cfg.Replication.QueueSize, shards)

	// Start replication workers
	var wg sync.WaitGroup
	for i, queue := range inventoryService.Queues() {
		wg.Add(1)
		go func(id int, q <-chan domain.ChangeEvent) {
			defer wg.Done()
			service.Replicate(id, q, db, cache, logger)
		}(i, queue)
	}
	logger.Infow("started replication workers", "count", shards)
	defer func() {
		inventoryService.Close()
		wg.Wait()
		logger.Info("replication workers stopped")
	}()

	if err := loadInitialData(ctx, cfg, db, inventoryService, logger); err != nil {
		return err
	}

	// gRPC server
	grpcServer := grpc.NewServer()
	pb.RegisterInventoryServiceServer(grpcServer, handler.NewGRPCHandler(inventoryService, logger))
	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	// HTTP server
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.NewHTTPHandler(inventoryService, logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infow("gRPC server listening", "addr", cfg.GRPCAddr)
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		logger.Infow("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warnw("HTTP shutdown", "error", err)
		}
		logger.Info("HTTP server stopped")

		grpcServer.GracefulStop()
		logger.Info("gRPC server stopped")
		return nil
	})

	return g.Wait()
}

// openDatabase connects the configured durable store and applies its schema.
func openDatabase(ctx context.Context, cfg *config.Config) (port.DatabaseRepository, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		adapter, err := storage.NewSQLiteAdapter(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return adapter, func() { adapter.Close() }, nil

	case config.DriverMySQL:
		db, err := sql.Open("mysql", cfg.Storage.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect mysql: %w", err)
		}
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to ping mysql: %w", err)
		}
		adapter := storage.NewMySQLAdapter(db)
		if err := adapter.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return adapter, func() { db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

// loadInitialData restores the durable store into memory, or seeds an empty
// inventory. Seeded entities are replicated like any other change.
func loadInitialData(ctx context.Context, cfg *config.Config, db port.DatabaseRepository, svc *service.InventoryService, logger *zap.SugaredLogger) error {
	if db != nil {
		snapshot, err := db.LoadSnapshot(ctx)
		if err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
		if len(snapshot.Parts) > 0 || len(snapshot.Products) > 0 {
			return svc.Load(ctx, snapshot)
		}
	}

	switch {
	case cfg.Seed.File != "":
		snapshot, err := storage.LoadSnapshotFile(cfg.Seed.File)
		if err != nil {
			return err
		}
		logger.Infow("seeding inventory", "file", cfg.Seed.File)
		return svc.Seed(ctx, snapshot)
	case cfg.Seed.Defaults:
		logger.Info("seeding inventory with defaults")
		return svc.Seed(ctx, domain.DefaultSnapshot())
	default:
		return nil
	}
}
