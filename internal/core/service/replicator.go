package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/parts-inventory/internal/core/domain"
	"github.com/rl1809/parts-inventory/internal/metrics"
	"github.com/rl1809/parts-inventory/internal/port"
)

const replicateTimeout = 5 * time.Second

// Replicate drains queue until it is closed, writing each change to db and
// mirroring stock levels into cache. Either target may be nil. Failures are
// logged and counted; the in-memory inventory stays authoritative.
func Replicate(worker int, queue <-chan domain.ChangeEvent, db port.DatabaseRepository, cache port.CacheRepository, logger *zap.SugaredLogger) {
	for event := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), replicateTimeout)

		if db != nil {
			if err := applyToDatabase(ctx, db, event); err != nil {
				metrics.ReplicationErrors.WithLabelValues("database").Inc()
				logger.Errorw("replicate to database failed",
					"worker", worker, "event", event.ID, "kind", event.Kind, "entity", event.EntityID, "error", err)
			}
		}
		if cache != nil {
			if err := applyToCache(ctx, cache, event); err != nil {
				metrics.ReplicationErrors.WithLabelValues("cache").Inc()
				logger.Warnw("replicate to cache failed",
					"worker", worker, "event", event.ID, "key", event.StockKey(), "error", err)
			}
		}
		metrics.ReplicationLag.Observe(time.Since(event.At).Seconds())
		logger.Debugw("change replicated", "worker", worker, "event", event.ID, "kind", event.Kind)

		cancel()
	}
}

func applyToDatabase(ctx context.Context, db port.DatabaseRepository, event domain.ChangeEvent) error {
	switch event.Kind {
	case domain.ChangePartSaved:
		return db.SavePart(ctx, *event.Part)
	case domain.ChangePartDeleted:
		return db.DeletePart(ctx, event.EntityID)
	case domain.ChangeProductSaved:
		return db.SaveProduct(ctx, *event.Product)
	case domain.ChangeProductDeleted:
		return db.DeleteProduct(ctx, event.EntityID)
	default:
		return fmt.Errorf("unknown change kind %q", event.Kind)
	}
}

func applyToCache(ctx context.Context, cache port.CacheRepository, event domain.ChangeEvent) error {
	switch event.Kind {
	case domain.ChangePartSaved:
		return cache.SetStock(ctx, event.StockKey(), event.Part.Stock)
	case domain.ChangeProductSaved:
		return cache.SetStock(ctx, event.StockKey(), event.Product.Stock)
	case domain.ChangePartDeleted, domain.ChangeProductDeleted:
		return cache.DeleteStock(ctx, event.StockKey())
	default:
		return fmt.Errorf("unknown change kind %q", event.Kind)
	}
}
