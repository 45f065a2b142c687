package service_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rl1809/parts-inventory/internal/adapter/storage"
	"github.com/rl1809/parts-inventory/internal/core/domain"
	"github.com/rl1809/parts-inventory/internal/core/service"
	"github.com/rl1809/parts-inventory/internal/core/validation"
	"github.com/rl1809/parts-inventory/internal/port"
)

type testEnv struct {
	redis *redis.Client
	cache *storage.RedisAdapter
	db    port.DatabaseRepository
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	rdb := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { rdb.Close() })

	db, err := storage.NewSQLiteAdapter(context.Background(), filepath.Join(t.TempDir(), "inventory.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &testEnv{redis: rdb, cache: storage.NewRedisAdapter(rdb), db: db}
}

// startWorkers runs replication for svc and returns a func that closes the
// service and waits for the queues to drain.
func startWorkers(t *testing.T, svc *service.InventoryService, db port.DatabaseRepository, cache port.CacheRepository) func() {
	logger := zaptest.NewLogger(t).Sugar()
	var wg sync.WaitGroup
	for i, queue := range svc.Queues() {
		wg.Add(1)
		go func(id int, q <-chan domain.ChangeEvent) {
			defer wg.Done()
			service.Replicate(id, q, db, cache, logger)
		}(i, queue)
	}
	return func() {
		svc.Close()
		wg.Wait()
	}
}

func draft(name string, stock int) validation.PartDraft {
	return validation.PartDraft{
		Kind:      domain.PartKindInHouse,
		Name:      name,
		Price:     validation.Float(1.5),
		Stock:     validation.Int(stock),
		Min:       validation.Int(0),
		Max:       validation.Int(100),
		MachineID: validation.Int(3),
	}
}

func TestIntegration_ReplicateAndReload(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	svc := service.NewInventoryService(domain.NewInventory(), env.cache, zaptest.NewLogger(t).Sugar(), 64, 4)
	stop := startWorkers(t, svc, env.db, env.cache)

	require.NoError(t, svc.Seed(ctx, domain.DefaultSnapshot()))
	_, err := svc.AddPart(ctx, "req-fan", draft("Fan", 12))
	require.NoError(t, err)
	require.NoError(t, svc.AssociatePart(ctx, 1, 3))
	require.NoError(t, svc.AssociatePart(ctx, 1, 1))
	_, err = svc.ModifyPart(ctx, 1, validation.PartDraft{
		Kind:        domain.PartKindOutsourced,
		Name:        "Charger",
		Price:       validation.Float(10.99),
		Stock:       validation.Int(90),
		Min:         validation.Int(1),
		Max:         validation.Int(1000),
		CompanyName: "Volt Co",
	})
	require.NoError(t, err)
	require.NoError(t, svc.DeletePart(ctx, 2))
	require.NoError(t, svc.DeleteProduct(ctx, 2))

	want := svc.Snapshot()
	stop()

	// Durable store matches memory
	stored, err := env.db.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, stored)

	reloaded := service.NewInventoryService(domain.NewInventory(), nil, zaptest.NewLogger(t).Sugar(), 0, 0)
	require.NoError(t, reloaded.Load(ctx, stored))
	assert.Equal(t, want, reloaded.Snapshot())

	// Stock mirror
	stock, ok, err := env.cache.Stock(ctx, domain.PartStockKey(1))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 90, stock)

	_, ok, err = env.cache.Stock(ctx, domain.PartStockKey(2))
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = env.cache.Stock(ctx, domain.ProductStockKey(2))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIntegration_IdempotencyPreventsDoubleAdd(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	inv := domain.NewInventory()
	svc := service.NewInventoryService(inv, env.cache, zaptest.NewLogger(t).Sugar(), 64, 2)
	stop := startWorkers(t, svc, env.db, env.cache)

	var successCount atomic.Int32
	var duplicateCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddPart(ctx, "same-request", draft("Bolt", 1))
			switch {
			case err == nil:
				successCount.Add(1)
			case assert.ErrorIs(t, err, domain.ErrDuplicateRequest):
				duplicateCount.Add(1)
			}
		}()
	}
	wg.Wait()
	stop()

	assert.Equal(t, int32(1), successCount.Load())
	assert.Equal(t, int32(49), duplicateCount.Load())
	assert.Len(t, inv.AllParts(), 1)

	stored, err := env.db.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, stored.Parts, 1)
}

func TestIntegration_ConcurrentWorkflows(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	inv := domain.NewInventory()
	svc := service.NewInventoryService(inv, env.cache, zaptest.NewLogger(t).Sugar(), 16, 4)
	stop := startWorkers(t, svc, env.db, env.cache)

	product, err := svc.AddProduct(ctx, "", validation.ProductDraft{
		Name:  "Kit",
		Price: validation.Float(10),
		Stock: validation.Int(1),
		Min:   validation.Int(0),
		Max:   validation.Int(5),
	}, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			part, err := svc.AddPart(ctx, fmt.Sprintf("req-%d", n), draft(fmt.Sprintf("Part %d", n), n))
			if !assert.NoError(t, err) {
				return
			}
			assert.NoError(t, svc.AssociatePart(ctx, product.ID, part.ID))
			svc.SearchParts("part")
			svc.AvailableParts(product.ID, "")
		}(i)
	}
	wg.Wait()
	stop()

	rec, err := svc.Product(product.ID)
	require.NoError(t, err)
	assert.Len(t, rec.PartIDs, 20)

	stored, err := env.db.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, svc.Snapshot(), stored)
}

func TestIntegration_MySQLAndRedis(t *testing.T) {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		mysqlDSN = "root:root@tcp(localhost:3306)/inventory?parseTime=true"
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer rdb.Close()

	sqlDB, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	defer sqlDB.Close()

	ctx := context.Background()
	db := storage.NewMySQLAdapter(sqlDB)
	require.NoError(t, db.Migrate(ctx))

	// Ids well above any seeded data
	inv := domain.NewInventory()
	inv.AddPart(&domain.Part{ID: 800000, Kind: domain.PartKindInHouse, Name: "marker", Min: 0, Max: 1})
	require.True(t, inv.DeletePart(inv.LookupPart(800000)))

	cache := storage.NewRedisAdapter(rdb)
	svc := service.NewInventoryService(inv, cache, zaptest.NewLogger(t).Sugar(), 16, 2)
	stop := startWorkers(t, svc, db, cache)

	part, err := svc.AddPart(ctx, "", draft("Integration Part", 7))
	require.NoError(t, err)
	stop()
	defer func() {
		db.DeletePart(ctx, part.ID)
		cache.DeleteStock(ctx, domain.PartStockKey(part.ID))
	}()

	stored, err := db.LoadSnapshot(ctx)
	require.NoError(t, err)
	var found bool
	for _, p := range stored.Parts {
		if p.ID == part.ID {
			found = true
			assert.Equal(t, 7, p.Stock)
		}
	}
	assert.True(t, found, "part %d not replicated", part.ID)

	stock, ok, err := cache.Stock(ctx, domain.PartStockKey(part.ID))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 7, stock)
}
