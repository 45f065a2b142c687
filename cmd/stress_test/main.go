package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rl1809/parts-inventory/internal/adapter/storage"
	"github.com/rl1809/parts-inventory/internal/core/domain"
	"github.com/rl1809/parts-inventory/internal/core/service"
	"github.com/rl1809/parts-inventory/internal/core/validation"
)

const (
	totalRequests  = 200
	duplicateEvery = 4
	workerCount    = 4
	queueSize      = 1000
)

func main() {
	ctx := context.Background()

	// In-process Redis so the run needs no external services
	server, err := miniredis.Run()
	if err != nil {
		log.Fatalf("failed to start redis: %v", err)
	}
	defer server.Close()

	rdb := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer rdb.Close()
	redisAdapter := storage.NewRedisAdapter(rdb)

	inv := domain.NewInventory()
	inventoryService := service.NewInventoryService(inv, redisAdapter, zap.NewNop().Sugar(), queueSize, workerCount)

	var workers sync.WaitGroup
	for i, queue := range inventoryService.Queues() {
		workers.Add(1)
		go func(id int, q <-chan domain.ChangeEvent) {
			defer workers.Done()
			service.Replicate(id, q, nil, redisAdapter, zap.NewNop().Sugar())
		}(i, queue)
	}

	// Counters
	var successCount atomic.Int32
	var duplicateCount atomic.Int32
	var failCount atomic.Int32

	// Spawn concurrent requests; every duplicateEvery-th request reuses the
	// previous request id.
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			requestID := fmt.Sprintf("req-%d", n)
			if n%duplicateEvery == 0 && n > 0 {
				requestID = fmt.Sprintf("req-%d", n-1)
			}
			_, err := inventoryService.AddPart(ctx, requestID, validation.PartDraft{
				Kind:      domain.PartKindInHouse,
				Name:      fmt.Sprintf("Part %d", n),
				Price:     validation.Float(1),
				Stock:     validation.Int(n % 10),
				Min:       validation.Int(0),
				Max:       validation.Int(10),
				MachineID: validation.Int(n),
			})
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrDuplicateRequest):
				duplicateCount.Add(1)
			default:
				failCount.Add(1)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	inventoryService.Close()
	workers.Wait()

	// Results
	success := successCount.Load()
	duplicates := duplicateCount.Load()
	expectedDuplicates := int32((totalRequests - 1) / duplicateEvery)

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Added:            %d\n", success)
	fmt.Printf("Duplicates:       %d\n", duplicates)
	fmt.Printf("Failed:           %d\n", failCount.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if duplicates == expectedDuplicates && success == int32(totalRequests)-expectedDuplicates {
		fmt.Printf("PASS: %d parts added, %d duplicates rejected\n", success, duplicates)
	} else {
		fmt.Printf("FAIL: Expected %d added/%d duplicates, got %d/%d\n",
			int32(totalRequests)-expectedDuplicates, expectedDuplicates, success, duplicates)
	}

	// Ids must be unique and dense
	seen := make(map[int]bool)
	for _, part := range inv.AllParts() {
		seen[part.ID] = true
	}
	if len(seen) == int(success) {
		fmt.Println("PASS: Every part has a distinct id")
	} else {
		fmt.Printf("FAIL: %d distinct ids for %d parts\n", len(seen), success)
	}

	// Verify the stock mirror
	keys, _ := rdb.Keys(ctx, "stock:part:*").Result()
	if len(keys) == int(success) {
		fmt.Printf("PASS: %d stock keys mirrored\n", len(keys))
	} else {
		fmt.Printf("FAIL: Expected %d stock keys, got %d\n", success, len(keys))
	}
}
