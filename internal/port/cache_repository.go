package port

import "context"

type CacheRepository interface {
	// SetIdempotency sets a key for idempotency check, returns false if already exists
	SetIdempotency(ctx context.Context, key string) (bool, error)

	// SetStock mirrors the current stock level of a part or product
	SetStock(ctx context.Context, key string, stock int) error

	// DeleteStock drops the mirrored stock level of a deleted entity
	DeleteStock(ctx context.Context, key string) error
}
