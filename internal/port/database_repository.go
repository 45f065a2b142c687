package port

import (
	"context"

	"github.com/rl1809/parts-inventory/internal/core/domain"
)

type DatabaseRepository interface {
	// SavePart inserts or replaces the part row
	SavePart(ctx context.Context, part domain.PartRecord) error

	// DeletePart removes the part row; deleting a missing row is not an error
	DeletePart(ctx context.Context, id int) error

	// SaveProduct inserts or replaces the product row and its part associations
	SaveProduct(ctx context.Context, product domain.ProductRecord) error

	// DeleteProduct removes the product row and its part associations
	DeleteProduct(ctx context.Context, id int) error

	// LoadSnapshot reads every part and product, ordered by id
	LoadSnapshot(ctx context.Context) (domain.Snapshot, error)
}
