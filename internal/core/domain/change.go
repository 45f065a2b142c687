package domain

import (
	"strconv"
	"time"
)

type ChangeKind string

const (
	ChangePartSaved      ChangeKind = "part_saved"
	ChangePartDeleted    ChangeKind = "part_deleted"
	ChangeProductSaved   ChangeKind = "product_saved"
	ChangeProductDeleted ChangeKind = "product_deleted"
)

// ChangeEvent describes one committed mutation, for replication to durable
// storage and the stock cache.
type ChangeEvent struct {
	ID       string
	Kind     ChangeKind
	EntityID int
	Part     *PartRecord
	Product  *ProductRecord
	At       time.Time
}

// StockKey is the cache key mirroring the entity's stock level.
func (e ChangeEvent) StockKey() string {
	switch e.Kind {
	case ChangePartSaved, ChangePartDeleted:
		return PartStockKey(e.EntityID)
	default:
		return ProductStockKey(e.EntityID)
	}
}

func PartStockKey(id int) string {
	return "part:" + strconv.Itoa(id)
}

func ProductStockKey(id int) string {
	return "product:" + strconv.Itoa(id)
}
