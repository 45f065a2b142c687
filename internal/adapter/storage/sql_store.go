package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rl1809/parts-inventory/internal/core/domain"
)

// dialect carries the statements that differ between MySQL and SQLite.
type dialect struct {
	name          string
	schema        []string
	upsertPart    string
	upsertProduct string
	bumpSequence  string
}

// Sequence names in the sequences table.
const (
	sequencePart    = "part"
	sequenceProduct = "product"
)

// sqlStore implements port.DatabaseRepository on top of database/sql.
// Product associations live in product_parts ordered by ordinal. The
// sequences table keeps the highest id ever saved per entity, so deleting
// the newest entity does not free its id for the next session. There are
// no foreign keys: replication shards may apply a product before the part it
// references.
type sqlStore struct {
	db      *sql.DB
	dialect dialect
}

func (s *sqlStore) Migrate(ctx context.Context) error {
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s migrate: %w", s.dialect.name, err)
		}
	}
	return nil
}

func (s *sqlStore) SavePart(ctx context.Context, part domain.PartRecord) error {
	var machineID sql.NullInt64
	if part.MachineID != nil {
		machineID = sql.NullInt64{Int64: int64(*part.MachineID), Valid: true}
	}
	var companyName sql.NullString
	if part.Kind == domain.PartKindOutsourced {
		companyName = sql.NullString{String: part.CompanyName, Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.dialect.upsertPart,
		part.ID, string(part.Kind), part.Name, part.Price, part.Stock, part.Min, part.Max,
		machineID, companyName,
	)
	if err != nil {
		return fmt.Errorf("upsert part %d: %w", part.ID, err)
	}
	if _, err := tx.ExecContext(ctx, s.dialect.bumpSequence, sequencePart, part.ID); err != nil {
		return fmt.Errorf("bump part sequence: %w", err)
	}
	return tx.Commit()
}

func (s *sqlStore) DeletePart(ctx context.Context, id int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_parts WHERE part_id = ?`, id); err != nil {
		return fmt.Errorf("delete part %d associations: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM parts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete part %d: %w", id, err)
	}
	return tx.Commit()
}

// SaveProduct upserts the product row and rewrites its association list.
func (s *sqlStore) SaveProduct(ctx context.Context, product domain.ProductRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.dialect.upsertProduct,
		product.ID, product.Name, product.Price, product.Stock, product.Min, product.Max,
	)
	if err != nil {
		return fmt.Errorf("upsert product %d: %w", product.ID, err)
	}
	if _, err := tx.ExecContext(ctx, s.dialect.bumpSequence, sequenceProduct, product.ID); err != nil {
		return fmt.Errorf("bump product sequence: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_parts WHERE product_id = ?`, product.ID); err != nil {
		return fmt.Errorf("clear product %d associations: %w", product.ID, err)
	}
	for ordinal, partID := range product.PartIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO product_parts (product_id, part_id, ordinal)
			VALUES (?, ?, ?)`,
			product.ID, partID, ordinal,
		)
		if err != nil {
			return fmt.Errorf("insert product %d association: %w", product.ID, err)
		}
	}

	return tx.Commit()
}

func (s *sqlStore) DeleteProduct(ctx context.Context, id int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_parts WHERE product_id = ?`, id); err != nil {
		return fmt.Errorf("delete product %d associations: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return tx.Commit()
}

// LoadSnapshot reads every stored entity in id order. Associations that point
// at a missing part are skipped.
func (s *sqlStore) LoadSnapshot(ctx context.Context) (domain.Snapshot, error) {
	snapshot := domain.Snapshot{
		Parts:    []domain.PartRecord{},
		Products: []domain.ProductRecord{},
	}

	partRows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, name, price, stock, min_stock, max_stock, machine_id, company_name
		FROM parts ORDER BY id`)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("query parts: %w", err)
	}
	defer partRows.Close()

	known := make(map[int]bool)
	for partRows.Next() {
		var (
			rec         domain.PartRecord
			kind        string
			machineID   sql.NullInt64
			companyName sql.NullString
		)
		if err := partRows.Scan(&rec.ID, &kind, &rec.Name, &rec.Price, &rec.Stock, &rec.Min, &rec.Max, &machineID, &companyName); err != nil {
			return domain.Snapshot{}, fmt.Errorf("scan part: %w", err)
		}
		rec.Kind = domain.PartKind(kind)
		if machineID.Valid {
			id := int(machineID.Int64)
			rec.MachineID = &id
		}
		rec.CompanyName = companyName.String
		snapshot.Parts = append(snapshot.Parts, rec)
		known[rec.ID] = true
	}
	if err := partRows.Err(); err != nil {
		return domain.Snapshot{}, fmt.Errorf("iterate parts: %w", err)
	}

	productRows, err := s.db.QueryContext(ctx, `
		SELECT id, name, price, stock, min_stock, max_stock
		FROM products ORDER BY id`)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("query products: %w", err)
	}
	defer productRows.Close()

	index := make(map[int]int)
	for productRows.Next() {
		rec := domain.ProductRecord{PartIDs: []int{}}
		if err := productRows.Scan(&rec.ID, &rec.Name, &rec.Price, &rec.Stock, &rec.Min, &rec.Max); err != nil {
			return domain.Snapshot{}, fmt.Errorf("scan product: %w", err)
		}
		index[rec.ID] = len(snapshot.Products)
		snapshot.Products = append(snapshot.Products, rec)
	}
	if err := productRows.Err(); err != nil {
		return domain.Snapshot{}, fmt.Errorf("iterate products: %w", err)
	}

	linkRows, err := s.db.QueryContext(ctx, `
		SELECT product_id, part_id FROM product_parts
		ORDER BY product_id, ordinal`)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("query product parts: %w", err)
	}
	defer linkRows.Close()

	for linkRows.Next() {
		var productID, partID int
		if err := linkRows.Scan(&productID, &partID); err != nil {
			return domain.Snapshot{}, fmt.Errorf("scan product part: %w", err)
		}
		i, ok := index[productID]
		if !ok || !known[partID] {
			continue
		}
		snapshot.Products[i].PartIDs = append(snapshot.Products[i].PartIDs, partID)
	}
	if err := linkRows.Err(); err != nil {
		return domain.Snapshot{}, fmt.Errorf("iterate product parts: %w", err)
	}

	if err := s.loadSequences(ctx, &snapshot); err != nil {
		return domain.Snapshot{}, err
	}
	return snapshot, nil
}

func (s *sqlStore) loadSequences(ctx context.Context, snapshot *domain.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `SELECT entity, last_id FROM sequences`)
	if err != nil {
		return fmt.Errorf("query sequences: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entity string
			lastID int
		)
		if err := rows.Scan(&entity, &lastID); err != nil {
			return fmt.Errorf("scan sequence: %w", err)
		}
		switch entity {
		case sequencePart:
			snapshot.LastPartID = lastID
		case sequenceProduct:
			snapshot.LastProductID = lastID
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate sequences: %w", err)
	}
	return nil
}
