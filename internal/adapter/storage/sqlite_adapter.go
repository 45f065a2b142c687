package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

var sqliteDialect = dialect{
	name: "sqlite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS parts (
			id INTEGER PRIMARY KEY,
			kind TEXT NOT NULL,
			name TEXT NOT NULL,
			price REAL NOT NULL,
			stock INTEGER NOT NULL,
			min_stock INTEGER NOT NULL,
			max_stock INTEGER NOT NULL,
			machine_id INTEGER,
			company_name TEXT,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			price REAL NOT NULL,
			stock INTEGER NOT NULL,
			min_stock INTEGER NOT NULL,
			max_stock INTEGER NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS product_parts (
			product_id INTEGER NOT NULL,
			part_id INTEGER NOT NULL,
			ordinal INTEGER NOT NULL,
			PRIMARY KEY (product_id, part_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_product_parts_part ON product_parts(part_id)`,
		`CREATE TABLE IF NOT EXISTS sequences (
			entity TEXT PRIMARY KEY,
			last_id INTEGER NOT NULL
		)`,
	},
	upsertPart: `
		INSERT INTO parts (id, kind, name, price, stock, min_stock, max_stock, machine_id, company_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind, name = excluded.name, price = excluded.price, stock = excluded.stock,
			min_stock = excluded.min_stock, max_stock = excluded.max_stock,
			machine_id = excluded.machine_id, company_name = excluded.company_name,
			updated_at = CURRENT_TIMESTAMP`,
	upsertProduct: `
		INSERT INTO products (id, name, price, stock, min_stock, max_stock)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, price = excluded.price, stock = excluded.stock,
			min_stock = excluded.min_stock, max_stock = excluded.max_stock,
			updated_at = CURRENT_TIMESTAMP`,
	bumpSequence: `
		INSERT INTO sequences (entity, last_id) VALUES (?, ?)
		ON CONFLICT(entity) DO UPDATE SET last_id = MAX(last_id, excluded.last_id)`,
}

type SQLiteAdapter struct {
	sqlStore
}

// NewSQLiteAdapter opens (creating if needed) the database file at path and
// applies the schema. Writes go through a single connection.
func NewSQLiteAdapter(ctx context.Context, path string) (*SQLiteAdapter, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	adapter := &SQLiteAdapter{sqlStore{db: db, dialect: sqliteDialect}}
	if err := adapter.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return adapter, nil
}

func (a *SQLiteAdapter) Close() error {
	return a.db.Close()
}
