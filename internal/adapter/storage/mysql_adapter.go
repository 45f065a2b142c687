package storage

import (
	"database/sql"
)

var mysqlDialect = dialect{
	name: "mysql",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS parts (
			id INT PRIMARY KEY,
			kind VARCHAR(16) NOT NULL,
			name VARCHAR(255) NOT NULL,
			price DOUBLE NOT NULL,
			stock INT NOT NULL,
			min_stock INT NOT NULL,
			max_stock INT NOT NULL,
			machine_id INT NULL,
			company_name VARCHAR(255) NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id INT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			price DOUBLE NOT NULL,
			stock INT NOT NULL,
			min_stock INT NOT NULL,
			max_stock INT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS product_parts (
			product_id INT NOT NULL,
			part_id INT NOT NULL,
			ordinal INT NOT NULL,
			PRIMARY KEY (product_id, part_id),
			INDEX idx_product_parts_part (part_id)
		)`,
		`CREATE TABLE IF NOT EXISTS sequences (
			entity VARCHAR(16) PRIMARY KEY,
			last_id INT NOT NULL
		)`,
	},
	upsertPart: `
		INSERT INTO parts (id, kind, name, price, stock, min_stock, max_stock, machine_id, company_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			kind = VALUES(kind), name = VALUES(name), price = VALUES(price), stock = VALUES(stock),
			min_stock = VALUES(min_stock), max_stock = VALUES(max_stock),
			machine_id = VALUES(machine_id), company_name = VALUES(company_name)`,
	upsertProduct: `
		INSERT INTO products (id, name, price, stock, min_stock, max_stock)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			name = VALUES(name), price = VALUES(price), stock = VALUES(stock),
			min_stock = VALUES(min_stock), max_stock = VALUES(max_stock)`,
	bumpSequence: `
		INSERT INTO sequences (entity, last_id) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE last_id = GREATEST(last_id, VALUES(last_id))`,
}

type MySQLAdapter struct {
	sqlStore
}

// NewMySQLAdapter wraps an open MySQL pool. Call Migrate before first use.
func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{sqlStore{db: db, dialect: mysqlDialect}}
}
