package storage

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"

	"github.com/rl1809/parts-inventory/internal/core/domain"
)

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/inventory?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	return db
}

// Test rows use ids far above anything the seed data produces.
const mysqlTestID = 900001

func cleanupMySQL(ctx context.Context, db *sql.DB) {
	db.ExecContext(ctx, `DELETE FROM product_parts WHERE product_id = ? OR part_id = ?`, mysqlTestID, mysqlTestID)
	db.ExecContext(ctx, `DELETE FROM parts WHERE id = ?`, mysqlTestID)
	db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, mysqlTestID)
}

func TestMySQLAdapter_SaveAndLoad(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	if err := adapter.Migrate(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	cleanupMySQL(ctx, db)
	defer cleanupMySQL(ctx, db)

	machineID := 4
	part := domain.PartRecord{
		ID: mysqlTestID, Kind: domain.PartKindInHouse, Name: "Test Charger",
		Price: 10.5, Stock: 5, Min: 1, Max: 10, MachineID: &machineID,
	}
	if err := adapter.SavePart(ctx, part); err != nil {
		t.Fatalf("SavePart failed: %v", err)
	}

	// Upsert switches source
	part.Kind = domain.PartKindOutsourced
	part.MachineID = nil
	part.CompanyName = "Acme"
	if err := adapter.SavePart(ctx, part); err != nil {
		t.Fatalf("SavePart upsert failed: %v", err)
	}

	product := domain.ProductRecord{
		ID: mysqlTestID, Name: "Test Router", Price: 99, Stock: 2, Min: 1, Max: 3,
		PartIDs: []int{mysqlTestID},
	}
	if err := adapter.SaveProduct(ctx, product); err != nil {
		t.Fatalf("SaveProduct failed: %v", err)
	}

	snapshot, err := adapter.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	var foundPart *domain.PartRecord
	for i := range snapshot.Parts {
		if snapshot.Parts[i].ID == mysqlTestID {
			foundPart = &snapshot.Parts[i]
		}
	}
	if foundPart == nil {
		t.Fatal("part not found in snapshot")
	}
	if foundPart.Kind != domain.PartKindOutsourced || foundPart.CompanyName != "Acme" || foundPart.MachineID != nil {
		t.Errorf("unexpected part after upsert: %+v", foundPart)
	}

	var foundProduct *domain.ProductRecord
	for i := range snapshot.Products {
		if snapshot.Products[i].ID == mysqlTestID {
			foundProduct = &snapshot.Products[i]
		}
	}
	if foundProduct == nil {
		t.Fatal("product not found in snapshot")
	}
	if len(foundProduct.PartIDs) != 1 || foundProduct.PartIDs[0] != mysqlTestID {
		t.Errorf("expected association with part %d, got %v", mysqlTestID, foundProduct.PartIDs)
	}
}

func TestMySQLAdapter_DeletePartDropsAssociations(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	if err := adapter.Migrate(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	cleanupMySQL(ctx, db)
	defer cleanupMySQL(ctx, db)

	machineID := 1
	adapter.SavePart(ctx, domain.PartRecord{
		ID: mysqlTestID, Kind: domain.PartKindInHouse, Name: "Test Cable", Stock: 1, Min: 0, Max: 2, MachineID: &machineID,
	})
	adapter.SaveProduct(ctx, domain.ProductRecord{
		ID: mysqlTestID, Name: "Test Kit", Stock: 1, Min: 0, Max: 2, PartIDs: []int{mysqlTestID},
	})

	if err := adapter.DeletePart(ctx, mysqlTestID); err != nil {
		t.Fatalf("DeletePart failed: %v", err)
	}

	var count int
	db.QueryRowContext(ctx, `SELECT COUNT(*) FROM product_parts WHERE part_id = ?`, mysqlTestID).Scan(&count)
	if count != 0 {
		t.Errorf("expected associations removed, got %d", count)
	}

	if err := adapter.DeleteProduct(ctx, mysqlTestID); err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}
	db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE id = ?`, mysqlTestID).Scan(&count)
	if count != 0 {
		t.Error("expected product removed")
	}
}
