package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/parts-inventory/internal/core/domain"
)

const seedYAML = `
parts:
  - id: 1
    kind: in_house
    name: Charger
    price: 10.99
    stock: 100
    min: 1
    max: 1000
    machine_id: 1
  - id: 2
    kind: outsourced
    name: Cable
    price: 4.99
    stock: 500
    min: 0
    max: 999
    company_name: Acme
products:
  - id: 1
    name: Router
    price: 199.99
    stock: 4
    min: 1
    max: 10
    part_ids: [2]
`

func TestLoadSnapshotFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o644))

	snapshot, err := LoadSnapshotFile(path)
	require.NoError(t, err)

	require.Len(t, snapshot.Parts, 2)
	require.NotNil(t, snapshot.Parts[0].MachineID)
	assert.Equal(t, 1, *snapshot.Parts[0].MachineID)
	assert.Equal(t, domain.PartKindOutsourced, snapshot.Parts[1].Kind)
	assert.Equal(t, "Acme", snapshot.Parts[1].CompanyName)
	require.Len(t, snapshot.Products, 1)
	assert.Equal(t, []int{2}, snapshot.Products[0].PartIDs)

	inv := domain.NewInventory()
	require.NoError(t, inv.Restore(snapshot))
	assert.Len(t, inv.LookupProduct(1).AllAssociatedParts(), 1)
}

func TestLoadSnapshotFile_Errors(t *testing.T) {
	_, err := LoadSnapshotFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("parts: [\n"), 0o644))
	_, err = LoadSnapshotFile(path)
	assert.Error(t, err)
}

func TestWriteSnapshot_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, domain.DefaultSnapshot()))

	path := filepath.Join(t.TempDir(), "export.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	snapshot, err := LoadSnapshotFile(path)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSnapshot(), snapshot)
}
