package storage

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rl1809/parts-inventory/internal/core/domain"
)

// LoadSnapshotFile reads a YAML seed file shaped like domain.Snapshot.
func LoadSnapshotFile(path string) (domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("read seed file: %w", err)
	}

	var snapshot domain.Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return domain.Snapshot{}, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return snapshot, nil
}

// WriteSnapshot encodes snapshot as YAML in the seed file format.
func WriteSnapshot(w io.Writer, snapshot domain.Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snapshot); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return enc.Close()
}
