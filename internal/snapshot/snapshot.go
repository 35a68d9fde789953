// Package snapshot persists an overlay's pin set and resolved statuses as a
// zstd-compressed CBOR file.
//
// Snapshots are operator tooling (export, offline inspection, seeding demos).
// The live pipeline never reads them: pins reach the engine only through
// SetPins.
package snapshot

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/galhadida80/planpin/pkg/domain"
)

// Snapshot is the on-disk representation of one overlay capture.
type Snapshot struct {
	FloorplanID string                   `cbor:"floorplan_id"`
	TakenAt     time.Time                `cbor:"taken_at"`
	Pins        []domain.Pin             `cbor:"pins"`
	Statuses    map[string]domain.Status `cbor:"statuses"`
}

// Save writes the snapshot to path, overwriting any existing file.
func Save(path string, snap Snapshot) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer file.Close()

	bufWriter := bufio.NewWriterSize(file, 1024*1024)
	enc, err := zstd.NewWriter(bufWriter, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}

	data, err := cbor.Marshal(snap)
	if err != nil {
		enc.Close()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to close encoder: %w", err)
	}
	if err := bufWriter.Flush(); err != nil {
		return fmt.Errorf("failed to flush buffer: %w", err)
	}
	return nil
}

// Load reads a snapshot from path.
func Load(path string) (Snapshot, error) {
	var snap Snapshot

	file, err := os.Open(path)
	if err != nil {
		return snap, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer file.Close()

	dec, err := zstd.NewReader(bufio.NewReaderSize(file, 1024*1024))
	if err != nil {
		return snap, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer dec.Close()

	if err := cbor.NewDecoder(dec).Decode(&snap); err != nil {
		return snap, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	for id, st := range snap.Statuses {
		if !st.Valid() {
			return snap, fmt.Errorf("snapshot holds invalid status %q for pin %s", st, id)
		}
	}
	return snap, nil
}
