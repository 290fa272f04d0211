// Package archive writes and reads record snapshots: xz-compressed JSON
// files holding the records a resolution produced, so a session can be
// exported and re-imported without a relay.
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ulikunitz/xz"

	"github.com/Silberengel/wikistr-sub007/core/record"
)

// Snapshot is the envelope stored in a snapshot file.
type Snapshot struct {
	CreatedAt int64           `json:"created_at"`
	Citation  string          `json:"citation,omitempty"`
	Records   []record.Record `json:"records"`
}

// Write stores records as an xz-compressed snapshot at path. citation is
// recorded in the envelope for provenance and may be empty.
func Write(path, citation string, records []record.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()

	w, err := xz.NewWriter(f)
	if err != nil {
		return fmt.Errorf("xz writer: %w", err)
	}

	snap := Snapshot{
		CreatedAt: time.Now().Unix(),
		Citation:  citation,
		Records:   records,
	}
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		w.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close xz writer: %w", err)
	}
	return f.Close()
}

// Read loads a snapshot written by Write.
func Read(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	r, err := xz.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("xz reader: %w", err)
	}

	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Verify recomputes every record id in the snapshot and reports the ids
// whose content does not match.
func Verify(snap *Snapshot) []string {
	var bad []string
	for _, rec := range snap.Records {
		if !rec.Verify() {
			bad = append(bad, rec.ID)
		}
	}
	return bad
}
