package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// slotKey is the fixed key the tracked-brew array lives under in the local
// slot file, mirroring the browser localStorage key of the original client.
const slotKey = "brewshelf.trackedBrews"

// Local persists the anonymous user's tracked brews as a single JSON array
// under a fixed key. Every mutation rewrites the whole slot; there is no
// incremental patching. Read or parse failures are treated as an empty
// collection so a corrupt slot can never wedge the app.
type Local struct {
	path string
}

// NewLocal returns a local slot adapter backed by the file at path.
func NewLocal(path string) *Local {
	return &Local{path: path}
}

type slotFile map[string][]BrewRecord

// List returns the stored tracked-brew records. A missing file yields an
// empty slice; an unreadable or malformed file does too, with a log line.
func (l *Local) List() []BrewRecord {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("store: read local slot %s: %v", l.path, err)
		}
		return nil
	}
	var slot slotFile
	if err := json.Unmarshal(data, &slot); err != nil {
		log.Printf("store: parse local slot %s: %v", l.path, err)
		return nil
	}
	return slot[slotKey]
}

// Save overwrites the slot with the given records.
func (l *Local) Save(records []BrewRecord) error {
	if records == nil {
		records = []BrewRecord{}
	}
	data, err := json.MarshalIndent(slotFile{slotKey: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal local slot: %w", err)
	}
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("store: create local slot directory: %w", err)
		}
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("store: write local slot %s: %w", l.path, err)
	}
	return nil
}

// Create appends a record to the slot.
func (l *Local) Create(rec BrewRecord) error {
	return l.Save(append(l.List(), rec))
}

// Update replaces the record with the same tracking id.
func (l *Local) Update(rec BrewRecord) error {
	records := l.List()
	for i := range records {
		if records[i].TrackingID == rec.TrackingID {
			records[i] = rec
			return l.Save(records)
		}
	}
	return fmt.Errorf("store: local update %s: %w", rec.TrackingID, ErrNotFound)
}

// Delete removes the record with the given tracking id. Deleting an absent
// record is a no-op, matching removal-by-filter in the original client.
func (l *Local) Delete(trackingID string) error {
	records := l.List()
	kept := records[:0]
	for _, r := range records {
		if r.TrackingID != trackingID {
			kept = append(kept, r)
		}
	}
	return l.Save(kept)
}

// Clear removes the slot file entirely. Called after a successful migration
// so the next anonymous session starts fresh.
func (l *Local) Clear() error {
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("store: clear local slot %s: %w", l.path, err)
	}
	return nil
}
