// Package snapshot is the persistence bridge: it serializes the store's
// full state to a flat JSON file and loads it back at startup. The file is
// a structural round-trip of the in-memory collections plus both counters;
// the core never sees the on-disk format.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/content-feed-api/internal/models"
)

// Writer persists snapshots to a fixed path. Writes go through a temp file
// and a rename so a crash mid-write never leaves a truncated snapshot, and
// an internal mutex serializes concurrent saves.
type Writer struct {
	path string
	log  zerolog.Logger
	mu   sync.Mutex
}

// NewWriter creates a Writer for the given file path.
func NewWriter(path string, log zerolog.Logger) *Writer {
	return &Writer{
		path: path,
		log:  log.With().Str("component", "snapshot").Logger(),
	}
}

// Save writes the snapshot to disk atomically.
func (w *Writer) Save(snap *models.Snapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.save(snap)
}

func (w *Writer) save(snap *models.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(w.path), uuid.New().String()[:8]))
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write snapshot temp file: %w", err)
	}
	if err := os.Rename(tmp, w.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename snapshot into place: %w", err)
	}

	return nil
}

// SaveAsync persists the store's state on a background goroutine. The
// snapshot is captured under the writer's mutex, not at call time, so each
// write reflects the store as of the moment it reaches the file and an
// older goroutine can never overwrite a newer state. A failure to persist
// must not fail the in-flight request, so errors are only logged.
func (w *Writer) SaveAsync(capture func() *models.Snapshot) {
	go func() {
		w.mu.Lock()
		defer w.mu.Unlock()

		if err := w.save(capture()); err != nil {
			w.log.Error().Err(err).Str("path", w.path).Msg("Failed to persist snapshot")
		}
	}()
}

// Load reads a snapshot from the given path. A missing file is not an
// error: it returns (nil, nil) and the caller starts from an empty store.
func Load(path string) (*models.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}

	return &snap, nil
}
