// Package cache persists the single most recent timing resolution across
// process restarts. There is exactly one slot: a new entry replaces the old
// one, and an entry resolved for different coordinates or a previous day is
// a miss.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/islamictechbd/ramadan-times/internal/timing"
)

const timingsFile = "timings.json"

// Cache is a durable single-slot store for the current timing result.
type Cache struct {
	dir string
}

// Entry is the persisted form: the result plus the coordinates and civil
// date it was resolved for.
type Entry struct {
	Coordinates timing.Coordinates `json:"coordinates"`
	Date        string             `json:"date"` // YYYY-MM-DD in the result timezone
	SavedAt     time.Time          `json:"saved_at"`
	Result      timing.Result      `json:"result"`
}

// New creates a Cache rooted at the given directory.
// If dir is empty, it defaults to ~/.cache/ramadan-times/.
func New(dir string) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".cache", "ramadan-times")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}

	return &Cache{dir: dir}, nil
}

// Load returns the cached result if it was resolved for the given
// coordinates on the current civil day in the result's own timezone.
// Returns nil on any miss: no file, coordinate change, or a stale day.
func (c *Cache) Load(coords timing.Coordinates, now time.Time) *timing.Result {
	data, err := os.ReadFile(filepath.Join(c.dir, timingsFile))
	if err != nil {
		return nil
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil
	}

	if !entry.Coordinates.Equal(coords) {
		return nil
	}

	loc, err := entry.Result.Location()
	if err != nil {
		return nil
	}
	if entry.Date != now.In(loc).Format("2006-01-02") {
		return nil
	}

	return &entry.Result
}

// Store writes the result as the new single slot. Writes go through a temp
// file and rename so a reader never observes a partially written entry.
func (c *Cache) Store(coords timing.Coordinates, result *timing.Result, now time.Time) error {
	loc, err := result.Location()
	if err != nil {
		return err
	}

	entry := Entry{
		Coordinates: coords,
		Date:        now.In(loc).Format("2006-01-02"),
		SavedAt:     now,
		Result:      *result,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	path := filepath.Join(c.dir, timingsFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace cache file: %w", err)
	}

	return nil
}

// Invalidate discards the cached slot.
func (c *Cache) Invalidate() error {
	err := os.Remove(filepath.Join(c.dir, timingsFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove cache file: %w", err)
	}
	return nil
}
