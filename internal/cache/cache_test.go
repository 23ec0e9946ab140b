package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/islamictechbd/ramadan-times/internal/timing"
)

var dhaka = timing.Coordinates{Latitude: 23.8103, Longitude: 90.4125}

func sampleResult() *timing.Result {
	return &timing.Result{
		Fajr:      "04:30 AM",
		Sunrise:   "05:50 AM",
		Dhuhr:     "12:05 PM",
		Asr:       "04:20 PM",
		Maghrib:   "06:45 PM",
		Isha:      "08:00 PM",
		Sehri:     "04:30 AM",
		Iftar:     "06:45 PM",
		NextSehri: "04:29 AM",
		Timezone:  "Asia/Dhaka",
		HijriDate: "1 Ramadan 1447 AH",
	}
}

func dhakaNoon(t *testing.T) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Dhaka")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	return time.Date(2026, 3, 15, 12, 0, 0, 0, loc)
}

func TestStoreThenLoad(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	now := dhakaNoon(t)

	if err := c.Store(dhaka, sampleResult(), now); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got := c.Load(dhaka, now)
	if got == nil {
		t.Fatal("Load returned nil for a fresh entry")
	}
	if got.Fajr != "04:30 AM" || got.Timezone != "Asia/Dhaka" {
		t.Errorf("loaded result = %+v", got)
	}
}

func TestLoadEmptyCache(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.Load(dhaka, dhakaNoon(t)); got != nil {
		t.Errorf("Load on empty cache = %+v, want nil", got)
	}
}

func TestLoadCoordinateMismatch(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	now := dhakaNoon(t)
	if err := c.Store(dhaka, sampleResult(), now); err != nil {
		t.Fatalf("Store: %v", err)
	}

	chittagong := timing.Coordinates{Latitude: 22.3569, Longitude: 91.7832}
	if got := c.Load(chittagong, now); got != nil {
		t.Error("Load returned an entry stored for different coordinates")
	}

	// A sub-epsilon nudge is still the same place.
	nearby := timing.Coordinates{Latitude: dhaka.Latitude + 0.00001, Longitude: dhaka.Longitude}
	if got := c.Load(nearby, now); got == nil {
		t.Error("Load missed for coordinates within the equality epsilon")
	}
}

func TestLoadStaleDay(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	now := dhakaNoon(t)
	if err := c.Store(dhaka, sampleResult(), now); err != nil {
		t.Fatalf("Store: %v", err)
	}

	// Still the same civil day late in the evening.
	if got := c.Load(dhaka, now.Add(11*time.Hour)); got == nil {
		t.Error("Load missed within the same civil day")
	}

	// Past local midnight the entry is stale.
	if got := c.Load(dhaka, now.Add(13*time.Hour)); got != nil {
		t.Error("Load returned an entry from a previous civil day")
	}
}

func TestDayBoundaryUsesResultTimezone(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	now := dhakaNoon(t)
	if err := c.Store(dhaka, sampleResult(), now); err != nil {
		t.Fatalf("Store: %v", err)
	}

	// 23:00 Dhaka on the 15th is already the 15th 17:00 UTC; half a day later
	// UTC is still the 15th but Dhaka has rolled over. The staleness check
	// must follow Dhaka, not the wall clock's own zone.
	pastLocalMidnight := time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC) // 00:30 on the 16th in Dhaka
	if got := c.Load(dhaka, pastLocalMidnight); got != nil {
		t.Error("staleness check did not use the result timezone")
	}
}

func TestStoreReplacesSlot(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	now := dhakaNoon(t)
	if err := c.Store(dhaka, sampleResult(), now); err != nil {
		t.Fatalf("Store: %v", err)
	}

	updated := sampleResult()
	updated.Fajr = "04:31 AM"
	if err := c.Store(dhaka, updated, now); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got := c.Load(dhaka, now)
	if got == nil || got.Fajr != "04:31 AM" {
		t.Errorf("Load after replace = %+v, want updated entry", got)
	}
}

func TestInvalidate(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	now := dhakaNoon(t)
	if err := c.Store(dhaka, sampleResult(), now); err != nil {
		t.Fatalf("Store: %v", err)
	}

	if err := c.Invalidate(); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if got := c.Load(dhaka, now); got != nil {
		t.Error("Load returned an entry after Invalidate")
	}

	// Invalidating an empty cache is fine.
	if err := c.Invalidate(); err != nil {
		t.Errorf("Invalidate on empty cache: %v", err)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "timings.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if got := c.Load(dhaka, dhakaNoon(t)); got != nil {
		t.Error("Load returned a result from a corrupt file")
	}
}

func TestStoreRejectsInvalidTimezone(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := sampleResult()
	r.Timezone = "Not/AZone"
	if err := c.Store(dhaka, r, dhakaNoon(t)); err == nil {
		t.Error("Store accepted a result with an unloadable timezone")
	}
}
