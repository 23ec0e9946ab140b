// Package settings owns the app-wide timing state: the current coordinates
// and the result resolved for them. It is an explicit store passed by
// reference to whoever needs it, with one rule: changing coordinates
// invalidates the result and any resolution that was started for the old
// coordinates.
package settings

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/islamictechbd/ramadan-times/internal/cache"
	"github.com/islamictechbd/ramadan-times/internal/timing"
)

// ErrSuperseded marks a resolution whose originating coordinates were
// replaced before it completed. The caller discards the value and waits for
// the resolution issued for the new coordinates.
var ErrSuperseded = errors.New("resolution superseded by coordinate change")

// ErrNoCoordinates is returned by Resolve before any coordinates are set.
var ErrNoCoordinates = errors.New("no coordinates set")

// Store holds coordinates and the timing result resolved for them.
// Safe for concurrent use; a single variable assignment publishes each new
// result so readers never observe a partial write.
type Store struct {
	mu         sync.Mutex
	coords     timing.Coordinates
	hasCoords  bool
	result     *timing.Result
	generation uint64

	provider timing.Provider
	cache    *cache.Cache
	clock    timing.Clock
}

// New builds a store around a provider chain and an optional durable cache.
func New(provider timing.Provider, c *cache.Cache) *Store {
	return &Store{provider: provider, cache: c, clock: timing.System}
}

// SetClock overrides the time source; used by tests.
func (s *Store) SetClock(c timing.Clock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = c
}

// SetCoordinates captures a new coordinate pair. If it differs from a
// previously set one, the held result is dropped, the durable cache
// invalidated, and the generation bumped so in-flight resolutions for the
// old coordinates are discarded on completion. The first set on a fresh
// store leaves the durable cache alone so an entry from an earlier process
// run can still be served.
func (s *Store) SetCoordinates(c timing.Coordinates) error {
	if err := c.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasCoords && s.coords.Equal(c) {
		return nil
	}
	changed := s.hasCoords
	s.coords = c
	s.hasCoords = true
	s.result = nil
	s.generation++
	if changed && s.cache != nil {
		if err := s.cache.Invalidate(); err != nil {
			log.Warn().Err(err).Msg("cache invalidation failed")
		}
	}
	return nil
}

// Coordinates returns the current coordinate pair, if one was set.
func (s *Store) Coordinates() (timing.Coordinates, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coords, s.hasCoords
}

// Result returns the current timing result, or nil while unresolved.
func (s *Store) Result() *timing.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Resolve produces a fresh result for the current coordinates, consulting
// the durable cache first. A resolution that completes after the
// coordinates changed is discarded and reported as ErrSuperseded.
func (s *Store) Resolve(ctx context.Context) (*timing.Result, error) {
	s.mu.Lock()
	if !s.hasCoords {
		s.mu.Unlock()
		return nil, ErrNoCoordinates
	}
	coords := s.coords
	gen := s.generation
	s.mu.Unlock()

	now := s.clock.Now()

	if s.cache != nil {
		if cached := s.cache.Load(coords, now); cached != nil {
			return s.commit(cached, coords, gen, now, false)
		}
	}

	result, err := s.provider.Resolve(ctx, coords, now)
	if err != nil {
		return nil, err
	}
	return s.commit(result, coords, gen, now, true)
}

// commit installs a resolved result unless the generation moved on.
func (s *Store) commit(result *timing.Result, coords timing.Coordinates, gen uint64, now time.Time, persist bool) (*timing.Result, error) {
	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		log.Debug().
			Float64("lat", coords.Latitude).
			Float64("lon", coords.Longitude).
			Msg("discarding stale timing resolution")
		return nil, ErrSuperseded
	}
	s.result = result
	s.mu.Unlock()

	if persist && s.cache != nil {
		if err := s.cache.Store(coords, result, now); err != nil {
			log.Warn().Err(err).Msg("cache write failed")
		}
	}
	return result, nil
}
