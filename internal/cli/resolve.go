package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/islamictechbd/ramadan-times/internal/aladhan"
	"github.com/islamictechbd/ramadan-times/internal/astro"
	"github.com/islamictechbd/ramadan-times/internal/cache"
	"github.com/islamictechbd/ramadan-times/internal/config"
	"github.com/islamictechbd/ramadan-times/internal/geo"
	"github.com/islamictechbd/ramadan-times/internal/settings"
	"github.com/islamictechbd/ramadan-times/internal/timing"
)

// buildStore wires the provider chain, cache and settings store for the
// merged configuration, and captures the effective coordinates.
func buildStore(cfg *config.Config) (*settings.Store, error) {
	coords, err := resolveCoordinates(cfg)
	if err != nil {
		return nil, err
	}

	c, err := cache.New(cfg.CacheDir)
	if err != nil {
		// Cache init failure is non-fatal; we just skip persistence.
		fmt.Fprintf(os.Stderr, "warning: cache disabled: %v\n", err)
		c = nil
	}

	method := cfg.MethodOrDefault(config.DefaultMethod)
	school := cfg.SchoolOrDefault(config.DefaultSchool)

	chain := timing.Chain{
		Primary:  timing.NewRemoteProvider(aladhan.NewClient(), method, school),
		Fallback: timing.NewLocalProvider(fallbackParams(school)),
	}

	store := settings.New(chain, c)
	if err := store.SetCoordinates(coords); err != nil {
		return nil, err
	}
	return store, nil
}

// resolveCoordinates picks the coordinate pair: explicit config/flags win,
// otherwise IP geolocation with the built-in default as last resort.
func resolveCoordinates(cfg *config.Config) (timing.Coordinates, error) {
	if cfg.Latitude != 0 || cfg.Longitude != 0 {
		return timing.Coordinates{Latitude: cfg.Latitude, Longitude: cfg.Longitude}, nil
	}

	loc := geo.DetectOrDefault()
	log.Debug().
		Float64("lat", loc.Latitude).
		Float64("lon", loc.Longitude).
		Str("city", loc.City).
		Msg("using detected location")
	return timing.Coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude}, nil
}

// fallbackParams maps the configured school onto the offline calculation
// convention. The twilight angles stay pinned to the Karachi convention the
// app defaults to; only the asr shadow factor follows the school.
func fallbackParams(school int) astro.Params {
	p := astro.Karachi()
	if school == 0 {
		p.AsrShadow = 1
	}
	return p
}

// resolveTimings runs a complete resolution for the given command config.
func resolveTimings(cfg *config.Config) (*settings.Store, *timing.Result, error) {
	store, err := buildStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	result, err := store.Resolve(context.Background())
	if err != nil {
		return nil, nil, err
	}
	return store, result, nil
}
