package timing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/islamictechbd/ramadan-times/internal/aladhan"
	"github.com/islamictechbd/ramadan-times/internal/astro"
)

// ErrUnavailable marks a resolution failure with no further fallback.
// Consumers render an explicit "timings unavailable" state, never stale or
// zeroed values.
var ErrUnavailable = errors.New("prayer timings unavailable")

// Provider resolves a full day of prayer timings for a coordinate pair.
// now anchors the civil day being resolved.
type Provider interface {
	Resolve(ctx context.Context, coords Coordinates, now time.Time) (*Result, error)
}

// Chain tries the primary provider and falls back to the secondary on any
// primary failure. Only a fallback failure propagates, wrapped in
// ErrUnavailable.
type Chain struct {
	Primary  Provider
	Fallback Provider
}

// Resolve implements Provider.
func (c Chain) Resolve(ctx context.Context, coords Coordinates, now time.Time) (*Result, error) {
	r, err := c.Primary.Resolve(ctx, coords, now)
	if err == nil {
		return r, nil
	}
	log.Warn().Err(err).
		Float64("lat", coords.Latitude).
		Float64("lon", coords.Longitude).
		Msg("primary timing source failed, using offline calculation")

	r, err = c.Fallback.Resolve(ctx, coords, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return r, nil
}

// RemoteProvider resolves timings from the Al Adhan API. The next-day
// request, needed only for NextSehri, runs concurrently with the main one
// and is best-effort: when it fails, today's fajr stands in.
type RemoteProvider struct {
	Client *aladhan.Client
	Method int // calculation method ID, -1 for the API default
	School int // 0 = Shafi, 1 = Hanafi
}

// NewRemoteProvider builds a remote provider with the given convention.
func NewRemoteProvider(client *aladhan.Client, method, school int) *RemoteProvider {
	return &RemoteProvider{Client: client, Method: method, School: school}
}

// Resolve implements Provider.
func (p *RemoteProvider) Resolve(ctx context.Context, coords Coordinates, now time.Time) (*Result, error) {
	if err := coords.Validate(); err != nil {
		return nil, err
	}

	ts := now.Unix()

	var (
		wg       sync.WaitGroup
		today    *aladhan.Response
		todayErr error
		tomorrow *aladhan.Response
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		today, todayErr = p.Client.TimingsAt(ctx, ts, coords.Latitude, coords.Longitude, p.Method, p.School)
	}()
	go func() {
		defer wg.Done()
		var err error
		tomorrow, err = p.Client.TimingsAt(ctx, ts+86400, coords.Latitude, coords.Longitude, p.Method, p.School)
		if err != nil {
			log.Debug().Err(err).Msg("next-day timing fetch failed, substituting today's fajr")
			tomorrow = nil
		}
	}()
	wg.Wait()

	if todayErr != nil {
		return nil, todayErr
	}
	return normalizeRemote(today, tomorrow)
}

// normalizeRemote converts a remote response pair into a Result: 24-hour
// strings to 12-hour, timezone validated, Hijri label composed.
func normalizeRemote(today, tomorrow *aladhan.Response) (*Result, error) {
	t := today.Data.Timings

	r := &Result{Timezone: today.Data.Meta.Timezone, HijriDate: today.Data.Date.Hijri.Label()}
	if r.Timezone == "" {
		return nil, errors.New("response missing timezone")
	}
	if _, err := r.Location(); err != nil {
		return nil, err
	}

	var err error
	convert := func(raw, name string) string {
		if err != nil {
			return ""
		}
		var v string
		if v, err = To12Hour(raw); err != nil {
			err = fmt.Errorf("%s: %w", name, err)
		}
		return v
	}

	r.Fajr = convert(t.Fajr, "fajr")
	r.Sunrise = convert(t.Sunrise, "sunrise")
	r.Dhuhr = convert(t.Dhuhr, "dhuhr")
	r.Asr = convert(t.Asr, "asr")
	r.Maghrib = convert(t.Maghrib, "maghrib")
	r.Isha = convert(t.Isha, "isha")
	if err != nil {
		return nil, err
	}

	r.Sehri = r.Fajr
	r.Iftar = r.Maghrib

	r.NextSehri = r.Fajr
	if tomorrow != nil {
		if v, convErr := To12Hour(tomorrow.Data.Timings.Fajr); convErr == nil {
			r.NextSehri = v
		}
	}
	return r, nil
}

// LocalProvider computes timings offline from solar geometry, in the
// process's own timezone. It produces a structurally complete Result so
// consumers cannot tell which strategy resolved it.
type LocalProvider struct {
	Params astro.Params
	// Location is the timezone the result is expressed in. Defaults to the
	// process-local zone; there is no remote timezone to consult offline.
	Location *time.Location
}

// NewLocalProvider builds an offline provider with the given convention.
func NewLocalProvider(params astro.Params) *LocalProvider {
	return &LocalProvider{Params: params, Location: time.Local}
}

// Resolve implements Provider.
func (p *LocalProvider) Resolve(ctx context.Context, coords Coordinates, now time.Time) (*Result, error) {
	if err := coords.Validate(); err != nil {
		return nil, err
	}
	loc := p.Location
	if loc == nil {
		loc = time.Local
	}
	day := now.In(loc)

	today, err := astro.Times(coords.Latitude, coords.Longitude, day, loc, p.Params)
	if err != nil {
		return nil, fmt.Errorf("offline calculation: %w", err)
	}
	next, err := astro.Times(coords.Latitude, coords.Longitude, day.AddDate(0, 0, 1), loc, p.Params)
	if err != nil {
		return nil, fmt.Errorf("offline calculation (next day): %w", err)
	}

	r := &Result{
		Fajr:      Format12Hour(today.Fajr),
		Sunrise:   Format12Hour(today.Sunrise),
		Dhuhr:     Format12Hour(today.Dhuhr),
		Asr:       Format12Hour(today.Asr),
		Maghrib:   Format12Hour(today.Maghrib),
		Isha:      Format12Hour(today.Isha),
		NextSehri: Format12Hour(next.Fajr),
		Timezone:  locationName(loc),
		HijriDate: astro.Hijri(day).Label(),
	}
	r.Sehri = r.Fajr
	r.Iftar = r.Maghrib
	return r, nil
}

// locationName returns a name usable with time.LoadLocation. With TZ unset
// the process zone stringifies as the opaque "Local"; the usual symlink at
// /etc/localtime then recovers the IANA name. "Local" itself still loads,
// so it stands when the symlink is absent or unreadable.
func locationName(loc *time.Location) string {
	name := loc.String()
	if name == "" {
		return "UTC"
	}
	if name != "Local" {
		return name
	}
	if target, err := os.Readlink("/etc/localtime"); err == nil {
		if zone := zoneFromPath(target); zone != "" {
			if _, err := time.LoadLocation(zone); err == nil {
				return zone
			}
		}
	}
	return name
}

// zoneFromPath extracts the IANA zone name from a zoneinfo file path like
// /usr/share/zoneinfo/Asia/Dhaka.
func zoneFromPath(path string) string {
	const marker = "zoneinfo/"
	i := strings.LastIndex(path, marker)
	if i == -1 {
		return ""
	}
	return path[i+len(marker):]
}
