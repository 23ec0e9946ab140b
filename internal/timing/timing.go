// Package timing holds the core prayer-timing model: the resolved daily
// timing result, the sehri/iftar event sequencer, and the live countdown
// clock. All time-of-day values are civil 12-hour strings ("04:32 AM")
// interpreted in the result's timezone.
package timing

import (
	"fmt"
	"strings"
	"time"
)

// clock12 is the layout for all civil time-of-day strings in a Result.
// The zero-padded hour matters: "04:32 AM", "12:07 PM".
const clock12 = "03:04 PM"

// clock24 is the 24-hour display layout selected by time_format=24h.
// Result fields always store 12-hour strings; 24h is display-only.
const clock24 = "15:04"

// TimeFormat24 is the time_format config value selecting 24-hour display.
const TimeFormat24 = "24h"

// Coordinates is a latitude/longitude pair. It is the sole location input
// of the timing core; replacing it invalidates any resolved Result.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks that the coordinates are within geographic range.
func (c Coordinates) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %f out of range [-90, 90]", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %f out of range [-180, 180]", c.Longitude)
	}
	return nil
}

// Equal reports whether two coordinate pairs refer to the same place,
// within roughly ten meters.
func (c Coordinates) Equal(o Coordinates) bool {
	const eps = 1e-4
	return abs(c.Latitude-o.Latitude) < eps && abs(c.Longitude-o.Longitude) < eps
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// Result is a fully resolved day of prayer timings. Each resolution replaces
// the prior value wholesale; consumers treat it as read-only. Sehri and Iftar
// alias Fajr and Maghrib, the fast boundaries. NextSehri is the following
// day's fajr in the same timezone.
type Result struct {
	Fajr    string `json:"fajr"`
	Sunrise string `json:"sunrise"`
	Dhuhr   string `json:"dhuhr"`
	Asr     string `json:"asr"`
	Maghrib string `json:"maghrib"`
	Isha    string `json:"isha"`

	Sehri     string `json:"sehri"`
	Iftar     string `json:"iftar"`
	NextSehri string `json:"nextSehri"`

	// Timezone is the IANA identifier authoritative for every time-of-day
	// string above.
	Timezone string `json:"timezone"`
	// HijriDate is an advisory display label, e.g. "1 Ramadan 1447 AH".
	HijriDate string `json:"hijriDate"`
}

// Location loads the result's timezone.
func (r *Result) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", r.Timezone, err)
	}
	return loc, nil
}

// Slot identifies one of the six canonical daily prayer slots.
type Slot int

const (
	SlotFajr Slot = iota
	SlotSunrise
	SlotDhuhr
	SlotAsr
	SlotMaghrib
	SlotIsha
)

// AllSlots lists the six slots in chronological order.
var AllSlots = []Slot{SlotFajr, SlotSunrise, SlotDhuhr, SlotAsr, SlotMaghrib, SlotIsha}

func (s Slot) String() string {
	switch s {
	case SlotFajr:
		return "Fajr"
	case SlotSunrise:
		return "Sunrise"
	case SlotDhuhr:
		return "Dhuhr"
	case SlotAsr:
		return "Asr"
	case SlotMaghrib:
		return "Maghrib"
	case SlotIsha:
		return "Isha"
	}
	return "Unknown"
}

// Actionable reports whether the slot is a prayer boundary. Sunrise is a
// system marker: it participates in active-window detection but is not
// itself a prayer.
func (s Slot) Actionable() bool {
	return s != SlotSunrise
}

// clock returns the slot's civil time-of-day string from the result.
func (r *Result) clock(s Slot) string {
	switch s {
	case SlotFajr:
		return r.Fajr
	case SlotSunrise:
		return r.Sunrise
	case SlotDhuhr:
		return r.Dhuhr
	case SlotAsr:
		return r.Asr
	case SlotMaghrib:
		return r.Maghrib
	case SlotIsha:
		return r.Isha
	}
	return ""
}

// SlotTime pairs a slot with its concrete instant on a given day.
type SlotTime struct {
	Slot Slot
	Time time.Time
}

// Slots parses the six slot instants anchored to now's calendar day in
// now's location. now must already be projected into the result timezone.
func (r *Result) Slots(now time.Time) ([]SlotTime, error) {
	out := make([]SlotTime, 0, len(AllSlots))
	for _, s := range AllSlots {
		t, err := ParseClock(r.clock(s), now)
		if err != nil {
			return nil, fmt.Errorf("slot %s: %w", s, err)
		}
		out = append(out, SlotTime{Slot: s, Time: t})
	}
	return out, nil
}

// To12Hour converts a 24-hour clock string like "18:12" into "06:12 PM".
// A trailing annotation like " (BST)", which the remote service sometimes
// appends, is stripped first.
func To12Hour(t24 string) (string, error) {
	s := strings.TrimSpace(t24)
	if i := strings.IndexByte(s, ' '); i != -1 {
		s = s[:i]
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return "", fmt.Errorf("invalid 24h time %q: %w", t24, err)
	}
	return t.Format(clock12), nil
}

// Format12Hour renders an instant's clock fields as "04:32 AM".
func Format12Hour(t time.Time) string {
	return t.Format(clock12)
}

// FormatClock renders an instant's clock fields in the configured display
// format: "18:12" for TimeFormat24, "06:12 PM" otherwise.
func FormatClock(t time.Time, format string) string {
	if format == TimeFormat24 {
		return t.Format(clock24)
	}
	return t.Format(clock12)
}

// ReformatClock re-renders a stored 12-hour clock string in the configured
// display format. Anything but TimeFormat24, or an unparsable string, comes
// back unchanged.
func ReformatClock(s, format string) string {
	if format != TimeFormat24 {
		return s
	}
	t, err := time.Parse(clock12, strings.TrimSpace(s))
	if err != nil {
		return s
	}
	return t.Format(clock24)
}

// ParseClock parses a 12-hour clock string like "04:30 AM" into an instant
// on day's calendar date in day's location.
func ParseClock(s string, day time.Time) (time.Time, error) {
	t, err := time.Parse(clock12, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

// Clock supplies the current instant. The package-level System clock reads
// the host's real time; tests substitute fixed clocks.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System is the real wall clock.
var System Clock = systemClock{}

// fixedClock returns a constant instant; used by tests.
type fixedClock time.Time

func (f fixedClock) Now() time.Time { return time.Time(f) }

// FixedClock returns a Clock frozen at t.
func FixedClock(t time.Time) Clock { return fixedClock(t) }
