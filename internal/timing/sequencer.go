package timing

import (
	"fmt"
	"time"
)

// Phase is one of the three fast-cycle phases a day moves through.
type Phase int

const (
	// PhasePreDawn runs from midnight until fajr: the fast has not started.
	PhasePreDawn Phase = iota
	// PhaseFasting runs from fajr (inclusive) until maghrib.
	PhaseFasting
	// PhasePostIftar runs from maghrib (inclusive) until the next fajr.
	PhasePostIftar
)

func (p Phase) String() string {
	switch p {
	case PhasePreDawn:
		return "pre-dawn"
	case PhaseFasting:
		return "fasting"
	case PhasePostIftar:
		return "post-iftar"
	}
	return "unknown"
}

// Label is the user-facing name of the countdown target in this phase.
func (p Phase) Label() string {
	switch p {
	case PhasePreDawn:
		return "Sehri ends"
	case PhaseFasting:
		return "Iftar starts"
	case PhasePostIftar:
		return "Next Sehri"
	}
	return ""
}

// Event is the next fast boundary: its phase, target instant and the
// remaining duration from the evaluated "now".
type Event struct {
	Phase     Phase
	Label     string
	Target    time.Time
	Remaining time.Duration
}

// NextEvent determines the active phase and the next countdown target.
// now must already be projected into the result's timezone; the six slot
// strings are anchored to now's calendar date, and NextSehri to the
// following day.
//
// Boundary rule: the fajr instant itself belongs to the fasting phase, and
// the maghrib instant to the post-iftar phase.
func NextEvent(r *Result, now time.Time) (Event, error) {
	sehri, err := ParseClock(r.Sehri, now)
	if err != nil {
		return Event{}, fmt.Errorf("sehri: %w", err)
	}
	iftar, err := ParseClock(r.Iftar, now)
	if err != nil {
		return Event{}, fmt.Errorf("iftar: %w", err)
	}
	nextSehri, err := ParseClock(r.NextSehri, now.AddDate(0, 0, 1))
	if err != nil {
		return Event{}, fmt.Errorf("next sehri: %w", err)
	}
	// The next-sehri target must be strictly in the future even if its
	// anchor day was already advanced upstream.
	if !nextSehri.After(now) {
		nextSehri = nextSehri.AddDate(0, 0, 1)
	}

	var ev Event
	switch {
	case now.Before(sehri):
		ev = Event{Phase: PhasePreDawn, Target: sehri}
	case now.Before(iftar):
		ev = Event{Phase: PhaseFasting, Target: iftar}
	default:
		ev = Event{Phase: PhasePostIftar, Target: nextSehri}
	}
	ev.Label = ev.Phase.Label()
	ev.Remaining = ev.Target.Sub(now)
	if ev.Remaining < 0 {
		ev.Remaining = 0
	}
	return ev, nil
}

// ActiveSlot finds which of the six canonical slots is current: the last
// slot whose instant is at or before now, bounded by its successor. Isha has
// no successor and stays active until the next fajr. Before fajr no slot is
// active and ok is false.
//
// This is independent of the fast-phase sequencing above; it answers "which
// waqt is current", not "what is the next fast boundary".
func ActiveSlot(r *Result, now time.Time) (Slot, bool, error) {
	slots, err := r.Slots(now)
	if err != nil {
		return 0, false, err
	}
	for i := 0; i < len(slots)-1; i++ {
		if !now.Before(slots[i].Time) && now.Before(slots[i+1].Time) {
			return slots[i].Slot, true, nil
		}
	}
	if !now.Before(slots[len(slots)-1].Time) {
		return SlotIsha, true, nil
	}
	return 0, false, nil
}

// FormatRemaining renders a countdown duration as "13h 12m 00s" style
// fixed-width text. Negative durations clamp to zero.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	s := int(d/time.Second) % 60
	return fmt.Sprintf("%02dh %02dm %02ds", h, m, s)
}
