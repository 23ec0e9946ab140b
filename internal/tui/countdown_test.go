package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/islamictechbd/ramadan-times/internal/settings"
	"github.com/islamictechbd/ramadan-times/internal/timing"
)

type stubProvider struct {
	result *timing.Result
	err    error
}

func (p *stubProvider) Resolve(ctx context.Context, coords timing.Coordinates, now time.Time) (*timing.Result, error) {
	return p.result, p.err
}

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

func newTestStore(t *testing.T, p *stubProvider) *settings.Store {
	t.Helper()
	s := settings.New(p, nil)
	if err := s.SetCoordinates(timing.Coordinates{Latitude: 23.8103, Longitude: 90.4125}); err != nil {
		t.Fatalf("SetCoordinates: %v", err)
	}
	return s
}

func TestInitialViewShowsResolving(t *testing.T) {
	m := NewModel(newTestStore(t, &stubProvider{result: sampleResult()}), "")
	if view := m.View(); !strings.Contains(view, "Resolving prayer times") {
		t.Errorf("initial view = %q", view)
	}
}

func TestResolveFailureShowsUnavailable(t *testing.T) {
	m := NewModel(newTestStore(t, &stubProvider{err: errors.New("network down")}), "")

	next, _ := m.Update(resolvedMsg{err: errors.New("network down")})
	m = next.(Model)

	view := m.View()
	if !strings.Contains(view, "Prayer timings unavailable") {
		t.Errorf("error view = %q", view)
	}
	if !strings.Contains(view, "network down") {
		t.Errorf("error view missing cause: %q", view)
	}
}

func TestSupersededResolutionRetries(t *testing.T) {
	m := NewModel(newTestStore(t, &stubProvider{result: sampleResult()}), "")

	next, cmd := m.Update(resolvedMsg{err: settings.ErrSuperseded})
	m = next.(Model)

	if m.err != nil {
		t.Errorf("superseded resolution treated as fatal: %v", m.err)
	}
	if cmd == nil {
		t.Error("superseded resolution did not schedule a retry")
	}
}

func TestResolvedStartsClockAndTicks(t *testing.T) {
	store := newTestStore(t, &stubProvider{result: sampleResult()})
	result, err := store.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	m := NewModel(store, "")
	next, cmd := m.Update(resolvedMsg{result: result})
	m = next.(Model)
	if m.clock == nil {
		t.Fatal("clock not created after successful resolution")
	}
	defer m.clock.Stop()
	if cmd == nil {
		t.Fatal("no state wait scheduled after starting the clock")
	}

	// The command blocks on the clock channel; the first state arrives
	// quickly after Start.
	msg := cmd()
	st, ok := msg.(stateMsg)
	if !ok {
		t.Fatalf("first clock message = %T, want stateMsg", msg)
	}

	next, _ = m.Update(st)
	m = next.(Model)
	view := m.View()
	if !strings.Contains(view, st.Event.Label) {
		t.Errorf("ticking view missing event label %q:\n%s", st.Event.Label, view)
	}
	if !strings.Contains(view, "1 Ramadan 1447 AH") {
		t.Errorf("ticking view missing hijri date:\n%s", view)
	}
	if !strings.Contains(view, "Next Sehri 04:29 AM") {
		t.Errorf("ticking view missing fast boundaries:\n%s", view)
	}
}

func TestView24HourFormat(t *testing.T) {
	store := newTestStore(t, &stubProvider{result: sampleResult()})
	result, err := store.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	m := NewModel(store, "24h")
	next, cmd := m.Update(resolvedMsg{result: result})
	m = next.(Model)
	if m.clock == nil {
		t.Fatal("clock not created")
	}
	defer m.clock.Stop()

	st, ok := cmd().(stateMsg)
	if !ok {
		t.Fatal("no initial state")
	}
	next, _ = m.Update(st)
	m = next.(Model)

	view := m.View()
	if !strings.Contains(view, "Iftar 18:45") {
		t.Errorf("24h view still shows 12-hour boundaries:\n%s", view)
	}
	if strings.Contains(view, "06:45 PM") {
		t.Errorf("24h view contains 12-hour clock strings:\n%s", view)
	}
}

func TestQuitStopsClock(t *testing.T) {
	store := newTestStore(t, &stubProvider{result: sampleResult()})
	result, err := store.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	m := NewModel(store, "")
	next, _ := m.Update(resolvedMsg{result: result})
	m = next.(Model)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("quit key produced no command")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("quit key command = %v, want tea.Quit", msg)
	}

	// Stop closed the channel; draining it terminates.
	for range m.clock.States() {
	}
}

func TestInvalidResultShowsError(t *testing.T) {
	bad := sampleResult()
	bad.Timezone = "Not/AZone"

	m := NewModel(newTestStore(t, &stubProvider{result: bad}), "")
	next, _ := m.Update(resolvedMsg{result: bad})
	m = next.(Model)

	if m.err == nil {
		t.Fatal("invalid timezone accepted")
	}
	if view := m.View(); !strings.Contains(view, "Prayer timings unavailable") {
		t.Errorf("view = %q", view)
	}
}
