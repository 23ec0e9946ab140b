package timing

import (
	"testing"
	"time"
)

func newTestClock(t *testing.T, now time.Time) *CountdownClock {
	t.Helper()
	c, err := NewCountdownClock(sampleResult())
	if err != nil {
		t.Fatalf("NewCountdownClock: %v", err)
	}
	c.clock = FixedClock(now)
	c.interval = 5 * time.Millisecond
	return c
}

func TestNewCountdownClockInvalidTimezone(t *testing.T) {
	r := sampleResult()
	r.Timezone = "Not/AZone"
	if _, err := NewCountdownClock(r); err == nil {
		t.Error("NewCountdownClock accepted an invalid timezone")
	}
}

func TestCountdownClockPublishesStates(t *testing.T) {
	now := dhakaTime(t, 5, 0, 0)
	c := newTestClock(t, now)

	c.Start()
	defer c.Stop()

	state, ok := <-c.States()
	if !ok {
		t.Fatal("states channel closed before first tick")
	}
	if state.Event.Phase != PhaseFasting {
		t.Errorf("phase = %v, want %v", state.Event.Phase, PhaseFasting)
	}
	if state.Event.Label != "Iftar starts" {
		t.Errorf("label = %q, want %q", state.Event.Label, "Iftar starts")
	}
	if state.Remaining != "13h 45m 00s" {
		t.Errorf("remaining = %q, want %q", state.Remaining, "13h 45m 00s")
	}
	if !state.HasActive || state.Active != SlotFajr {
		t.Errorf("active = %v (has=%v), want fajr active", state.Active, state.HasActive)
	}
	if got := state.Now.Format("15:04"); got != "05:00" {
		t.Errorf("projected now = %q, want %q", got, "05:00")
	}
}

func TestCountdownClockStopClosesStates(t *testing.T) {
	c := newTestClock(t, dhakaTime(t, 5, 0, 0))

	c.Start()
	<-c.States() // at least one tick observed
	c.Stop()

	// After Stop returns, the channel drains and closes; no further tick
	// may arrive past the close.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-c.States():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("states channel not closed after Stop")
		}
	}
}

func TestCountdownClockStopIsIdempotent(t *testing.T) {
	c := newTestClock(t, dhakaTime(t, 5, 0, 0))
	c.Start()
	c.Stop()
	c.Stop() // second call must not panic or block
}

func TestCountdownClockStopWithoutStart(t *testing.T) {
	c := newTestClock(t, dhakaTime(t, 5, 0, 0))

	done := make(chan struct{})
	go func() {
		c.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop on a never-started clock did not return")
	}
}

func TestCountdownClockStartIsIdempotent(t *testing.T) {
	c := newTestClock(t, dhakaTime(t, 5, 0, 0))
	c.Start()
	c.Start() // must not spawn a second ticker
	<-c.States()
	c.Stop()
}

func TestCountdownClockDropsUnreadStates(t *testing.T) {
	c := newTestClock(t, dhakaTime(t, 5, 0, 0))

	c.Start()
	// Let several ticks pass unread; the buffer holds only the latest.
	time.Sleep(50 * time.Millisecond)
	c.Stop()

	n := 0
	for range c.States() {
		n++
	}
	if n > 1 {
		t.Errorf("drained %d buffered states, want at most 1", n)
	}
}

func TestCountdownClockMalformedResultClampsToZero(t *testing.T) {
	r := sampleResult()
	r.Sehri = "garbage"
	c, err := NewCountdownClock(r)
	if err != nil {
		t.Fatalf("NewCountdownClock: %v", err)
	}
	c.clock = FixedClock(dhakaTime(t, 5, 0, 0))
	c.interval = 5 * time.Millisecond

	c.Start()
	defer c.Stop()

	state := <-c.States()
	if state.Remaining != "00h 00m 00s" {
		t.Errorf("remaining = %q, want clamped zero display", state.Remaining)
	}
}
