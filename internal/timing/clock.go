package timing

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// CountdownState is the per-tick projection of (Result, now): the next fast
// boundary, the formatted remaining duration, and the currently active slot.
// It has no identity of its own and is recomputed every tick.
type CountdownState struct {
	// Now is the tick instant projected into the result timezone.
	Now       time.Time
	Event     Event
	Remaining string
	Active    Slot
	HasActive bool
}

// CountdownClock re-evaluates the sequencer against the live clock once per
// second and publishes the resulting state. A clock is bound to one Result
// for its whole life: when the timing input is replaced, the old clock is
// stopped and a fresh one created.
type CountdownClock struct {
	result   *Result
	loc      *time.Location
	clock    Clock
	interval time.Duration

	states  chan CountdownState
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
	started atomic.Bool
}

// NewCountdownClock builds a clock for the given result. It fails if the
// result's timezone cannot be loaded.
func NewCountdownClock(r *Result) (*CountdownClock, error) {
	loc, err := r.Location()
	if err != nil {
		return nil, err
	}
	return &CountdownClock{
		result:   r,
		loc:      loc,
		clock:    System,
		interval: time.Second,
		states:   make(chan CountdownState, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// States delivers one CountdownState per tick. The channel is closed after
// Stop. A slow receiver only ever observes the latest state; intermediate
// ticks are dropped, never queued.
func (c *CountdownClock) States() <-chan CountdownState {
	return c.states
}

// Start begins ticking. The first state is published immediately, then once
// per interval until Stop. Calling Start again is a no-op.
func (c *CountdownClock) Start() {
	if !c.started.CompareAndSwap(false, true) {
		return
	}
	go c.run()
}

// Stop halts the ticker deterministically: once Stop returns no further
// state is published. Stopping a started clock also closes the states
// channel; stopping one that never started returns immediately.
func (c *CountdownClock) Stop() {
	c.once.Do(func() { close(c.stop) })
	if c.started.Load() {
		<-c.done
	}
}

func (c *CountdownClock) run() {
	defer close(c.done)
	defer close(c.states)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.publish()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.publish()
		}
	}
}

func (c *CountdownClock) publish() {
	state := c.evaluate()
	// Replace a pending unread state rather than block the ticker.
	select {
	case <-c.states:
	default:
	}
	select {
	case c.states <- state:
	case <-c.stop:
	}
}

func (c *CountdownClock) evaluate() CountdownState {
	now := c.clock.Now().In(c.loc)
	state := CountdownState{Now: now}

	ev, err := NextEvent(c.result, now)
	if err != nil {
		// A malformed result is a contract violation upstream; keep the
		// display clamped at zero instead of propagating it.
		log.Error().Err(err).Msg("countdown evaluation failed")
		state.Event = Event{Phase: PhasePreDawn, Label: PhasePreDawn.Label()}
		state.Remaining = FormatRemaining(0)
		return state
	}
	state.Event = ev
	state.Remaining = FormatRemaining(ev.Remaining)

	if active, ok, err := ActiveSlot(c.result, now); err == nil {
		state.Active = active
		state.HasActive = ok
	}
	return state
}
