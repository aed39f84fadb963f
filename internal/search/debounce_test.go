package search

import (
	"testing"
	"time"
)

// manualClock collects scheduled callbacks and fires them on demand.
type manualClock struct {
	pending []*manualTimer
}

type manualTimer struct {
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (c *manualClock) schedule(_ time.Duration, f func()) Timer {
	t := &manualTimer{f: f}
	c.pending = append(c.pending, t)
	return t
}

// fire runs every timer that was not stopped.
func (c *manualClock) fire() {
	pending := c.pending
	c.pending = nil
	for _, t := range pending {
		if !t.stopped {
			t.stopped = true
			t.f()
		}
	}
}

func TestDebouncer_ConvergesToLatestInput(t *testing.T) {
	clock := &manualClock{}
	var settled []string
	d := NewDebouncer(time.Second, clock.schedule, func(v string) { settled = append(settled, v) })

	d.Set("c")
	d.Set("cs")
	d.Set("cs1")
	if d.Value() != "" {
		t.Fatalf("value changed before idle: %q", d.Value())
	}
	if d.Raw() != "cs1" || !d.Pending() {
		t.Fatalf("unexpected raw state %q pending=%v", d.Raw(), d.Pending())
	}

	clock.fire()
	if d.Value() != "cs1" {
		t.Fatalf("expected cs1, got %q", d.Value())
	}
	if len(settled) != 1 || settled[0] != "cs1" {
		t.Fatalf("expected one settle with cs1, got %v", settled)
	}
}

func TestDebouncer_FlushAndZeroDelay(t *testing.T) {
	clock := &manualClock{}
	d := NewDebouncer(time.Second, clock.schedule, nil)
	d.Set("x")
	d.Flush()
	if d.Value() != "x" {
		t.Fatalf("expected flush to apply, got %q", d.Value())
	}

	immediate := NewDebouncer(0, nil, nil)
	immediate.Set("y")
	if immediate.Value() != "y" {
		t.Fatalf("expected zero delay to apply immediately, got %q", immediate.Value())
	}
}

func TestDebouncer_StaleTimerIsIgnored(t *testing.T) {
	clock := &manualClock{}
	d := NewDebouncer(time.Second, clock.schedule, nil)
	d.Set("a")
	stale := clock.pending[0]
	d.Set("ab")

	// A timer firing after it was superseded must not apply old input.
	stale.f()
	if d.Value() != "" {
		t.Fatalf("stale timer applied %q", d.Value())
	}
	clock.fire()
	if d.Value() != "ab" {
		t.Fatalf("expected ab, got %q", d.Value())
	}
}
