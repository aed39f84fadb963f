package search

import (
	"sync"
	"time"
)

// DefaultDebounce is the idle time before a typed query takes effect.
const DefaultDebounce = 200 * time.Millisecond

// Timer is the part of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. time.AfterFunc is the default.
type Scheduler func(d time.Duration, f func()) Timer

func afterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer tracks a raw input and the authoritative value derived from it.
// The value converges to the latest raw input once the input has been idle
// for the delay.
type Debouncer struct {
	mu       sync.Mutex
	raw      string
	value    string
	gen      int
	delay    time.Duration
	schedule Scheduler
	timer    Timer
	onSettle func(string)
}

// NewDebouncer creates a debouncer. A nil scheduler uses time.AfterFunc.
// onSettle, if set, is called outside the lock whenever the value changes.
func NewDebouncer(delay time.Duration, schedule Scheduler, onSettle func(string)) *Debouncer {
	if schedule == nil {
		schedule = afterFunc
	}
	return &Debouncer{delay: delay, schedule: schedule, onSettle: onSettle}
}

// Set records a new raw input and restarts the idle timer.
func (d *Debouncer) Set(raw string) {
	d.mu.Lock()
	d.raw = raw
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.delay <= 0 {
		d.mu.Unlock()
		d.settle(gen)
		return
	}
	d.timer = d.schedule(d.delay, func() { d.settle(gen) })
	d.mu.Unlock()
}

// Flush applies the raw input immediately.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	d.settle(gen)
}

// Stop cancels a pending update.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// settle promotes the raw input if no newer input arrived since gen.
func (d *Debouncer) settle(gen int) {
	d.mu.Lock()
	if gen != d.gen || d.value == d.raw {
		d.mu.Unlock()
		return
	}
	d.value = d.raw
	d.timer = nil
	value, notify := d.value, d.onSettle
	d.mu.Unlock()

	if notify != nil {
		notify(value)
	}
}

// Raw returns the latest input.
func (d *Debouncer) Raw() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.raw
}

// Value returns the authoritative value.
func (d *Debouncer) Value() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

// Pending reports whether the value lags the raw input.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value != d.raw
}
