// Package drag relocates timetable entries in response to drag gestures.
package drag

import (
	"errors"
	"slices"

	"github.com/javiermolinar/timetable/internal/debuglog"
	"github.com/javiermolinar/timetable/internal/grid"
	"github.com/javiermolinar/timetable/internal/store"
	"github.com/javiermolinar/timetable/internal/timetable"
)

// ErrAlreadyDragging is returned when a drag starts while another is active.
var ErrAlreadyDragging = errors.New("already dragging an entry")

// State is the drag lifecycle state.
type State int

const (
	Idle State = iota
	Dragging
)

// Outcome describes how a drag ended.
type Outcome int

const (
	Moved            Outcome = iota // Entry replaced at its new position
	NotDragging                     // End called while idle
	MissingEntry                    // Table or entry no longer exists
	DayOutOfBounds                  // Candidate day outside the day labels
	PeriodBelowFirst                // Candidate range contains a period < 1
	Unchanged                       // Candidate equals the original position
)

// String returns the outcome name used in logs.
func (o Outcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case NotDragging:
		return "not_dragging"
	case MissingEntry:
		return "missing_entry"
	case DayOutOfBounds:
		return "day_out_of_bounds"
	case PeriodBelowFirst:
		return "period_below_first"
	case Unchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// Result reports the end of a drag. Before and After are only set when an
// entry was resolved; After equals Before unless the outcome is Moved.
type Result struct {
	Outcome     Outcome
	ID          ID
	DayDelta    int
	PeriodDelta int
	Before      timetable.Entry
	After       timetable.Entry
}

// Engine runs one drag at a time against a store.
type Engine struct {
	store    *store.Store
	geometry grid.Geometry
	log      *debuglog.Logger

	state  State
	active ID
}

// NewEngine creates an idle engine.
func NewEngine(s *store.Store, g grid.Geometry, log *debuglog.Logger) *Engine {
	return &Engine{store: s, geometry: g, log: log}
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// ActiveTable returns the table being dragged in, for highlighting.
func (e *Engine) ActiveTable() (string, bool) {
	if e.state != Dragging {
		return "", false
	}
	return e.active.TableID, true
}

// Active returns the entry being dragged.
func (e *Engine) Active() (ID, bool) {
	return e.active, e.state == Dragging
}

// Start begins dragging the entry addressed by id.
func (e *Engine) Start(id ID) error {
	if e.state == Dragging {
		return ErrAlreadyDragging
	}
	e.state = Dragging
	e.active = id
	e.log.LogDragStart(id.TableID, id.Index)
	return nil
}

// Track snaps a live drag transform to the grid. It is a no-op while idle.
func (e *Engine) Track(t grid.Transform, container, dragging *grid.Rect) grid.Transform {
	if e.state != Dragging {
		return t
	}
	return e.geometry.Snap(t, container, dragging)
}

// Cancel abandons the active drag without touching the store.
func (e *Engine) Cancel() {
	e.state = Idle
	e.active = ID{}
}

// End finishes the drag with a net displacement of (dx, dy) pixels.
// Invalid moves leave the store untouched; they are reported, not returned as errors.
func (e *Engine) End(dx, dy float64) Result {
	if e.state != Dragging {
		return Result{Outcome: NotDragging}
	}
	id := e.active
	e.Cancel()

	res := e.relocate(id, dx, dy)
	e.log.LogDragEnd(id.TableID, id.Index, res.Outcome.String(), res.DayDelta, res.PeriodDelta)
	return res
}

func (e *Engine) relocate(id ID, dx, dy float64) Result {
	res := Result{ID: id}
	res.DayDelta, res.PeriodDelta = e.geometry.Delta(dx, dy)

	tbl, ok := e.store.Snapshot().Table(id.TableID)
	if !ok {
		res.Outcome = MissingEntry
		return res
	}
	entry, ok := tbl.Entry(id.Index)
	if !ok {
		res.Outcome = MissingEntry
		return res
	}
	res.Before, res.After = entry, entry

	day, rng, outcome := candidate(entry, res.DayDelta, res.PeriodDelta)
	if outcome != Moved {
		res.Outcome = outcome
		return res
	}

	moved := entry.Moved(day, rng)
	if err := e.store.ReplaceEntry(id.TableID, id.Index, moved); err != nil {
		// The entry vanished or the store closed between snapshot and write.
		e.log.LogError("drag.replace", err)
		res.Outcome = MissingEntry
		return res
	}

	res.Outcome = Moved
	res.After = moved
	return res
}

// candidate shifts entry by the given deltas and validates the result.
// There is no upper bound on periods.
func candidate(entry timetable.Entry, dayDelta, periodDelta int) (string, []int, Outcome) {
	day, ok := timetable.DayAt(timetable.DayIndex(entry.Day) + dayDelta)
	if !ok || timetable.DayIndex(entry.Day) < 0 {
		return "", nil, DayOutOfBounds
	}

	rng := make([]int, len(entry.Range))
	for i, p := range entry.Range {
		rng[i] = p + periodDelta
	}
	if slices.ContainsFunc(rng, func(p int) bool { return p < 1 }) {
		return "", nil, PeriodBelowFirst
	}

	if entry.SamePosition(day, rng) {
		return "", nil, Unchanged
	}
	return day, rng, Moved
}
