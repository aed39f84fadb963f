package drag

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/javiermolinar/timetable/internal/debuglog"
	"github.com/javiermolinar/timetable/internal/grid"
	"github.com/javiermolinar/timetable/internal/store"
	"github.com/javiermolinar/timetable/internal/timetable"
)

// newTestEngine returns an engine over table "t" holding one entry per slot
// descriptor, plus an untouched table "other".
func newTestEngine(t *testing.T, descriptors ...string) (*Engine, *store.Store) {
	t.Helper()
	var entries []timetable.Entry
	for i, d := range descriptors {
		l := timetable.Lecture{ID: "L" + string(rune('A'+i)), Title: "Lecture", Schedule: d}
		entries = append(entries, timetable.EntriesFor(l, timetable.ParseSchedule(d))...)
	}
	c := store.NewCollection().
		With("t", store.NewTable(entries...)).
		With("other", store.NewTable())
	s := store.New(c)
	return NewEngine(s, grid.DefaultGeometry(), nil), s
}

func entryAt(t *testing.T, s *store.Store, tableID string, index int) timetable.Entry {
	t.Helper()
	tbl, ok := s.Snapshot().Table(tableID)
	if !ok {
		t.Fatalf("table %s not found", tableID)
	}
	e, ok := tbl.Entry(index)
	if !ok {
		t.Fatalf("entry %s:%d not found", tableID, index)
	}
	return e
}

func TestEngine_StartAndActiveTable(t *testing.T) {
	e, _ := newTestEngine(t, "Mon1,2")

	if _, ok := e.ActiveTable(); ok {
		t.Error("idle engine should have no active table")
	}

	if err := e.Start(ID{TableID: "t", Index: 0}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if e.State() != Dragging {
		t.Error("expected Dragging state")
	}
	if id, ok := e.ActiveTable(); !ok || id != "t" {
		t.Errorf("ActiveTable = %q, %v", id, ok)
	}
	if err := e.Start(ID{TableID: "t", Index: 0}); !errors.Is(err, ErrAlreadyDragging) {
		t.Errorf("expected ErrAlreadyDragging, got %v", err)
	}
}

func TestEngine_EndMoves(t *testing.T) {
	tests := []struct {
		name      string
		dx, dy    float64
		wantDay   string
		wantRange []int
	}{
		{name: "one day right one period down", dx: 80, dy: 30, wantDay: "Tue", wantRange: []int{3, 4}},
		{name: "partial cells floor", dx: 100, dy: 50, wantDay: "Tue", wantRange: []int{3, 4}},
		{name: "period only", dx: 0, dy: 90, wantDay: "Mon", wantRange: []int{5, 6}},
		{name: "up one period", dx: 10, dy: -30, wantDay: "Mon", wantRange: []int{1, 2}},
		{name: "to last day", dx: 400, dy: 0, wantDay: "Sat", wantRange: []int{2, 3}},
		{name: "past last period is allowed", dx: 0, dy: 30 * 30, wantDay: "Mon", wantRange: []int{32, 33}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, s := newTestEngine(t, "Mon2,3")
			other, _ := s.Snapshot().Table("other")

			_ = e.Start(ID{TableID: "t", Index: 0})
			res := e.End(tt.dx, tt.dy)

			if res.Outcome != Moved {
				t.Fatalf("expected Moved, got %v", res.Outcome)
			}
			got := entryAt(t, s, "t", 0)
			if got.Day != tt.wantDay || !reflect.DeepEqual(got.Range, tt.wantRange) {
				t.Errorf("entry = %s %v, want %s %v", got.Day, got.Range, tt.wantDay, tt.wantRange)
			}
			if got.Lecture.ID != "LA" {
				t.Errorf("lecture should be kept, got %s", got.Lecture.ID)
			}
			if !reflect.DeepEqual(res.After, got) {
				t.Errorf("result After = %+v, want %+v", res.After, got)
			}
			if o, _ := s.Snapshot().Table("other"); o != other {
				t.Error("other tables should keep their identity")
			}
			if e.State() != Idle {
				t.Error("engine should be idle after End")
			}
		})
	}
}

func TestEngine_EndRejects(t *testing.T) {
	tests := []struct {
		name   string
		id     ID
		dx, dy float64
		want   Outcome
	}{
		{name: "zero displacement", id: ID{"t", 0}, dx: 0, dy: 0, want: Unchanged},
		{name: "sub cell displacement", id: ID{"t", 0}, dx: 79, dy: 29, want: Unchanged},
		{name: "left of first day", id: ID{"t", 0}, dx: -1, dy: 0, want: DayOutOfBounds},
		{name: "right of last day", id: ID{"t", 0}, dx: 80 * 6, dy: 0, want: DayOutOfBounds},
		{name: "above first period", id: ID{"t", 0}, dx: 0, dy: -60, want: PeriodBelowFirst},
		{name: "missing table", id: ID{"nope", 0}, dx: 80, dy: 0, want: MissingEntry},
		{name: "missing entry", id: ID{"t", 7}, dx: 80, dy: 0, want: MissingEntry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, s := newTestEngine(t, "Mon2,3")
			before := s.Snapshot()

			_ = e.Start(tt.id)
			res := e.End(tt.dx, tt.dy)

			if res.Outcome != tt.want {
				t.Errorf("outcome = %v, want %v", res.Outcome, tt.want)
			}
			if s.Snapshot() != before {
				t.Error("rejected drag must not publish a new collection")
			}
			if e.State() != Idle {
				t.Error("engine should be idle after End")
			}
		})
	}
}

func TestEngine_EndWhileIdle(t *testing.T) {
	e, _ := newTestEngine(t, "Mon1")
	if res := e.End(80, 0); res.Outcome != NotDragging {
		t.Errorf("expected NotDragging, got %v", res.Outcome)
	}
}

func TestEngine_Cancel(t *testing.T) {
	e, s := newTestEngine(t, "Mon1")
	before := s.Snapshot()

	_ = e.Start(ID{TableID: "t", Index: 0})
	e.Cancel()

	if e.State() != Idle {
		t.Error("expected Idle after Cancel")
	}
	if res := e.End(80, 0); res.Outcome != NotDragging {
		t.Errorf("End after Cancel = %v", res.Outcome)
	}
	if s.Snapshot() != before {
		t.Error("Cancel must not touch the store")
	}
}

func TestEngine_Track(t *testing.T) {
	e, _ := newTestEngine(t, "Mon1")
	g := grid.DefaultGeometry()
	container := g.ContainerRect(len(timetable.DayLabels), timetable.PeriodCount)
	dragging := g.EntryRect(0, 1, 1)

	raw := grid.Transform{X: 95, Y: 44}
	if got := e.Track(raw, &container, &dragging); got != raw {
		t.Errorf("Track while idle should pass through, got %+v", got)
	}

	_ = e.Start(ID{TableID: "t", Index: 0})
	got := e.Track(raw, &container, &dragging)
	if got.X != 80 || got.Y != 30 {
		t.Errorf("Track = (%v, %v), want (80, 30)", got.X, got.Y)
	}
}

func TestEngine_MovesOnlyAddressedEntry(t *testing.T) {
	e, s := newTestEngine(t, "Mon1,2<p>Wed5")
	second := entryAt(t, s, "t", 1)

	_ = e.Start(ID{TableID: "t", Index: 0})
	if res := e.End(160, 0); res.Outcome != Moved {
		t.Fatalf("expected Moved, got %v", res.Outcome)
	}

	if got := entryAt(t, s, "t", 0); got.Day != "Wed" {
		t.Errorf("first entry day = %s, want Wed", got.Day)
	}
	if got := entryAt(t, s, "t", 1); !reflect.DeepEqual(got, second) {
		t.Errorf("second entry changed: %+v", got)
	}
}

func TestEngine_EndToEnd(t *testing.T) {
	s := store.New(store.NewCollection().With("t", store.NewTable()))
	lecture := timetable.Lecture{ID: "CS101", Title: "Intro", Schedule: "Mon1,2,3"}
	if err := s.AddEntries("t", timetable.EntriesFor(lecture, timetable.ParseSchedule(lecture.Schedule))...); err != nil {
		t.Fatalf("AddEntries: %v", err)
	}

	got := entryAt(t, s, "t", 0)
	if got.Day != "Mon" || !reflect.DeepEqual(got.Range, []int{1, 2, 3}) {
		t.Fatalf("added entry = %s %v", got.Day, got.Range)
	}

	e := NewEngine(s, grid.Geometry{CellWidth: 80, CellHeight: 30}, nil)
	_ = e.Start(ID{TableID: "t", Index: 0})
	e.End(80, 30)

	got = entryAt(t, s, "t", 0)
	if got.Day != timetable.NextDay("Mon") || !reflect.DeepEqual(got.Range, []int{2, 3, 4}) {
		t.Errorf("moved entry = %s %v, want Tue [2 3 4]", got.Day, got.Range)
	}
}

func TestEngine_Logs(t *testing.T) {
	var buf bytes.Buffer
	c := store.NewCollection().With("t", store.NewTable(timetable.Entry{Day: "Mon", Range: []int{1}}))
	e := NewEngine(store.New(c), grid.DefaultGeometry(), debuglog.New(&buf))

	_ = e.Start(ID{TableID: "t", Index: 0})
	e.End(-80, 0)

	out := buf.String()
	if !strings.Contains(out, "DRAG_START") || !strings.Contains(out, "day_out_of_bounds") {
		t.Errorf("unexpected log output: %s", out)
	}
}
