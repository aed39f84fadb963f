package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/javiermolinar/timetable/internal/catalog"
	"github.com/javiermolinar/timetable/internal/dataset"
	"github.com/javiermolinar/timetable/internal/db"
	"github.com/javiermolinar/timetable/internal/drag"
	"github.com/javiermolinar/timetable/internal/export"
	"github.com/javiermolinar/timetable/internal/grid"
	"github.com/javiermolinar/timetable/internal/search"
	"github.com/javiermolinar/timetable/internal/store"
	"github.com/javiermolinar/timetable/internal/timetable"
)

var lectures = []timetable.Lecture{
	{ID: "502007", Title: "Data Structures", Grade: 2, Credits: "3", Major: "Eng<br>Computer Science", Schedule: "Mon1~3(B301)<p>Wed4,5"},
	{ID: "100215", Title: "Academic Writing", Grade: 1, Credits: "2", Major: "Liberal Arts", Schedule: "Tue7,8"},
	{ID: "503110", Title: "Operating Systems", Grade: 3, Credits: "3", Major: "Eng<br>Computer Science", Schedule: "Thu3~5"},
}

// openMirror creates a fresh catalog mirror with automatic cleanup.
func openMirror(t *testing.T) *db.Mirror {
	t.Helper()
	m, err := db.New(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("failed to open mirror: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func catalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(lectures)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// syncMirror fetches the remote catalog once and stores it in the mirror.
func syncMirror(t *testing.T, ctx context.Context, mirror *db.Mirror, url string) {
	t.Helper()
	remote := catalog.NewCache(nil, catalog.NewHTTPSource("majors", url, nil))
	got, err := remote.Fetch(ctx, "majors")
	if err != nil {
		t.Fatalf("fetching remote catalog: %v", err)
	}
	if err := mirror.SaveLectures(ctx, "majors", got); err != nil {
		t.Fatalf("saving mirror: %v", err)
	}
}

func TestSearchAddDragExport(t *testing.T) {
	ctx := context.Background()
	mirror := openMirror(t)
	syncMirror(t, ctx, mirror, catalogServer(t).URL)

	// Search the mirrored catalog from a clicked cell.
	cache := catalog.NewCache(nil, catalog.NewMirrorSource("majors", mirror))
	session := search.NewSession(cache)
	defer session.Close()
	if err := session.Load(ctx); err != nil {
		t.Fatalf("loading catalog: %v", err)
	}
	session.Prefill("Mon", 2)
	results := session.Results()
	if len(results) != 1 || results[0].ID != "502007" {
		t.Fatalf("results = %v, want only 502007", results)
	}

	// Add it to a table: one entry per parsed slot.
	st := store.New(nil)
	if err := st.CreateTable("schedule-1"); err != nil {
		t.Fatal(err)
	}
	n, err := session.Add(st, "schedule-1", results[0])
	if err != nil {
		t.Fatalf("adding lecture: %v", err)
	}
	if n != 2 {
		t.Fatalf("added %d entries, want 2", n)
	}

	// Drag the Monday block one day right and one period down.
	g := grid.DefaultGeometry()
	engine := drag.NewEngine(st, g, nil)
	if err := engine.Start(drag.ID{TableID: "schedule-1", Index: 0}); err != nil {
		t.Fatal(err)
	}
	res := engine.End(g.CellWidth+10, g.CellHeight+5)
	if res.Outcome != drag.Moved {
		t.Fatalf("outcome = %v, want moved", res.Outcome)
	}
	tbl, _ := st.Snapshot().Table("schedule-1")
	moved, _ := tbl.Entry(0)
	if moved.Day != "Tue" || !slices.Equal(moved.Range, []int{2, 3, 4}) || moved.Room != "B301" {
		t.Errorf("moved entry = %s %v %q, want Tue [2 3 4] B301", moved.Day, moved.Range, moved.Room)
	}
	untouched, _ := tbl.Entry(1)
	if untouched.Day != "Wed" || !slices.Equal(untouched.Range, []int{4, 5}) {
		t.Errorf("second entry = %s %v, want Wed [4 5]", untouched.Day, untouched.Range)
	}

	// The dataset round-trips the result.
	data, err := dataset.Encode(st.Snapshot())
	if err != nil {
		t.Fatalf("encoding dataset: %v", err)
	}
	decoded, err := dataset.Decode(data)
	if err != nil {
		t.Fatalf("decoding dataset: %v", err)
	}
	back, _ := decoded.Table("schedule-1")
	if !slices.EqualFunc(back.Entries(), tbl.Entries(), func(a, b timetable.Entry) bool {
		return a.Lecture.ID == b.Lecture.ID && a.Day == b.Day && slices.Equal(a.Range, b.Range) && a.Room == b.Room
	}) {
		t.Errorf("dataset round trip = %+v, want %+v", back.Entries(), tbl.Entries())
	}

	// And exports as CSV.
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, export.Rows(st.Snapshot())); err != nil {
		t.Fatalf("exporting: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("csv has %d lines, want header and 2 rows:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "schedule-1,0,Tue,2-4") || !strings.Contains(lines[1], "502007") {
		t.Errorf("first row = %q", lines[1])
	}
}

func TestMirrorServesOfflineCatalog(t *testing.T) {
	ctx := context.Background()
	mirror := openMirror(t)
	srv := catalogServer(t)
	syncMirror(t, ctx, mirror, srv.URL)
	srv.Close()

	cache := catalog.NewCache(nil, catalog.NewMirrorSource("majors", mirror))
	got, err := cache.FetchAll(ctx)
	if err != nil {
		t.Fatalf("fetching mirror: %v", err)
	}
	if len(got) != len(lectures) {
		t.Errorf("mirror served %d lectures, want %d", len(got), len(lectures))
	}
}

func TestPartialCatalog(t *testing.T) {
	ctx := context.Background()
	srv := catalogServer(t)

	cache := catalog.NewCache(nil,
		catalog.NewHTTPSource("majors", srv.URL, nil),
		catalog.NewFileSource("liberal-arts", filepath.Join(t.TempDir(), "missing.json")),
	)

	strict := search.NewSession(cache)
	defer strict.Close()
	if err := strict.Load(ctx); err == nil {
		t.Error("strict session loaded despite a failing source")
	}
	if strict.Catalog().Len() != 0 {
		t.Errorf("strict session catalog = %d lectures, want empty", strict.Catalog().Len())
	}

	partial := search.NewSession(cache, search.WithPartial(true))
	defer partial.Close()
	if err := partial.Load(ctx); err == nil {
		t.Error("partial session hid the source error")
	}
	if partial.Catalog().Len() != len(lectures) {
		t.Errorf("partial session catalog = %d lectures, want %d", partial.Catalog().Len(), len(lectures))
	}
	if cache.Calls("majors") != 1 {
		t.Errorf("majors fetched %d times, want once", cache.Calls("majors"))
	}
}
