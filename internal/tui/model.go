// Package tui provides the interactive timetable grid.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timetable/internal/catalog"
	"github.com/javiermolinar/timetable/internal/config"
	"github.com/javiermolinar/timetable/internal/debuglog"
	"github.com/javiermolinar/timetable/internal/drag"
	"github.com/javiermolinar/timetable/internal/grid"
	"github.com/javiermolinar/timetable/internal/search"
	"github.com/javiermolinar/timetable/internal/store"
	"github.com/javiermolinar/timetable/internal/timetable"
	"github.com/javiermolinar/timetable/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal  Mode = iota
	ModeDrag         // Carrying an entry with the keyboard
	ModeSearch       // Lecture search overlay
	ModeConfirm      // Yes/no question in the footer
)

// minPeriods is how many period rows are shown even for an empty table.
const minPeriods = 10

// Position is a grid cell. Day is a column index, Period is 1-based.
type Position struct {
	Day    int
	Period int
}

// Deps are the collaborators of the TUI.
type Deps struct {
	Config  *config.Config
	Store   *store.Store
	Catalog *catalog.Cache
	Log     *debuglog.Logger
}

// Model is the main TUI model.
type Model struct {
	config   *config.Config
	store    *store.Store
	catalog  search.Fetcher
	log      *debuglog.Logger
	geometry grid.Geometry
	drag     *drag.Engine

	styles *Styles

	mode   Mode
	table  string   // Current table id
	cursor Position // Current cell
	scroll int      // First visible period - 1

	// Cursor cell when the drag started; the carried entry moves by the
	// cursor's offset from it.
	dragAnchor Position

	// Search overlay state
	search   *searchOverlay
	debounce time.Duration

	// Pending yes/no question
	confirm *confirmation

	width  int
	height int

	statusMsg   string
	statusError bool
	statusTime  time.Time

	nowFunc func() time.Time
}

type confirmation struct {
	prompt string
	action func(Model) (Model, tea.Cmd)
}

// New builds the model. A store without tables gets an empty first table.
func New(d Deps) Model {
	cfg := d.Config
	if cfg == nil {
		cfg = config.Default()
	}
	th, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		d.Log.LogError("tui.theme", err)
	}

	g := grid.Geometry{
		CellWidth:    cfg.Grid.CellWidth,
		CellHeight:   cfg.Grid.CellHeight,
		HeaderWidth:  cfg.Grid.HeaderWidth,
		HeaderHeight: cfg.Grid.HeaderHeight,
	}

	m := Model{
		config:   cfg,
		store:    d.Store,
		log:      d.Log,
		geometry: g,
		drag:     drag.NewEngine(d.Store, g, d.Log),
		styles:   NewStyles(theme.NewPalette(th)),
		cursor:   Position{Day: 0, Period: 1},
		debounce: time.Duration(cfg.Search.DebounceMS) * time.Millisecond,
		width:    80,
		height:   24,
		nowFunc:  time.Now,
	}
	if d.Catalog != nil {
		m.catalog = d.Catalog
	}

	if ids := m.store.Snapshot().IDs(); len(ids) > 0 {
		m.table = ids[0]
	} else {
		m.table = store.TablePrefix + "1"
		if err := m.store.CreateTable(m.table); err != nil {
			m.log.LogError("tui.init", err)
		}
	}
	return m
}

// Init starts warming the catalog so the first search opens quickly.
func (m Model) Init() tea.Cmd {
	if m.catalog == nil {
		return nil
	}
	fetcher := m.catalog
	return func() tea.Msg {
		_, err := fetcher.FetchAvailable(context.Background())
		return catalogWarmMsg{err: err}
	}
}

// currentTable returns the table under the cursor, falling back to the
// first table if the current one was removed.
func (m *Model) currentTable() *store.Table {
	c := m.store.Snapshot()
	if t, ok := c.Table(m.table); ok {
		return t
	}
	ids := c.IDs()
	if len(ids) == 0 {
		return store.NewTable()
	}
	m.table = ids[0]
	t, _ := c.Table(m.table)
	return t
}

// entryAt returns the index of the last entry covering p. Later entries are
// drawn on top, so they are the ones picked.
func entryAt(t *store.Table, p Position) (int, bool) {
	day, ok := timetable.DayAt(p.Day)
	if !ok {
		return 0, false
	}
	entries := t.Entries()
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.Day != day {
			continue
		}
		for _, period := range e.Range {
			if period == p.Period {
				return i, true
			}
		}
	}
	return 0, false
}

// periodRows is the number of period rows the grid shows.
func (m Model) periodRows(t *store.Table) int {
	rows := max(minPeriods, m.cursor.Period)
	for _, e := range t.Entries() {
		for _, p := range e.Range {
			rows = max(rows, p)
		}
	}
	if m.mode == ModeDrag {
		if id, ok := m.drag.Active(); ok {
			if e, ok := t.Entry(id.Index); ok {
				rows = max(rows, e.Range[len(e.Range)-1]+m.dragDelta().Period)
			}
		}
	}
	return rows
}

// dragDelta is how many days and periods the carried entry has moved.
func (m Model) dragDelta() Position {
	return Position{
		Day:    m.cursor.Day - m.dragAnchor.Day,
		Period: m.cursor.Period - m.dragAnchor.Period,
	}
}

// lastPeriod is how far down the cursor may go: the defined periods, or
// further when an entry sits below them.
func lastPeriod(t *store.Table) int {
	last := timetable.PeriodCount
	for _, e := range t.Entries() {
		last = max(last, e.Range[len(e.Range)-1])
	}
	return last
}
