package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timetable/internal/search"
	"github.com/javiermolinar/timetable/internal/timetable"
)

// gradeCycle is the order tab steps through the grade filter. Zero means
// no grade filter.
var gradeCycle = []int{0, 1, 2, 3, 4}

// searchOverlay is the lecture search dialog. Each opening gets its own
// session; closing it drops whatever that session was still loading.
type searchOverlay struct {
	session  *search.Session
	input    textinput.Model
	selected int
	gen      int // Latest query tick; older ticks are ignored
	grade    int // Index into gradeCycle
	err      error
}

type heldTimer struct{}

func (heldTimer) Stop() bool { return true }

// holdScheduler never fires. The session's query settles when the update
// loop receives the matching queryTickMsg instead.
func holdScheduler(time.Duration, func()) search.Timer { return heldTimer{} }

// openSearch shows the search dialog. With prefill the day and period
// filters start at the cursor cell.
func (m Model) openSearch(prefill bool) (Model, tea.Cmd) {
	if m.catalog == nil {
		return m.setError("tui.search", errNoCatalog)
	}

	s := search.NewSession(m.catalog,
		search.WithPartial(m.config.Catalog.AllowPartial),
		search.WithDebounce(m.debounce, holdScheduler),
		search.WithLogger(m.log),
	)
	if prefill {
		day, _ := timetable.DayAt(m.cursor.Day)
		s.Prefill(day, m.cursor.Period)
	}

	in := textinput.New()
	in.Placeholder = "title or lecture id"
	in.Prompt = "› "
	in.CharLimit = 64
	in.Width = m.modalWidth() - 8
	in.Focus()

	m.search = &searchOverlay{session: s, input: in}
	m.mode = ModeSearch
	return m, tea.Batch(textinput.Blink, loadCatalog(s))
}

func loadCatalog(s *search.Session) tea.Cmd {
	return func() tea.Msg {
		return catalogLoadedMsg{session: s, err: s.Load(context.Background())}
	}
}

func (m Model) closeSearch() Model {
	if m.search != nil {
		m.search.session.Close()
	}
	m.search = nil
	m.mode = ModeNormal
	return m
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	o := m.search
	switch msg.String() {
	case "esc":
		return m.closeSearch(), nil

	case "up", "ctrl+k":
		o.selected = max(o.selected-1, 0)
		return m, nil
	case "down", "ctrl+j":
		o.selected++
		o.clampSelection()
		return m, nil

	case "tab":
		o.grade = (o.grade + 1) % len(gradeCycle)
		if g := gradeCycle[o.grade]; g > 0 {
			o.session.SetGrades(g)
		} else {
			o.session.SetGrades()
		}
		o.clampSelection()
		return m, nil

	case "ctrl+x":
		// Drop the cell prefill and search the whole week.
		o.session.SetDays()
		o.session.SetPeriods()
		o.clampSelection()
		return m, nil

	case "ctrl+y":
		l, ok := o.current()
		if !ok {
			return m, nil
		}
		if err := clipboard.WriteAll(l.ID); err != nil {
			return m.setError("tui.copy", err)
		}
		return m.setStatus("Copied %s", l.ID)

	case "enter":
		o.session.FlushQuery()
		o.clampSelection()
		l, ok := o.current()
		if !ok {
			return m, nil
		}
		n, err := o.session.Add(m.store, m.table, l)
		m = m.closeSearch()
		if err != nil {
			return m.setError("tui.add", err)
		}
		if n == 0 {
			return m.setStatus("%s has no scheduled periods", l.ID)
		}
		return m.setStatus("Added %s (%d entries)", l.Title, n)
	}

	before := o.input.Value()
	var cmd tea.Cmd
	o.input, cmd = o.input.Update(msg)
	if o.input.Value() == before {
		return m, cmd
	}

	o.session.SetQueryInput(o.input.Value())
	o.selected = 0
	if m.debounce <= 0 {
		return m, cmd
	}
	o.gen++
	tick := queryTickMsg{session: o.session, gen: o.gen}
	return m, tea.Batch(cmd, tea.Tick(m.debounce, func(time.Time) tea.Msg { return tick }))
}

// current returns the highlighted result.
func (o *searchOverlay) current() (timetable.Lecture, bool) {
	results := o.session.Results()
	if o.selected < 0 || o.selected >= len(results) {
		return timetable.Lecture{}, false
	}
	return results[o.selected], true
}

func (o *searchOverlay) clampSelection() {
	n := len(o.session.Results())
	o.selected = max(min(o.selected, n-1), 0)
}
