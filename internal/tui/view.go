package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/timetable/internal/catalog"
	"github.com/javiermolinar/timetable/internal/grid"
	"github.com/javiermolinar/timetable/internal/store"
	"github.com/javiermolinar/timetable/internal/timetable"
)

const (
	labelWidth  = 9 // "24 22:40 "
	minColWidth = 6
	chromeLines = 5 // title, blank, day header, status, help
)

// View renders the TUI.
func (m Model) View() string {
	if m.mode == ModeSearch && m.search != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderSearch())
	}

	t := m.currentTable()
	parts := []string{
		m.renderTabs(),
		"",
		m.renderGrid(t),
		m.renderStatus(),
		m.renderHelp(),
	}
	return strings.Join(parts, "\n")
}

func (m Model) colWidth() int {
	return max((m.width-labelWidth)/len(timetable.DayLabels), minColWidth)
}

func (m Model) visiblePeriods() int {
	return max(m.height-chromeLines, 1)
}

func (m Model) modalWidth() int {
	return max(min(m.width-4, 90), 30)
}

func (m Model) renderTabs() string {
	tabs := []string{m.styles.TitleStyle.Render("timetable")}
	for _, id := range m.store.Snapshot().IDs() {
		style := m.styles.TabStyle
		if id == m.table {
			style = m.styles.TabActiveStyle
		}
		tabs = append(tabs, style.Render(id))
	}
	return ansi.Truncate(strings.Join(tabs, " "), m.width, "…")
}

// ghost is where the carried entry would land.
type ghost struct {
	index  int // Entry being carried
	day    int
	first  int
	length int
	valid  bool
}

func (g ghost) covers(day, period int) bool {
	return day == g.day && period >= g.first && period < g.first+g.length
}

// dragGhost snaps the cursor displacement to the grid the way a pointer
// drag is snapped. A displacement the snap had to clamp would be rejected.
func (m Model) dragGhost(t *store.Table) (ghost, bool) {
	id, ok := m.drag.Active()
	if !ok || id.TableID != m.table {
		return ghost{}, false
	}
	e, ok := t.Entry(id.Index)
	if !ok {
		return ghost{}, false
	}

	d := m.dragDelta()
	day, first, n := timetable.DayIndex(e.Day), e.Range[0], len(e.Range)
	raw := grid.Transform{
		X:      float64(d.Day) * m.geometry.CellWidth,
		Y:      float64(d.Period) * m.geometry.CellHeight,
		ScaleX: 1,
		ScaleY: 1,
	}
	rows := max(m.periodRows(t), first+n-1+d.Period)
	container := m.geometry.ContainerRect(len(timetable.DayLabels), rows)
	source := m.geometry.EntryRect(day, first, n)
	snapped := m.drag.Track(raw, &container, &source)

	return ghost{
		index:  id.Index,
		day:    day + int(math.Round(snapped.X/m.geometry.CellWidth)),
		first:  first + int(math.Round(snapped.Y/m.geometry.CellHeight)),
		length: n,
		valid:  snapped.X == raw.X && snapped.Y == raw.Y,
	}, true
}

// cellOwners maps each occupied cell to the entry drawn there. Later
// entries win overlapping cells.
func cellOwners(t *store.Table) map[Position]int {
	owners := make(map[Position]int)
	for i, e := range t.Entries() {
		day := timetable.DayIndex(e.Day)
		for _, p := range e.Range {
			owners[Position{Day: day, Period: p}] = i
		}
	}
	return owners
}

func (m Model) renderGrid(t *store.Table) string {
	s := m.styles
	colW := m.colWidth()
	owners := cellOwners(t)
	entries := t.Entries()
	g, dragging := m.dragGhost(t)

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", labelWidth))
	for day, label := range timetable.DayLabels {
		style := s.DayHeaderStyle
		if dragging && day == g.day {
			style = s.DayHeaderDragStyle
		}
		b.WriteString(style.Width(colW).Render(label))
	}

	rows := m.periodRows(t)
	first := min(m.scroll+1, rows)
	last := min(first+m.visiblePeriods()-1, rows)
	for p := first; p <= last; p++ {
		b.WriteByte('\n')
		b.WriteString(m.periodLabel(p))
		for day := range timetable.DayLabels {
			pos := Position{Day: day, Period: p}
			text, style := m.cell(pos, owners, entries, g, dragging)
			b.WriteString(style.Width(colW).Render(ansi.Truncate(text, colW-2, "…")))
		}
	}
	return b.String()
}

func (m Model) periodLabel(p int) string {
	style := m.styles.PeriodLabelStyle
	label := strconv.Itoa(p)
	if period, ok := timetable.PeriodByID(p); ok {
		label = fmt.Sprintf("%2d %s", p, period.Start)
		if timetable.IsEvening(p) {
			style = m.styles.EveningLabelStyle
		}
	}
	return style.Width(labelWidth).Render(label)
}

// cell picks the text and style of one grid cell.
func (m Model) cell(pos Position, owners map[Position]int, entries []timetable.Entry, g ghost, dragging bool) (string, lipgloss.Style) {
	s := m.styles

	if dragging && g.covers(pos.Day, pos.Period) {
		text := ""
		if pos.Period == g.first {
			text = entries[g.index].Lecture.Title
		}
		if g.valid {
			return text, s.DragTargetStyle
		}
		return text, s.DragInvalidStyle
	}

	idx, occupied := owners[pos]
	if !occupied {
		if m.mode != ModeDrag && pos == m.cursor {
			return "·", s.CursorStyle
		}
		return "·", s.EmptyCellStyle
	}

	e := entries[idx]
	if dragging && idx == g.index {
		return cellText(e, pos.Period), s.DragSourceStyle
	}
	if m.mode != ModeDrag && pos == m.cursor {
		return cellText(e, pos.Period), s.CursorStyle
	}

	above, touches := owners[Position{Day: pos.Day, Period: pos.Period - 1}]
	alt := touches && above != idx
	switch {
	case timetable.IsEvening(pos.Period) && alt:
		return cellText(e, pos.Period), s.EveEntryAltStyle
	case timetable.IsEvening(pos.Period):
		return cellText(e, pos.Period), s.EveEntryStyle
	case alt:
		return cellText(e, pos.Period), s.DayEntryAltStyle
	default:
		return cellText(e, pos.Period), s.DayEntryStyle
	}
}

// cellText shows the title in an entry's first cell and its id and room in
// the second.
func cellText(e timetable.Entry, period int) string {
	switch {
	case period == e.Range[0]:
		return e.Lecture.Title
	case len(e.Range) > 1 && period == e.Range[1]:
		return strings.TrimSpace(e.Lecture.ID + " " + e.Room)
	}
	return ""
}

func (m Model) renderStatus() string {
	switch {
	case m.mode == ModeConfirm && m.confirm != nil:
		return m.styles.ConfirmStyle.Render(m.confirm.prompt + " [y/N]")
	case m.statusMsg == "":
		return ""
	case m.statusError:
		return m.styles.StatusErrorStyle.Render(ansi.Truncate(m.statusMsg, m.width, "…"))
	}
	return m.styles.StatusStyle.Render(ansi.Truncate(m.statusMsg, m.width, "…"))
}

func (m Model) renderHelp() string {
	help := "←↓↑→ move · enter add · / search · m drag · x delete · tab table · D dup · X remove · y copy · w save · q quit"
	if m.mode == ModeDrag {
		help = "←↓↑→ carry · enter drop · esc cancel"
	}
	return m.styles.HelpStyle.Render(ansi.Truncate(help, m.width, "…"))
}

// maxResultRows caps the result list of the search dialog.
const maxResultRows = 12

func (m Model) renderSearch() string {
	s := m.styles
	o := m.search
	w := m.modalWidth()
	inner := w - 4

	lines := []string{
		s.ModalTitleStyle.Render("Add lecture to " + m.table),
		o.input.View(),
	}

	crit := o.session.Criteria()
	var chips []string
	for _, d := range crit.Days {
		chips = append(chips, s.ModalChipStyle.Render(d))
	}
	for _, p := range crit.Periods {
		chips = append(chips, s.ModalChipStyle.Render("P"+strconv.Itoa(p)))
	}
	for _, g := range crit.Grades {
		chips = append(chips, s.ModalChipStyle.Render("grade "+strconv.Itoa(g)))
	}
	if len(chips) > 0 {
		lines = append(lines, strings.Join(chips, " "))
	}

	results := o.session.Results()
	switch {
	case o.session.Loading():
		lines = append(lines, s.ModalRowMutedStyle.Render("Loading catalog…"))
	case o.err != nil:
		lines = append(lines, s.StatusErrorStyle.Render(ansi.Truncate("Catalog unavailable: "+o.err.Error(), inner, "…")))
	case len(results) == 0:
		lines = append(lines, s.ModalRowMutedStyle.Render("No lectures match"))
	default:
		lines = append(lines, s.ModalRowMutedStyle.Render(fmt.Sprintf("%d of %d lectures", len(results), o.session.Catalog().Len())))
	}

	start := max(0, min(o.selected-maxResultRows/2, len(results)-maxResultRows))
	end := min(start+maxResultRows, len(results))
	for i := start; i < end; i++ {
		row := ansi.Truncate(resultRow(results[i]), inner, "…")
		if i == o.selected {
			lines = append(lines, s.ModalSelectedStyle.Width(inner).Render(row))
			continue
		}
		lines = append(lines, s.ModalRowStyle.Render(row))
	}

	lines = append(lines, "", s.ModalHintStyle.Render(ansi.Truncate(
		"↑↓ select · enter add · tab grade · ctrl+x whole week · ctrl+y copy id · esc close", inner, "…")))
	return s.ModalStyle.Width(w).Render(strings.Join(lines, "\n"))
}

func resultRow(l timetable.Lecture) string {
	return fmt.Sprintf("%-8s %s  G%d  %s cr  %s  %s",
		l.ID, l.Title, l.Grade, l.Credits, catalog.MajorShort(l.Major), timetable.FormatSchedule(timetable.ParseSchedule(l.Schedule)))
}
