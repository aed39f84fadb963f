package tui

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timetable/internal/dataset"
	"github.com/javiermolinar/timetable/internal/drag"
	"github.com/javiermolinar/timetable/internal/timetable"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		if m.search != nil {
			m.search.session.Close()
		}
		return m, tea.Quit
	}

	switch m.mode {
	case ModeSearch:
		return m.handleSearchKeys(msg)
	case ModeDrag:
		return m.handleDragKeys(msg)
	case ModeConfirm:
		return m.handleConfirmKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "h", "left", "l", "right", "k", "up", "j", "down", "g", "G":
		m.moveCursor(msg.String())

	case "tab", "]":
		m.switchTable(1)
	case "shift+tab", "[":
		m.switchTable(-1)

	case "/":
		return m.openSearch(false)
	case "enter", "a":
		return m.openSearch(true)

	case "m", " ":
		return m.startDrag()

	case "x", "delete":
		return m.askDeleteEntry()

	case "D":
		id, err := m.store.Duplicate(m.table)
		if err != nil {
			return m.setError("tui.duplicate", err)
		}
		m.table = id
		return m.setStatus("Duplicated into %s", id)

	case "X":
		id := m.table
		m.confirm = &confirmation{
			prompt: fmt.Sprintf("Remove table %s?", id),
			action: func(m Model) (Model, tea.Cmd) {
				if err := m.store.Remove(id); err != nil {
					return m.setError("tui.remove", err)
				}
				m.currentTable()
				return m.setStatus("Removed %s", id)
			},
		}
		m.mode = ModeConfirm

	case "y":
		return m.copyTable()

	case "w":
		return m.saveDataset()
	}

	return m, nil
}

// moveCursor moves the cursor one cell, or to the top/bottom with g/G.
func (m *Model) moveCursor(key string) {
	last := lastPeriod(m.currentTable())
	switch key {
	case "h", "left":
		m.cursor.Day = max(m.cursor.Day-1, 0)
	case "l", "right":
		m.cursor.Day = min(m.cursor.Day+1, len(timetable.DayLabels)-1)
	case "k", "up":
		m.cursor.Period = max(m.cursor.Period-1, 1)
	case "j", "down":
		m.cursor.Period = min(m.cursor.Period+1, last)
	case "g":
		m.cursor.Period = 1
	case "G":
		m.cursor.Period = last
	}
	m.scrollToCursor()
}

// switchTable cycles through the tables in insertion order.
func (m *Model) switchTable(step int) {
	ids := m.store.Snapshot().IDs()
	if len(ids) == 0 {
		return
	}
	i := slices.Index(ids, m.table)
	i = ((i+step)%len(ids) + len(ids)) % len(ids)
	m.table = ids[i]
}

func (m Model) askDeleteEntry() (Model, tea.Cmd) {
	t := m.currentTable()
	idx, ok := entryAt(t, m.cursor)
	if !ok {
		return m, nil
	}
	e, _ := t.Entry(idx)
	table := m.table
	m.confirm = &confirmation{
		prompt: fmt.Sprintf("Delete %s %s %s?", e.Lecture.Title, e.Day, periodSpan(e.Range)),
		action: func(m Model) (Model, tea.Cmd) {
			if err := m.store.DeleteEntry(table, idx); err != nil {
				return m.setError("tui.delete", err)
			}
			return m.setStatus("Deleted %s", e.Lecture.ID)
		},
	}
	m.mode = ModeConfirm
	return m, nil
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.confirm
	m.confirm = nil
	m.mode = ModeNormal
	if c == nil {
		return m, nil
	}
	switch msg.String() {
	case "y", "Y", "enter":
		return c.action(m)
	}
	return m, nil
}

// startDrag picks up the entry under the cursor.
func (m Model) startDrag() (Model, tea.Cmd) {
	idx, ok := entryAt(m.currentTable(), m.cursor)
	if !ok {
		return m, nil
	}
	if err := m.drag.Start(drag.ID{TableID: m.table, Index: idx}); err != nil {
		return m.setError("tui.drag", err)
	}
	m.mode = ModeDrag
	m.dragAnchor = m.cursor
	return m, nil
}

func (m Model) handleDragKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "left", "l", "right", "k", "up", "j", "down":
		m.moveCursor(msg.String())
		return m, nil

	case "esc":
		m.drag.Cancel()
		m.mode = ModeNormal
		m.cursor = m.dragAnchor
		m.scrollToCursor()
		return m, nil

	case "enter", " ", "m":
		return m.dropDrag()
	}
	return m, nil
}

// dropDrag ends the drag with the cursor's displacement in pixels, the way
// a pointer release would report it.
func (m Model) dropDrag() (Model, tea.Cmd) {
	d := m.dragDelta()
	res := m.drag.End(
		float64(d.Day)*m.geometry.CellWidth,
		float64(d.Period)*m.geometry.CellHeight,
	)
	m.mode = ModeNormal

	switch res.Outcome {
	case drag.Moved:
		return m.setStatus("Moved %s to %s %s", res.After.Lecture.ID, res.After.Day, periodSpan(res.After.Range))
	case drag.Unchanged:
		return m, nil
	default:
		// Rejected drops snap back without a message; the drop target
		// was already drawn as rejected while carrying.
		m.cursor = m.dragAnchor
		m.scrollToCursor()
		return m, nil
	}
}

// copyTable puts the current table on the clipboard, one entry per line.
func (m Model) copyTable() (Model, tea.Cmd) {
	t := m.currentTable()
	if t.Len() == 0 {
		return m.setStatus("Nothing to copy")
	}
	var b strings.Builder
	for _, e := range t.Entries() {
		fmt.Fprintf(&b, "%s\t%s\t%s %s", e.Lecture.ID, e.Lecture.Title, e.Day, periodSpan(e.Range))
		if e.Room != "" {
			fmt.Fprintf(&b, "\t%s", e.Room)
		}
		b.WriteByte('\n')
	}
	if err := clipboard.WriteAll(b.String()); err != nil {
		return m.setError("tui.copy", err)
	}
	return m.setStatus("Copied %d entries", t.Len())
}

// saveDataset writes every table to the configured dataset file.
func (m Model) saveDataset() (Model, tea.Cmd) {
	path := m.config.Dataset.Path
	if path == "" {
		return m.setError("tui.save", fmt.Errorf("no dataset path configured"))
	}
	snap := m.store.Snapshot()
	data, err := dataset.Encode(snap)
	if err != nil {
		return m.setError("tui.save", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return m.setError("tui.save", fmt.Errorf("writing dataset: %w", err))
	}
	return m.setStatus("Saved %d tables to %s", snap.Len(), path)
}

// periodSpan formats a contiguous range as "3" or "3-5".
func periodSpan(rng []int) string {
	switch len(rng) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("%d", rng[0])
	}
	return fmt.Sprintf("%d-%d", rng[0], rng[len(rng)-1])
}
