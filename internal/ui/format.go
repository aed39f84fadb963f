package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/timetable/internal/catalog"
	"github.com/javiermolinar/timetable/internal/store"
	"github.com/javiermolinar/timetable/internal/timetable"
)

// formatRange renders a period run as "1-3" or "4".
func formatRange(rng []int) string {
	switch len(rng) {
	case 0:
		return "-"
	case 1:
		return strconv.Itoa(rng[0])
	default:
		return fmt.Sprintf("%d-%d", rng[0], rng[len(rng)-1])
	}
}

// formatTimes renders the clock span of a period run.
func formatTimes(rng []int) string {
	if len(rng) == 0 {
		return ""
	}
	first, ok1 := timetable.PeriodByID(rng[0])
	last, ok2 := timetable.PeriodByID(rng[len(rng)-1])
	if !ok1 || !ok2 {
		return "beyond grid"
	}
	return first.Start + "-" + last.End
}

// formatSlots renders parsed slots as "Mon 1-3 (A101), Wed 4".
func formatSlots(slots []timetable.Slot) string {
	parts := make([]string, 0, len(slots))
	for _, s := range slots {
		part := s.Day + " " + formatRange(s.Range)
		if s.Room != "" {
			part += " (" + s.Room + ")"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

// truncate cuts s to width terminal cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// pad truncates or right-pads s to exactly width cells.
func pad(s string, width int) string {
	s = truncate(s, width)
	if n := ansi.StringWidth(s); n < width {
		s += strings.Repeat(" ", width-n)
	}
	return s
}

// printLecture prints one search result row.
func (a *App) printLecture(l timetable.Lecture, slots []timetable.Slot, titleWidth int) {
	a.printf("  %s  %s  %s  %s  %s\n",
		formatID(pad(l.ID, 8)),
		pad(l.Title, titleWidth),
		formatMuted(fmt.Sprintf("G%d %3s cr", l.Grade, l.Credits)),
		formatSlot(formatSlots(slots)),
		formatMuted(catalog.MajorShort(l.Major)),
	)
}

// printEntries prints the entries of a table with their indexes.
func (a *App) printEntries(t *store.Table) {
	if t.Len() == 0 {
		a.println("  (empty)")
		return
	}
	for i, e := range t.Entries() {
		a.printf("  %2d  %s %-5s %-11s  %s  %s\n",
			i,
			formatSlot(e.Day),
			formatRange(e.Range),
			formatTimes(e.Range),
			formatID(e.Lecture.ID),
			e.Lecture.Title,
		)
	}
}

// renderWeek draws a table as a text grid, days across and periods down.
// Rows after the last occupied period are omitted.
func renderWeek(t *store.Table, width int) string {
	const labelWidth = 12
	colWidth := max((width-labelWidth)/len(timetable.DayLabels)-1, 6)

	cells := make(map[[2]int]string)
	last := 0
	for _, e := range t.Entries() {
		col := timetable.DayIndex(e.Day)
		for i, p := range e.Range {
			text := "│"
			if i == 0 {
				text = e.Lecture.Title
			}
			key := [2]int{p, col}
			if cells[key] != "" {
				text = "!" + text // overlapping entries
			}
			cells[key] = text
			last = max(last, p)
		}
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", labelWidth))
	for _, d := range timetable.DayLabels {
		b.WriteString(" ")
		b.WriteString(formatHeader(pad(d, colWidth)))
	}
	b.WriteString("\n")

	for p := 1; p <= last; p++ {
		label := strconv.Itoa(p)
		if period, ok := timetable.PeriodByID(p); ok {
			label = period.Label()
		}
		b.WriteString(formatMuted(pad(label, labelWidth)))
		for col := range timetable.DayLabels {
			b.WriteString(" ")
			cell := cells[[2]int{p, col}]
			if cell == "" {
				cell = "·"
			}
			b.WriteString(pad(cell, colWidth))
		}
		b.WriteString("\n")
	}
	return b.String()
}
