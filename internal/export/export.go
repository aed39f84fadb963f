// Package export writes timetables as CSV and XLSX reports.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/tealeg/xlsx/v3"

	"github.com/javiermolinar/timetable/internal/catalog"
	"github.com/javiermolinar/timetable/internal/store"
	"github.com/javiermolinar/timetable/internal/timetable"
)

// maxSheetName is the longest sheet name spreadsheet applications accept.
const maxSheetName = 31

// Row is one placed entry in a report.
type Row struct {
	Table   string `csv:"table"`
	Index   int    `csv:"index"`
	Day     string `csv:"day"`
	Periods string `csv:"periods"`
	Start   string `csv:"start"`
	End     string `csv:"end"`
	ID      string `csv:"lecture_id"`
	Title   string `csv:"title"`
	Credits string `csv:"credits"`
	Major   string `csv:"major"`
	Room    string `csv:"room"`
}

// Rows flattens the given tables (all tables when none are named) in
// collection order. Unknown ids are skipped.
func Rows(c *store.Collection, tableIDs ...string) []Row {
	if len(tableIDs) == 0 {
		tableIDs = c.IDs()
	}

	var rows []Row
	for _, id := range tableIDs {
		t, ok := c.Table(id)
		if !ok {
			continue
		}
		for i, e := range t.Entries() {
			rows = append(rows, newRow(id, i, e))
		}
	}
	return rows
}

func newRow(tableID string, index int, e timetable.Entry) Row {
	r := Row{
		Table:   tableID,
		Index:   index,
		Day:     e.Day,
		Periods: periodSpan(e.Range),
		ID:      e.Lecture.ID,
		Title:   e.Lecture.Title,
		Credits: e.Lecture.Credits,
		Major:   catalog.MajorLabel(e.Lecture.Major),
		Room:    e.Room,
	}
	if len(e.Range) > 0 {
		if p, ok := timetable.PeriodByID(e.Range[0]); ok {
			r.Start = p.Start
		}
		if p, ok := timetable.PeriodByID(e.Range[len(e.Range)-1]); ok {
			r.End = p.End
		}
	}
	return r
}

func periodSpan(rng []int) string {
	switch len(rng) {
	case 0:
		return ""
	case 1:
		return strconv.Itoa(rng[0])
	default:
		return fmt.Sprintf("%d-%d", rng[0], rng[len(rng)-1])
	}
}

// WriteCSV writes rows with a header line.
func WriteCSV(w io.Writer, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// WriteXLSX writes a workbook with one list sheet and one weekly grid sheet
// per table.
func WriteXLSX(w io.Writer, c *store.Collection, tableIDs ...string) error {
	if len(tableIDs) == 0 {
		tableIDs = c.IDs()
	}

	wb := xlsx.NewFile()
	names := make(map[string]bool)
	for _, id := range tableIDs {
		t, ok := c.Table(id)
		if !ok {
			continue
		}
		if err := addListSheet(wb, sheetName(id, "", names), id, t); err != nil {
			return err
		}
		if err := addGridSheet(wb, sheetName(id, " grid", names), t); err != nil {
			return err
		}
	}
	if len(wb.Sheets) == 0 {
		if _, err := wb.AddSheet("empty"); err != nil {
			return fmt.Errorf("adding sheet: %w", err)
		}
	}

	if err := wb.Write(w); err != nil {
		return fmt.Errorf("writing xlsx: %w", err)
	}
	return nil
}

var listHeader = []string{"index", "day", "periods", "start", "end", "lecture_id", "title", "credits", "major", "room"}

func addListSheet(wb *xlsx.File, name, tableID string, t *store.Table) error {
	sh, err := wb.AddSheet(name)
	if err != nil {
		return fmt.Errorf("adding sheet %s: %w", name, err)
	}
	addStrings(sh.AddRow(), listHeader...)
	for i, e := range t.Entries() {
		r := newRow(tableID, i, e)
		row := sh.AddRow()
		row.AddCell().SetInt(r.Index)
		addStrings(row, r.Day, r.Periods, r.Start, r.End, r.ID, r.Title, r.Credits, r.Major, r.Room)
	}
	return nil
}

// addGridSheet lays the table out like the screen: days across, periods down.
func addGridSheet(wb *xlsx.File, name string, t *store.Table) error {
	sh, err := wb.AddSheet(name)
	if err != nil {
		return fmt.Errorf("adding sheet %s: %w", name, err)
	}

	cells := make(map[[2]int]string)
	last := timetable.PeriodCount
	for _, e := range t.Entries() {
		col := timetable.DayIndex(e.Day)
		for _, p := range e.Range {
			key := [2]int{p, col}
			if cells[key] != "" {
				cells[key] += " / "
			}
			cells[key] += e.Lecture.Title
			last = max(last, p)
		}
	}

	header := sh.AddRow()
	addStrings(header, "period")
	addStrings(header, timetable.DayLabels...)
	for p := 1; p <= last; p++ {
		row := sh.AddRow()
		label := strconv.Itoa(p)
		if period, ok := timetable.PeriodByID(p); ok {
			label = period.Label()
		}
		addStrings(row, label)
		for col := range timetable.DayLabels {
			addStrings(row, cells[[2]int{p, col}])
		}
	}
	return nil
}

func addStrings(row *xlsx.Row, vals ...string) {
	for _, v := range vals {
		row.AddCell().SetString(v)
	}
}

// sheetName derives a unique sheet name from a table id and suffix.
func sheetName(tableID, suffix string, used map[string]bool) string {
	base := tableID
	if limit := maxSheetName - len(suffix); len(base) > limit {
		base = base[len(base)-limit:]
	}
	name := base + suffix
	for n := 2; used[name]; n++ {
		tag := "~" + strconv.Itoa(n)
		b := base
		if limit := maxSheetName - len(suffix) - len(tag); len(b) > limit {
			b = b[len(b)-limit:]
		}
		name = b + tag + suffix
	}
	used[name] = true
	return name
}
