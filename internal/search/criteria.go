// Package search filters the lecture catalog.
package search

import (
	"slices"
	"strconv"
	"strings"

	"github.com/javiermolinar/timetable/internal/timetable"
)

// Criteria selects lectures from the catalog. Empty fields match everything.
type Criteria struct {
	Query   string
	Grades  []int
	Days    []string
	Periods []int
	Majors  []string
	Credits string
}

// IsEmpty reports whether the criteria select the whole catalog.
func (c Criteria) IsEmpty() bool {
	return c.Query == "" &&
		len(c.Grades) == 0 &&
		len(c.Days) == 0 &&
		len(c.Periods) == 0 &&
		len(c.Majors) == 0 &&
		c.Credits == ""
}

// Key returns a canonical string for the criteria. Two criteria with the same
// key select the same lectures.
func (c Criteria) Key() string {
	var b strings.Builder
	b.WriteString("q=")
	b.WriteString(strconv.Quote(c.Query))
	b.WriteString(";g=")
	writeInts(&b, sortedUnique(c.Grades))
	b.WriteString(";d=")
	writeStrings(&b, sortedUnique(c.Days))
	b.WriteString(";p=")
	writeInts(&b, sortedUnique(c.Periods))
	b.WriteString(";m=")
	writeStrings(&b, sortedUnique(c.Majors))
	b.WriteString(";c=")
	b.WriteString(strconv.Quote(c.Credits))
	return b.String()
}

// Clone returns a deep copy.
func (c Criteria) Clone() Criteria {
	return Criteria{
		Query:   c.Query,
		Grades:  slices.Clone(c.Grades),
		Days:    slices.Clone(c.Days),
		Periods: slices.Clone(c.Periods),
		Majors:  slices.Clone(c.Majors),
		Credits: c.Credits,
	}
}

// ForCell returns criteria preset to a clicked grid cell.
// An empty day or a period below 1 leaves that field unset.
func ForCell(day string, period int) Criteria {
	var c Criteria
	if d := timetable.NormalizeDay(day); d != "" {
		c.Days = []string{d}
	}
	if period >= 1 {
		c.Periods = []int{period}
	}
	return c
}

func sortedUnique[T int | string](in []T) []T {
	out := slices.Clone(in)
	slices.Sort(out)
	return slices.Compact(out)
}

func writeInts(b *strings.Builder, vals []int) {
	for i, v := range vals {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
}

func writeStrings(b *strings.Builder, vals []string) {
	for i, v := range vals {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(v))
	}
}
