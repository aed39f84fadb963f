package search

import (
	"slices"
	"strings"

	"github.com/javiermolinar/timetable/internal/timetable"
)

// ScheduleIndex holds parsed slots keyed by schedule descriptor. Lecture
// ids are only unique within one source, so two lectures sharing an id
// still resolve to their own schedules.
type ScheduleIndex map[string][]timetable.Slot

// BuildIndex parses every distinct schedule descriptor once. An empty
// descriptor maps to no slots.
func BuildIndex(lectures []timetable.Lecture) ScheduleIndex {
	index := make(ScheduleIndex, len(lectures))
	for _, l := range lectures {
		if _, seen := index[l.Schedule]; seen {
			continue
		}
		if l.Schedule == "" {
			index[l.Schedule] = nil
			continue
		}
		index[l.Schedule] = timetable.ParseSchedule(l.Schedule)
	}
	return index
}

// Slots returns the parsed slots of a lecture, parsing on a miss.
func (idx ScheduleIndex) Slots(l timetable.Lecture) []timetable.Slot {
	if slots, ok := idx[l.Schedule]; ok {
		return slots
	}
	return timetable.ParseSchedule(l.Schedule)
}

// Filter returns the lectures matching c in catalog order.
// With empty criteria the input slice itself is returned.
func Filter(lectures []timetable.Lecture, index ScheduleIndex, c Criteria) []timetable.Lecture {
	if c.IsEmpty() {
		return lectures
	}

	m := newMatcher(c)
	out := make([]timetable.Lecture, 0)
	for _, l := range lectures {
		if m.match(l, index) {
			out = append(out, l)
		}
	}
	return out
}

type matcher struct {
	query   string
	grades  []int
	majors  []string
	credits string
	days    []string
	periods []int
}

func newMatcher(c Criteria) matcher {
	return matcher{
		query:   strings.ToLower(c.Query),
		grades:  c.Grades,
		majors:  c.Majors,
		credits: c.Credits,
		days:    c.Days,
		periods: c.Periods,
	}
}

// match applies the predicates in a fixed order, stopping at the first miss.
func (m matcher) match(l timetable.Lecture, index ScheduleIndex) bool {
	if m.query != "" &&
		!strings.Contains(strings.ToLower(l.Title), m.query) &&
		!strings.Contains(strings.ToLower(l.ID), m.query) {
		return false
	}
	if len(m.grades) > 0 && !slices.Contains(m.grades, l.Grade) {
		return false
	}
	if len(m.majors) > 0 && !slices.Contains(m.majors, l.Major) {
		return false
	}
	if m.credits != "" && !strings.HasPrefix(l.Credits, m.credits) {
		return false
	}
	if len(m.days) == 0 && len(m.periods) == 0 {
		return true
	}

	slots := index.Slots(l)
	if len(m.days) > 0 && !slices.ContainsFunc(slots, func(s timetable.Slot) bool {
		return slices.Contains(m.days, s.Day)
	}) {
		return false
	}
	if len(m.periods) > 0 && !slices.ContainsFunc(slots, func(s timetable.Slot) bool {
		return slices.ContainsFunc(s.Range, func(p int) bool {
			return slices.Contains(m.periods, p)
		})
	}) {
		return false
	}
	return true
}
