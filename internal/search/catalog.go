package search

import "github.com/javiermolinar/timetable/internal/timetable"

// Catalog is a fetched aggregate with its derived data. It is never modified.
type Catalog struct {
	Lectures []timetable.Lecture
	Index    ScheduleIndex
	Majors   []string
}

// NewCatalog derives the schedule index and major list from lectures.
func NewCatalog(lectures []timetable.Lecture) *Catalog {
	return &Catalog{
		Lectures: lectures,
		Index:    BuildIndex(lectures),
		Majors:   majors(lectures),
	}
}

// Len returns the number of lectures.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Lectures)
}

// Lecture finds a lecture by id.
func (c *Catalog) Lecture(id string) (timetable.Lecture, bool) {
	if c == nil {
		return timetable.Lecture{}, false
	}
	for _, l := range c.Lectures {
		if l.ID == id {
			return l, true
		}
	}
	return timetable.Lecture{}, false
}

// majors lists the distinct majors in first-seen order.
func majors(lectures []timetable.Lecture) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, l := range lectures {
		if _, ok := seen[l.Major]; ok {
			continue
		}
		seen[l.Major] = struct{}{}
		out = append(out, l.Major)
	}
	return out
}
