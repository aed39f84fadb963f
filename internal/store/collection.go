// Package store holds the authoritative set of timetables.
package store

import (
	"slices"

	"github.com/javiermolinar/timetable/internal/timetable"
)

// Table is an immutable ordered list of entries. Entries are addressed by index.
type Table struct {
	entries []timetable.Entry
}

// NewTable creates a table holding copies of entries.
func NewTable(entries ...timetable.Entry) *Table {
	return &Table{entries: cloneEntries(entries)}
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entry returns the entry at index i.
func (t *Table) Entry(i int) (timetable.Entry, bool) {
	if t == nil || i < 0 || i >= len(t.entries) {
		return timetable.Entry{}, false
	}
	return t.entries[i], true
}

// Entries returns a copy of all entries.
func (t *Table) Entries() []timetable.Entry {
	if t == nil {
		return nil
	}
	return cloneEntries(t.entries)
}

// withAppended returns a new table with entries added at the end.
func (t *Table) withAppended(entries []timetable.Entry) *Table {
	next := make([]timetable.Entry, 0, t.Len()+len(entries))
	next = append(next, t.entries...)
	next = append(next, cloneEntries(entries)...)
	return &Table{entries: next}
}

// withReplaced returns a new table with entry i replaced.
// Other entries are shared, they are never written to.
func (t *Table) withReplaced(i int, e timetable.Entry) *Table {
	next := slices.Clone(t.entries)
	next[i] = cloneEntry(e)
	return &Table{entries: next}
}

// withoutIndex returns a new table with entry i removed.
func (t *Table) withoutIndex(i int) *Table {
	next := make([]timetable.Entry, 0, t.Len()-1)
	next = append(next, t.entries[:i]...)
	next = append(next, t.entries[i+1:]...)
	return &Table{entries: next}
}

// Collection maps table identifiers to tables, keeping insertion order.
// A Collection is never modified once published; every change builds a new one.
type Collection struct {
	order  []string
	tables map[string]*Table
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{tables: make(map[string]*Table)}
}

// Len returns the number of tables.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// IDs returns the table identifiers in display order.
func (c *Collection) IDs() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.order)
}

// Table returns the table with the given identifier.
func (c *Collection) Table(id string) (*Table, bool) {
	if c == nil {
		return nil, false
	}
	t, ok := c.tables[id]
	return t, ok
}

// With returns a collection where id maps to t. New ids are appended.
func (c *Collection) With(id string, t *Table) *Collection {
	next := c.clone()
	if _, ok := next.tables[id]; !ok {
		next.order = append(next.order, id)
	}
	next.tables[id] = t
	return next
}

// Without returns a collection with id removed. Other ids keep their order.
func (c *Collection) Without(id string) *Collection {
	if _, ok := c.Table(id); !ok {
		return c
	}
	next := c.clone()
	delete(next.tables, id)
	next.order = slices.DeleteFunc(next.order, func(s string) bool { return s == id })
	return next
}

// clone copies the index, sharing the tables themselves.
func (c *Collection) clone() *Collection {
	next := &Collection{
		order:  c.IDs(),
		tables: make(map[string]*Table, c.Len()+1),
	}
	if c != nil {
		for id, t := range c.tables {
			next.tables[id] = t
		}
	}
	return next
}

func cloneEntry(e timetable.Entry) timetable.Entry {
	e.Range = slices.Clone(e.Range)
	return e
}

func cloneEntries(entries []timetable.Entry) []timetable.Entry {
	out := make([]timetable.Entry, len(entries))
	for i, e := range entries {
		out[i] = cloneEntry(e)
	}
	return out
}
