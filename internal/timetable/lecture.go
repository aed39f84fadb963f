// Package timetable defines the core domain types for timetable.
package timetable

import (
	"errors"
	"fmt"
	"slices"
)

// Validation errors.
var (
	ErrEmptyRange       = errors.New("range cannot be empty")
	ErrRangeNotContig   = errors.New("range must be a contiguous increasing run")
	ErrPeriodBelowFirst = errors.New("period must be 1 or greater")
	ErrUnknownDay       = errors.New("unknown day label")
)

// Lecture is a catalog record. It is never modified after it is fetched.
type Lecture struct {
	ID       string `json:"id" csv:"id" db:"id" toml:"id"`
	Title    string `json:"title" csv:"title" db:"title" toml:"title"`
	Grade    int    `json:"grade" csv:"grade" db:"grade" toml:"grade"`
	Credits  string `json:"credits" csv:"credits" db:"credits" toml:"credits"`
	Major    string `json:"major" csv:"major" db:"major" toml:"major"`
	Schedule string `json:"schedule" csv:"schedule" db:"schedule" toml:"schedule"`
}

// Entry is a lecture placed on one day of a table.
// Entries are values: a move produces a new Entry, it never edits one.
type Entry struct {
	Lecture Lecture
	Day     string
	Range   []int
	Room    string
}

// NewEntry places a lecture on the given slot. The range is copied.
func NewEntry(l Lecture, s Slot) Entry {
	return Entry{
		Lecture: l,
		Day:     s.Day,
		Range:   slices.Clone(s.Range),
		Room:    s.Room,
	}
}

// EntriesFor expands a lecture into one entry per slot.
func EntriesFor(l Lecture, slots []Slot) []Entry {
	entries := make([]Entry, 0, len(slots))
	for _, s := range slots {
		entries = append(entries, NewEntry(l, s))
	}
	return entries
}

// Moved returns a copy of the entry placed at day/rng. Lecture and room are kept.
func (e Entry) Moved(day string, rng []int) Entry {
	return Entry{
		Lecture: e.Lecture,
		Day:     day,
		Range:   slices.Clone(rng),
		Room:    e.Room,
	}
}

// SamePosition reports whether two entries occupy the same day and periods.
func (e Entry) SamePosition(day string, rng []int) bool {
	return e.Day == day && slices.Equal(e.Range, rng)
}

// Slot returns the position of the entry.
func (e Entry) Slot() Slot {
	return Slot{Day: e.Day, Range: slices.Clone(e.Range), Room: e.Room}
}

// Validate checks the day label and range invariants.
func (e Entry) Validate() error {
	if DayIndex(e.Day) < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownDay, e.Day)
	}
	return ValidateRange(e.Range)
}

// ValidateRange checks that rng is a non-empty contiguous run starting at 1 or later.
func ValidateRange(rng []int) error {
	if len(rng) == 0 {
		return ErrEmptyRange
	}
	for i, p := range rng {
		if p < 1 {
			return ErrPeriodBelowFirst
		}
		if i > 0 && p != rng[i-1]+1 {
			return ErrRangeNotContig
		}
	}
	return nil
}
