// Package dataset loads the initial timetable collection from TOML.
package dataset

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/timetable/internal/debuglog"
	"github.com/javiermolinar/timetable/internal/store"
	"github.com/javiermolinar/timetable/internal/timetable"
)

// EmbeddedSource names the built-in dataset in log events.
const EmbeddedSource = "embedded"

//go:embed embedded/default.toml
var defaultData []byte

// ErrDuplicateTable is returned when a table id appears twice.
var ErrDuplicateTable = errors.New("duplicate table id")

type file struct {
	Tables []tableRecord `toml:"tables"`
}

type tableRecord struct {
	ID      string        `toml:"id"`
	Entries []entryRecord `toml:"entries"`
}

type entryRecord struct {
	ID       string `toml:"id"`
	Title    string `toml:"title"`
	Grade    int    `toml:"grade"`
	Credits  string `toml:"credits"`
	Major    string `toml:"major"`
	Schedule string `toml:"schedule"`
	Day      string `toml:"day"`
	Range    []int  `toml:"range"`
	Room     string `toml:"room,omitempty"`
}

// Default returns the embedded dataset.
func Default() []byte {
	return defaultData
}

// Load reads the dataset at path, or the embedded one when path is empty.
// Any failure is logged and yields an empty collection.
func Load(path string, log *debuglog.Logger) *store.Collection {
	source := path
	data := defaultData
	if path == "" {
		source = EmbeddedSource
	} else {
		b, err := os.ReadFile(path)
		if err != nil {
			log.LogDataset(source, 0, 0, fmt.Errorf("reading dataset: %w", err))
			return store.NewCollection()
		}
		data = b
	}

	c, err := Decode(data)
	if err != nil {
		log.LogDataset(source, 0, 0, err)
		return store.NewCollection()
	}
	log.LogDataset(source, c.Len(), countEntries(c), nil)
	return c
}

// Decode parses a dataset. Every entry is validated.
func Decode(data []byte) (*store.Collection, error) {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}

	c := store.NewCollection()
	for _, tr := range f.Tables {
		if tr.ID == "" {
			return nil, errors.New("table without id")
		}
		if _, exists := c.Table(tr.ID); exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTable, tr.ID)
		}

		entries := make([]timetable.Entry, 0, len(tr.Entries))
		for i, er := range tr.Entries {
			e := er.entry()
			if err := e.Validate(); err != nil {
				return nil, fmt.Errorf("table %s entry %d: %w", tr.ID, i, err)
			}
			entries = append(entries, e)
		}
		c = c.With(tr.ID, store.NewTable(entries...))
	}
	return c, nil
}

// Encode writes a collection in dataset form, tables in collection order.
func Encode(c *store.Collection) ([]byte, error) {
	var f file
	for _, id := range c.IDs() {
		t, _ := c.Table(id)
		tr := tableRecord{ID: id}
		for _, e := range t.Entries() {
			tr.Entries = append(tr.Entries, record(e))
		}
		f.Tables = append(f.Tables, tr)
	}
	data, err := toml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encoding dataset: %w", err)
	}
	return data, nil
}

func (r entryRecord) entry() timetable.Entry {
	l := timetable.Lecture{
		ID:       r.ID,
		Title:    r.Title,
		Grade:    r.Grade,
		Credits:  r.Credits,
		Major:    r.Major,
		Schedule: r.Schedule,
	}
	day := timetable.NormalizeDay(r.Day)
	if day == "" {
		day = r.Day
	}
	return timetable.NewEntry(l, timetable.Slot{
		Day:   day,
		Range: r.Range,
		Room:  r.Room,
	})
}

func record(e timetable.Entry) entryRecord {
	return entryRecord{
		ID:       e.Lecture.ID,
		Title:    e.Lecture.Title,
		Grade:    e.Lecture.Grade,
		Credits:  e.Lecture.Credits,
		Major:    e.Lecture.Major,
		Schedule: e.Lecture.Schedule,
		Day:      e.Day,
		Range:    e.Range,
		Room:     e.Room,
	}
}

func countEntries(c *store.Collection) int {
	n := 0
	for _, id := range c.IDs() {
		t, _ := c.Table(id)
		n += t.Len()
	}
	return n
}
