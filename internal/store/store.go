package store

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/oklog/ulid/v2"

	"github.com/javiermolinar/timetable/internal/debuglog"
	"github.com/javiermolinar/timetable/internal/timetable"
)

// Store errors.
var (
	ErrTableNotFound = errors.New("table not found")
	ErrTableExists   = errors.New("table already exists")
	ErrEntryNotFound = errors.New("entry not found")
	ErrLastTable     = errors.New("cannot remove the last table")
	ErrClosed        = errors.New("store is closed")
)

// TablePrefix is the prefix of generated table identifiers.
const TablePrefix = "schedule-"

// Store is the single writer of the timetable collection. Readers take
// snapshots without locking; writers publish a new *Collection per change.
type Store struct {
	mu      sync.Mutex
	current atomic.Pointer[Collection]
	closed  bool

	subs   map[int]func(*Collection)
	nextID int

	newTableID func() string
	log        *debuglog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the event logger.
func WithLogger(l *debuglog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithIDGenerator overrides how duplicated tables are named.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newTableID = fn }
}

// New creates a store seeded with initial. A nil initial means empty.
func New(initial *Collection, opts ...Option) *Store {
	if initial == nil {
		initial = NewCollection()
	}
	s := &Store{
		subs:       make(map[int]func(*Collection)),
		newTableID: func() string { return TablePrefix + ulid.Make().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(initial)
	return s
}

// Snapshot returns the current collection. It is safe to keep and read.
func (s *Store) Snapshot() *Collection {
	return s.current.Load()
}

// Subscribe registers fn to be called with each newly published collection.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(*Collection)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Close tears the store down. Later mutations fail with ErrClosed.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.subs = make(map[int]func(*Collection))
}

// Update applies fn to the current collection and publishes the result.
// Returning the same pointer publishes nothing.
func (s *Store) Update(fn func(*Collection) *Collection) error {
	return s.mutate("update", "", func(c *Collection) (*Collection, error) {
		return fn(c), nil
	})
}

// mutate serialises writers and notifies subscribers after publishing.
func (s *Store) mutate(op, tableID string, fn func(*Collection) (*Collection, error)) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}

	prev := s.current.Load()
	next, err := fn(prev)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if next == nil || next == prev {
		s.mu.Unlock()
		return nil
	}
	s.current.Store(next)

	subs := make([]func(*Collection), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	s.log.LogStore(op, tableID)
	for _, sub := range subs {
		sub(next)
	}
	return nil
}

// CreateTable adds an empty table.
func (s *Store) CreateTable(id string) error {
	return s.mutate("create", id, func(c *Collection) (*Collection, error) {
		if _, ok := c.Table(id); ok {
			return nil, fmt.Errorf("%w: %s", ErrTableExists, id)
		}
		return c.With(id, NewTable()), nil
	})
}

// AddEntries appends entries to a table.
func (s *Store) AddEntries(tableID string, entries ...timetable.Entry) error {
	return s.mutate("add", tableID, func(c *Collection) (*Collection, error) {
		t, ok := c.Table(tableID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
		}
		if len(entries) == 0 {
			return c, nil
		}
		return c.With(tableID, t.withAppended(entries)), nil
	})
}

// ReplaceEntry swaps the entry at index for e. Other entries and tables are untouched.
func (s *Store) ReplaceEntry(tableID string, index int, e timetable.Entry) error {
	return s.mutate("replace", tableID, func(c *Collection) (*Collection, error) {
		t, err := lookup(c, tableID, index)
		if err != nil {
			return nil, err
		}
		return c.With(tableID, t.withReplaced(index, e)), nil
	})
}

// DeleteEntry removes the entry at index. Later entries shift down by one.
func (s *Store) DeleteEntry(tableID string, index int) error {
	return s.mutate("delete", tableID, func(c *Collection) (*Collection, error) {
		t, err := lookup(c, tableID, index)
		if err != nil {
			return nil, err
		}
		return c.With(tableID, t.withoutIndex(index)), nil
	})
}

// Duplicate copies a table under a new identifier and returns that identifier.
func (s *Store) Duplicate(tableID string) (string, error) {
	var newID string
	err := s.mutate("duplicate", tableID, func(c *Collection) (*Collection, error) {
		t, ok := c.Table(tableID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
		}
		newID = s.newTableID()
		if _, exists := c.Table(newID); exists {
			return nil, fmt.Errorf("%w: %s", ErrTableExists, newID)
		}
		return c.With(newID, NewTable(t.entries...)), nil
	})
	if err != nil {
		return "", err
	}
	return newID, nil
}

// Remove deletes a table by identifier. Remaining identifiers are not renumbered.
// The last table cannot be removed.
func (s *Store) Remove(tableID string) error {
	return s.mutate("remove", tableID, func(c *Collection) (*Collection, error) {
		if _, ok := c.Table(tableID); !ok {
			return nil, fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
		}
		if c.Len() == 1 {
			return nil, ErrLastTable
		}
		return c.Without(tableID), nil
	})
}

func lookup(c *Collection, tableID string, index int) (*Table, error) {
	t, ok := c.Table(tableID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
	}
	if _, ok := t.Entry(index); !ok {
		return nil, fmt.Errorf("%w: %s:%d", ErrEntryNotFound, tableID, index)
	}
	return t, nil
}
