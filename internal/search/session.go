package search

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/javiermolinar/timetable/internal/debuglog"
	"github.com/javiermolinar/timetable/internal/store"
	"github.com/javiermolinar/timetable/internal/timetable"
)

// ErrSessionClosed is returned by Load when the session was closed before
// the catalog arrived. The fetched catalog is discarded.
var ErrSessionClosed = errors.New("search session closed")

// Fetcher provides the aggregate catalog. *catalog.Cache implements it.
type Fetcher interface {
	FetchAll(ctx context.Context, keys ...string) ([]timetable.Lecture, error)
	FetchAvailable(ctx context.Context, keys ...string) ([]timetable.Lecture, error)
}

// Session is one open search surface: the catalog it loaded, the current
// criteria and the debounced query input.
type Session struct {
	mu       sync.Mutex
	fetcher  Fetcher
	keys     []string
	partial  bool
	alive    bool
	loading  bool
	err      error
	catalog  *Catalog
	criteria Criteria

	query    *Debouncer
	selector *Selector
	onChange func()
	log      *debuglog.Logger

	debounce  time.Duration
	scheduler Scheduler
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSources limits the session to the given catalog sources.
func WithSources(keys ...string) SessionOption {
	return func(s *Session) { s.keys = slices.Clone(keys) }
}

// WithPartial lets the session use the sources that loaded when others fail.
func WithPartial(partial bool) SessionOption {
	return func(s *Session) { s.partial = partial }
}

// WithDebounce sets the query idle delay and the scheduler that times it.
func WithDebounce(d time.Duration, scheduler Scheduler) SessionOption {
	return func(s *Session) {
		s.debounce = d
		s.scheduler = scheduler
	}
}

// WithLogger sets the event logger.
func WithLogger(l *debuglog.Logger) SessionOption {
	return func(s *Session) { s.log = l }
}

// WithOnChange registers a callback run after the results may have changed.
func WithOnChange(fn func()) SessionOption {
	return func(s *Session) { s.onChange = fn }
}

// NewSession opens a search session over fetcher.
func NewSession(fetcher Fetcher, opts ...SessionOption) *Session {
	s := &Session{
		fetcher:  fetcher,
		alive:    true,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.selector = NewSelector(s.log)
	s.query = NewDebouncer(s.debounce, s.scheduler, func(string) { s.changed() })
	return s
}

// Load fetches the catalog and installs it if the session is still open.
// A failed fetch installs an empty catalog and returns the error.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if !s.alive {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.loading = true
	s.mu.Unlock()

	var (
		lectures []timetable.Lecture
		err      error
	)
	if s.partial {
		lectures, err = s.fetcher.FetchAvailable(ctx, s.keys...)
	} else {
		lectures, err = s.fetcher.FetchAll(ctx, s.keys...)
	}
	if err != nil {
		s.log.LogError("search.load", err)
		if !s.partial {
			lectures = nil
		}
	}
	cat := NewCatalog(lectures)

	s.mu.Lock()
	if !s.alive {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.catalog = cat
	s.loading = false
	s.err = err
	s.mu.Unlock()

	s.changed()
	return err
}

// Close tears the session down. An outstanding Load completes but its
// result is dropped.
func (s *Session) Close() {
	s.mu.Lock()
	s.alive = false
	s.loading = false
	s.mu.Unlock()
	s.query.Stop()
}

// Alive reports whether the session is open.
func (s *Session) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alive
}

// Loading reports whether a Load is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the error of the last Load.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Catalog returns the loaded catalog, or nil before Load.
func (s *Session) Catalog() *Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

// Criteria returns the effective criteria, with the settled query.
func (s *Session) Criteria() Criteria {
	s.mu.Lock()
	c := s.criteria.Clone()
	s.mu.Unlock()
	c.Query = s.query.Value()
	return c
}

// Results returns the lectures matching the effective criteria.
func (s *Session) Results() []timetable.Lecture {
	return s.selector.Select(s.Catalog(), s.Criteria())
}

// Selector exposes the memoized filter.
func (s *Session) Selector() *Selector {
	return s.selector
}

// QueryInput returns the raw query as typed.
func (s *Session) QueryInput() string {
	return s.query.Raw()
}

// SetQueryInput records typed text. It takes effect once input is idle.
func (s *Session) SetQueryInput(q string) {
	s.query.Set(q)
}

// FlushQuery applies the typed text immediately.
func (s *Session) FlushQuery() {
	s.query.Flush()
}

// Prefill presets the day and period filters from a clicked grid cell.
// An empty day or a period below 1 clears that filter.
func (s *Session) Prefill(day string, period int) {
	cell := ForCell(day, period)
	s.edit(func(c *Criteria) {
		c.Days = cell.Days
		c.Periods = cell.Periods
	})
}

// SetGrades replaces the grade filter.
func (s *Session) SetGrades(grades ...int) {
	s.edit(func(c *Criteria) { c.Grades = slices.Clone(grades) })
}

// SetDays replaces the day filter. Aliases are normalized and unknown labels dropped.
func (s *Session) SetDays(days ...string) {
	norm := make([]string, 0, len(days))
	for _, d := range days {
		if label := timetable.NormalizeDay(d); label != "" {
			norm = append(norm, label)
		}
	}
	s.edit(func(c *Criteria) { c.Days = norm })
}

// SetPeriods replaces the period filter.
func (s *Session) SetPeriods(periods ...int) {
	s.edit(func(c *Criteria) { c.Periods = slices.Clone(periods) })
}

// RemovePeriod drops one period from the filter.
func (s *Session) RemovePeriod(period int) {
	s.edit(func(c *Criteria) {
		c.Periods = slices.DeleteFunc(slices.Clone(c.Periods), func(p int) bool { return p == period })
	})
}

// SetMajors replaces the major filter.
func (s *Session) SetMajors(majors ...string) {
	s.edit(func(c *Criteria) { c.Majors = slices.Clone(majors) })
}

// RemoveMajor drops one major from the filter.
func (s *Session) RemoveMajor(major string) {
	s.edit(func(c *Criteria) {
		c.Majors = slices.DeleteFunc(slices.Clone(c.Majors), func(m string) bool { return m == major })
	})
}

// SetCredits sets the credit prefix. Empty clears it.
func (s *Session) SetCredits(credits string) {
	s.edit(func(c *Criteria) { c.Credits = credits })
}

// Add appends one entry per schedule slot of l to a table and returns how
// many were added. Slots come from the catalog index when present.
func (s *Session) Add(st *store.Store, tableID string, l timetable.Lecture) (int, error) {
	var slots []timetable.Slot
	if cat := s.Catalog(); cat != nil {
		slots = cat.Index.Slots(l)
	} else {
		slots = timetable.ParseSchedule(l.Schedule)
	}
	entries := timetable.EntriesFor(l, slots)
	if err := st.AddEntries(tableID, entries...); err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (s *Session) edit(fn func(*Criteria)) {
	s.mu.Lock()
	fn(&s.criteria)
	s.mu.Unlock()
	s.changed()
}

func (s *Session) changed() {
	s.mu.Lock()
	alive, fn := s.alive, s.onChange
	s.mu.Unlock()
	if alive && fn != nil {
		fn()
	}
}
