package search

import (
	"sync"
	"time"

	"github.com/javiermolinar/timetable/internal/debuglog"
	"github.com/javiermolinar/timetable/internal/timetable"
)

// Selector memoizes Filter on its inputs. It recomputes only when the
// catalog pointer or the criteria key differs from the previous call.
type Selector struct {
	mu       sync.Mutex
	catalog  *Catalog
	key      string
	result   []timetable.Lecture
	computed int
	log      *debuglog.Logger
}

// NewSelector returns an empty selector.
func NewSelector(log *debuglog.Logger) *Selector {
	return &Selector{log: log}
}

// Select returns the lectures of cat matching c.
func (s *Selector) Select(cat *Catalog, c Criteria) []timetable.Lecture {
	if cat == nil {
		return nil
	}
	key := c.Key()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.computed > 0 && s.catalog == cat && s.key == key {
		return s.result
	}

	start := time.Now()
	s.result = Filter(cat.Lectures, cat.Index, c)
	s.catalog = cat
	s.key = key
	s.computed++
	s.log.LogFilter(len(s.result), len(cat.Lectures), time.Since(start))
	return s.result
}

// Computations returns how many times Filter actually ran.
func (s *Selector) Computations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.computed
}
