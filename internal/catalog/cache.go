// Package catalog fetches lecture catalogs and caches them per source.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/javiermolinar/timetable/internal/debuglog"
	"github.com/javiermolinar/timetable/internal/timetable"
)

// ErrUnknownSource is returned for a key no source was registered under.
var ErrUnknownSource = errors.New("unknown catalog source")

// Source is one independent provider of lectures.
type Source interface {
	Key() string
	Fetch(ctx context.Context) ([]timetable.Lecture, error)
}

// call is the single outcome of fetching one source.
type call struct {
	done     chan struct{}
	lectures []timetable.Lecture
	err      error
}

// Cache fetches each source at most once for its lifetime. Every caller,
// concurrent or later, shares the first outcome, failures included.
type Cache struct {
	mu      sync.Mutex
	keys    []string
	sources map[string]Source
	calls   map[string]*call
	counts  map[string]int
	log     *debuglog.Logger
}

// NewCache registers sources by their keys. A later source with the same key wins.
func NewCache(log *debuglog.Logger, sources ...Source) *Cache {
	c := &Cache{
		sources: make(map[string]Source, len(sources)),
		calls:   make(map[string]*call, len(sources)),
		counts:  make(map[string]int, len(sources)),
		log:     log,
	}
	for _, s := range sources {
		if _, dup := c.sources[s.Key()]; !dup {
			c.keys = append(c.keys, s.Key())
		}
		c.sources[s.Key()] = s
	}
	return c
}

// Keys returns the registered source keys in registration order.
func (c *Cache) Keys() []string {
	return append([]string(nil), c.keys...)
}

// Calls returns how many underlying fetches were issued for key.
func (c *Cache) Calls(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[key]
}

// Fetch returns the lectures of one source, fetching it on first use.
// The fetch itself is not cancelled by ctx; ctx only bounds how long this
// caller waits. The returned slice is shared and must not be modified.
func (c *Cache) Fetch(ctx context.Context, key string) ([]timetable.Lecture, error) {
	c.mu.Lock()
	src, ok := c.sources[key]
	if !ok {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, key)
	}
	cl, started := c.calls[key]
	if !started {
		cl = &call{done: make(chan struct{})}
		c.calls[key] = cl
		c.counts[key]++
		go c.run(context.WithoutCancel(ctx), src, cl)
	}
	c.mu.Unlock()

	select {
	case <-cl.done:
		return cl.lectures, cl.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) run(ctx context.Context, src Source, cl *call) {
	defer close(cl.done)

	start := time.Now()
	lectures, err := src.Fetch(ctx)
	if err != nil {
		cl.err = fmt.Errorf("fetching %s: %w", src.Key(), err)
	} else {
		cl.lectures = lectures
	}
	c.log.LogFetch(src.Key(), len(lectures), time.Since(start), err)
}

// FetchAll fetches the given sources in parallel (all sources when keys is
// empty) and returns their lectures concatenated in key order. The aggregate
// fails if any source fails.
func (c *Cache) FetchAll(ctx context.Context, keys ...string) ([]timetable.Lecture, error) {
	if len(keys) == 0 {
		keys = c.Keys()
	}

	results := make([][]timetable.Lecture, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		g.Go(func() error {
			lectures, err := c.Fetch(gctx, key)
			if err != nil {
				return err
			}
			results[i] = lectures
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return concat(results), nil
}

// FetchAvailable is FetchAll for callers that accept a partial catalog.
// It waits for every source and returns the lectures of those that
// succeeded together with the joined errors of those that did not.
func (c *Cache) FetchAvailable(ctx context.Context, keys ...string) ([]timetable.Lecture, error) {
	if len(keys) == 0 {
		keys = c.Keys()
	}

	results := make([][]timetable.Lecture, len(keys))
	errs := make([]error, len(keys))
	var g errgroup.Group
	for i, key := range keys {
		g.Go(func() error {
			results[i], errs[i] = c.Fetch(ctx, key)
			return nil
		})
	}
	_ = g.Wait()
	return concat(results), errors.Join(errs...)
}

func concat(parts [][]timetable.Lecture) []timetable.Lecture {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]timetable.Lecture, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
