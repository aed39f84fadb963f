package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/javiermolinar/timetable/internal/timetable"
)

// fakeSource blocks every fetch until release is closed.
type fakeSource struct {
	key      string
	lectures []timetable.Lecture
	err      error
	release  chan struct{}

	mu    sync.Mutex
	calls int
}

func newFakeSource(key string, lectures ...timetable.Lecture) *fakeSource {
	s := &fakeSource{key: key, lectures: lectures, release: make(chan struct{})}
	close(s.release)
	return s
}

func (s *fakeSource) Key() string { return s.key }

func (s *fakeSource) Fetch(ctx context.Context) ([]timetable.Lecture, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	select {
	case <-s.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.lectures, s.err
}

func (s *fakeSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestCache_ConcurrentFetchSharesOneCall(t *testing.T) {
	src := &fakeSource{
		key:      "majors",
		lectures: []timetable.Lecture{{ID: "CS101"}},
		release:  make(chan struct{}),
	}
	c := NewCache(nil, src)

	var wg sync.WaitGroup
	results := make([][]timetable.Lecture, 10)
	errs := make([]error, 10)
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = c.Fetch(context.Background(), "majors")
		}()
	}

	time.Sleep(10 * time.Millisecond)
	close(src.release)
	wg.Wait()

	for i := range 10 {
		if errs[i] != nil {
			t.Fatalf("caller %d: unexpected error %v", i, errs[i])
		}
		if len(results[i]) != 1 || results[i][0].ID != "CS101" {
			t.Fatalf("caller %d: unexpected lectures %+v", i, results[i])
		}
	}
	if got := src.Calls(); got != 1 {
		t.Fatalf("expected 1 underlying fetch, got %d", got)
	}
	if got := c.Calls("majors"); got != 1 {
		t.Fatalf("expected Calls to report 1, got %d", got)
	}
}

func TestCache_LaterFetchReusesResult(t *testing.T) {
	src := newFakeSource("majors", timetable.Lecture{ID: "CS101"})
	c := NewCache(nil, src)

	for range 3 {
		if _, err := c.Fetch(context.Background(), "majors"); err != nil {
			t.Fatalf("Fetch: %v", err)
		}
	}
	if got := src.Calls(); got != 1 {
		t.Fatalf("expected 1 underlying fetch, got %d", got)
	}
}

func TestCache_FailureIsShared(t *testing.T) {
	boom := errors.New("boom")
	src := newFakeSource("majors")
	src.err = boom
	c := NewCache(nil, src)

	for range 2 {
		_, err := c.Fetch(context.Background(), "majors")
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
	}
	if got := src.Calls(); got != 1 {
		t.Fatalf("failed fetch must not be retried, got %d calls", got)
	}
}

func TestCache_UnknownSource(t *testing.T) {
	c := NewCache(nil)
	_, err := c.Fetch(context.Background(), "nope")
	if !errors.Is(err, ErrUnknownSource) {
		t.Fatalf("expected ErrUnknownSource, got %v", err)
	}
}

func TestCache_CancelledCallerDoesNotCancelFetch(t *testing.T) {
	src := &fakeSource{
		key:      "majors",
		lectures: []timetable.Lecture{{ID: "CS101"}},
		release:  make(chan struct{}),
	}
	c := NewCache(nil, src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Fetch(ctx, "majors"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	close(src.release)
	got, err := c.Fetch(context.Background(), "majors")
	if err != nil {
		t.Fatalf("Fetch after cancel: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected the detached fetch to complete, got %+v", got)
	}
	if src.Calls() != 1 {
		t.Fatalf("expected 1 underlying fetch, got %d", src.Calls())
	}
}

func TestCache_FetchAll(t *testing.T) {
	majors := newFakeSource("majors", timetable.Lecture{ID: "CS101"}, timetable.Lecture{ID: "CS102"})
	liberal := newFakeSource("liberal-arts", timetable.Lecture{ID: "LA001"})

	t.Run("concatenates in key order", func(t *testing.T) {
		c := NewCache(nil, majors, liberal)
		got, err := c.FetchAll(context.Background())
		if err != nil {
			t.Fatalf("FetchAll: %v", err)
		}
		ids := make([]string, len(got))
		for i, l := range got {
			ids[i] = l.ID
		}
		want := []string{"CS101", "CS102", "LA001"}
		if len(ids) != len(want) {
			t.Fatalf("got %v, want %v", ids, want)
		}
		for i := range want {
			if ids[i] != want[i] {
				t.Fatalf("got %v, want %v", ids, want)
			}
		}
	})

	t.Run("one failure fails the aggregate", func(t *testing.T) {
		broken := newFakeSource("liberal-arts")
		broken.err = errors.New("unreachable")
		c := NewCache(nil, newFakeSource("majors", timetable.Lecture{ID: "CS101"}), broken)
		if _, err := c.FetchAll(context.Background()); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("partial variant keeps successes", func(t *testing.T) {
		broken := newFakeSource("liberal-arts")
		broken.err = errors.New("unreachable")
		c := NewCache(nil, newFakeSource("majors", timetable.Lecture{ID: "CS101"}), broken)
		got, err := c.FetchAvailable(context.Background())
		if err == nil {
			t.Fatal("expected the failure to be reported")
		}
		if len(got) != 1 || got[0].ID != "CS101" {
			t.Fatalf("expected the successful source's lectures, got %+v", got)
		}
	})
}

func TestCache_KeysKeepRegistrationOrder(t *testing.T) {
	c := NewCache(nil, newFakeSource("b"), newFakeSource("a"), newFakeSource("b"))
	keys := c.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("unexpected keys %v", keys)
	}
}
