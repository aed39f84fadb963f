package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/gocolly/colly/v2"

	"github.com/javiermolinar/timetable/internal/timetable"
)

// HTTPSource fetches a JSON array of lectures over HTTP.
type HTTPSource struct {
	key       string
	url       string
	collector *colly.Collector
}

// NewHTTPSource creates a source for url. A nil collector gets a default one.
func NewHTTPSource(key, url string, collector *colly.Collector) *HTTPSource {
	if collector == nil {
		collector = NewCollector()
	}
	return &HTTPSource{key: key, url: url, collector: collector}
}

// NewCollector returns the collector shared by HTTP sources.
func NewCollector() *colly.Collector {
	return colly.NewCollector(
		colly.UserAgent("timetable"),
		colly.AllowURLRevisit(),
		colly.MaxBodySize(64<<20),
	)
}

// Key returns the source key.
func (s *HTTPSource) Key() string { return s.key }

// Fetch downloads and decodes the catalog.
func (s *HTTPSource) Fetch(ctx context.Context) ([]timetable.Lecture, error) {
	var (
		lectures []timetable.Lecture
		e        error
	)

	c := s.collector.Clone() // same collector but without old callbacks
	c.Context = ctx
	c.OnResponse(func(res *colly.Response) {
		if err := json.Unmarshal(res.Body, &lectures); err != nil {
			e = fmt.Errorf("decoding %s: %w", s.url, err)
		}
	})
	c.OnError(func(res *colly.Response, err error) {
		e = fmt.Errorf("requesting %s (status %d): %w", s.url, res.StatusCode, err)
	})

	if err := c.Visit(s.url); err != nil && e == nil {
		e = fmt.Errorf("visiting %s: %w", s.url, err)
	}
	if e != nil {
		return nil, e
	}
	return lectures, nil
}

// FileSource reads a JSON array of lectures from disk.
type FileSource struct {
	key  string
	path string
}

// NewFileSource creates a source reading path.
func NewFileSource(key, path string) *FileSource {
	return &FileSource{key: key, path: path}
}

// Key returns the source key.
func (s *FileSource) Key() string { return s.key }

// Fetch reads and decodes the file.
func (s *FileSource) Fetch(_ context.Context) ([]timetable.Lecture, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	var lectures []timetable.Lecture
	if err := json.Unmarshal(data, &lectures); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}
	return lectures, nil
}

// CSVSource reads lectures from a CSV file with a header row of
// id,title,grade,credits,major,schedule.
type CSVSource struct {
	key  string
	path string
}

// NewCSVSource creates a source reading path.
func NewCSVSource(key, path string) *CSVSource {
	return &CSVSource{key: key, path: path}
}

// Key returns the source key.
func (s *CSVSource) Key() string { return s.key }

// Fetch reads and decodes the file.
func (s *CSVSource) Fetch(_ context.Context) ([]timetable.Lecture, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	var lectures []timetable.Lecture
	if err := gocsv.UnmarshalFile(f, &lectures); err != nil {
		return nil, fmt.Errorf("parsing catalog csv: %w", err)
	}
	return lectures, nil
}

// LectureLister is the read side of the catalog mirror.
type LectureLister interface {
	ListLectures(ctx context.Context, source string) ([]timetable.Lecture, error)
}

// MirrorSource serves a source from the local mirror.
type MirrorSource struct {
	key    string
	mirror LectureLister
}

// NewMirrorSource creates a source backed by mirror.
func NewMirrorSource(key string, mirror LectureLister) *MirrorSource {
	return &MirrorSource{key: key, mirror: mirror}
}

// Key returns the source key.
func (s *MirrorSource) Key() string { return s.key }

// Fetch lists the mirrored lectures.
func (s *MirrorSource) Fetch(ctx context.Context) ([]timetable.Lecture, error) {
	return s.mirror.ListLectures(ctx, s.key)
}
