package catalog

import (
	"fmt"
	"strings"

	"github.com/gocolly/colly/v2"
)

const (
	KindHTTP   = "http"
	KindFile   = "file"
	KindCSV    = "csv"
	KindSQLite = "sqlite"
)

// NewSource creates a catalog source based on its kind.
// location is a URL for http sources and a path for file and csv sources;
// sqlite sources read from mirror.
func NewSource(key, kind, location string, collector *colly.Collector, mirror LectureLister) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindHTTP, "https":
		return NewHTTPSource(key, location, collector), nil
	case KindFile, "json":
		return NewFileSource(key, location), nil
	case KindCSV:
		return NewCSVSource(key, location), nil
	case KindSQLite, "mirror":
		if mirror == nil {
			return nil, fmt.Errorf("source %s: sqlite source requires a mirror", key)
		}
		return NewMirrorSource(key, mirror), nil
	default:
		return nil, fmt.Errorf("unsupported catalog source kind: %s", kind)
	}
}
