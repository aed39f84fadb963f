package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/javiermolinar/timetable/internal/catalog"
	"github.com/javiermolinar/timetable/internal/dataset"
	"github.com/javiermolinar/timetable/internal/db"
	"github.com/javiermolinar/timetable/internal/debuglog"
	"github.com/javiermolinar/timetable/internal/grid"
	"github.com/javiermolinar/timetable/internal/search"
	"github.com/javiermolinar/timetable/internal/store"
)

// openLog opens the event log once, before any command runs. The log
// stays nil when logging is off.
func (a *App) openLog() error {
	if a.log != nil {
		return nil
	}
	path := a.config.Log.Path
	if a.debug && path == "" {
		path = debuglog.DefaultPath
	}
	if path == "" {
		return nil
	}
	log, err := debuglog.Open(path)
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

// openMirror opens the catalog mirror, creating its directory if needed.
func (a *App) openMirror() (*db.Mirror, error) {
	if a.mirror != nil {
		return a.mirror, nil
	}
	path := a.config.Storage.DBPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	m, err := db.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog mirror: %w", err)
	}
	a.mirror = m
	return m, nil
}

// needsMirror reports whether any configured source reads the mirror.
func (a *App) needsMirror() bool {
	for _, src := range a.config.Catalog.Sources {
		if src.Kind == catalog.KindSQLite {
			return true
		}
	}
	return false
}

// newCache builds the catalog cache from the configured sources.
// Sources that cannot be built are logged and skipped.
func (a *App) newCache() *catalog.Cache {
	log := a.log

	var mirror catalog.LectureLister
	if a.needsMirror() {
		m, err := a.openMirror()
		if err != nil {
			log.LogError("catalog.mirror", err)
		} else {
			mirror = m
		}
	}

	collector := catalog.NewCollector()
	sources := make([]catalog.Source, 0, len(a.config.Catalog.Sources))
	for _, sc := range a.config.Catalog.Sources {
		src, err := catalog.NewSource(sc.Key, sc.Kind, sc.Location, collector, mirror)
		if err != nil {
			log.LogError("catalog.source", err)
			continue
		}
		sources = append(sources, src)
	}
	return catalog.NewCache(log, sources...)
}

// loadStore seeds a store from the configured dataset.
func (a *App) loadStore() *store.Store {
	log := a.log
	return store.New(dataset.Load(a.config.Dataset.Path, log), store.WithLogger(log))
}

// geometry returns the configured grid geometry.
func (a *App) geometry() grid.Geometry {
	g := a.config.Grid
	return grid.Geometry{
		CellWidth:    g.CellWidth,
		CellHeight:   g.CellHeight,
		HeaderWidth:  g.HeaderWidth,
		HeaderHeight: g.HeaderHeight,
	}
}

// loadSession opens a search session and loads the catalog into it.
// Unlike the interactive grid, commands report fetch failures.
func (a *App) loadSession(ctx context.Context) (*search.Session, error) {
	log := a.log
	s := search.NewSession(a.newCache(),
		search.WithPartial(a.config.Catalog.AllowPartial),
		search.WithDebounce(time.Duration(a.config.Search.DebounceMS)*time.Millisecond, nil),
		search.WithLogger(log),
	)
	if err := s.Load(ctx); err != nil {
		if !a.config.Catalog.AllowPartial || s.Catalog().Len() == 0 {
			s.Close()
			return nil, fmt.Errorf("loading catalog: %w", err)
		}
		a.printf("%s\n", formatWarning(fmt.Sprintf("warning: partial catalog: %v", err)))
	}
	return s, nil
}

// saveDataset writes the store contents to path, or to the configured
// dataset path when path is "-".
func (a *App) saveDataset(st *store.Store, path string) error {
	if path == "-" {
		path = a.config.Dataset.Path
	}
	if path == "" {
		return fmt.Errorf("no dataset path configured")
	}
	data, err := dataset.Encode(st.Snapshot())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	return nil
}
