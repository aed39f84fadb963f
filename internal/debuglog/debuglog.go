// Package debuglog writes structured JSON-lines events for debugging.
package debuglog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// DefaultPath is the log file used by --debug.
const DefaultPath = "timetable-debug.log"

// Logger writes one JSON object per event. A nil *Logger discards everything,
// so components can hold one without checking whether logging is enabled.
type Logger struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	seq    int
	now    func() time.Time
}

// Open creates (or truncates) the log file at path.
func Open(path string) (*Logger, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating debug log: %w", err)
	}

	l := &Logger{w: f, closer: f, now: time.Now}
	l.Log("DEBUG_START", map[string]any{
		"log_file": path,
		"time":     l.now().Format(time.RFC3339),
	})
	return l, nil
}

// New returns a logger writing to w.
func New(w io.Writer) *Logger {
	return &Logger{w: w, now: time.Now}
}

// Close writes a final event and closes the underlying file, if any.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	l.Log("DEBUG_END", map[string]any{
		"time": l.now().Format(time.RFC3339),
	})
	return l.closer.Close()
}

// Log writes a structured log entry.
func (l *Logger) Log(event string, data map[string]any) {
	if l == nil || l.w == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	entry := map[string]any{
		"seq":   l.seq,
		"ts":    l.now().Format("15:04:05.000"),
		"event": event,
	}
	for k, v := range data {
		entry[k] = v
	}

	b, _ := json.Marshal(entry)
	_, _ = fmt.Fprintf(l.w, "%s\n", b)
}

// LogDragStart logs the start of a drag.
func (l *Logger) LogDragStart(tableID string, index int) {
	l.Log("DRAG_START", map[string]any{
		"table": tableID,
		"index": index,
	})
}

// LogDragEnd logs how a drag ended.
func (l *Logger) LogDragEnd(tableID string, index int, outcome string, dayDelta, periodDelta int) {
	l.Log("DRAG_END", map[string]any{
		"table":        tableID,
		"index":        index,
		"outcome":      outcome,
		"day_delta":    dayDelta,
		"period_delta": periodDelta,
	})
}

// LogFetch logs a catalog source fetch.
func (l *Logger) LogFetch(source string, count int, elapsed time.Duration, err error) {
	data := map[string]any{
		"source":     source,
		"count":      count,
		"elapsed_ms": elapsed.Milliseconds(),
	}
	if err != nil {
		data["error"] = err.Error()
	}
	l.Log("FETCH", data)
}

// LogFilter logs a filter recomputation.
func (l *Logger) LogFilter(matched, total int, elapsed time.Duration) {
	l.Log("FILTER", map[string]any{
		"matched":    matched,
		"total":      total,
		"elapsed_us": elapsed.Microseconds(),
	})
}

// LogDataset logs loading of the initial collection.
func (l *Logger) LogDataset(source string, tables, entries int, err error) {
	data := map[string]any{
		"source":  source,
		"tables":  tables,
		"entries": entries,
	}
	if err != nil {
		data["error"] = err.Error()
	}
	l.Log("DATASET", data)
}

// LogStore logs a store mutation.
func (l *Logger) LogStore(op, tableID string) {
	l.Log("STORE", map[string]any{
		"op":    op,
		"table": tableID,
	})
}

// LogError logs an error that was handled without being surfaced.
func (l *Logger) LogError(where string, err error) {
	if err == nil {
		return
	}
	l.Log("ERROR", map[string]any{
		"where": where,
		"error": err.Error(),
	})
}
