// Package db provides a SQLite mirror of catalog sources.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/timetable/internal/timetable"
)

// SyncInfo describes the last sync of one source.
type SyncInfo struct {
	Source   string
	Count    int
	SyncedAt time.Time
}

// Mirror stores fetched lectures per source so they can be served offline.
type Mirror struct {
	db  *sqlx.DB
	now func() time.Time
}

// New opens (or creates) the mirror at path and runs migrations.
func New(path string) (*Mirror, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	m := &Mirror{db: db, now: time.Now}
	if err := m.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return m, nil
}

// Close releases the database handle.
func (m *Mirror) Close() error {
	return m.db.Close()
}

// lectureRow is a lecture as stored, with its position in the source.
type lectureRow struct {
	Source   string `db:"source"`
	Position int    `db:"position"`
	timetable.Lecture
}

// SaveLectures replaces everything stored for source with lectures.
// Catalog order is kept through the position column.
func (m *Mirror) SaveLectures(ctx context.Context, source string, lectures []timetable.Lecture) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM lectures WHERE source = ?`, source); err != nil {
		return fmt.Errorf("clearing lectures: %w", err)
	}

	insert := `
		INSERT INTO lectures (source, position, id, title, grade, credits, major, schedule)
		VALUES (:source, :position, :id, :title, :grade, :credits, :major, :schedule)
	`
	for i, l := range lectures {
		row := lectureRow{Source: source, Position: i, Lecture: l}
		if _, err := tx.NamedExecContext(ctx, insert, row); err != nil {
			return fmt.Errorf("inserting lecture %s: %w", l.ID, err)
		}
	}

	upsert := `
		INSERT INTO syncs (source, synced_at) VALUES (?, ?)
		ON CONFLICT(source) DO UPDATE SET synced_at = excluded.synced_at
	`
	if _, err := tx.ExecContext(ctx, upsert, source, m.now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("recording sync: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListLectures returns the lectures stored for source in catalog order.
// An unknown source yields an empty list.
func (m *Mirror) ListLectures(ctx context.Context, source string) ([]timetable.Lecture, error) {
	query := `
		SELECT source, position, id, title, grade, credits, major, schedule
		FROM lectures
		WHERE source = ?
		ORDER BY position
	`

	var rows []lectureRow
	if err := m.db.SelectContext(ctx, &rows, query, source); err != nil {
		return nil, fmt.Errorf("querying lectures: %w", err)
	}

	lectures := make([]timetable.Lecture, len(rows))
	for i, r := range rows {
		lectures[i] = r.Lecture
	}
	return lectures, nil
}

// Syncs returns one entry per mirrored source, ordered by source name.
func (m *Mirror) Syncs(ctx context.Context) ([]SyncInfo, error) {
	query := `
		SELECT s.source, s.synced_at, COUNT(l.id) AS count
		FROM syncs s
		LEFT JOIN lectures l ON l.source = s.source
		GROUP BY s.source, s.synced_at
		ORDER BY s.source
	`

	rows, err := m.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying syncs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var infos []SyncInfo
	for rows.Next() {
		var (
			info     SyncInfo
			syncedAt string
		)
		if err := rows.Scan(&info.Source, &syncedAt, &info.Count); err != nil {
			return nil, fmt.Errorf("scanning sync: %w", err)
		}
		info.SyncedAt, err = time.Parse(time.RFC3339, syncedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing synced at: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}
