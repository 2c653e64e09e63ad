// Package store persists lesson progress in a SQLite database.
//
// The database lives in the XDG state directory and records which lessons
// have been visited, which demo steps were completed, and which lessons are
// finished. Completion feeds back into the catalog to unlock lessons whose
// prerequisites are met.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vizlab/vizlab/pkg/metrics"
)

// schemaVersion is bumped whenever the schema changes. migrate applies the
// steps needed to bring an older database up to date.
const schemaVersion = 2

// LessonProgress summarizes stored progress for one lesson.
type LessonProgress struct {
	LessonID    string     `json:"lesson_id"`
	Visits      int        `json:"visits"`
	Completed   bool       `json:"completed"`
	LastVisited *time.Time `json:"last_visited,omitempty"`
	StepsDone   []int      `json:"steps_done,omitempty"`
}

// Store is a read-write progress database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the progress database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("progress database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("creating schema_version: %w", err)
	}

	var version int
	err := s.db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if err == sql.ErrNoRows {
		version = 0
	} else if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	if version < 1 {
		stmts := []string{
			`CREATE TABLE IF NOT EXISTS lesson_visits (
				lesson_id    TEXT PRIMARY KEY,
				visits       INTEGER NOT NULL DEFAULT 0,
				completed    INTEGER NOT NULL DEFAULT 0,
				last_visited TIMESTAMP
			)`,
			`CREATE TABLE IF NOT EXISTS demo_steps (
				lesson_id    TEXT NOT NULL,
				step_index   INTEGER NOT NULL,
				completed_at TIMESTAMP NOT NULL,
				PRIMARY KEY (lesson_id, step_index)
			)`,
		}
		for _, stmt := range stmts {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("migrating to v1: %w", err)
			}
		}
	}

	if version < 2 {
		// v2 added snapshot export history.
		if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS exports (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			lesson_id  TEXT NOT NULL,
			path       TEXT NOT NULL,
			format     TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`); err != nil {
			return fmt.Errorf("migrating to v2: %w", err)
		}
	}

	if version != schemaVersion {
		if _, err := s.db.Exec(`DELETE FROM schema_version`); err != nil {
			return fmt.Errorf("updating schema version: %w", err)
		}
		if _, err := s.db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, schemaVersion); err != nil {
			return fmt.Errorf("updating schema version: %w", err)
		}
	}
	return nil
}

// RecordVisit increments the visit counter for a lesson and stamps the time.
func (s *Store) RecordVisit(lessonID string) error {
	defer metrics.Timer(metrics.ProgressWrite)()

	_, err := s.db.Exec(`
		INSERT INTO lesson_visits (lesson_id, visits, last_visited)
		VALUES (?, 1, ?)
		ON CONFLICT(lesson_id) DO UPDATE SET
			visits = visits + 1,
			last_visited = excluded.last_visited
	`, lessonID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}
	return nil
}

// MarkCompleted flags a lesson as finished.
func (s *Store) MarkCompleted(lessonID string) error {
	defer metrics.Timer(metrics.ProgressWrite)()

	_, err := s.db.Exec(`
		INSERT INTO lesson_visits (lesson_id, visits, completed, last_visited)
		VALUES (?, 0, 1, ?)
		ON CONFLICT(lesson_id) DO UPDATE SET completed = 1
	`, lessonID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("marking completed: %w", err)
	}
	return nil
}

// CompletedLessons returns the set of finished lesson IDs.
func (s *Store) CompletedLessons() (map[string]bool, error) {
	defer metrics.Timer(metrics.ProgressQuery)()

	rows, err := s.db.Query(`SELECT lesson_id FROM lesson_visits WHERE completed = 1`)
	if err != nil {
		return nil, fmt.Errorf("querying completed lessons: %w", err)
	}
	defer rows.Close()

	done := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		done[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating completed lessons: %w", err)
	}
	return done, nil
}

// MarkStepDone records completion of one walkthrough step for a lesson.
// Recording the same step twice is a no-op.
func (s *Store) MarkStepDone(lessonID string, step int) error {
	defer metrics.Timer(metrics.ProgressWrite)()

	_, err := s.db.Exec(`
		INSERT INTO demo_steps (lesson_id, step_index, completed_at)
		VALUES (?, ?, ?)
		ON CONFLICT(lesson_id, step_index) DO NOTHING
	`, lessonID, step, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("marking step done: %w", err)
	}
	return nil
}

// StepsDone returns the completed step indices for a lesson, in order.
func (s *Store) StepsDone(lessonID string) ([]int, error) {
	defer metrics.Timer(metrics.ProgressQuery)()

	rows, err := s.db.Query(`
		SELECT step_index FROM demo_steps
		WHERE lesson_id = ?
		ORDER BY step_index
	`, lessonID)
	if err != nil {
		return nil, fmt.Errorf("querying steps: %w", err)
	}
	defer rows.Close()

	var steps []int
	for rows.Next() {
		var idx int
		if err := rows.Scan(&idx); err != nil {
			continue
		}
		steps = append(steps, idx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating steps: %w", err)
	}
	return steps, nil
}

// ResetSteps clears recorded walkthrough steps for a lesson.
func (s *Store) ResetSteps(lessonID string) error {
	defer metrics.Timer(metrics.ProgressWrite)()

	if _, err := s.db.Exec(`DELETE FROM demo_steps WHERE lesson_id = ?`, lessonID); err != nil {
		return fmt.Errorf("resetting steps: %w", err)
	}
	return nil
}

// Progress returns the stored progress for one lesson. A lesson with no
// stored rows yields a zero-valued LessonProgress with only LessonID set.
func (s *Store) Progress(lessonID string) (LessonProgress, error) {
	defer metrics.Timer(metrics.ProgressQuery)()

	p := LessonProgress{LessonID: lessonID}

	var visits, completed int
	var lastVisited sql.NullTime
	err := s.db.QueryRow(`
		SELECT visits, completed, last_visited FROM lesson_visits WHERE lesson_id = ?
	`, lessonID).Scan(&visits, &completed, &lastVisited)
	if err != nil && err != sql.ErrNoRows {
		return p, fmt.Errorf("querying progress: %w", err)
	}
	if err == nil {
		p.Visits = visits
		p.Completed = completed != 0
		if lastVisited.Valid {
			t := lastVisited.Time
			p.LastVisited = &t
		}
	}

	steps, err := s.StepsDone(lessonID)
	if err != nil {
		return p, err
	}
	p.StepsDone = steps
	return p, nil
}

// AllProgress returns progress for every lesson with stored rows,
// most recently visited first.
func (s *Store) AllProgress() ([]LessonProgress, error) {
	defer metrics.Timer(metrics.ProgressQuery)()

	rows, err := s.db.Query(`
		SELECT lesson_id, visits, completed, last_visited
		FROM lesson_visits
		ORDER BY last_visited DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying progress: %w", err)
	}
	defer rows.Close()

	var all []LessonProgress
	for rows.Next() {
		var p LessonProgress
		var completed int
		var lastVisited sql.NullTime
		if err := rows.Scan(&p.LessonID, &p.Visits, &completed, &lastVisited); err != nil {
			continue
		}
		p.Completed = completed != 0
		if lastVisited.Valid {
			t := lastVisited.Time
			p.LastVisited = &t
		}
		all = append(all, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating progress: %w", err)
	}

	for i := range all {
		steps, err := s.StepsDone(all[i].LessonID)
		if err != nil {
			return nil, err
		}
		all[i].StepsDone = steps
	}
	return all, nil
}

// RecordExport logs a snapshot export for a lesson.
func (s *Store) RecordExport(lessonID, path, format string) error {
	defer metrics.Timer(metrics.ProgressWrite)()

	_, err := s.db.Exec(`
		INSERT INTO exports (lesson_id, path, format, created_at)
		VALUES (?, ?, ?, ?)
	`, lessonID, path, format, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("recording export: %w", err)
	}
	return nil
}

// ExportCount returns the number of recorded exports for a lesson.
func (s *Store) ExportCount(lessonID string) (int, error) {
	defer metrics.Timer(metrics.ProgressQuery)()

	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM exports WHERE lesson_id = ?`, lessonID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting exports: %w", err)
	}
	return count, nil
}
