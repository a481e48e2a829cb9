// Package history keeps a local record of the repositories pkgsrc opened.
// It is write-mostly and never consulted during resolution.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"pkgsrc/internal/resolver"
	"pkgsrc/internal/slogutil"
)

const currentSchemaVersion = 1

// Entry is one opened repository.
type Entry struct {
	ID        string    `json:"id" yaml:"id" toml:"id"`
	Name      string    `json:"name" yaml:"name" toml:"name"`
	Candidate string    `json:"candidate" yaml:"candidate" toml:"candidate"`
	URL       string    `json:"url" yaml:"url" toml:"url"`
	Source    string    `json:"source" yaml:"source" toml:"source"`
	OpenedAt  time.Time `json:"openedAt" yaml:"openedAt" toml:"openedAt"`
}

// Store is a sqlite-backed history database.
type Store struct {
	conn   *sql.DB
	logger *slog.Logger
	path   string
	now    func() time.Time
}

// Open opens or creates the history database at path, creating parent
// directories as needed.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{conn: conn, logger: logger, path: path, now: time.Now}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate() error {
	return s.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
			return err
		}

		var version int
		err := tx.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
		if err != nil && err != sql.ErrNoRows {
			return err
		}
		if version == currentSchemaVersion {
			return nil
		}

		s.logger.Debug("Creating history schema", "path", s.path, "from", version, "to", currentSchemaVersion)
		stmts := []string{
			`CREATE TABLE IF NOT EXISTS history (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				candidate TEXT NOT NULL,
				url TEXT NOT NULL,
				source TEXT NOT NULL,
				opened_at INTEGER NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_history_opened_at ON history(opened_at)`,
			`DELETE FROM schema_version`,
		}
		for _, stmt := range stmts {
			if _, err := tx.Exec(stmt); err != nil {
				return err
			}
		}
		_, err = tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, currentSchemaVersion)
		return err
	})
}

// withTx runs fn in a transaction, rolling back when it returns an error.
func (s *Store) withTx(fn func(*sql.Tx) error) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("failed to rollback transaction", "error", err.Error(), "rollback_error", rbErr.Error())
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Record stores res under a fresh id and returns the entry.
func (s *Store) Record(ctx context.Context, res resolver.Resolution) (*Entry, error) {
	e := &Entry{
		ID:        uuid.NewString(),
		Name:      res.Name,
		Candidate: res.Candidate,
		URL:       res.URL,
		Source:    string(res.Source),
		OpenedAt:  s.now().UTC(),
	}

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO history (id, name, candidate, url, source, opened_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Name, e.Candidate, e.URL, e.Source, e.OpenedAt.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record history: %w", err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first. limit <= 0 means all.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, name, candidate, url, source, opened_at FROM history ORDER BY opened_at DESC, rowid DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var openedAt int64
		if err := rows.Scan(&e.ID, &e.Name, &e.Candidate, &e.URL, &e.Source, &openedAt); err != nil {
			return nil, err
		}
		e.OpenedAt = time.Unix(0, openedAt).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear deletes every entry and reports how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM history`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return res.RowsAffected()
}
