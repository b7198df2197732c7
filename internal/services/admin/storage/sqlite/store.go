package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/cardapp/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/cardapp/internal/services/admin/storage"
	"github.com/louisbranch/cardapp/internal/services/admin/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// timeFormat sorts lexically in the same order as the instants it encodes.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Store provides a SQLite-backed store implementing admin storage interfaces.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite store at the provided path and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// GetSessionPreferences loads the settings saved for sessionID.
func (s *Store) GetSessionPreferences(ctx context.Context, sessionID string) (storage.SessionPreferences, error) {
	if err := s.ready(ctx); err != nil {
		return storage.SessionPreferences{}, err
	}
	var (
		prefs     storage.SessionPreferences
		updatedAt string
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT session_id, page_size, sort_by, direction, locale, updated_at
		   FROM session_preferences WHERE session_id = ?`, sessionID,
	).Scan(&prefs.SessionID, &prefs.PageSize, &prefs.SortBy, &prefs.Direction, &prefs.Locale, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.SessionPreferences{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.SessionPreferences{}, fmt.Errorf("get session preferences: %w", err)
	}
	if prefs.UpdatedAt, err = time.Parse(timeFormat, updatedAt); err != nil {
		return storage.SessionPreferences{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return prefs, nil
}

// PutSessionPreferences inserts or replaces the settings of a session.
func (s *Store) PutSessionPreferences(ctx context.Context, prefs storage.SessionPreferences) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(prefs.SessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	if prefs.UpdatedAt.IsZero() {
		prefs.UpdatedAt = time.Now()
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO session_preferences (session_id, page_size, sort_by, direction, locale, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
		   page_size = excluded.page_size,
		   sort_by = excluded.sort_by,
		   direction = excluded.direction,
		   locale = excluded.locale,
		   updated_at = excluded.updated_at`,
		prefs.SessionID, prefs.PageSize, prefs.SortBy, prefs.Direction, prefs.Locale,
		prefs.UpdatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("put session preferences: %w", err)
	}
	return nil
}

// DeleteSessionPreferencesBefore removes records not touched since cutoff.
func (s *Store) DeleteSessionPreferencesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM session_preferences WHERE updated_at < ?`, cutoff.UTC().Format(timeFormat))
	if err != nil {
		return 0, fmt.Errorf("delete session preferences: %w", err)
	}
	return res.RowsAffected()
}

var _ storage.Store = (*Store)(nil)
