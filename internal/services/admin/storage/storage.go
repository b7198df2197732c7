package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no record exists for a session.
var ErrNotFound = errors.New("storage: not found")

// SessionPreferences are the list settings remembered for one browser session.
type SessionPreferences struct {
	SessionID string
	PageSize  int
	SortBy    string
	Direction string
	Locale    string
	UpdatedAt time.Time
}

// PreferenceStore persists per-session list settings.
type PreferenceStore interface {
	GetSessionPreferences(ctx context.Context, sessionID string) (SessionPreferences, error)
	PutSessionPreferences(ctx context.Context, prefs SessionPreferences) error
	// DeleteSessionPreferencesBefore removes records last updated before cutoff.
	DeleteSessionPreferencesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Store is a composite interface for admin storage concerns.
type Store interface {
	PreferenceStore
	Close() error
}
