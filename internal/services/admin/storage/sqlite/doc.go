// Package sqlite provides SQLite-backed admin persistence.
//
// It keeps operator console settings only; client records live in the backend.
package sqlite
