// Package storage defines persistence contracts for operator session state.
//
// Handlers depend on these interfaces so they stay testable without a
// concrete SQLite schema.
package storage
