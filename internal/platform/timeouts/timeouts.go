// Package timeouts defines shared timeout constants used across services.
// Centralizing these values prevents drift between service boundaries and
// makes the durations discoverable.
package timeouts

import "time"

// BackendRequest caps a single REST request from the admin console to the
// card application backend.
const BackendRequest = 10 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// SessionIdle expires admin console sessions that saw no requests.
const SessionIdle = 24 * time.Hour

// SessionSweep controls how often idle sessions are purged.
const SessionSweep = 30 * time.Minute

// PreferenceRetention keeps stored console preferences this long after the
// session last changed them.
const PreferenceRetention = 30 * 24 * time.Hour
