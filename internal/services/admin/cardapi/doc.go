// Package cardapi is the REST client for the card application backend.
//
// Each exported operation maps to one backend resource action under the
// configured base path (normally /api/v1). Failures are returned as *Error
// values classified by Kind so callers can pick a user-facing message without
// inspecting message text. The client never retries.
package cardapi
