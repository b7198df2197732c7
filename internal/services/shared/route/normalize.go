// Package route holds request path helpers shared by web route modules.
package route

import (
	"net/http"
	"strings"
)

// RedirectTrailingSlash redirects "/a/b/" to "/a/b", keeping the query string.
//
// It returns true when a redirect was written; callers stop processing then.
// Other methods get a 404 instead of a redirect.
func RedirectTrailingSlash(w http.ResponseWriter, r *http.Request) bool {
	if w == nil || r == nil || r.URL == nil {
		return false
	}
	escaped := r.URL.EscapedPath()
	canonical := strings.TrimRight(escaped, "/")
	if canonical == "" {
		canonical = "/"
	}
	if canonical == escaped {
		return false
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return true
	}
	if r.URL.RawQuery != "" {
		canonical += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, canonical, http.StatusMovedPermanently)
	return true
}
