// Package htmx renders templ components for full-page and htmx partial requests.
package htmx

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

// ResponseHeaderKey is the htmx request header used to detect partial updates.
const ResponseHeaderKey = "HX-Request"

// IsHTMXRequest reports whether the request was initiated by htmx.
func IsHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get(ResponseHeaderKey), "true")
}

// RenderPage renders fragment for htmx requests and full otherwise.
// A nil component falls back to the other one.
func RenderPage(w http.ResponseWriter, r *http.Request, fragment templ.Component, full templ.Component) {
	RenderPageStatus(w, r, http.StatusOK, fragment, full)
}

// RenderPageStatus is RenderPage with an explicit status code. The component
// is rendered to a buffer first so a template error yields a clean 500.
func RenderPageStatus(w http.ResponseWriter, r *http.Request, status int, fragment templ.Component, full templ.Component) {
	target := full
	if IsHTMXRequest(r) && fragment != nil {
		target = fragment
	}
	if target == nil {
		target = fragment
	}
	if target == nil {
		return
	}

	var body bytes.Buffer
	if err := target.Render(r.Context(), &body); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Add("Vary", ResponseHeaderKey)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body.Bytes())
}
