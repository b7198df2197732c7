package templates

import (
	"time"

	"golang.org/x/text/message"
)

// Localizer provides translated strings for templ components.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// T returns a translated string or the key if no localizer is available.
func T(loc Localizer, key message.Reference, args ...any) string {
	if loc == nil {
		if keyString, ok := key.(string); ok {
			return keyString
		}
		return ""
	}
	return loc.Sprintf(key, args...)
}

// FormatDate renders t with the locale's "format.date" layout.
func FormatDate(loc Localizer, t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	layout := T(loc, "format.date")
	if layout == "" || layout == "format.date" {
		layout = time.DateOnly
	}
	return t.Format(layout)
}
