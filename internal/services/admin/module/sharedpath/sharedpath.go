// Package sharedpath parses route suffixes shared by admin route modules.
package sharedpath

import (
	"net/url"
	"strings"
)

// SplitPathParts splits a slash-delimited route suffix into decoded, non-empty segments.
// A segment that fails to decode is kept as sent.
func SplitPathParts(path string) []string {
	rawParts := strings.Split(path, "/")
	parts := make([]string, 0, len(rawParts))
	for _, part := range rawParts {
		if decoded, err := url.PathUnescape(part); err == nil {
			part = decoded
		}
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		parts = append(parts, part)
	}
	return parts
}
