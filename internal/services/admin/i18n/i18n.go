package i18n

import (
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/cardapp/internal/platform/i18n/catalog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the operator's language preference.
	LangCookieName = "cardapp_lang"
)

var (
	supportedTags   = loadSupportedTags(catalog.Default())
	tagMatcher      = language.NewMatcher(supportedTags)
	supportedTagSet = indexTags(supportedTags)
)

// loadSupportedTags lists the catalog locales. The base locale comes first
// and doubles as the matcher fallback.
func loadSupportedTags(bundle *catalog.Bundle) []language.Tag {
	tags := []language.Tag{language.MustParse(catalog.BaseLocale)}
	for _, locale := range bundle.Locales() {
		if locale == catalog.BaseLocale {
			continue
		}
		if tag, err := language.Parse(locale); err == nil {
			tags = append(tags, tag)
		}
	}
	return tags
}

func indexTags(tags []language.Tag) map[string]language.Tag {
	set := make(map[string]language.Tag, len(tags))
	for _, tag := range tags {
		set[strings.ToLower(tag.String())] = tag
		if base, confidence := tag.Base(); confidence != language.No {
			if _, taken := set[base.String()]; !taken {
				set[base.String()] = tag
			}
		}
	}
	return set
}

// Supported returns the list of supported language tags.
func Supported() []language.Tag {
	tags := make([]language.Tag, len(supportedTags))
	copy(tags, supportedTags)
	return tags
}

// Default returns the default language tag.
func Default() language.Tag {
	return supportedTags[0]
}

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// ResolveTag determines the best language tag for the request.
// The bool indicates whether the lang query param should be persisted as a cookie.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return Default(), false
	}

	if langValue := strings.TrimSpace(r.URL.Query().Get(LangParam)); langValue != "" {
		if tag, ok := ParseTag(langValue); ok {
			return tag, true
		}
	}

	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := ParseTag(cookie.Value); ok {
			return tag, false
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, index, confidence := tagMatcher.Match(tags...)
			if confidence != language.No {
				return supportedTags[index], false
			}
		}
	}

	return Default(), false
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ParseTag maps value ("hr", "hr-HR", "en-us") onto a supported tag.
func ParseTag(value string) (language.Tag, bool) {
	parsed, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return language.Tag{}, false
	}
	if tag, ok := supportedTagSet[strings.ToLower(parsed.String())]; ok {
		return tag, true
	}
	return language.Tag{}, false
}
