package templates

import (
	"net/url"
	"strings"

	admini18n "github.com/louisbranch/cardapp/internal/services/admin/i18n"
)

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Tag    string
	Label  string
	URL    string
	Active bool
}

// LanguageOptions returns the supported languages with the active one marked.
func LanguageOptions(page PageContext) []LanguageOption {
	active, ok := admini18n.ParseTag(page.Lang)
	if !ok {
		active = admini18n.Default()
	}
	supported := admini18n.Supported()
	options := make([]LanguageOption, 0, len(supported))
	for _, tag := range supported {
		options = append(options, LanguageOption{
			Tag:    tag.String(),
			Label:  T(page.Loc, "language."+tag.String()),
			URL:    LanguageURL(page.CurrentPath, page.CurrentQuery, tag.String()),
			Active: tag == active,
		})
	}
	return options
}

// LanguageURL returns path with the lang query parameter set to tag.
func LanguageURL(path string, rawQuery string, tag string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "/"
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	query.Set(admini18n.LangParam, tag)
	return (&url.URL{Path: path, RawQuery: query.Encode()}).String()
}
