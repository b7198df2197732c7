// Package clientsearch implements the lookup-by-OIB panel.
package clientsearch

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/louisbranch/cardapp/internal/services/admin/cardapi"
)

// Finder loads a single client by OIB.
type Finder interface {
	GetClient(ctx context.Context, identifier string) (cardapi.Client, error)
}

// CanSearch reports whether query is long enough to enable the search control.
func CanSearch(query string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(query)) == cardapi.IdentifierLength
}

// Result is the outcome of the latest search.
type Result struct {
	Query string
	// Client is set only when the lookup succeeded.
	Client *cardapi.Client
	Kind   cardapi.Kind
	// MessageKey and MessageArgs describe the status line shown under the panel.
	MessageKey  string
	MessageArgs []any
}

// Found reports whether a client was returned.
func (r Result) Found() bool { return r.Client != nil }

// Describe maps a lookup failure to a catalog key and its arguments.
func Describe(query string, err error) (string, []any) {
	switch cardapi.KindOf(err) {
	case cardapi.KindValidation:
		return "validation.oib_length", nil
	case cardapi.KindNetwork:
		return "search.network", nil
	case cardapi.KindTimeout:
		return "search.timeout", nil
	case cardapi.KindNotFound:
		return "search.not_found", []any{query}
	case cardapi.KindServer:
		return "search.server", nil
	case cardapi.KindClient:
		if message := cardapi.MessageOf(err); message != "" {
			return "search.client", []any{message}
		}
		return "search.client_default", nil
	default:
		detail := cardapi.MessageOf(err)
		if detail == "" {
			detail = cardapi.KindOf(err).String()
		}
		return "search.unknown", []any{detail}
	}
}

// Panel tracks one operator's search panel. It never touches list state.
type Panel struct {
	finder Finder

	mu     sync.Mutex
	query  string
	result Result
}

// New builds an empty panel.
func New(finder Finder) *Panel {
	return &Panel{finder: finder}
}

// Snapshot returns the current query and last result.
func (p *Panel) Snapshot() (string, Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query, p.result
}

// Search clears the previous result and looks query up.
func (p *Panel) Search(ctx context.Context, query string) Result {
	query = strings.TrimSpace(query)

	p.mu.Lock()
	p.query = query
	p.result = Result{Query: query}
	p.mu.Unlock()

	var result Result
	if !CanSearch(query) {
		key, args := Describe(query, cardapi.ValidateIdentifier(query))
		result = Result{Query: query, Kind: cardapi.KindValidation, MessageKey: key, MessageArgs: args}
	} else if client, err := p.finder.GetClient(ctx, query); err != nil {
		key, args := Describe(query, err)
		result = Result{Query: query, Kind: cardapi.KindOf(err), MessageKey: key, MessageArgs: args}
	} else {
		result = Result{Query: query, Client: &client, MessageKey: "search.found"}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.query == query {
		p.result = result
	}
	return result
}
