// Package routepath names every admin console URL.
package routepath

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	Root         = "/"
	Health       = "/healthz"
	StaticPrefix = "/static/"
	APIPrefix    = "/api/"
)

const (
	Clients         = "/clients"
	ClientsTable    = "/clients/table"
	ClientsSearch   = "/clients/search"
	ClientsControls = "/clients/controls"
	ClientsRefresh  = "/clients/refresh"
	ClientsPage     = "/clients/page"
	ClientsNotice   = "/clients/notice"
	ClientsPrefix   = "/clients/"
)

// ClientPage returns the navigation URL for a zero-based page.
func ClientPage(page int) string {
	return ClientsPage + "?page=" + strconv.Itoa(page)
}

// ClientSearch returns the search URL for an OIB query.
func ClientSearch(oib string) string {
	return ClientsSearch + "?oib=" + url.QueryEscape(strings.TrimSpace(oib))
}

// Client returns the base path of a client row.
func Client(oib string) string {
	return Clients + "/" + escapeSegment(oib)
}

// ClientDelete returns the delete confirmation and action path.
func ClientDelete(oib string) string {
	return Client(oib) + "/delete"
}

// ClientStatus returns the status update path.
func ClientStatus(oib string) string {
	return Client(oib) + "/status"
}

// ClientCardRequest returns the card request path.
func ClientCardRequest(oib string) string {
	return Client(oib) + "/card-request"
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}
