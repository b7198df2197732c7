// Package clientlist builds the paginated client table from fetched data.
//
// Everything here is a pure function of its inputs; the caller owns the
// client slice and pagination and passes them in on every render.
package clientlist

import (
	"time"

	"github.com/louisbranch/cardapp/internal/services/admin/cardapi"
)

// Pagination mirrors the page envelope of the most recent fetch.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	TotalItems  int64
	PageSize    int
}

// PaginationFromPage copies the counters out of a fetched page.
func PaginationFromPage(page cardapi.Page) Pagination {
	return Pagination{
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
		TotalItems:  page.TotalItems,
		PageSize:    page.PageSize,
	}
}

// Controls describes the Previous/Next navigation.
type Controls struct {
	Visible      bool
	PrevDisabled bool
	NextDisabled bool
	PrevPage     int
	NextPage     int
	// Page and Pages are one-based for display.
	Page  int
	Pages int
}

// BuildControls derives navigation for p. Controls are hidden for a single page.
func BuildControls(p Pagination) Controls {
	if p.TotalPages <= 1 {
		return Controls{}
	}
	return Controls{
		Visible:      true,
		PrevDisabled: p.CurrentPage <= 0,
		NextDisabled: p.CurrentPage >= p.TotalPages-1,
		PrevPage:     max(p.CurrentPage-1, 0),
		NextPage:     min(p.CurrentPage+1, p.TotalPages-1),
		Page:         p.CurrentPage + 1,
		Pages:        p.TotalPages,
	}
}

// Notice is an inline outcome shown on a row after a row action.
type Notice struct {
	Identifier string
	Key        string
	Args       []any
	Failed     bool
	// Kind and Detail describe a failure; Detail is the server message, if any.
	Kind   cardapi.Kind
	Detail string
}

// FailureNotice builds the notice for a failed row action.
func FailureNotice(identifier, key string, err error) Notice {
	return Notice{
		Identifier: identifier,
		Key:        key,
		Failed:     true,
		Kind:       cardapi.KindOf(err),
		Detail:     cardapi.MessageOf(err),
	}
}

// ErrorKey returns the catalog key describing a failure kind.
func ErrorKey(kind cardapi.Kind) string {
	switch kind {
	case cardapi.KindValidation:
		return "error.validation"
	case cardapi.KindNetwork:
		return "error.network"
	case cardapi.KindTimeout:
		return "error.timeout"
	case cardapi.KindNotFound:
		return "error.not_found"
	case cardapi.KindClient:
		return "error.client"
	case cardapi.KindServer:
		return "error.server"
	default:
		return "error.unknown"
	}
}

// Row is one rendered client.
type Row struct {
	Identifier  string
	DisplayName string
	Status      cardapi.CardStatus
	StatusKey   string
	Tone        string
	CreatedAt   time.Time
	Confirming  bool
	Notice      *Notice
}

// View is everything the table template needs.
type View struct {
	Empty      bool
	Rows       []Row
	Pagination Pagination
	Controls   Controls
	Statuses   []cardapi.CardStatus
}

// Options carries transient per-operator UI state into Build.
type Options struct {
	// ConfirmDelete is the OIB whose row shows the delete confirmation.
	ConfirmDelete string
	Notice        *Notice
}

// Build renders clients and p into a View. An empty list yields no rows and no controls.
func Build(clients []cardapi.Client, p Pagination, opts Options) View {
	if len(clients) == 0 {
		return View{Empty: true, Pagination: p}
	}
	rows := make([]Row, 0, len(clients))
	for _, client := range clients {
		row := Row{
			Identifier:  client.Identifier,
			DisplayName: client.DisplayName(),
			Status:      client.CardStatus,
			StatusKey:   StatusKey(client.CardStatus),
			Tone:        Tone(client.CardStatus),
			CreatedAt:   client.CreatedAt.Time,
			Confirming:  opts.ConfirmDelete != "" && opts.ConfirmDelete == client.Identifier,
		}
		if opts.Notice != nil && opts.Notice.Identifier == client.Identifier {
			notice := *opts.Notice
			row.Notice = &notice
		}
		rows = append(rows, row)
	}
	return View{
		Rows:       rows,
		Pagination: p,
		Controls:   BuildControls(p),
		Statuses:   cardapi.Statuses(),
	}
}

// StatusKey returns the catalog key for a status label.
func StatusKey(status cardapi.CardStatus) string {
	if _, ok := cardapi.ParseCardStatus(string(status)); ok {
		return "status." + string(status)
	}
	return "status.unknown"
}

// Tone returns the badge class distinguishing status values.
func Tone(status cardapi.CardStatus) string {
	switch status {
	case cardapi.StatusPending:
		return "badge-pending"
	case cardapi.StatusApproved:
		return "badge-approved"
	case cardapi.StatusRejected:
		return "badge-rejected"
	case cardapi.StatusInProgress:
		return "badge-progress"
	case cardapi.StatusCompleted:
		return "badge-completed"
	default:
		return "badge-neutral"
	}
}

// Prune returns clients without the entry for identifier. The input is not modified.
func Prune(clients []cardapi.Client, identifier string) []cardapi.Client {
	out := make([]cardapi.Client, 0, len(clients))
	for _, client := range clients {
		if client.Identifier != identifier {
			out = append(out, client)
		}
	}
	return out
}
