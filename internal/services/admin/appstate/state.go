// Package appstate owns the list state of one operator session.
//
// State is an immutable value. Reduce computes the next State for an Action
// and reports whether a list fetch must follow. Every fetch carries the
// generation it was issued under; completions from an older generation are
// dropped so a slow response cannot overwrite newer state.
package appstate

import (
	"github.com/louisbranch/cardapp/internal/services/admin/cardapi"
	"github.com/louisbranch/cardapp/internal/services/admin/clientlist"
)

// Preferences are the list settings remembered per session.
type Preferences struct {
	PageSize  int
	SortBy    cardapi.SortField
	Direction cardapi.Direction
}

// DefaultPreferences returns size 10 sorted by first name ascending.
func DefaultPreferences() Preferences {
	q := cardapi.DefaultListQuery()
	return Preferences{PageSize: q.Size, SortBy: q.SortBy, Direction: q.Direction}
}

// Normalize replaces unsupported values with defaults.
func (p Preferences) Normalize() Preferences {
	defaults := DefaultPreferences()
	if !cardapi.ValidPageSize(p.PageSize) {
		p.PageSize = defaults.PageSize
	}
	if _, ok := cardapi.ParseSortField(string(p.SortBy)); !ok {
		p.SortBy = defaults.SortBy
	}
	if _, ok := cardapi.ParseDirection(string(p.Direction)); !ok {
		p.Direction = defaults.Direction
	}
	return p
}

// Failure is the blocking notice shown when a list fetch fails.
type Failure struct {
	Kind    cardapi.Kind
	Message string
}

// State is the controller-owned view of the client list.
type State struct {
	CurrentPage int
	PageSize    int
	SortBy      cardapi.SortField
	Direction   cardapi.Direction

	Loading    bool
	Generation uint64
	Clients    []cardapi.Client
	Pagination clientlist.Pagination

	Failure *Failure
	Notice  *clientlist.Notice
}

// Initial returns the state before the first fetch.
func Initial(prefs Preferences) State {
	prefs = prefs.Normalize()
	return State{PageSize: prefs.PageSize, SortBy: prefs.SortBy, Direction: prefs.Direction}
}

// Query is the fetch tuple of s.
func (s State) Query() cardapi.ListQuery {
	return cardapi.ListQuery{Page: s.CurrentPage, Size: s.PageSize, SortBy: s.SortBy, Direction: s.Direction}
}

// Preferences extracts the persisted settings of s.
func (s State) Preferences() Preferences {
	return Preferences{PageSize: s.PageSize, SortBy: s.SortBy, Direction: s.Direction}
}

// View builds the table for s. The requested page is shown only while its
// fetch is in flight; otherwise the last resolved page is.
func (s State) View(confirmDelete string) clientlist.View {
	p := s.Pagination
	if s.Loading && s.Failure == nil {
		p.CurrentPage = s.CurrentPage
	}
	return clientlist.Build(s.Clients, p, clientlist.Options{ConfirmDelete: confirmDelete, Notice: s.Notice})
}

// Effect is the side effect requested by Reduce.
type Effect struct {
	Fetch      bool
	Generation uint64
	Query      cardapi.ListQuery
}

// Action is an input to Reduce.
type Action interface {
	action()
}

type (
	// Mounted is sent when the console is first shown.
	Mounted struct{}
	// Refreshed requests page 0 with the current size and sort.
	Refreshed struct{}
	// PageChanged navigates to a zero-based page.
	PageChanged struct{ Page int }
	// PageSizeChanged selects a new page size.
	PageSizeChanged struct{ Size int }
	// SortChanged selects a new sort column and direction.
	SortChanged struct {
		SortBy    cardapi.SortField
		Direction cardapi.Direction
	}
	// ControlsChanged applies the list controls form in one step. Invalid
	// values are ignored.
	ControlsChanged struct {
		Size      int
		SortBy    cardapi.SortField
		Direction cardapi.Direction
	}
	// ClientCreated reports a successful creation.
	ClientCreated struct{ Client cardapi.Client }
	// ClientDeleted reports a successful deletion.
	ClientDeleted struct{ Identifier string }
	// StatusUpdated reports a successful status change.
	StatusUpdated struct{ Client cardapi.Client }
	// CardRequested reports a submitted card request.
	CardRequested struct{ Identifier string }
	// RowActionFailed reports a failed row action; the list is not touched.
	RowActionFailed struct {
		Identifier string
		Key        string
		Err        error
	}
	// FetchSucceeded delivers the page fetched under Generation.
	FetchSucceeded struct {
		Generation uint64
		Page       cardapi.Page
	}
	// FetchFailed delivers the error of the fetch issued under Generation.
	FetchFailed struct {
		Generation uint64
		Err        error
	}
	// NoticeDismissed clears the blocking notice.
	NoticeDismissed struct{}
)

func (Mounted) action()         {}
func (Refreshed) action()       {}
func (PageChanged) action()     {}
func (PageSizeChanged) action() {}
func (SortChanged) action()     {}
func (ControlsChanged) action() {}
func (ClientCreated) action()   {}
func (ClientDeleted) action()   {}
func (StatusUpdated) action()   {}
func (CardRequested) action()   {}
func (RowActionFailed) action() {}
func (FetchSucceeded) action()  {}
func (FetchFailed) action()     {}
func (NoticeDismissed) action() {}

// Reduce returns the state following a and the effect it requires. s is not modified.
func Reduce(s State, a Action) (State, Effect) {
	switch a := a.(type) {
	case Mounted:
		return fetch(s)
	case Refreshed:
		if s.Loading {
			return s, Effect{}
		}
		s.CurrentPage = 0
		s.Notice = nil
		return fetch(s)
	case PageChanged:
		if a.Page < 0 || a.Page == s.CurrentPage {
			return s, Effect{}
		}
		if s.Pagination.TotalPages > 0 && a.Page >= s.Pagination.TotalPages {
			return s, Effect{}
		}
		s.CurrentPage = a.Page
		s.Notice = nil
		return fetch(s)
	case PageSizeChanged:
		if !cardapi.ValidPageSize(a.Size) || a.Size == s.PageSize {
			return s, Effect{}
		}
		s.PageSize = a.Size
		s.Notice = nil
		return fetch(s)
	case SortChanged:
		sortBy, ok := cardapi.ParseSortField(string(a.SortBy))
		if !ok {
			return s, Effect{}
		}
		direction, ok := cardapi.ParseDirection(string(a.Direction))
		if !ok {
			return s, Effect{}
		}
		if sortBy == s.SortBy && direction == s.Direction {
			return s, Effect{}
		}
		s.SortBy, s.Direction = sortBy, direction
		s.Notice = nil
		return fetch(s)
	case ControlsChanged:
		changed := false
		if cardapi.ValidPageSize(a.Size) && a.Size != s.PageSize {
			s.PageSize = a.Size
			changed = true
		}
		if sortBy, ok := cardapi.ParseSortField(string(a.SortBy)); ok && sortBy != s.SortBy {
			s.SortBy = sortBy
			changed = true
		}
		if direction, ok := cardapi.ParseDirection(string(a.Direction)); ok && direction != s.Direction {
			s.Direction = direction
			changed = true
		}
		if !changed {
			return s, Effect{}
		}
		s.Notice = nil
		return fetch(s)
	case ClientCreated:
		s.CurrentPage = 0
		s.Notice = nil
		if id := a.Client.Identifier; id != "" {
			s.Notice = &clientlist.Notice{Identifier: id, Key: "list.created", Args: []any{id}}
		}
		return fetch(s)
	case ClientDeleted:
		s.Clients = clientlist.Prune(s.Clients, a.Identifier)
		s.Notice = &clientlist.Notice{Identifier: a.Identifier, Key: "list.deleted"}
		return fetch(s)
	case StatusUpdated:
		s.Notice = &clientlist.Notice{
			Identifier: a.Client.Identifier,
			Key:        "list.status_updated",
			Args:       []any{a.Client.Identifier, string(a.Client.CardStatus)},
		}
		return fetch(s)
	case CardRequested:
		s.Notice = &clientlist.Notice{Identifier: a.Identifier, Key: "list.card_requested", Args: []any{a.Identifier}}
		return s, Effect{}
	case RowActionFailed:
		notice := clientlist.FailureNotice(a.Identifier, a.Key, a.Err)
		s.Notice = &notice
		return s, Effect{}
	case FetchSucceeded:
		if a.Generation != s.Generation {
			return s, Effect{}
		}
		s.Loading = false
		s.Failure = nil
		s.Clients = a.Page.Content
		s.Pagination = clientlist.PaginationFromPage(a.Page)
		s.CurrentPage = a.Page.CurrentPage
		return s, Effect{}
	case FetchFailed:
		if a.Generation != s.Generation {
			return s, Effect{}
		}
		s.Loading = false
		s.Failure = &Failure{Kind: cardapi.KindOf(a.Err), Message: cardapi.MessageOf(a.Err)}
		if s.Pagination.TotalPages > 0 {
			s.CurrentPage = s.Pagination.CurrentPage
		}
		return s, Effect{}
	case NoticeDismissed:
		s.Failure = nil
		return s, Effect{}
	default:
		return s, Effect{}
	}
}

func fetch(s State) (State, Effect) {
	s.Generation++
	s.Loading = true
	return s, Effect{Fetch: true, Generation: s.Generation, Query: s.Query()}
}
