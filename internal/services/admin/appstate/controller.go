package appstate

import (
	"context"
	"sync"

	"github.com/louisbranch/cardapp/internal/services/admin/cardapi"
)

// Lister fetches one page of clients.
type Lister interface {
	ListClients(ctx context.Context, query cardapi.ListQuery) (cardapi.Page, error)
}

// RowBackend performs the per-row list actions.
type RowBackend interface {
	DeleteClient(ctx context.Context, identifier string) error
	UpdateStatus(ctx context.Context, identifier string, status cardapi.CardStatus) (cardapi.Client, error)
	CreateCardRequest(ctx context.Context, request cardapi.CardRequest) error
}

// Backend is everything the controller calls.
type Backend interface {
	Lister
	RowBackend
}

// PreferencesFunc receives the preferences after they change.
type PreferencesFunc func(ctx context.Context, prefs Preferences)

// Controller applies actions to a State and runs the fetches they request.
// The lock is released while a fetch is in flight.
type Controller struct {
	backend       Backend
	onPreferences PreferencesFunc

	mu    sync.Mutex
	state State
}

// NewController builds a controller starting from Initial(prefs).
func NewController(backend Backend, prefs Preferences, onPreferences PreferencesFunc) *Controller {
	return &Controller{backend: backend, onPreferences: onPreferences, state: Initial(prefs)}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispatch applies a, performs any fetch it requires and returns the resulting state.
func (c *Controller) Dispatch(ctx context.Context, a Action) State {
	c.mu.Lock()
	before := c.state.Preferences()
	next, effect := Reduce(c.state, a)
	c.state = next
	after := next.Preferences()
	c.mu.Unlock()

	if before != after && c.onPreferences != nil {
		c.onPreferences(ctx, after)
	}
	if !effect.Fetch {
		return next
	}
	return c.run(ctx, effect)
}

func (c *Controller) run(ctx context.Context, effect Effect) State {
	page, err := c.backend.ListClients(ctx, effect.Query)

	var completion Action
	if err != nil {
		completion = FetchFailed{Generation: effect.Generation, Err: err}
	} else {
		completion = FetchSucceeded{Generation: effect.Generation, Page: page}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state, _ = Reduce(c.state, completion)
	return c.state
}

// Delete removes identifier. On success the row is pruned and the current
// page re-fetched; on failure the list is left as is.
func (c *Controller) Delete(ctx context.Context, identifier string) State {
	if err := c.backend.DeleteClient(ctx, identifier); err != nil {
		return c.Dispatch(ctx, RowActionFailed{Identifier: identifier, Key: "list.delete_error", Err: err})
	}
	return c.Dispatch(ctx, ClientDeleted{Identifier: identifier})
}

// UpdateStatus changes the card status of identifier.
func (c *Controller) UpdateStatus(ctx context.Context, identifier string, status cardapi.CardStatus) State {
	updated, err := c.backend.UpdateStatus(ctx, identifier, status)
	if err != nil {
		return c.Dispatch(ctx, RowActionFailed{Identifier: identifier, Key: "list.status_error", Err: err})
	}
	if updated.Identifier == "" {
		updated.Identifier = identifier
		updated.CardStatus = status
	}
	return c.Dispatch(ctx, StatusUpdated{Client: updated})
}

// RequestCard submits a card request mirroring the listed client.
func (c *Controller) RequestCard(ctx context.Context, identifier string) State {
	client, ok := c.find(identifier)
	if !ok {
		err := &cardapi.Error{Kind: cardapi.KindNotFound}
		return c.Dispatch(ctx, RowActionFailed{Identifier: identifier, Key: "list.card_request_error", Err: err})
	}
	if err := c.backend.CreateCardRequest(ctx, cardapi.CardRequestFromClient(client)); err != nil {
		return c.Dispatch(ctx, RowActionFailed{Identifier: identifier, Key: "list.card_request_error", Err: err})
	}
	return c.Dispatch(ctx, CardRequested{Identifier: identifier})
}

func (c *Controller) find(identifier string) (cardapi.Client, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, client := range c.state.Clients {
		if client.Identifier == identifier {
			return client, true
		}
	}
	return cardapi.Client{}, false
}
