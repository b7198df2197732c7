package appstate

import (
	"context"
	"sync"
	"testing"

	"github.com/louisbranch/cardapp/internal/services/admin/cardapi"
)

type fakeBackend struct {
	mu       sync.Mutex
	queries  []cardapi.ListQuery
	pages    map[int]cardapi.Page
	listErr  error
	gates    map[int]chan struct{}
	entered  chan int
	deleted  []string
	delErr   error
	statuses map[string]cardapi.CardStatus
	requests []cardapi.CardRequest
}

func (f *fakeBackend) ListClients(_ context.Context, query cardapi.ListQuery) (cardapi.Page, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	gate := f.gates[query.Page]
	page := f.pages[query.Page]
	err := f.listErr
	f.mu.Unlock()
	if f.entered != nil {
		f.entered <- query.Page
	}
	if gate != nil {
		<-gate
	}
	return page, err
}

func (f *fakeBackend) DeleteClient(_ context.Context, identifier string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, identifier)
	return nil
}

func (f *fakeBackend) UpdateStatus(_ context.Context, identifier string, status cardapi.CardStatus) (cardapi.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statuses == nil {
		f.statuses = map[string]cardapi.CardStatus{}
	}
	f.statuses[identifier] = status
	return cardapi.Client{Identifier: identifier, CardStatus: status}, nil
}

func (f *fakeBackend) CreateCardRequest(_ context.Context, request cardapi.CardRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, request)
	return nil
}

func (f *fakeBackend) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func firstPage() cardapi.Page {
	return cardapi.Page{
		Content: []cardapi.Client{
			{FirstName: "Ana", LastName: "Kovač", Identifier: "12345678901", CardStatus: cardapi.StatusPending},
			{FirstName: "Ivo", LastName: "Horvat", Identifier: "10987654321", CardStatus: cardapi.StatusApproved},
		},
		TotalPages: 3,
		TotalItems: 22,
		PageSize:   10,
	}
}

func TestControllerMountLoadsList(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{pages: map[int]cardapi.Page{0: firstPage()}}
	c := NewController(backend, DefaultPreferences(), nil)
	s := c.Dispatch(context.Background(), Mounted{})
	if s.Loading || len(s.Clients) != 2 || s.Pagination.TotalPages != 3 {
		t.Fatalf("state = %+v", s)
	}
	if backend.queryCount() != 1 {
		t.Fatalf("fetches = %d, want 1", backend.queryCount())
	}
}

func TestControllerNoopDoesNotFetch(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{pages: map[int]cardapi.Page{0: firstPage()}}
	c := NewController(backend, DefaultPreferences(), nil)
	c.Dispatch(context.Background(), Mounted{})
	c.Dispatch(context.Background(), PageSizeChanged{Size: 10})
	if backend.queryCount() != 1 {
		t.Fatalf("fetches = %d, want 1", backend.queryCount())
	}
}

func TestControllerPersistsPreferences(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{pages: map[int]cardapi.Page{0: firstPage()}}
	var saved []Preferences
	c := NewController(backend, DefaultPreferences(), func(_ context.Context, prefs Preferences) {
		saved = append(saved, prefs)
	})
	c.Dispatch(context.Background(), Mounted{})
	c.Dispatch(context.Background(), PageSizeChanged{Size: 50})
	c.Dispatch(context.Background(), SortChanged{SortBy: cardapi.SortByLastName, Direction: cardapi.Descending})
	want := []Preferences{
		{PageSize: 50, SortBy: cardapi.SortByFirstName, Direction: cardapi.Ascending},
		{PageSize: 50, SortBy: cardapi.SortByLastName, Direction: cardapi.Descending},
	}
	if len(saved) != len(want) {
		t.Fatalf("saved = %+v", saved)
	}
	for i := range want {
		if saved[i] != want[i] {
			t.Fatalf("saved[%d] = %+v, want %+v", i, saved[i], want[i])
		}
	}
}

func TestControllerDiscardsSlowerOlderFetch(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		pages: map[int]cardapi.Page{
			0: firstPage(),
			1: {CurrentPage: 1, TotalPages: 3, Content: []cardapi.Client{{Identifier: "11111111111"}}},
			2: {CurrentPage: 2, TotalPages: 3, Content: []cardapi.Client{{Identifier: "22222222222"}}},
		},
	}
	c := NewController(backend, DefaultPreferences(), nil)
	c.Dispatch(context.Background(), Mounted{})

	backend.mu.Lock()
	backend.gates = map[int]chan struct{}{1: make(chan struct{})}
	backend.entered = make(chan int, 2)
	backend.mu.Unlock()

	slow := make(chan State)
	go func() {
		slow <- c.Dispatch(context.Background(), PageChanged{Page: 1})
	}()
	if page := <-backend.entered; page != 1 {
		t.Fatalf("first fetch page = %d", page)
	}

	fast := c.Dispatch(context.Background(), PageChanged{Page: 2})
	<-backend.entered
	if fast.CurrentPage != 2 || fast.Clients[0].Identifier != "22222222222" {
		t.Fatalf("fast = %+v", fast)
	}

	close(backend.gates[1])
	<-slow

	final := c.State()
	if final.CurrentPage != 2 || final.Clients[0].Identifier != "22222222222" || final.Loading {
		t.Fatalf("final = %+v", final)
	}
}

func TestControllerDeletePrunesAndRefetches(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{pages: map[int]cardapi.Page{0: firstPage()}}
	c := NewController(backend, DefaultPreferences(), nil)
	c.Dispatch(context.Background(), Mounted{})

	backend.mu.Lock()
	backend.listErr = &cardapi.Error{Kind: cardapi.KindServer}
	backend.mu.Unlock()

	s := c.Delete(context.Background(), "12345678901")
	if len(backend.deleted) != 1 || backend.deleted[0] != "12345678901" {
		t.Fatalf("deleted = %v", backend.deleted)
	}
	if len(s.Clients) != 1 || s.Clients[0].Identifier != "10987654321" {
		t.Fatalf("clients = %+v", s.Clients)
	}
	if backend.queryCount() != 2 {
		t.Fatalf("fetches = %d, want 2", backend.queryCount())
	}
	if s.Failure == nil || s.Failure.Kind != cardapi.KindServer {
		t.Fatalf("failure = %+v", s.Failure)
	}
}

func TestControllerDeleteFailureKeepsRow(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{pages: map[int]cardapi.Page{0: firstPage()}, delErr: &cardapi.Error{Kind: cardapi.KindNotFound}}
	c := NewController(backend, DefaultPreferences(), nil)
	c.Dispatch(context.Background(), Mounted{})

	s := c.Delete(context.Background(), "12345678901")
	if len(s.Clients) != 2 {
		t.Fatalf("clients = %+v", s.Clients)
	}
	if s.Notice == nil || !s.Notice.Failed || s.Notice.Key != "list.delete_error" {
		t.Fatalf("notice = %+v", s.Notice)
	}
	if backend.queryCount() != 1 {
		t.Fatalf("fetches = %d, want 1", backend.queryCount())
	}
}

func TestControllerRowActions(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{pages: map[int]cardapi.Page{0: firstPage()}}
	c := NewController(backend, DefaultPreferences(), nil)
	c.Dispatch(context.Background(), Mounted{})

	s := c.UpdateStatus(context.Background(), "12345678901", cardapi.StatusApproved)
	if backend.statuses["12345678901"] != cardapi.StatusApproved {
		t.Fatalf("statuses = %v", backend.statuses)
	}
	if s.Notice == nil || s.Notice.Key != "list.status_updated" || backend.queryCount() != 2 {
		t.Fatalf("notice = %+v, fetches = %d", s.Notice, backend.queryCount())
	}

	s = c.RequestCard(context.Background(), "10987654321")
	if len(backend.requests) != 1 || backend.requests[0].Identifier != "10987654321" || backend.requests[0].FirstName != "Ivo" {
		t.Fatalf("requests = %+v", backend.requests)
	}
	if s.Notice == nil || s.Notice.Key != "list.card_requested" {
		t.Fatalf("notice = %+v", s.Notice)
	}

	s = c.RequestCard(context.Background(), "00000000000")
	if s.Notice == nil || !s.Notice.Failed || s.Notice.Kind != cardapi.KindNotFound {
		t.Fatalf("notice = %+v", s.Notice)
	}
}
