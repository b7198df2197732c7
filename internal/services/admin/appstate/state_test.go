package appstate

import (
	"errors"
	"testing"

	"github.com/louisbranch/cardapp/internal/services/admin/cardapi"
)

func loadedState() State {
	s := Initial(DefaultPreferences())
	s, effect := Reduce(s, Mounted{})
	s, _ = Reduce(s, FetchSucceeded{Generation: effect.Generation, Page: cardapi.Page{
		Content: []cardapi.Client{
			{FirstName: "Ana", LastName: "Kovač", Identifier: "12345678901", CardStatus: cardapi.StatusPending},
			{FirstName: "Ivo", LastName: "Horvat", Identifier: "10987654321", CardStatus: cardapi.StatusApproved},
		},
		CurrentPage: 0,
		TotalPages:  3,
		TotalItems:  22,
		PageSize:    10,
	}})
	return s
}

func TestInitialUsesDefaults(t *testing.T) {
	t.Parallel()

	s := Initial(Preferences{PageSize: 7, SortBy: "oib", Direction: "sideways"})
	want := cardapi.DefaultListQuery()
	if s.Query() != want {
		t.Fatalf("query = %+v, want %+v", s.Query(), want)
	}
	if s.Loading || s.Generation != 0 {
		t.Fatalf("state = %+v", s)
	}
}

func TestMountedFetches(t *testing.T) {
	t.Parallel()

	s, effect := Reduce(Initial(DefaultPreferences()), Mounted{})
	if !effect.Fetch || effect.Generation != 1 || !s.Loading {
		t.Fatalf("effect = %+v, state = %+v", effect, s)
	}
	if effect.Query != cardapi.DefaultListQuery() {
		t.Fatalf("query = %+v", effect.Query)
	}
}

func TestTupleChangesFetchOnce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		action Action
		fetch  bool
		query  cardapi.ListQuery
	}{
		{name: "page", action: PageChanged{Page: 2}, fetch: true, query: cardapi.ListQuery{Page: 2, Size: 10, SortBy: "firstName", Direction: "asc"}},
		{name: "same page", action: PageChanged{Page: 0}},
		{name: "negative page", action: PageChanged{Page: -1}},
		{name: "past last page", action: PageChanged{Page: 3}},
		{name: "size", action: PageSizeChanged{Size: 20}, fetch: true, query: cardapi.ListQuery{Page: 0, Size: 20, SortBy: "firstName", Direction: "asc"}},
		{name: "same size", action: PageSizeChanged{Size: 10}},
		{name: "unsupported size", action: PageSizeChanged{Size: 15}},
		{name: "sort", action: SortChanged{SortBy: cardapi.SortByCreatedAt, Direction: cardapi.Descending}, fetch: true, query: cardapi.ListQuery{Page: 0, Size: 10, SortBy: "createdAt", Direction: "desc"}},
		{name: "same sort", action: SortChanged{SortBy: cardapi.SortByFirstName, Direction: cardapi.Ascending}},
		{name: "unsupported sort", action: SortChanged{SortBy: "oib", Direction: cardapi.Ascending}},
		{name: "controls all at once", action: ControlsChanged{Size: 50, SortBy: cardapi.SortByLastName, Direction: cardapi.Descending}, fetch: true, query: cardapi.ListQuery{Page: 0, Size: 50, SortBy: "lastName", Direction: "desc"}},
		{name: "controls direction only", action: ControlsChanged{Size: 10, SortBy: cardapi.SortByFirstName, Direction: cardapi.Descending}, fetch: true, query: cardapi.ListQuery{Page: 0, Size: 10, SortBy: "firstName", Direction: "desc"}},
		{name: "controls unchanged", action: ControlsChanged{Size: 10, SortBy: cardapi.SortByFirstName, Direction: cardapi.Ascending}},
		{name: "controls invalid", action: ControlsChanged{Size: 15, SortBy: "oib", Direction: "up"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			before := loadedState()
			after, effect := Reduce(before, tc.action)
			if effect.Fetch != tc.fetch {
				t.Fatalf("fetch = %v, want %v", effect.Fetch, tc.fetch)
			}
			if !tc.fetch {
				if after.Generation != before.Generation || after.Loading {
					t.Fatalf("no-op changed state: %+v", after)
				}
				return
			}
			if effect.Query != tc.query {
				t.Fatalf("query = %+v, want %+v", effect.Query, tc.query)
			}
			if effect.Generation != before.Generation+1 || !after.Loading {
				t.Fatalf("effect = %+v, state = %+v", effect, after)
			}
		})
	}
}

func TestPageChangeIsOptimistic(t *testing.T) {
	t.Parallel()

	s, _ := Reduce(loadedState(), PageChanged{Page: 1})
	if s.CurrentPage != 1 {
		t.Fatalf("current page = %d, want 1 before fetch resolves", s.CurrentPage)
	}
	if len(s.Clients) != 2 {
		t.Fatal("clients must stay until the fetch resolves")
	}
}

func TestRefreshResetsPageAndIsIgnoredWhileLoading(t *testing.T) {
	t.Parallel()

	s, _ := Reduce(loadedState(), PageChanged{Page: 2})
	if _, effect := Reduce(s, Refreshed{}); effect.Fetch {
		t.Fatal("refresh must be ignored while loading")
	}

	s, _ = Reduce(s, FetchSucceeded{Generation: s.Generation, Page: cardapi.Page{CurrentPage: 2, TotalPages: 3, Content: []cardapi.Client{{Identifier: "11111111111"}}}})
	s, _ = Reduce(s, SortChanged{SortBy: cardapi.SortByLastName, Direction: cardapi.Descending})
	s, _ = Reduce(s, FetchSucceeded{Generation: s.Generation, Page: cardapi.Page{CurrentPage: 2, TotalPages: 3, Content: []cardapi.Client{{Identifier: "11111111111"}}}})

	s, effect := Reduce(s, Refreshed{})
	want := cardapi.ListQuery{Page: 0, Size: 10, SortBy: cardapi.SortByLastName, Direction: cardapi.Descending}
	if !effect.Fetch || effect.Query != want {
		t.Fatalf("effect = %+v", effect)
	}
	if s.CurrentPage != 0 {
		t.Fatalf("current page = %d", s.CurrentPage)
	}
}

func TestStaleCompletionIsDiscarded(t *testing.T) {
	t.Parallel()

	s := loadedState()
	s, first := Reduce(s, PageChanged{Page: 1})
	s, second := Reduce(s, PageChanged{Page: 2})

	newer := cardapi.Page{CurrentPage: 2, TotalPages: 3, Content: []cardapi.Client{{Identifier: "22222222222"}}}
	s, _ = Reduce(s, FetchSucceeded{Generation: second.Generation, Page: newer})

	older := cardapi.Page{CurrentPage: 1, TotalPages: 3, Content: []cardapi.Client{{Identifier: "11111111111"}}}
	s, _ = Reduce(s, FetchSucceeded{Generation: first.Generation, Page: older})
	if s.CurrentPage != 2 || s.Clients[0].Identifier != "22222222222" {
		t.Fatalf("stale response applied: %+v", s)
	}

	s, _ = Reduce(s, FetchFailed{Generation: first.Generation, Err: &cardapi.Error{Kind: cardapi.KindServer}})
	if s.Failure != nil {
		t.Fatal("stale failure must not raise a notice")
	}
}

func TestFetchFailureKeepsList(t *testing.T) {
	t.Parallel()

	before := loadedState()
	s, effect := Reduce(before, PageChanged{Page: 1})
	s, _ = Reduce(s, FetchFailed{Generation: effect.Generation, Err: &cardapi.Error{Kind: cardapi.KindNetwork}})
	if s.Failure == nil || s.Failure.Kind != cardapi.KindNetwork {
		t.Fatalf("failure = %+v", s.Failure)
	}
	if s.Loading || len(s.Clients) != 2 || s.Pagination != before.Pagination {
		t.Fatalf("list touched on failure: %+v", s)
	}
	if view := s.View(""); view.Controls.Page != 1 || !view.Controls.PrevDisabled {
		t.Fatalf("controls describe the failed page: %+v", view.Controls)
	}
	if s.CurrentPage != before.CurrentPage {
		t.Fatalf("current page = %d, want %d after failed navigation", s.CurrentPage, before.CurrentPage)
	}
	if _, retry := Reduce(s, PageChanged{Page: 1}); !retry.Fetch {
		t.Fatal("navigating to the failed page again must fetch")
	}
	s, _ = Reduce(s, NoticeDismissed{})
	if s.Failure != nil {
		t.Fatal("notice not dismissed")
	}
}

func TestViewShowsRequestedPageWhileLoading(t *testing.T) {
	t.Parallel()

	s, _ := Reduce(loadedState(), PageChanged{Page: 1})
	if view := s.View(""); view.Controls.Page != 2 {
		t.Fatalf("controls = %+v, want requested page while loading", view.Controls)
	}
}

func TestListChangesClearRowNotice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		action Action
	}{
		{name: "refresh", action: Refreshed{}},
		{name: "page", action: PageChanged{Page: 1}},
		{name: "page size", action: PageSizeChanged{Size: 20}},
		{name: "sort", action: SortChanged{SortBy: cardapi.SortByLastName, Direction: cardapi.Descending}},
		{name: "controls", action: ControlsChanged{Size: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, effect := Reduce(loadedState(), ClientDeleted{Identifier: "12345678901"})
			s, _ = Reduce(s, FetchSucceeded{Generation: effect.Generation, Page: cardapi.Page{
				Content:    []cardapi.Client{{Identifier: "10987654321"}},
				TotalPages: 3,
				TotalItems: 21,
			}})
			if s.Notice == nil || s.Notice.Key != "list.deleted" {
				t.Fatalf("notice = %+v, want list.deleted", s.Notice)
			}
			s, _ = Reduce(s, tt.action)
			if s.Notice != nil {
				t.Fatalf("notice = %+v, want cleared", s.Notice)
			}
		})
	}
}

func TestClientCreatedFetchesFirstPage(t *testing.T) {
	t.Parallel()

	s, _ := Reduce(loadedState(), PageChanged{Page: 2})
	s, _ = Reduce(s, FetchSucceeded{Generation: s.Generation, Page: cardapi.Page{CurrentPage: 2, TotalPages: 3}})
	s, effect := Reduce(s, ClientCreated{Client: cardapi.Client{Identifier: "12345678901"}})
	if !effect.Fetch || effect.Query.Page != 0 || s.CurrentPage != 0 {
		t.Fatalf("effect = %+v", effect)
	}
	if s.Notice == nil || s.Notice.Identifier != "12345678901" || s.Notice.Key != "list.created" {
		t.Fatalf("notice = %+v, want created row notice", s.Notice)
	}
}

func TestClientDeletedPrunesBeforeRefetch(t *testing.T) {
	t.Parallel()

	before := loadedState()
	s, effect := Reduce(before, ClientDeleted{Identifier: "12345678901"})
	if len(s.Clients) != 1 || s.Clients[0].Identifier != "10987654321" {
		t.Fatalf("clients = %+v", s.Clients)
	}
	if len(before.Clients) != 2 {
		t.Fatal("reducer mutated its input")
	}
	if !effect.Fetch || effect.Query.Page != before.CurrentPage {
		t.Fatalf("effect = %+v", effect)
	}

	s, _ = Reduce(s, FetchFailed{Generation: effect.Generation, Err: errors.New("down")})
	if len(s.Clients) != 1 {
		t.Fatal("pruned row reappeared after failed re-fetch")
	}
}

func TestRowActionFailedLeavesList(t *testing.T) {
	t.Parallel()

	before := loadedState()
	s, effect := Reduce(before, RowActionFailed{
		Identifier: "12345678901",
		Key:        "list.delete_error",
		Err:        &cardapi.Error{Kind: cardapi.KindClient, Message: "locked"},
	})
	if effect.Fetch || len(s.Clients) != 2 {
		t.Fatalf("state = %+v", s)
	}
	if s.Notice == nil || !s.Notice.Failed || s.Notice.Detail != "locked" || s.Notice.Kind != cardapi.KindClient {
		t.Fatalf("notice = %+v", s.Notice)
	}
}

func TestViewScenarioSecondOfThree(t *testing.T) {
	t.Parallel()

	s := Initial(Preferences{PageSize: 10, SortBy: cardapi.SortByCreatedAt, Direction: cardapi.Descending})
	s, _ = Reduce(s, Mounted{})
	s, effect := Reduce(s, PageChanged{Page: 1})
	if effect.Query != (cardapi.ListQuery{Page: 1, Size: 10, SortBy: cardapi.SortByCreatedAt, Direction: cardapi.Descending}) {
		t.Fatalf("query = %+v", effect.Query)
	}
	s, _ = Reduce(s, FetchSucceeded{Generation: effect.Generation, Page: cardapi.Page{
		Content:     []cardapi.Client{{Identifier: "12345678901"}, {Identifier: "10987654321"}},
		CurrentPage: 1,
		TotalPages:  3,
		TotalItems:  22,
	}})
	view := s.View("")
	if !view.Controls.Visible || view.Controls.Page != 2 || view.Controls.Pages != 3 {
		t.Fatalf("controls = %+v", view.Controls)
	}
	if view.Controls.PrevDisabled || view.Controls.NextDisabled {
		t.Fatalf("controls = %+v", view.Controls)
	}
}
