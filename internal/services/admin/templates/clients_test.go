package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"golang.org/x/net/html"
)

func render(t *testing.T, c templ.Component) (string, *html.Node) {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	doc, err := html.Parse(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return buf.String(), doc
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// find returns every element accepted by match, in document order.
func find(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	for n := range root.Descendants() {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
	}
	return out
}

func byID(root *html.Node, id string) *html.Node {
	nodes := find(root, func(n *html.Node) bool {
		v, _ := attr(n, "id")
		return v == id
	})
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func textOf(n *html.Node) string {
	var b strings.Builder
	for d := range n.Descendants() {
		if d.Type == html.TextNode {
			b.WriteString(d.Data)
		}
	}
	return b.String()
}

func sampleRow(oib string) RowView {
	return RowView{
		ClientCard: ClientCard{
			Name:        "Ana Horvat",
			Identifier:  oib,
			StatusLabel: "Pending",
			Tone:        "badge-pending",
			Created:     "03/05/2024",
		},
		Statuses: []Option{{Value: "PENDING", Label: "Pending", Selected: true}, {Value: "APPROVED", Label: "Approved"}},
	}
}

func TestFormPanelShowsFieldErrorsAndKeepsInput(t *testing.T) {
	t.Parallel()

	_, doc := render(t, FormPanel(FormView{
		FirstName:   "Ana",
		Identifier:  "123",
		Message:     "Error creating client",
		Failed:      true,
		FieldErrors: map[string]string{"Identifier": "OIB must be exactly 11 characters"},
	}, nil))

	input := byID(doc, "oib")
	if input == nil {
		t.Fatal("oib input missing")
	}
	if v, _ := attr(input, "value"); v != "123" {
		t.Fatalf("oib value = %q", v)
	}
	if errs := find(doc, func(n *html.Node) bool { v, _ := attr(n, "class"); return v == "field-error" }); len(errs) != 1 {
		t.Fatalf("field errors = %d, want 1", len(errs))
	}
	status := find(doc, func(n *html.Node) bool { v, _ := attr(n, "role"); return v == "status" })
	if len(status) != 1 || !strings.Contains(textOf(status[0]), "Error creating client") {
		t.Fatal("expected failure status line")
	}
	if v, _ := attr(status[0], "class"); !strings.Contains(v, "alert-error") {
		t.Fatalf("status class = %q", v)
	}
}

func TestFormPanelBusyDisablesSubmit(t *testing.T) {
	t.Parallel()

	_, doc := render(t, FormPanel(FormView{Busy: true}, keyLocalizer{}))
	buttons := find(doc, func(n *html.Node) bool { return n.Data == "button" })
	if len(buttons) != 1 {
		t.Fatalf("buttons = %d", len(buttons))
	}
	if _, ok := attr(buttons[0], "disabled"); !ok {
		t.Fatal("submit should be disabled while busy")
	}
	if got := textOf(buttons[0]); got != "form.submitting" {
		t.Fatalf("button label = %q", got)
	}
}

func TestSearchPanelDisablesShortQuery(t *testing.T) {
	t.Parallel()

	_, doc := render(t, SearchPanel(SearchView{Query: "123"}, nil))
	button := find(doc, func(n *html.Node) bool { return n.Data == "button" })[0]
	if _, ok := attr(button, "disabled"); !ok {
		t.Fatal("search button should start disabled")
	}

	_, doc = render(t, SearchPanel(SearchView{
		Query:     "12345678901",
		CanSearch: true,
		Message:   "Client found!",
		Result:    &ClientCard{Name: "Ana Horvat", Identifier: "12345678901", StatusLabel: "Approved", Tone: "badge-approved"},
	}, nil))
	button = find(doc, func(n *html.Node) bool { return n.Data == "button" })[0]
	if _, ok := attr(button, "disabled"); ok {
		t.Fatal("search button should be enabled")
	}
	result := find(doc, func(n *html.Node) bool { v, _ := attr(n, "class"); return v == "search-result" })
	if len(result) != 1 || !strings.Contains(textOf(result[0]), "Ana Horvat") {
		t.Fatal("expected search result card")
	}
}

func TestListPanelEmpty(t *testing.T) {
	t.Parallel()

	out, doc := render(t, ListPanel(ListView{Empty: true}, keyLocalizer{}, false))
	if !strings.Contains(out, "list.empty") {
		t.Fatalf("expected empty message: %s", out)
	}
	if len(find(doc, func(n *html.Node) bool { return n.Data == "table" })) != 0 {
		t.Fatal("empty list should not render a table")
	}
}

func TestListPanelRowsAndPagination(t *testing.T) {
	t.Parallel()

	view := ListView{
		Summary: "Page 2 of 3 | Total clients: 25",
		Rows:    []RowView{sampleRow("12345678901"), sampleRow("10987654321")},
		Pagination: PaginationView{
			Visible:  true,
			PrevPage: 0,
			NextPage: 2,
			Label:    "Page 2 of 3",
		},
	}
	out, doc := render(t, ListPanel(view, keyLocalizer{}, false))
	if !strings.Contains(out, "Page 2 of 3 | Total clients: 25") {
		t.Fatal("summary missing")
	}
	rows := find(doc, func(n *html.Node) bool { return n.Data == "tr" && n.Parent != nil && n.Parent.Data == "tbody" })
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if byID(doc, "client-12345678901") == nil {
		t.Fatal("row id missing")
	}
	pageButtons := find(doc, func(n *html.Node) bool { _, ok := attr(n, "data-rel"); return ok })
	if len(pageButtons) != 2 {
		t.Fatalf("page buttons = %d", len(pageButtons))
	}
	for _, b := range pageButtons {
		if _, ok := attr(b, "disabled"); ok {
			t.Fatal("middle page should enable both buttons")
		}
	}
	for _, want := range []string{`hx-get="/clients/page?page=0"`, `hx-get="/clients/page?page=2"`, `hx-params="none"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("pagination missing %s", want)
		}
	}
	if !strings.Contains(out, `hx-get="/clients/search?oib=12345678901"`) {
		t.Fatal("client name should open the row in the search panel")
	}
	if !strings.Contains(out, `hx-post="/clients/12345678901/status"`) {
		t.Fatal("status form should post to the row status route")
	}
}

func TestListPanelHidesPaginationForSinglePage(t *testing.T) {
	t.Parallel()

	_, doc := render(t, ListPanel(ListView{Rows: []RowView{sampleRow("12345678901")}}, nil, false))
	if len(find(doc, func(n *html.Node) bool { return n.Data == "nav" })) != 0 {
		t.Fatal("pagination should be hidden")
	}
}

func TestListPanelDeleteConfirmation(t *testing.T) {
	t.Parallel()

	row := sampleRow("12345678901")
	row.Confirming = true
	row.ConfirmText = "Are you sure you want to delete client with OIB: 12345678901?"
	out, doc := render(t, ListPanel(ListView{Rows: []RowView{row}}, nil, false))
	groups := find(doc, func(n *html.Node) bool { v, _ := attr(n, "role"); return v == "group" })
	if len(groups) != 1 || !strings.Contains(textOf(groups[0]), "12345678901?") {
		t.Fatal("expected confirmation prompt")
	}
	if !strings.Contains(out, `hx-get="/clients/table?fetch=0"`) {
		t.Fatal("cancel should restore the cached table")
	}
}

func TestListPanelBlockingFailure(t *testing.T) {
	t.Parallel()

	_, doc := render(t, ListPanel(ListView{HasFailure: true, Failure: "Server error occurred", Loading: true}, nil, true))
	panel := byID(doc, ListPanelID)
	if v, _ := attr(panel, "hx-swap-oob"); v != "true" {
		t.Fatal("expected out-of-band marker")
	}
	dialogs := find(doc, func(n *html.Node) bool { v, _ := attr(n, "role"); return v == "alertdialog" })
	if len(dialogs) != 1 || !strings.Contains(textOf(dialogs[0]), "Server error occurred") {
		t.Fatal("expected blocking failure notice")
	}
	refresh := find(doc, func(n *html.Node) bool { v, _ := attr(n, "name"); return n.Data == "button" && v == "refresh" })
	if len(refresh) != 1 {
		t.Fatal("refresh button missing")
	}
	if _, ok := attr(refresh[0], "disabled"); !ok {
		t.Fatal("refresh should be disabled while loading")
	}
}

func TestConsolePageRendersAllPanels(t *testing.T) {
	t.Parallel()

	_, doc := render(t, ConsolePage(ConsoleView{List: ListView{Empty: true}}, PageContext{Lang: "en-US", CurrentPath: "/"}))
	for _, id := range []string{FormPanelID, SearchPanelID, ListPanelID} {
		if byID(doc, id) == nil {
			t.Fatalf("panel %q missing", id)
		}
	}
	htmlNode := find(doc, func(n *html.Node) bool { return n.Data == "html" })[0]
	if v, _ := attr(htmlNode, "lang"); v != "en-US" {
		t.Fatalf("lang = %q", v)
	}
}

func TestCreateResponseCarriesOutOfBandList(t *testing.T) {
	t.Parallel()

	out, _ := render(t, CreateResponse(FormView{Message: "ok"}, &ListView{Empty: true}, nil))
	if strings.Count(out, `id="client-list"`) != 1 || !strings.Contains(out, `hx-swap-oob="true"`) {
		t.Fatalf("expected oob list: %s", out)
	}
	if !strings.Contains(out, `id="client-form"`) {
		t.Fatal("form panel missing")
	}

	out, _ = render(t, CreateResponse(FormView{Message: "failed", Failed: true}, nil, nil))
	if strings.Contains(out, `id="client-list"`) {
		t.Fatal("failed creation should not swap the list")
	}
}

func TestListPanelShowsDetachedNotice(t *testing.T) {
	t.Parallel()

	_, doc := render(t, ListPanel(ListView{Empty: true, Notice: "Client deleted successfully!"}, nil, false))
	status := find(doc, func(n *html.Node) bool { v, _ := attr(n, "role"); return v == "status" })
	if len(status) != 1 || textOf(status[0]) != "Client deleted successfully!" {
		t.Fatal("expected panel-level notice")
	}
}
