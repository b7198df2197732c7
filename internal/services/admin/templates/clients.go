package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	routepath "github.com/louisbranch/cardapp/internal/services/admin/routepath"
)

// Element ids swapped by htmx.
const (
	FormPanelID   = "client-form"
	SearchPanelID = "client-search"
	ListPanelID   = "client-list"
)

// FormView is the creation form.
type FormView struct {
	FirstName  string
	LastName   string
	Identifier string
	Statuses   []Option
	Busy       bool
	// Message is the outcome line; Failed selects its tone.
	Message     string
	Failed      bool
	FieldErrors map[string]string
}

// ClientCard summarizes one client outside the table.
type ClientCard struct {
	Name        string
	Identifier  string
	StatusLabel string
	Tone        string
	Created     string
}

// SearchView is the lookup-by-OIB panel.
type SearchView struct {
	Query     string
	CanSearch bool
	Message   string
	Failed    bool
	Result    *ClientCard
}

// RowView is one table row.
type RowView struct {
	ClientCard
	Statuses     []Option
	Confirming   bool
	ConfirmText  string
	Notice       string
	NoticeFailed bool
}

// PaginationView is the Previous/Next navigation.
type PaginationView struct {
	Visible      bool
	PrevDisabled bool
	NextDisabled bool
	PrevPage     int
	NextPage     int
	Label        string
}

// ListView is the list panel with its controls.
type ListView struct {
	Loading    bool
	Failure    string
	HasFailure bool
	// Notice reports a row action whose row is no longer listed.
	Notice       string
	NoticeFailed bool
	Summary      string
	Empty        bool
	Rows         []RowView
	Pagination   PaginationView
	PageSizes    []Option
	SortFields   []Option
	Directions   []Option
}

// ConsoleView is the whole console page.
type ConsoleView struct {
	Form   FormView
	Search SearchView
	List   ListView
}

func (h *htmlWriter) htmxTarget(method, url, target string) {
	h.attr("hx-"+method, url)
	h.attr("hx-target", "#"+target)
	h.attr("hx-swap", "outerHTML")
}

func (h *htmlWriter) status(message string, failed bool) {
	if message == "" {
		return
	}
	tone := "alert alert-success"
	if failed {
		tone = "alert alert-error"
	}
	h.raw(`<p role="status"`)
	h.attr("class", tone)
	h.raw(">")
	h.text(message)
	h.raw("</p>")
}

func (h *htmlWriter) input(id, name, label, value string, extra func()) {
	h.raw(`<label class="form-control"><span class="label-text"`)
	h.attr("id", id+"-label")
	h.raw(">")
	h.text(label)
	h.raw(`</span><input class="input input-bordered"`)
	h.attr("id", id)
	h.attr("name", name)
	h.attr("value", value)
	if extra != nil {
		extra()
	}
	h.raw("></label>")
}

func (h *htmlWriter) fieldError(message string) {
	if message == "" {
		return
	}
	h.raw(`<p class="field-error">`)
	h.text(message)
	h.raw("</p>")
}

// FormPanel renders the creation form.
func FormPanel(view FormView, loc Localizer) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		h.raw(`<section class="card"`)
		h.attr("id", FormPanelID)
		h.raw("><h2>")
		h.text(T(loc, "form.title"))
		h.raw(`</h2><form method="post"`)
		h.attr("action", routepath.Clients)
		h.htmxTarget("post", routepath.Clients, FormPanelID)
		h.attr("hx-disabled-elt", "find button[type='submit']")
		h.raw(">")

		h.input("first-name", "firstName", T(loc, "form.first_name"), view.FirstName, func() { h.flag("required", true) })
		h.fieldError(view.FieldErrors["FirstName"])
		h.input("last-name", "lastName", T(loc, "form.last_name"), view.LastName, func() { h.flag("required", true) })
		h.fieldError(view.FieldErrors["LastName"])
		h.input("oib", "oib", T(loc, "form.oib"), view.Identifier, func() {
			h.intAttr("maxlength", 11)
			h.intAttr("minlength", 11)
			h.attr("inputmode", "numeric")
			h.attr("aria-describedby", "oib-hint")
			h.flag("required", true)
		})
		h.raw(`<p id="oib-hint" class="hint">`)
		h.text(T(loc, "form.oib_hint"))
		h.raw("</p>")
		h.fieldError(view.FieldErrors["Identifier"])

		h.raw(`<label class="form-control"><span class="label-text">`)
		h.text(T(loc, "form.card_status"))
		h.raw("</span>")
		h.selectBox("cardStatus", "card-status", view.Statuses, nil)
		h.raw("</label>")
		h.fieldError(view.FieldErrors["CardStatus"])

		h.raw(`<button type="submit" class="btn btn-primary"`)
		h.flag("disabled", view.Busy)
		h.raw(">")
		if view.Busy {
			h.text(T(loc, "form.submitting"))
		} else {
			h.text(T(loc, "form.submit"))
		}
		h.raw("</button></form>")
		h.status(view.Message, view.Failed)
		h.raw("</section>")
		return h.err
	})
}

func (h *htmlWriter) clientCard(card ClientCard, loc Localizer) {
	h.raw(`<dl class="client-card"><dt>`)
	h.text(T(loc, "label.name"))
	h.raw("</dt><dd>")
	h.text(card.Name)
	h.raw("</dd><dt>")
	h.text(T(loc, "label.oib"))
	h.raw("</dt><dd>")
	h.text(card.Identifier)
	h.raw("</dd><dt>")
	h.text(T(loc, "label.status"))
	h.raw("</dt><dd>")
	h.badge(card)
	h.raw("</dd><dt>")
	h.text(T(loc, "label.created"))
	h.raw("</dt><dd>")
	h.text(card.Created)
	h.raw("</dd></dl>")
}

func (h *htmlWriter) badge(card ClientCard) {
	h.raw("<span")
	h.attr("class", "badge "+card.Tone)
	h.raw(">")
	h.text(card.StatusLabel)
	h.raw("</span>")
}

// searchToggle enables the search button only for 11-character queries.
const searchToggle = "this.form.querySelector('button').disabled = this.value.trim().length !== 11"

// SearchPanel renders the lookup panel.
func SearchPanel(view SearchView, loc Localizer) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		h.raw(`<section class="card"`)
		h.attr("id", SearchPanelID)
		h.raw("><h2>")
		h.text(T(loc, "search.title"))
		h.raw(`</h2><form method="get" role="search"`)
		h.attr("action", routepath.ClientsSearch)
		h.htmxTarget("get", routepath.ClientsSearch, SearchPanelID)
		h.attr("hx-disabled-elt", "find button")
		h.raw(">")
		h.raw(`<input class="input input-bordered" type="search" name="oib" aria-label="OIB"`)
		h.attr("value", view.Query)
		h.attr("placeholder", T(loc, "search.placeholder"))
		h.intAttr("maxlength", 11)
		h.attr("oninput", searchToggle)
		h.raw(`><button type="submit" class="btn"`)
		h.flag("disabled", !view.CanSearch)
		h.raw(">")
		h.text(T(loc, "search.submit"))
		h.raw("</button></form>")
		h.status(view.Message, view.Failed)
		if view.Result != nil {
			h.raw(`<div class="search-result"><h3>`)
			h.text(T(loc, "search.result_title"))
			h.raw("</h3>")
			h.clientCard(*view.Result, loc)
			h.raw("</div>")
		}
		h.raw("</section>")
		return h.err
	})
}

// ListPanel renders the client table with its controls. With oob set the
// panel is marked for an htmx out-of-band swap.
func ListPanel(view ListView, loc Localizer, oob bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		h.raw(`<section class="card"`)
		h.attr("id", ListPanelID)
		if oob {
			h.attr("hx-swap-oob", "true")
		}
		h.flag("aria-busy=\"true\"", view.Loading)
		h.raw("><h2>")
		h.text(T(loc, "list.title"))
		h.raw("</h2>")

		if view.HasFailure {
			h.raw(`<div class="alert alert-error" role="alertdialog" aria-modal="true" aria-labelledby="load-failed-title"><p id="load-failed-title"><strong>`)
			h.text(T(loc, "notice.load_failed"))
			h.raw("</strong></p><p>")
			h.text(view.Failure)
			h.raw(`</p><form method="post"`)
			h.attr("action", routepath.ClientsNotice)
			h.htmxTarget("post", routepath.ClientsNotice, ListPanelID)
			h.raw(`><button type="submit" class="btn btn-sm">`)
			h.text(T(loc, "notice.dismiss"))
			h.raw("</button></form></div>")
		}

		h.listControls(view, loc)
		h.status(view.Notice, view.NoticeFailed)

		if view.Empty {
			h.raw(`<p class="empty">`)
			h.text(T(loc, "list.empty"))
			h.raw("</p></section>")
			return h.err
		}

		h.raw(`<p class="summary">`)
		h.text(view.Summary)
		h.raw(`</p><table class="table"><thead><tr><th>`)
		h.text(T(loc, "label.name"))
		h.raw("</th><th>")
		h.text(T(loc, "label.oib"))
		h.raw("</th><th>")
		h.text(T(loc, "label.status"))
		h.raw("</th><th>")
		h.text(T(loc, "label.created"))
		h.raw("</th><th></th></tr></thead><tbody>")
		for _, row := range view.Rows {
			h.row(row, loc)
		}
		h.raw("</tbody></table>")
		h.pagination(view.Pagination, loc)
		h.raw("</section>")
		return h.err
	})
}

func (h *htmlWriter) listControls(view ListView, loc Localizer) {
	h.raw(`<div class="controls"><form method="post"`)
	h.attr("action", routepath.ClientsControls)
	h.htmxTarget("post", routepath.ClientsControls, ListPanelID)
	h.attr("hx-trigger", "change")
	h.raw(`><label>`)
	h.text(T(loc, "controls.page_size"))
	h.selectBox("size", "page-size", view.PageSizes, nil)
	h.raw("</label><label>")
	h.text(T(loc, "controls.sort_by"))
	h.selectBox("sortBy", "sort-by", view.SortFields, nil)
	h.raw("</label><label>")
	h.text(T(loc, "controls.direction"))
	h.selectBox("direction", "direction", view.Directions, nil)
	h.raw(`</label><noscript><button type="submit" class="btn btn-sm">OK</button></noscript></form>`)

	h.raw(`<form method="post"`)
	h.attr("action", routepath.ClientsRefresh)
	h.htmxTarget("post", routepath.ClientsRefresh, ListPanelID)
	h.attr("hx-disabled-elt", "find button")
	h.raw(`><button type="submit" class="btn btn-sm" name="refresh"`)
	h.flag("disabled", view.Loading)
	h.raw(">")
	if view.Loading {
		h.text(T(loc, "controls.refreshing"))
	} else {
		h.text(T(loc, "controls.refresh"))
	}
	h.raw("</button></form></div>")
}

func (h *htmlWriter) row(row RowView, loc Localizer) {
	h.raw("<tr")
	h.attr("id", "client-"+row.Identifier)
	searchURL := routepath.ClientSearch(row.Identifier)
	h.raw(`><td><a class="link"`)
	h.attr("href", searchURL)
	h.htmxTarget("get", searchURL, SearchPanelID)
	h.raw(">")
	h.text(row.Name)
	h.raw("</a></td><td>")
	h.text(row.Identifier)
	h.raw("</td><td>")
	h.badge(row.ClientCard)
	h.raw("</td><td>")
	h.text(row.Created)
	h.raw(`</td><td class="actions">`)

	deleteURL := routepath.ClientDelete(row.Identifier)
	if row.Confirming {
		h.raw(`<div class="confirm" role="group"><p>`)
		h.text(row.ConfirmText)
		h.raw(`</p><form method="post"`)
		h.attr("action", deleteURL)
		h.htmxTarget("post", deleteURL, ListPanelID)
		h.raw(`><button type="submit" class="btn btn-sm btn-error" name="confirm" value="yes">`)
		h.text(T(loc, "list.delete"))
		h.raw("</button></form><a class=\"btn btn-sm\"")
		h.attr("href", routepath.Clients)
		h.htmxTarget("get", routepath.ClientsTable+"?fetch=0", ListPanelID)
		h.raw(">")
		h.text(T(loc, "list.delete_cancel"))
		h.raw("</a></div>")
	} else {
		h.raw(`<a class="btn btn-sm btn-error"`)
		h.attr("href", deleteURL)
		h.htmxTarget("get", deleteURL, ListPanelID)
		h.raw(">")
		h.text(T(loc, "list.delete"))
		h.raw("</a>")
	}

	statusURL := routepath.ClientStatus(row.Identifier)
	h.raw(`<form method="post" class="inline"`)
	h.attr("action", statusURL)
	h.htmxTarget("post", statusURL, ListPanelID)
	h.raw(">")
	h.selectBox("status", "status-"+row.Identifier, row.Statuses, func() {
		h.attr("aria-label", T(loc, "label.status"))
	})
	h.raw(`<button type="submit" class="btn btn-sm">`)
	h.text(T(loc, "list.status_update"))
	h.raw("</button></form>")

	cardURL := routepath.ClientCardRequest(row.Identifier)
	h.raw(`<form method="post" class="inline"`)
	h.attr("action", cardURL)
	h.htmxTarget("post", cardURL, ListPanelID)
	h.raw(`><button type="submit" class="btn btn-sm">`)
	h.text(T(loc, "list.card_request"))
	h.raw("</button></form>")

	h.status(row.Notice, row.NoticeFailed)
	h.raw("</td></tr>")
}

func (h *htmlWriter) pagination(p PaginationView, loc Localizer) {
	if !p.Visible {
		return
	}
	h.raw(`<nav class="pagination" aria-label="pagination">`)
	h.pageButton(p.PrevPage, p.PrevDisabled, "prev", T(loc, "list.previous"))
	h.raw(`<span class="page-label">`)
	h.text(p.Label)
	h.raw("</span>")
	h.pageButton(p.NextPage, p.NextDisabled, "next", T(loc, "list.next"))
	h.raw("</nav>")
}

func (h *htmlWriter) pageButton(page int, disabled bool, rel, label string) {
	h.raw(`<form method="get"`)
	h.attr("action", routepath.ClientsPage)
	h.htmxTarget("get", routepath.ClientPage(page), ListPanelID)
	h.attr("hx-params", "none")
	h.raw(`><input type="hidden" name="page"`)
	h.intAttr("value", page)
	h.raw(`><button type="submit" class="btn btn-sm"`)
	h.attr("data-rel", rel)
	h.flag("disabled", disabled)
	h.raw(">")
	h.text(label)
	h.raw("</button></form>")
}

// CreateResponse is the htmx reply to a creation: the form plus, when the
// list changed, an out-of-band list refresh.
func CreateResponse(form FormView, list *ListView, loc Localizer) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		h.render(FormPanel(form, loc))
		if list != nil {
			h.render(ListPanel(*list, loc, true))
		}
		return h.err
	})
}

// ConsolePage renders the full console.
func ConsolePage(view ConsoleView, page PageContext) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		h.raw(`<div class="panels">`)
		h.render(FormPanel(view.Form, page.Loc))
		h.render(SearchPanel(view.Search, page.Loc))
		h.raw("</div>")
		h.render(ListPanel(view.List, page.Loc, false))
		return h.err
	})
	return Layout(page, T(page.Loc, "app.title"), body)
}
