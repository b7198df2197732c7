package admin

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/text/message"

	"github.com/louisbranch/cardapp/internal/services/admin/appstate"
	"github.com/louisbranch/cardapp/internal/services/admin/cardapi"
	"github.com/louisbranch/cardapp/internal/services/admin/clientform"
	"github.com/louisbranch/cardapp/internal/services/admin/templates"
	"github.com/louisbranch/cardapp/internal/services/shared/htmx"
)

// consoleView snapshots every panel of session.
func (h *Handler) consoleView(session *consoleSession, state appstate.State, loc *message.Printer) templates.ConsoleView {
	values, busy, result := session.form.Snapshot()
	query, found := session.search.Snapshot()
	return templates.ConsoleView{
		Form:   buildFormView(values, busy, result, loc),
		Search: buildSearchView(query, found, loc),
		List:   buildListView(state, session.confirming(), loc),
	}
}

func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, session *consoleSession, state appstate.State, loc *message.Printer, lang string) {
	list := buildListView(state, session.confirming(), loc)
	htmx.RenderPage(w, r,
		templates.ListPanel(list, loc, false),
		templates.ConsolePage(h.consoleView(session, state, loc), h.pageContext(lang, loc, r)),
	)
}

// HandleConsole renders the full console and fetches the list.
func (h *Handler) HandleConsole(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.localizer(w, r)
	session := h.session(w, r, lang)
	session.setConfirming("")
	state := session.controller.Dispatch(r.Context(), appstate.Mounted{})
	page := templates.ConsolePage(h.consoleView(session, state, loc), h.pageContext(lang, loc, r))
	htmx.RenderPage(w, r, page, page)
}

// HandleClientsTable renders the list panel. fetch=0 redraws the last
// fetched page without calling the backend.
func (h *Handler) HandleClientsTable(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.localizer(w, r)
	session := h.session(w, r, lang)
	session.setConfirming("")
	var state appstate.State
	if r.URL.Query().Get("fetch") == "0" {
		state = session.controller.State()
	} else {
		state = session.controller.Dispatch(r.Context(), appstate.Mounted{})
	}
	h.renderList(w, r, session, state, loc, lang)
}

// HandleCreateClient submits the creation form.
func (h *Handler) HandleCreateClient(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.localizer(w, r)
	if !requireSameOrigin(w, r, loc) || !parseForm(w, r, loc) {
		return
	}
	session := h.session(w, r, lang)
	input := clientform.Values{
		FirstName:  r.PostForm.Get("firstName"),
		LastName:   r.PostForm.Get("lastName"),
		Identifier: r.PostForm.Get("oib"),
		CardStatus: cardapi.CardStatus(strings.TrimSpace(r.PostForm.Get("cardStatus"))),
	}

	result, err := session.form.Submit(r.Context(), input)
	values, busy, _ := session.form.Snapshot()
	var form templates.FormView
	if errors.Is(err, clientform.ErrBusy) {
		form = buildFormView(input, busy, clientform.Result{}, loc)
		form.Message, form.Failed = loc.Sprintf("form.busy"), true
	} else {
		form = buildFormView(values, busy, result, loc)
	}

	state := session.controller.State()
	var list *templates.ListView
	if result.Succeeded() {
		view := buildListView(state, session.confirming(), loc)
		list = &view
	}
	console := h.consoleView(session, state, loc)
	console.Form = form
	htmx.RenderPage(w, r,
		templates.CreateResponse(form, list, loc),
		templates.ConsolePage(console, h.pageContext(lang, loc, r)),
	)
}

// HandleSearch looks a client up by OIB. Without an oib parameter it only
// redraws the panel.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.localizer(w, r)
	session := h.session(w, r, lang)
	if r.URL.Query().Has("oib") {
		session.search.Search(r.Context(), r.URL.Query().Get("oib"))
	}
	query, result := session.search.Snapshot()
	search := buildSearchView(query, result, loc)

	state := session.controller.State()
	console := h.consoleView(session, state, loc)
	htmx.RenderPage(w, r,
		templates.SearchPanel(search, loc),
		templates.ConsolePage(console, h.pageContext(lang, loc, r)),
	)
}

// HandleControls applies the page size, sort and direction selectors.
func (h *Handler) HandleControls(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.localizer(w, r)
	if !requireSameOrigin(w, r, loc) || !parseForm(w, r, loc) {
		return
	}
	session := h.session(w, r, lang)
	size, _ := strconv.Atoi(strings.TrimSpace(r.PostForm.Get("size")))
	state := session.controller.Dispatch(r.Context(), appstate.ControlsChanged{
		Size:      size,
		SortBy:    cardapi.SortField(strings.TrimSpace(r.PostForm.Get("sortBy"))),
		Direction: cardapi.Direction(strings.TrimSpace(r.PostForm.Get("direction"))),
	})
	h.renderList(w, r, session, state, loc, lang)
}

// HandleRefresh re-fetches page 0 with the current size and sort.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.localizer(w, r)
	if !requireSameOrigin(w, r, loc) {
		return
	}
	session := h.session(w, r, lang)
	session.setConfirming("")
	state := session.controller.Dispatch(r.Context(), appstate.Refreshed{})
	h.renderList(w, r, session, state, loc, lang)
}

// HandlePage navigates to the zero-based page parameter.
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.localizer(w, r)
	session := h.session(w, r, lang)
	session.setConfirming("")
	page, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("page")))
	state := session.controller.State()
	if err == nil {
		state = session.controller.Dispatch(r.Context(), appstate.PageChanged{Page: page})
	}
	h.renderList(w, r, session, state, loc, lang)
}

// HandleDismissNotice closes the blocking fetch failure notice.
func (h *Handler) HandleDismissNotice(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.localizer(w, r)
	if !requireSameOrigin(w, r, loc) {
		return
	}
	session := h.session(w, r, lang)
	state := session.controller.Dispatch(r.Context(), appstate.NoticeDismissed{})
	h.renderList(w, r, session, state, loc, lang)
}

// HandleDeleteConfirm shows the delete confirmation on the row for oib.
func (h *Handler) HandleDeleteConfirm(w http.ResponseWriter, r *http.Request, oib string) {
	loc, lang := h.localizer(w, r)
	session := h.session(w, r, lang)
	session.setConfirming(oib)
	h.renderList(w, r, session, session.controller.State(), loc, lang)
}

// HandleDelete deletes oib after confirmation.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request, oib string) {
	loc, lang := h.localizer(w, r)
	if !requireSameOrigin(w, r, loc) {
		return
	}
	session := h.session(w, r, lang)
	session.setConfirming("")
	state := session.controller.Delete(r.Context(), oib)
	h.renderList(w, r, session, state, loc, lang)
}

// HandleStatus changes the card status of oib.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request, oib string) {
	loc, lang := h.localizer(w, r)
	if !requireSameOrigin(w, r, loc) || !parseForm(w, r, loc) {
		return
	}
	session := h.session(w, r, lang)
	session.setConfirming("")
	var state appstate.State
	if status, ok := cardapi.ParseCardStatus(r.PostForm.Get("status")); ok {
		state = session.controller.UpdateStatus(r.Context(), oib, status)
	} else {
		state = session.controller.Dispatch(r.Context(), appstate.RowActionFailed{
			Identifier: oib,
			Key:        "list.status_error",
			Err:        &cardapi.Error{Kind: cardapi.KindValidation, Message: loc.Sprintf("validation.card_status_invalid")},
		})
	}
	h.renderList(w, r, session, state, loc, lang)
}

// HandleCardRequest submits a card request for oib.
func (h *Handler) HandleCardRequest(w http.ResponseWriter, r *http.Request, oib string) {
	loc, lang := h.localizer(w, r)
	if !requireSameOrigin(w, r, loc) {
		return
	}
	session := h.session(w, r, lang)
	session.setConfirming("")
	state := session.controller.RequestCard(r.Context(), oib)
	h.renderList(w, r, session, state, loc, lang)
}
