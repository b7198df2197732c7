package admin

import (
	"strconv"

	"golang.org/x/text/message"

	"github.com/louisbranch/cardapp/internal/services/admin/appstate"
	"github.com/louisbranch/cardapp/internal/services/admin/cardapi"
	"github.com/louisbranch/cardapp/internal/services/admin/clientform"
	"github.com/louisbranch/cardapp/internal/services/admin/clientlist"
	"github.com/louisbranch/cardapp/internal/services/admin/clientsearch"
	"github.com/louisbranch/cardapp/internal/services/admin/templates"
)

// formFields maps validated struct fields to the names the form template keys on.
var formFields = []string{"FirstName", "LastName", "Identifier", "CardStatus"}

func buildFormView(values clientform.Values, busy bool, result clientform.Result, loc *message.Printer) templates.FormView {
	view := templates.FormView{
		FirstName:  values.FirstName,
		LastName:   values.LastName,
		Identifier: values.Identifier,
		Statuses:   statusOptions(values.CardStatus, loc),
		Busy:       busy,
	}
	switch {
	case result.Succeeded():
		view.Message = loc.Sprintf("form.success")
	case result.Failed() && len(result.Fields) > 0:
		view.Failed = true
		view.Message = loc.Sprintf("form.error_generic")
		view.FieldErrors = make(map[string]string, len(result.Fields))
		for _, field := range formFields {
			if key := result.FieldKey(field); key != "" {
				view.FieldErrors[field] = loc.Sprintf(key)
			}
		}
	case result.Failed() && result.Message != "":
		view.Failed = true
		view.Message = result.Message
	case result.Failed():
		view.Failed = true
		view.Message = loc.Sprintf("form.error", loc.Sprintf(clientlist.ErrorKey(result.Kind)))
	}
	return view
}

func buildSearchView(query string, result clientsearch.Result, loc *message.Printer) templates.SearchView {
	view := templates.SearchView{Query: query, CanSearch: clientsearch.CanSearch(query)}
	if result.MessageKey != "" {
		view.Message = loc.Sprintf(result.MessageKey, result.MessageArgs...)
		view.Failed = !result.Found()
	}
	if result.Client != nil {
		card := clientCard(*result.Client, loc)
		view.Result = &card
	}
	return view
}

func clientCard(client cardapi.Client, loc *message.Printer) templates.ClientCard {
	return templates.ClientCard{
		Name:        client.DisplayName(),
		Identifier:  client.Identifier,
		StatusLabel: loc.Sprintf(clientlist.StatusKey(client.CardStatus)),
		Tone:        clientlist.Tone(client.CardStatus),
		Created:     templates.FormatDate(loc, client.CreatedAt.Time),
	}
}

func buildListView(state appstate.State, confirmDelete string, loc *message.Printer) templates.ListView {
	table := state.View(confirmDelete)
	view := templates.ListView{
		Loading:    state.Loading,
		Empty:      table.Empty,
		PageSizes:  pageSizeOptions(state.PageSize),
		SortFields: sortOptions(state.SortBy, loc),
		Directions: directionOptions(state.Direction, loc),
	}
	if state.Failure != nil {
		view.HasFailure = true
		view.Failure = failureText(state.Failure.Kind, state.Failure.Message, loc)
	}

	attached := false
	view.Rows = make([]templates.RowView, 0, len(table.Rows))
	for _, row := range table.Rows {
		rv := templates.RowView{
			ClientCard: templates.ClientCard{
				Name:        row.DisplayName,
				Identifier:  row.Identifier,
				StatusLabel: loc.Sprintf(row.StatusKey),
				Tone:        row.Tone,
				Created:     templates.FormatDate(loc, row.CreatedAt),
			},
			Statuses:   statusOptions(row.Status, loc),
			Confirming: row.Confirming,
		}
		if row.Confirming {
			rv.ConfirmText = loc.Sprintf("list.delete_confirm", row.Identifier)
		}
		if row.Notice != nil {
			rv.Notice, rv.NoticeFailed = noticeText(*row.Notice, loc), row.Notice.Failed
			attached = true
		}
		view.Rows = append(view.Rows, rv)
	}
	if state.Notice != nil && !attached {
		view.Notice, view.NoticeFailed = noticeText(*state.Notice, loc), state.Notice.Failed
	}

	p := table.Pagination
	if !table.Empty {
		view.Summary = loc.Sprintf("list.summary", p.CurrentPage+1, p.TotalPages, p.TotalItems)
	}
	controls := table.Controls
	view.Pagination = templates.PaginationView{
		Visible:      controls.Visible,
		PrevDisabled: controls.PrevDisabled,
		NextDisabled: controls.NextDisabled,
		PrevPage:     controls.PrevPage,
		NextPage:     controls.NextPage,
	}
	if controls.Visible {
		view.Pagination.Label = loc.Sprintf("list.page", controls.Page, controls.Pages)
	}
	return view
}

// failureText prefers the server's message over the generic text for kind.
func failureText(kind cardapi.Kind, serverMessage string, loc *message.Printer) string {
	if serverMessage != "" {
		return serverMessage
	}
	return loc.Sprintf(clientlist.ErrorKey(kind))
}

func noticeText(notice clientlist.Notice, loc *message.Printer) string {
	if notice.Failed {
		return loc.Sprintf(notice.Key, failureText(notice.Kind, notice.Detail, loc))
	}
	return loc.Sprintf(notice.Key, notice.Args...)
}

func statusOptions(selected cardapi.CardStatus, loc *message.Printer) []templates.Option {
	statuses := cardapi.Statuses()
	options := make([]templates.Option, 0, len(statuses))
	for _, status := range statuses {
		options = append(options, templates.Option{
			Value:    string(status),
			Label:    loc.Sprintf(clientlist.StatusKey(status)),
			Selected: status == selected,
		})
	}
	return options
}

func pageSizeOptions(selected int) []templates.Option {
	sizes := cardapi.PageSizes()
	options := make([]templates.Option, 0, len(sizes))
	for _, size := range sizes {
		value := strconv.Itoa(size)
		options = append(options, templates.Option{Value: value, Label: value, Selected: size == selected})
	}
	return options
}

func sortOptions(selected cardapi.SortField, loc *message.Printer) []templates.Option {
	fields := cardapi.SortFields()
	options := make([]templates.Option, 0, len(fields))
	for _, field := range fields {
		options = append(options, templates.Option{
			Value:    string(field),
			Label:    loc.Sprintf("sort." + string(field)),
			Selected: field == selected,
		})
	}
	return options
}

func directionOptions(selected cardapi.Direction, loc *message.Printer) []templates.Option {
	directions := []cardapi.Direction{cardapi.Ascending, cardapi.Descending}
	options := make([]templates.Option, 0, len(directions))
	for _, direction := range directions {
		options = append(options, templates.Option{
			Value:    string(direction),
			Label:    loc.Sprintf("direction." + string(direction)),
			Selected: direction == selected,
		})
	}
	return options
}
