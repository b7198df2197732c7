package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// htmlWriter accumulates markup and keeps the first write error.
type htmlWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newHTMLWriter(ctx context.Context, w io.Writer) *htmlWriter {
	return &htmlWriter{ctx: ctx, w: w}
}

func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) attr(name, value string) {
	h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (h *htmlWriter) intAttr(name string, value int) {
	h.attr(name, strconv.Itoa(value))
}

func (h *htmlWriter) flag(name string, on bool) {
	if on {
		h.raw(" " + name)
	}
}

func (h *htmlWriter) render(c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(h.ctx, h.w)
	}
}

// Option is a select option.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

func (h *htmlWriter) selectBox(name, id string, options []Option, extra func()) {
	h.raw(`<select class="select select-bordered select-sm"`)
	h.attr("name", name)
	h.attr("id", id)
	if extra != nil {
		extra()
	}
	h.raw(">")
	for _, option := range options {
		h.raw("<option")
		h.attr("value", option.Value)
		h.flag("selected", option.Selected)
		h.raw(">")
		h.text(option.Label)
		h.raw("</option>")
	}
	h.raw("</select>")
}

// Layout wraps body in the console shell.
func Layout(page PageContext, title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		h.raw(`<!DOCTYPE html><html`)
		h.attr("lang", page.Lang)
		h.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		h.text(title)
		h.raw(`</title><link rel="stylesheet" href="/static/admin.css">`)
		h.raw(`<script src="https://unpkg.com/htmx.org@2.0.4" defer></script></head><body>`)
		h.raw(`<header class="navbar"><h1>`)
		h.text(T(page.Loc, "app.title"))
		h.raw(`</h1><nav class="languages">`)
		for _, option := range LanguageOptions(page) {
			h.raw("<a")
			h.attr("href", option.URL)
			h.attr("hreflang", option.Tag)
			if option.Active {
				h.attr("aria-current", "true")
			}
			h.raw(">")
			h.text(option.Label)
			h.raw("</a>")
		}
		h.raw(`</nav></header><main>`)
		h.render(body)
		h.raw(`</main></body></html>`)
		return h.err
	})
}
