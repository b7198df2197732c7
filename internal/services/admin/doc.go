// Package admin serves the credit card application console.
//
// Each browser session owns an application controller, a creation form and a
// search panel. Handlers translate htmx requests into controller events and
// render the affected panels back as fragments, while the REST backend stays
// the only source of client data.
package admin
