// Package i18n resolves the console language of a request and hands out
// message printers backed by the embedded catalogs.
package i18n
