// Package static embeds the console stylesheet.
package static

import (
	"embed"
	"io/fs"
)

//go:embed assets
var assets embed.FS

// FS returns the assets rooted so "admin.css" resolves directly.
func FS() fs.FS {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}
