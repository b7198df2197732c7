// Package httpmux assembles the root mux from the console, static and API routes.
package httpmux

import (
	"io/fs"
	"net/http"

	routepath "github.com/louisbranch/cardapp/internal/services/admin/routepath"
)

// MountStatic wires static asset serving into the root mux.
func MountStatic(rootMux *http.ServeMux, staticFS fs.FS, wrap func(http.Handler) http.Handler) {
	if rootMux == nil || staticFS == nil {
		return
	}
	staticHandler := http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(staticFS)))
	if wrap != nil {
		staticHandler = wrap(staticHandler)
	}
	rootMux.Handle("GET "+routepath.StaticPrefix, staticHandler)
}

// MountAPIProxy forwards every /api/ request to proxy.
func MountAPIProxy(rootMux *http.ServeMux, proxy http.Handler) {
	if rootMux == nil || proxy == nil {
		return
	}
	rootMux.Handle(routepath.APIPrefix, proxy)
}

// MountAdminRoutes mounts console routes under the root path.
func MountAdminRoutes(rootMux *http.ServeMux, adminMux *http.ServeMux) {
	if rootMux == nil || adminMux == nil {
		return
	}
	rootMux.Handle(routepath.Root, adminMux)
}
