package clients

import (
	"net/http"
	"strings"

	sharedpath "github.com/louisbranch/cardapp/internal/services/admin/module/sharedpath"
	routepath "github.com/louisbranch/cardapp/internal/services/admin/routepath"
	sharedroute "github.com/louisbranch/cardapp/internal/services/shared/route"
)

// Service defines client console handlers consumed by this route module.
type Service interface {
	HandleConsole(w http.ResponseWriter, r *http.Request)
	HandleClientsTable(w http.ResponseWriter, r *http.Request)
	HandleCreateClient(w http.ResponseWriter, r *http.Request)
	HandleSearch(w http.ResponseWriter, r *http.Request)
	HandleControls(w http.ResponseWriter, r *http.Request)
	HandleRefresh(w http.ResponseWriter, r *http.Request)
	HandlePage(w http.ResponseWriter, r *http.Request)
	HandleDismissNotice(w http.ResponseWriter, r *http.Request)
	HandleDeleteConfirm(w http.ResponseWriter, r *http.Request, oib string)
	HandleDelete(w http.ResponseWriter, r *http.Request, oib string)
	HandleStatus(w http.ResponseWriter, r *http.Request, oib string)
	HandleCardRequest(w http.ResponseWriter, r *http.Request, oib string)
}

// RegisterRoutes wires client console routes into the provided mux.
func RegisterRoutes(mux *http.ServeMux, service Service) {
	if mux == nil || service == nil {
		return
	}
	mux.HandleFunc("GET "+routepath.Root+"{$}", service.HandleConsole)
	mux.HandleFunc("GET "+routepath.Clients, service.HandleConsole)
	mux.HandleFunc("POST "+routepath.Clients, service.HandleCreateClient)
	mux.HandleFunc("GET "+routepath.ClientsTable, service.HandleClientsTable)
	mux.HandleFunc("GET "+routepath.ClientsSearch, service.HandleSearch)
	mux.HandleFunc("POST "+routepath.ClientsControls, service.HandleControls)
	mux.HandleFunc("POST "+routepath.ClientsRefresh, service.HandleRefresh)
	mux.HandleFunc("GET "+routepath.ClientsPage, service.HandlePage)
	mux.HandleFunc("POST "+routepath.ClientsNotice, service.HandleDismissNotice)
	mux.HandleFunc(routepath.ClientsPrefix, func(w http.ResponseWriter, r *http.Request) {
		HandleClientPath(w, r, service)
	})
}

// HandleClientPath parses per-client subroutes and dispatches to service handlers.
func HandleClientPath(w http.ResponseWriter, r *http.Request, service Service) {
	if service == nil {
		http.NotFound(w, r)
		return
	}
	if sharedroute.RedirectTrailingSlash(w, r) {
		return
	}

	path := strings.TrimPrefix(r.URL.EscapedPath(), routepath.ClientsPrefix)
	parts := sharedpath.SplitPathParts(path)
	if len(parts) != 2 {
		http.NotFound(w, r)
		return
	}
	oib, action := parts[0], parts[1]
	switch {
	case action == "delete" && r.Method == http.MethodGet:
		service.HandleDeleteConfirm(w, r, oib)
	case action == "delete" && r.Method == http.MethodPost:
		service.HandleDelete(w, r, oib)
	case action == "status" && r.Method == http.MethodPost:
		service.HandleStatus(w, r, oib)
	case action == "card-request" && r.Method == http.MethodPost:
		service.HandleCardRequest(w, r, oib)
	case action == "delete":
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	case action == "status" || action == "card-request":
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	default:
		http.NotFound(w, r)
	}
}
