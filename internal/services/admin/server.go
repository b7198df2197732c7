package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/louisbranch/cardapp/internal/platform/timeouts"
	"github.com/louisbranch/cardapp/internal/services/admin/apiproxy"
	"github.com/louisbranch/cardapp/internal/services/admin/cardapi"
	"github.com/louisbranch/cardapp/internal/services/admin/static"
	"github.com/louisbranch/cardapp/internal/services/admin/storage"
	adminsqlite "github.com/louisbranch/cardapp/internal/services/admin/storage/sqlite"
	"github.com/louisbranch/cardapp/internal/services/admin/transport/httpmux"
)

// Config defines the inputs for the admin console process.
type Config struct {
	HTTPAddr string
	// BackendURL is the origin of the card application backend.
	BackendURL string
	// APIBasePath is joined to BackendURL for every REST call.
	APIBasePath    string
	RequestTimeout time.Duration
	// DevProxy forwards /api/ on the console origin to BackendURL.
	DevProxy bool
	// DBPath locates the preference store; empty keeps preferences in memory.
	DBPath string
	Logger log.FieldLogger
}

// Server hosts the admin console.
type Server struct {
	httpAddr   string
	backendURL string
	handler    *Handler
	httpServer *http.Server
	adminStore *adminsqlite.Store
	logger     log.FieldLogger
}

// NewServer builds a configured admin server.
func NewServer(ctx context.Context, config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}

	backendURL := strings.TrimRight(strings.TrimSpace(config.BackendURL), "/")
	backend, err := cardapi.New(backendURL+normalizeBasePath(config.APIBasePath),
		cardapi.WithTimeout(config.RequestTimeout),
		cardapi.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("configure backend client: %w", err)
	}

	var adminStore *adminsqlite.Store
	if path := strings.TrimSpace(config.DBPath); path != "" {
		adminStore, err = openAdminStore(path)
		if err != nil {
			return nil, err
		}
	}

	handler := NewHandler(backend, preferenceStore(adminStore), logger)
	rootMux := http.NewServeMux()
	httpmux.MountStatic(rootMux, static.FS(), withStaticCache)
	if config.DevProxy {
		proxy, err := apiproxy.New(backendURL, logger)
		if err != nil {
			closeStore(adminStore, logger)
			return nil, fmt.Errorf("configure api proxy: %w", err)
		}
		httpmux.MountAPIProxy(rootMux, proxy)
	}
	httpmux.MountAdminRoutes(rootMux, handler.Routes())

	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           rootMux,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	return &Server{
		httpAddr:   httpAddr,
		backendURL: backend.BaseURL(),
		handler:    handler,
		httpServer: httpServer,
		adminStore: adminStore,
		logger:     logger,
	}, nil
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("admin server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.sweepLoop(sweepCtx)

	serveErr := make(chan error, 1)
	s.logger.WithFields(log.Fields{"addr": s.httpAddr, "backend": s.backendURL}).Info("admin listening")
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

func (s *Server) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(timeouts.SessionSweep)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.handler.Sweep(ctx)
		}
	}
}

// Close releases the preference store.
func (s *Server) Close() {
	if s == nil {
		return
	}
	closeStore(s.adminStore, s.logger)
	s.adminStore = nil
}

func closeStore(store *adminsqlite.Store, logger log.FieldLogger) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		logger.WithError(err).Warn("close admin store")
	}
}

func openAdminStore(path string) (*adminsqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	store, err := adminsqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open admin sqlite store: %w", err)
	}
	return store, nil
}

// preferenceStore avoids handing the handler a typed nil.
func preferenceStore(store *adminsqlite.Store) storage.PreferenceStore {
	if store == nil {
		return nil
	}
	return store
}

func normalizeBasePath(path string) string {
	path = strings.Trim(strings.TrimSpace(path), "/")
	if path == "" {
		return ""
	}
	return "/" + path
}

func withStaticCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
