package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/message"

	"github.com/louisbranch/cardapp/internal/platform/timeouts"
	"github.com/louisbranch/cardapp/internal/services/admin/appstate"
	"github.com/louisbranch/cardapp/internal/services/admin/cardapi"
	"github.com/louisbranch/cardapp/internal/services/admin/clientform"
	"github.com/louisbranch/cardapp/internal/services/admin/clientsearch"
	"github.com/louisbranch/cardapp/internal/services/admin/i18n"
	clientsmodule "github.com/louisbranch/cardapp/internal/services/admin/module/clients"
	routepath "github.com/louisbranch/cardapp/internal/services/admin/routepath"
	"github.com/louisbranch/cardapp/internal/services/admin/storage"
	"github.com/louisbranch/cardapp/internal/services/admin/templates"
)

const (
	// sessionCookieName stores the console session ID.
	sessionCookieName = "cardapp_session"
	// preferencesWriteTimeout caps a single preference write.
	preferencesWriteTimeout = 2 * time.Second
)

// Backend is the REST surface the console needs.
type Backend interface {
	appstate.Backend
	clientform.Creator
	clientsearch.Finder
	Ping(ctx context.Context) error
}

// Handler routes admin console requests.
type Handler struct {
	backend     Backend
	preferences storage.PreferenceStore
	sessions    *sessionRegistry
	logger      log.FieldLogger
}

// NewHandler builds the console handler. preferences may be nil, in which
// case list settings live only as long as the session.
func NewHandler(backend Backend, preferences storage.PreferenceStore, logger log.FieldLogger) *Handler {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Handler{
		backend:     backend,
		preferences: preferences,
		sessions:    newSessionRegistry(timeouts.SessionIdle, timeouts.SessionSweep),
		logger:      logger,
	}
}

// Routes returns the console mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	clientsmodule.RegisterRoutes(mux, h)
	mux.HandleFunc("GET "+routepath.Health, h.handleHealth)
	return mux
}

// Sweep drops idle sessions and preferences untouched for the retention period.
func (h *Handler) Sweep(ctx context.Context) {
	if dropped := h.sessions.Sweep(); dropped > 0 {
		h.logger.WithFields(log.Fields{"expired": dropped, "active": h.sessions.Len()}).Info("expired console sessions")
	}
	if h.preferences == nil {
		return
	}
	cutoff := time.Now().Add(-timeouts.PreferenceRetention)
	removed, err := h.preferences.DeleteSessionPreferencesBefore(ctx, cutoff)
	if err != nil {
		h.logger.WithError(err).Warn("purge session preferences")
		return
	}
	if removed > 0 {
		h.logger.WithField("records", removed).Info("purged stale session preferences")
	}
}

func (h *Handler) localizer(w http.ResponseWriter, r *http.Request) (*message.Printer, string) {
	tag, persist := i18n.ResolveTag(r)
	if persist {
		i18n.SetLanguageCookie(w, tag)
	}
	return i18n.Printer(tag), tag.String()
}

func (h *Handler) pageContext(lang string, loc *message.Printer, r *http.Request) templates.PageContext {
	page := templates.PageContext{Lang: lang, Loc: loc, CurrentPath: routepath.Root}
	if r != nil && r.URL != nil {
		page.CurrentPath = r.URL.Path
		page.CurrentQuery = r.URL.RawQuery
	}
	return page
}

// session returns the caller's console session, creating it on first use.
// A cookie naming an unknown but well-formed ID keeps that ID so stored
// preferences survive a process restart.
func (h *Handler) session(w http.ResponseWriter, r *http.Request, lang string) *consoleSession {
	id := sessionIDFromRequest(r)
	if session, ok := h.sessions.Get(id); ok {
		session.setLang(lang)
		return session
	}
	if id == "" {
		id = uuid.NewString()
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(timeouts.SessionIdle.Seconds()),
		HttpOnly: true,
		Secure:   isHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})

	session := &consoleSession{id: id, lang: lang}
	session.controller = appstate.NewController(h.backend, h.loadPreferences(r.Context(), id), func(ctx context.Context, prefs appstate.Preferences) {
		h.savePreferences(ctx, session, prefs)
	})
	session.form = clientform.New(h.backend, func(ctx context.Context, created cardapi.Client) {
		session.controller.Dispatch(ctx, appstate.ClientCreated{Client: created})
	})
	session.search = clientsearch.New(h.backend)
	stored := h.sessions.Put(session)
	stored.setLang(lang)
	return stored
}

func sessionIDFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	parsed, err := uuid.Parse(strings.TrimSpace(cookie.Value))
	if err != nil {
		return ""
	}
	return parsed.String()
}

func (h *Handler) loadPreferences(ctx context.Context, sessionID string) appstate.Preferences {
	if h.preferences == nil {
		return appstate.DefaultPreferences()
	}
	stored, err := h.preferences.GetSessionPreferences(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			h.logger.WithError(err).WithField("session", sessionID).Warn("load session preferences")
		}
		return appstate.DefaultPreferences()
	}
	return appstate.Preferences{
		PageSize:  stored.PageSize,
		SortBy:    cardapi.SortField(stored.SortBy),
		Direction: cardapi.Direction(stored.Direction),
	}.Normalize()
}

func (h *Handler) savePreferences(ctx context.Context, session *consoleSession, prefs appstate.Preferences) {
	if h.preferences == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), preferencesWriteTimeout)
	defer cancel()
	err := h.preferences.PutSessionPreferences(ctx, storage.SessionPreferences{
		SessionID: session.id,
		PageSize:  prefs.PageSize,
		SortBy:    string(prefs.SortBy),
		Direction: string(prefs.Direction),
		Locale:    session.currentLang(),
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		h.logger.WithError(err).WithField("session", session.id).Warn("save session preferences")
	}
}

// handleHealth reports whether the backend answers.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.backend.Ping(r.Context()); err != nil {
		h.logger.WithError(err).WithField("kind", cardapi.KindOf(err).String()).Warn("health check failed")
		http.Error(w, "backend unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
