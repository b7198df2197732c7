package admin

import (
	"sync"
	"time"

	"github.com/louisbranch/cardapp/internal/services/admin/appstate"
	"github.com/louisbranch/cardapp/internal/services/admin/clientform"
	"github.com/louisbranch/cardapp/internal/services/admin/clientsearch"
)

// consoleSession is the server-side state of one browser session.
type consoleSession struct {
	id         string
	controller *appstate.Controller
	form       *clientform.Form
	search     *clientsearch.Panel

	mu            sync.Mutex
	lang          string
	confirmDelete string
	expiresAt     time.Time
}

func (s *consoleSession) setLang(lang string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lang = lang
}

func (s *consoleSession) currentLang() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

// confirming returns the OIB awaiting delete confirmation.
func (s *consoleSession) confirming() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmDelete
}

func (s *consoleSession) setConfirming(oib string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmDelete = oib
}

// sessionRegistry holds live sessions and drops those idle past ttl.
type sessionRegistry struct {
	ttl   time.Duration
	sweep time.Duration
	now   func() time.Time

	mu          sync.Mutex
	sessions    map[string]*consoleSession
	lastCleanup time.Time
}

func newSessionRegistry(ttl, sweep time.Duration) *sessionRegistry {
	return &sessionRegistry{
		ttl:      ttl,
		sweep:    sweep,
		now:      time.Now,
		sessions: make(map[string]*consoleSession),
	}
}

// Get returns the live session for id and extends its lifetime.
func (r *sessionRegistry) Get(id string) (*consoleSession, bool) {
	if r == nil || id == "" {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.cleanupLocked(now)
	session, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	if now.After(session.expiresAt) {
		delete(r.sessions, id)
		return nil, false
	}
	session.expiresAt = now.Add(r.ttl)
	return session, true
}

// Put stores session, or returns the one already stored under its id.
func (r *sessionRegistry) Put(session *consoleSession) *consoleSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.cleanupLocked(now)
	if existing, ok := r.sessions[session.id]; ok && !now.After(existing.expiresAt) {
		existing.expiresAt = now.Add(r.ttl)
		return existing
	}
	session.expiresAt = now.Add(r.ttl)
	r.sessions[session.id] = session
	return session
}

// Sweep removes every expired session and returns how many were dropped.
func (r *sessionRegistry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	before := len(r.sessions)
	r.lastCleanup = time.Time{}
	r.cleanupLocked(r.now())
	return before - len(r.sessions)
}

// Len reports the number of stored sessions.
func (r *sessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *sessionRegistry) cleanupLocked(now time.Time) {
	if now.Sub(r.lastCleanup) < r.sweep {
		return
	}
	for key, session := range r.sessions {
		if now.After(session.expiresAt) {
			delete(r.sessions, key)
		}
	}
	r.lastCleanup = now
}
