package http

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/couchcryptid/hazard-map-dashboard/internal/domain"
)

// SessionCookie names the cookie carrying the session ID.
const SessionCookie = "hazard_session"

type session struct {
	state    domain.FilterState
	lastSeen time.Time
}

// SessionStore keeps one FilterState per browser session in memory. Sessions
// idle for longer than the TTL are dropped.
type SessionStore struct {
	ttl    time.Duration
	clock  clockwork.Clock
	active prometheus.Gauge

	mu       sync.Mutex
	sessions map[string]*session
}

// NewSessionStore creates an empty store. active tracks the session count.
func NewSessionStore(ttl time.Duration, clock clockwork.Clock, active prometheus.Gauge) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		clock:    clock,
		active:   active,
		sessions: make(map[string]*session),
	}
}

// NewID returns a fresh session ID.
func (s *SessionStore) NewID() string {
	return uuid.NewString()
}

// Get returns the state for id and refreshes its expiry. Unknown and expired
// sessions report false.
func (s *SessionStore) Get(id string) (domain.FilterState, bool) {
	if id == "" {
		return domain.FilterState{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return domain.FilterState{}, false
	}
	now := s.clock.Now()
	if now.Sub(sess.lastSeen) > s.ttl {
		delete(s.sessions, id)
		s.active.Set(float64(len(s.sessions)))
		return domain.FilterState{}, false
	}
	sess.lastSeen = now
	return sess.state, true
}

// Put stores state under id.
func (s *SessionStore) Put(id string, state domain.FilterState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = &session{state: state, lastSeen: s.clock.Now()}
	s.active.Set(float64(len(s.sessions)))
}

// Len returns the number of stored sessions, expired or not.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes expired sessions and returns how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	s.active.Set(float64(len(s.sessions)))
	return removed
}

// RunSweeper sweeps expired sessions every interval until ctx is done.
func (s *SessionStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			s.Sweep()
		}
	}
}
