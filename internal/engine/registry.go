package engine

import (
	"sync"
	"time"

	"github.com/donaldgifford/device-grader/internal/metrics"
)

// Registry holds the open sessions of one process.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	nowFunc  func() time.Time
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		nowFunc:  time.Now,
	}
}

// Add registers s under its id.
func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[s.ID()] = s
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
}

// Get returns the session with id and marks it as used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch()
	return s, nil
}

// Delete closes and removes the session with id.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.Close()
	return nil
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// ReapIdle closes every session untouched for longer than ttl and returns
// how many were closed.
func (r *Registry) ReapIdle(ttl time.Duration) int {
	cutoff := r.nowFunc().Add(-ttl)

	r.mu.Lock()
	var idle []*Session
	for id, s := range r.sessions {
		if s.LastTouched().Before(cutoff) {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	for _, s := range idle {
		s.Close()
	}
	metrics.SessionsReapedTotal.Add(float64(len(idle)))
	return len(idle)
}

// CloseAll closes and removes every session.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	metrics.ActiveSessions.Set(0)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
