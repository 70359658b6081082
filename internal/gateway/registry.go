// Package gateway implements the worker session gateway: one long-lived WebSocket session
// per worker that turns action envelopes into dispatch service calls.
package gateway

import "sync"

// closer is the part of a session the registry needs to force a disconnect.
type closer interface {
	Close()
}

// Registry tracks live worker sessions by worker id. It is bookkeeping for forcible
// disconnects only; it never decides which worker gets which item.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]closer
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]closer)}
}

// Register records s as the live session of workerID. A previous session registered
// under the same worker id is closed.
func (r *Registry) Register(workerID string, s closer) {
	r.mu.Lock()
	previous, ok := r.sessions[workerID]
	r.sessions[workerID] = s
	r.mu.Unlock()

	if ok && previous != s {
		previous.Close()
	}
}

// Unregister removes workerID only if s is still its registered session.
func (r *Registry) Unregister(workerID string, s closer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.sessions[workerID]; ok && current == s {
		delete(r.sessions, workerID)
	}
}

// Disconnect closes the session of workerID. Returns false when the worker is not connected.
func (r *Registry) Disconnect(workerID string) bool {
	r.mu.Lock()
	s, ok := r.sessions[workerID]
	delete(r.sessions, workerID)
	r.mu.Unlock()

	if ok {
		s.Close()
	}
	return ok
}

// CloseAll closes every registered session.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]closer)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

// Connected reports whether workerID has a live session.
func (r *Registry) Connected(workerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[workerID]
	return ok
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
