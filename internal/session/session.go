// Package session tracks the authenticated viewer identity.
//
// The auth flow is an external collaborator: it eventually resolves to
// either a signed-in viewer or an anonymous one. Until that resolution
// the session is not ready, and the sync layer must not issue a load
// keyed by a not-yet-resolved identity.
package session

import "sync"

// Session is the viewer identity handed to the sync layer. Safe for
// concurrent use.
type Session struct {
	mu       sync.Mutex
	viewerID string
	ready    bool
}

// New creates an unresolved session.
func New() *Session {
	return &Session{}
}

// Resolved creates a session already resolved to the given viewer.
// An empty id means a resolved, anonymous session.
func Resolved(viewerID string) *Session {
	return &Session{viewerID: viewerID, ready: true}
}

// Resolve marks the session ready with the given viewer id.
func (s *Session) Resolve(viewerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewerID = viewerID
	s.ready = true
}

// Clear signs the viewer out. The session stays ready: a signed-out
// state is a resolved state.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewerID = ""
	s.ready = true
}

// Viewer returns the viewer id and whether the session has resolved.
// The id is empty for an anonymous viewer.
func (s *Session) Viewer() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewerID, s.ready
}

// SignedIn reports whether the session has resolved to a non-anonymous
// viewer.
func (s *Session) SignedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready && s.viewerID != ""
}
