package seek

import "sync"

// Session tracks the checkpoint token that lets the next turn resume the
// same server-side conversation. The token is opaque and never validated.
// A Session is safe for concurrent use.
type Session struct {
	mu    sync.Mutex
	token string
	set   bool
}

// NewSession returns a Session, seeded with token when it is non-empty.
func NewSession(token string) *Session {
	s := &Session{}
	if token != "" {
		s.Set(token)
	}
	return s
}

// Set overwrites the current token unconditionally.
func (s *Session) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.set = true
}

// Current returns the latest token and whether one has been set.
func (s *Session) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.set
}
