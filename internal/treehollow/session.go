package treehollow

// ScopeSylva is the single login scope used by the tree hollow API.
const ScopeSylva = "Sylva"

// Session holds the credential and the set of scopes that completed login.
// It is written by the login hook and read on every gated call from the same
// goroutine.
type Session struct {
	token  string
	scopes map[string]struct{}
}

// NewSession returns an empty, logged-out session.
func NewSession() *Session {
	return &Session{scopes: make(map[string]struct{})}
}

// IsAuthenticated reports whether scope has been logged in.
func (s *Session) IsAuthenticated(scope string) bool {
	if s == nil {
		return false
	}
	_, ok := s.scopes[scope]
	return ok
}

// Token returns the stored credential.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	return s.token
}

func (s *Session) login(scope, token string) {
	s.token = token
	s.scopes[scope] = struct{}{}
}

func (s *Session) logout(scope string) {
	s.token = ""
	delete(s.scopes, scope)
}
