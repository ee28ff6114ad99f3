// Package session holds the signed-in user's auth state as an explicit
// object. A session is created at login and discarded at logout; nothing in
// the engine reads auth state from a package-level global.
package session

import "github.com/bidforhope/livesync/go/internal/models"

// Session carries the bearer token and the minimal profile used to gate
// which mutating actions are offered. It plays no part in reconciliation
// correctness.
type Session struct {
	Token string
	User  models.User
}

// New creates a session from a login response.
func New(token string, user models.User) *Session {
	return &Session{Token: token, User: user}
}

// Authenticated reports whether a usable token is present.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// IsAdmin reports whether admin-only actions may be offered.
func (s *Session) IsAdmin() bool {
	return s.Authenticated() && s.User.Role == models.RoleAdmin
}

// OwnsNGO reports whether the session user is the NGO identified by email.
// Withdrawals and debits are keyed by NGO email on the backend.
func (s *Session) OwnsNGO(email string) bool {
	return s.Authenticated() && s.User.Role == models.RoleNGO && s.User.Email == email
}
