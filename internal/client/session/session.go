// Package session owns the console's authentication state.
//
// A single Manager is built at start-up and injected wherever the session is
// needed. It holds the credential token and the current Session, persists
// both through a slot.Slot, and publishes every change to subscribers. The
// token never leaves the package except through Manager.Token, which the
// transport reads when augmenting requests.
package session

import "slices"

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleAnalyst   Role = "ANALYST"
	RoleExecutive Role = "EXECUTIVE"
)

// Session is the identity and role of the logged-in user. The JSON layout
// is the backend user profile.
type Session struct {
	SubjectID string `json:"id"`
	Identity  string `json:"email"`
	Role      Role   `json:"role"`
	Active    bool   `json:"isActive"`
}

func (s Session) IsZero() bool { return s == Session{} }

// Snapshot is what subscribers observe. LoggedIn is false for "no session".
type Snapshot struct {
	Session  Session
	LoggedIn bool
}

// HasAny reports whether the session role is one of roles.
func (s Session) HasAny(roles ...Role) bool {
	return s.Role != "" && slices.Contains(roles, s.Role)
}
