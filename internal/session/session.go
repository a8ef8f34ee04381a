// Package session derives the signed-in user and admin flag on the client
// side from the identity provider's auth-state notifications.
package session

import "time"

// User is the signed-in user as seen by the UI.
type User struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// State is one emission of the resolver. It always replaces the previous
// value in full.
type State struct {
	User    *User
	Loading bool
	IsAdmin bool
	Err     error
}

// SignedIn reports whether the state carries a user.
func (s State) SignedIn() bool {
	return s.User != nil
}

// Profile is the document written to the users collection on sign-up.
type Profile struct {
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Error is returned by resolver operations when the identity provider or
// the profile store fails. Message is suitable for showing in a form.
type Error struct {
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
