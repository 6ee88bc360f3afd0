package session

import "errors"

type State string

const (
	StateUninitialized State = "uninitialized"
	StateInitializing  State = "initializing"
	StateLoggedIn      State = "logged_in"
	StateLoggedOut     State = "logged_out"
)

// Ready reports whether initialization has finished.
func (s State) Ready() bool {
	return s == StateLoggedIn || s == StateLoggedOut
}

// User is the operator returned by the account API and cached under
// personalInfo.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// ShadowUser is the display-only copy of a registration kept under users.
// It never holds the password.
type ShadowUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Snapshot is the session as seen by the view layer.
type Snapshot struct {
	State State `json:"state"`
	User  *User `json:"user,omitempty"`
}

var (
	ErrAccountNotConfigured = errors.New("account service is not configured")
	ErrEmptyToken           = errors.New("account service returned an empty token")
)
