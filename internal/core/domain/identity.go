package domain

import (
	"errors"
	"time"
)

var ErrTokenInvalid = errors.New("invalid or expired token")
var ErrSessionNotFound = errors.New("session not found")
var ErrForbiddenRole = errors.New("insufficient role")

// Identity is the request-scoped outcome of authenticating a request.
// The zero value is Anonymous.
type Identity struct {
	Authenticated bool
	AccountID     string
	FirstName     string
	Role          Role
}

// Anonymous is the terminal identity for requests carrying no valid proof.
var Anonymous = Identity{}

// Session is the server-tracked, revocable proof of identity referenced by
// an opaque cookie value. Only the account reference and lifetime live in
// the record; the account snapshot is always reloaded from the store.
type Session struct {
	ID        string    `json:"-"`
	AccountID string    `json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its lifetime at instant now.
// A session exactly at its expiry instant counts as expired.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
