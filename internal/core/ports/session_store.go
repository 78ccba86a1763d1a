package ports

import (
	"context"
	"time"

	"github.com/cvmotors/dealership-system/internal/core/domain"
)

// SessionStore is the durable backing for server-tracked sessions.
// Get returns domain.ErrSessionNotFound for unknown or expired ids.
type SessionStore interface {
	Put(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	// Touch extends the session lifetime to expiresAt (sliding expiry).
	Touch(ctx context.Context, id string, expiresAt time.Time) error
	// Delete reports whether a record was actually removed, so callers
	// accounting for live sessions are not fooled by fabricated ids.
	Delete(ctx context.Context, id string) (bool, error)
	// DeleteAll removes every session belonging to the account ("log out
	// everywhere") and returns how many records it removed; this is the
	// only revocation covering all devices.
	DeleteAll(ctx context.Context, accountID string) (int, error)
}

// FlashStore carries one-shot outcome messages across a redirect.
// Messages are keyed by an opaque per-browser client id, never by account,
// so anonymous flows (failed login) can carry notices too.
type FlashStore interface {
	Notify(ctx context.Context, clientID, category, text string) error
	// Drain returns and deletes the pending messages for the given
	// categories. Draining one category leaves the others untouched.
	Drain(ctx context.Context, clientID string, categories ...string) (map[string][]string, error)
}
