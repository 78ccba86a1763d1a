package ports

import (
	"context"
	"time"

	"github.com/cvmotors/dealership-system/internal/core/domain"
)

// IdentityIssuer turns a verified account into proof of identity and
// recovers identities from that proof on later requests.
//
// Two modes are supported and combinable: a server-tracked session
// (revocable) and a signed bearer token (stateless, irrevocable before
// expiry since there is no denylist).
type IdentityIssuer interface {
	IssueSession(ctx context.Context, account *domain.Account) (*domain.Session, error)
	// ResolveSession returns the live session for id, applying sliding
	// expiry when configured. Unknown/expired → domain.ErrSessionNotFound.
	ResolveSession(ctx context.Context, id string) (*domain.Session, error)
	// RevokeSession reports whether a session record was actually removed.
	RevokeSession(ctx context.Context, id string) (bool, error)
	// RevokeAll returns the number of sessions removed.
	RevokeAll(ctx context.Context, accountID string) (int, error)

	IssueToken(account *domain.Account) (string, error)
	// ParseToken validates signature and expiry and returns the identity
	// carried in the claims. Any failure → domain.ErrTokenInvalid.
	ParseToken(raw string) (domain.Identity, error)

	// SessionTTL and TokenTTL expose the configured lifetimes so the HTTP
	// layer can set matching cookie max-ages.
	SessionTTL() time.Duration
	TokenTTL() time.Duration
}
