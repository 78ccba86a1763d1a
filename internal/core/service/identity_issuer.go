package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/cvmotors/dealership-system/internal/core/domain"
	"github.com/cvmotors/dealership-system/internal/core/ports"
)

const sessionIDBytes = 32

// identityClaims is the bearer token claim set. Only non-sensitive fields
// are carried; the password hash never enters a token.
type identityClaims struct {
	FirstName string `json:"first_name"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer turns verified accounts into sessions and bearer tokens and
// recovers identities from them. Sessions live in the session store and can
// be revoked; bearer tokens are stateless and stay valid until expiry.
type Issuer struct {
	sessions   ports.SessionStore
	jwtSecret  []byte
	sessionTTL time.Duration
	tokenTTL   time.Duration
	sliding    bool
	logger     zerolog.Logger
}

func NewIssuer(sessions ports.SessionStore, jwtSecret string, sessionTTL, tokenTTL time.Duration, sliding bool, logger zerolog.Logger) *Issuer {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &Issuer{
		sessions:   sessions,
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: sessionTTL,
		tokenTTL:   tokenTTL,
		sliding:    sliding,
		logger:     logger,
	}
}

func (i *Issuer) SessionTTL() time.Duration { return i.sessionTTL }
func (i *Issuer) TokenTTL() time.Duration   { return i.tokenTTL }

// IssueSession creates a server-tracked session with a random, unguessable
// identifier and writes it to the store.
func (i *Issuer) IssueSession(ctx context.Context, account *domain.Account) (*domain.Session, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:        id,
		AccountID: account.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(i.sessionTTL),
	}
	if err := i.sessions.Put(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ResolveSession looks up a session by id and, when sliding expiry is
// enabled, pushes the expiry forward. A Touch failure is logged but does
// not invalidate the resolution.
func (i *Issuer) ResolveSession(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, domain.ErrSessionNotFound
	}

	session, err := i.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Expired(time.Now().UTC()) {
		_, _ = i.sessions.Delete(ctx, id)
		return nil, domain.ErrSessionNotFound
	}

	if i.sliding {
		session.ExpiresAt = time.Now().UTC().Add(i.sessionTTL)
		if err := i.sessions.Touch(ctx, id, session.ExpiresAt); err != nil {
			i.logger.Warn().Err(err).Msg("session touch failed")
		}
	}
	return session, nil
}

func (i *Issuer) RevokeSession(ctx context.Context, id string) (bool, error) {
	return i.sessions.Delete(ctx, id)
}

func (i *Issuer) RevokeAll(ctx context.Context, accountID string) (int, error) {
	return i.sessions.DeleteAll(ctx, accountID)
}

// IssueToken signs a bearer token for the account. The token cannot be
// revoked before its expiry; logout in bearer mode relies on cookie
// clearing alone.
func (i *Issuer) IssueToken(account *domain.Account) (string, error) {
	now := time.Now().UTC()
	claims := identityClaims{
		FirstName: account.FirstName,
		Role:      string(account.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.tokenTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.jwtSecret)
}

// ParseToken validates signature and expiry and returns the identity the
// claims describe. Expiry is strict: a token at its expiry instant is
// already expired. Malformed input is just ErrTokenInvalid, never a panic.
func (i *Issuer) ParseToken(raw string) (domain.Identity, error) {
	claims := &identityClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return domain.Anonymous, domain.ErrTokenInvalid
	}
	if claims.ExpiresAt == nil || !time.Now().UTC().Before(claims.ExpiresAt.Time) {
		return domain.Anonymous, domain.ErrTokenInvalid
	}

	return domain.Identity{
		Authenticated: true,
		AccountID:     claims.Subject,
		FirstName:     claims.FirstName,
		Role:          domain.NormalizeRole(claims.Role),
	}, nil
}

func newSessionID() (string, error) {
	buf := make([]byte, sessionIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
