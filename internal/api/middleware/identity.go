package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cvmotors/dealership-system/internal/api/metrics"
	"github.com/cvmotors/dealership-system/internal/core/domain"
	"github.com/cvmotors/dealership-system/internal/core/ports"
)

// Cookie names exposed by the identity core.
const (
	SessionCookie = "sid"
	BearerCookie  = "jwt"
	FlashCookie   = "flash_id"
)

// Context keys set by the resolver.
const (
	identityKey    = "identity"
	flashClientKey = "flash_client"
	flashStoreKey  = "flash_store"
)

// FlashExpiredNotice is the one-shot message written when a bearer cookie
// turns out to be expired or tampered.
const FlashExpiredNotice = "Your session has expired. Please log in again."

// Resolver authenticates every incoming request exactly once, before
// routing-specific middleware runs. Terminal states are Anonymous or
// Authenticated; malformed or stale proof is just Anonymous and never an
// error. It also guarantees a flash-client cookie so anonymous flows can
// carry notices across redirects.
type Resolver struct {
	accounts ports.AccountService
	issuer   ports.IdentityIssuer
	flash    ports.FlashStore
	secure   bool
	log      zerolog.Logger
}

func NewResolver(accounts ports.AccountService, issuer ports.IdentityIssuer, flash ports.FlashStore, secure bool, log zerolog.Logger) *Resolver {
	return &Resolver{accounts: accounts, issuer: issuer, flash: flash, secure: secure, log: log}
}

// Middleware returns the echo middleware running the resolution state
// machine: session cookie first, bearer cookie as fallback. A store failure
// during resolution fails the request; it never demotes a live session to
// Anonymous or destroys its proof.
func (r *Resolver) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(flashStoreKey, r.flash)
			c.Set(flashClientKey, r.ensureFlashClient(c))

			identity, err := r.resolve(c)
			if err != nil {
				return err
			}
			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

func (r *Resolver) resolve(c echo.Context) (domain.Identity, error) {
	identity, ok, err := r.resolveSession(c)
	if err != nil {
		return domain.Anonymous, err
	}
	if ok {
		metrics.IdentityResolutionsTotal.WithLabelValues("session").Inc()
		return identity, nil
	}
	if identity, ok := r.resolveBearer(c); ok {
		metrics.IdentityResolutionsTotal.WithLabelValues("bearer").Inc()
		return identity, nil
	}
	metrics.IdentityResolutionsTotal.WithLabelValues("anonymous").Inc()
	return domain.Anonymous, nil
}

// resolveSession handles the stateful mode: the cookie is only an opaque
// reference, the account snapshot always comes from the store. Only proof
// the stores positively disown is dropped; an I/O failure propagates with
// the session record and cookie left intact.
func (r *Resolver) resolveSession(c echo.Context) (domain.Identity, bool, error) {
	cookie, err := c.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return domain.Anonymous, false, nil
	}

	ctx := c.Request().Context()
	session, err := r.issuer.ResolveSession(ctx, cookie.Value)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			r.clearCookie(c, SessionCookie)
			return domain.Anonymous, false, nil
		}
		return domain.Anonymous, false, err
	}

	account, err := r.accounts.GetByID(ctx, session.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			// Session without an account is stale proof; drop both.
			r.log.Warn().Str("account_id", session.AccountID).Msg("dropping session for deleted account")
			_, _ = r.issuer.RevokeSession(ctx, session.ID)
			r.clearCookie(c, SessionCookie)
			return domain.Anonymous, false, nil
		}
		return domain.Anonymous, false, err
	}

	return domain.Identity{
		Authenticated: true,
		AccountID:     account.ID,
		FirstName:     account.FirstName,
		Role:          domain.NormalizeRole(string(account.Role)),
	}, true, nil
}

// resolveBearer handles the stateless mode. An invalid or expired token is
// cleared and produces the informative one-shot notice; the request itself
// continues as Anonymous.
func (r *Resolver) resolveBearer(c echo.Context) (domain.Identity, bool) {
	cookie, err := c.Cookie(BearerCookie)
	if err != nil || cookie.Value == "" {
		return domain.Anonymous, false
	}

	identity, err := r.issuer.ParseToken(cookie.Value)
	if err != nil {
		metrics.IdentityResolutionsTotal.WithLabelValues("expired").Inc()
		r.clearCookie(c, BearerCookie)
		Notify(c, "notice", FlashExpiredNotice)
		return domain.Anonymous, false
	}
	return identity, true
}

// ensureFlashClient returns the request's flash-client id, minting the
// cookie when absent.
func (r *Resolver) ensureFlashClient(c echo.Context) string {
	if cookie, err := c.Cookie(FlashCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     FlashCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (r *Resolver) clearCookie(c echo.Context, name string) {
	ClearCookie(c, name, r.secure)
}

// SetIdentityCookies writes the session and bearer cookies after login.
func SetIdentityCookies(c echo.Context, sessionID, token string, sessionTTL, tokenTTL time.Duration, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.SetCookie(&http.Cookie{
		Name:     BearerCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(tokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires a cookie on the client.
func ClearCookie(c echo.Context, name string, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// IdentityFrom returns the resolved identity for the request. The zero
// identity (Anonymous) comes back when the resolver did not run.
func IdentityFrom(c echo.Context) domain.Identity {
	if identity, ok := c.Get(identityKey).(domain.Identity); ok {
		return identity
	}
	return domain.Anonymous
}

// FlashClientFrom returns the opaque flash-client id for the request.
func FlashClientFrom(c echo.Context) string {
	id, _ := c.Get(flashClientKey).(string)
	return id
}

// Notify records a one-shot outcome message for the next rendered response
// of this client. Failures are logged-and-forgotten: a lost notice must
// never fail the request that produced it.
func Notify(c echo.Context, category, text string) {
	store, _ := c.Get(flashStoreKey).(ports.FlashStore)
	clientID := FlashClientFrom(c)
	if store == nil || clientID == "" {
		return
	}
	if err := store.Notify(c.Request().Context(), clientID, category, text); err == nil {
		metrics.FlashMessagesTotal.WithLabelValues(category).Inc()
	}
}

// FlashCategories is the fixed set of channels the render context drains.
var FlashCategories = []string{"notice", "success", "error", "info"}

// DrainFlash consumes the pending notices for this client, exactly once per
// rendered response.
func DrainFlash(c echo.Context) map[string][]string {
	store, _ := c.Get(flashStoreKey).(ports.FlashStore)
	clientID := FlashClientFrom(c)
	if store == nil || clientID == "" {
		return map[string][]string{}
	}
	msgs, err := store.Drain(c.Request().Context(), clientID, FlashCategories...)
	if err != nil {
		return map[string][]string{}
	}
	return msgs
}
