package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cvmotors/dealership-system/internal/api/metrics"
	"github.com/cvmotors/dealership-system/internal/api/middleware"
	"github.com/cvmotors/dealership-system/internal/core/domain"
	"github.com/cvmotors/dealership-system/internal/core/ports"
)

const accountHome = "/account/"

// AccountHandler serves registration, login/logout and account maintenance.
// Auth failures never surface as raw errors here: they become a redirect to
// the login page plus a one-shot notice, keeping the UX login-centric.
type AccountHandler struct {
	accounts ports.AccountService
	issuer   ports.IdentityIssuer
	audit    ports.AuditRecorder
	secure   bool
}

func NewAccountHandler(accounts ports.AccountService, issuer ports.IdentityIssuer, audit ports.AuditRecorder, secure bool) *AccountHandler {
	return &AccountHandler{accounts: accounts, issuer: issuer, audit: audit, secure: secure}
}

// LoginView delivers the login page render context.
func (h *AccountHandler) LoginView(c echo.Context) error {
	return c.JSON(http.StatusOK, renderCtx(c, "Login", nil))
}

// RegisterView delivers the registration page render context.
func (h *AccountHandler) RegisterView(c echo.Context) error {
	return c.JSON(http.StatusOK, renderCtx(c, "Register", nil))
}

// Register creates a new client account.
//
// @Summary      Register a new account
// @Tags         account
// @Accept       json
// @Produce      json
// @Router       /account/register [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		middleware.Notify(c, "error", "Invalid registration data.")
		return c.Redirect(http.StatusSeeOther, "/account/register")
	}
	if err := c.Validate(&req); err != nil {
		middleware.Notify(c, "error", err.Error())
		return c.Redirect(http.StatusSeeOther, "/account/register")
	}

	account, err := h.accounts.Register(c.Request().Context(), req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail):
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			middleware.Notify(c, "notice", "That email is already registered. Please log in or use a different email.")
		case errors.Is(err, domain.ErrInvalidCredentials):
			middleware.Notify(c, "error", "Sorry, the registration failed.")
		default:
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/account/register")
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	middleware.Notify(c, "notice", "Congratulations, you're registered "+account.FirstName+". Please log in.")
	return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

// Login verifies credentials and issues both identity cookies: the
// revocable session and the stateless bearer token.
//
// @Summary      Log in
// @Tags         account
// @Accept       json
// @Produce      json
// @Router       /account/login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		middleware.Notify(c, "notice", "Please check your credentials and try again.")
		return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
	}
	if err := c.Validate(&req); err != nil {
		middleware.Notify(c, "notice", "Please check your credentials and try again.")
		return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
	}

	ctx := c.Request().Context()
	account, err := h.accounts.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			middleware.Notify(c, "notice", "Please check your credentials and try again.")
			return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
		}
		return err
	}

	session, err := h.issuer.IssueSession(ctx, account)
	if err != nil {
		return err
	}
	token, err := h.issuer.IssueToken(account)
	if err != nil {
		return err
	}

	middleware.SetIdentityCookies(c, session.ID, token, h.issuer.SessionTTL(), h.issuer.TokenTTL(), h.secure)
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.SessionsActive.Inc()
	return c.Redirect(http.StatusSeeOther, accountHome)
}

// Logout revokes the current session and clears both identity cookies. The
// bearer token cannot be revoked server-side before its expiry; clearing
// the cookie is all bearer mode offers.
func (h *AccountHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	if cookie, err := c.Cookie(middleware.SessionCookie); err == nil && cookie.Value != "" {
		// Only a record that actually existed moves the gauge; replaying
		// logout with a fabricated cookie must not drive it negative.
		if removed, err := h.issuer.RevokeSession(ctx, cookie.Value); err == nil && removed {
			metrics.SessionsActive.Dec()
		}
	}
	h.clearIdentityCookies(c)

	if identity := middleware.IdentityFrom(c); identity.Authenticated {
		h.record(domain.AuthEvent{Kind: domain.AuditLogout, AccountID: identity.AccountID, At: time.Now().UTC()})
	}
	middleware.Notify(c, "notice", "You have been logged out.")
	return c.Redirect(http.StatusSeeOther, "/")
}

// LogoutAll revokes every session of the account ("log out everywhere").
func (h *AccountHandler) LogoutAll(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	revoked, err := h.issuer.RevokeAll(c.Request().Context(), identity.AccountID)
	if err != nil {
		return err
	}
	metrics.SessionsActive.Sub(float64(revoked))
	h.clearIdentityCookies(c)
	h.record(domain.AuthEvent{Kind: domain.AuditLogoutAll, AccountID: identity.AccountID, At: time.Now().UTC()})
	middleware.Notify(c, "notice", "You have been logged out on all devices.")
	return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

// Management delivers the account management page for the logged-in user.
func (h *AccountHandler) Management(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	account, err := h.accounts.GetByID(c.Request().Context(), identity.AccountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, renderCtx(c, "Account Management", account))
}

// UpdateView delivers the profile update page.
func (h *AccountHandler) UpdateView(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	account, err := h.accounts.GetByID(c.Request().Context(), identity.AccountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, renderCtx(c, "Update Account", account))
}

// UpdateProfile changes name and email of the logged-in account.
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		middleware.Notify(c, "error", "Invalid account data.")
		return c.Redirect(http.StatusSeeOther, "/account/update")
	}
	if err := c.Validate(&req); err != nil {
		middleware.Notify(c, "error", err.Error())
		return c.Redirect(http.StatusSeeOther, "/account/update")
	}

	identity := middleware.IdentityFrom(c)
	if _, err := h.accounts.UpdateProfile(c.Request().Context(), identity.AccountID, req.FirstName, req.LastName, req.Email); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			middleware.Notify(c, "error", "That email is already in use.")
			return c.Redirect(http.StatusSeeOther, "/account/update")
		}
		return err
	}

	middleware.Notify(c, "success", "Account information updated.")
	return c.Redirect(http.StatusSeeOther, accountHome)
}

// UpdatePassword rotates the password and revokes every other session so a
// stolen credential cannot keep riding an old login.
func (h *AccountHandler) UpdatePassword(c echo.Context) error {
	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		middleware.Notify(c, "error", "Invalid password data.")
		return c.Redirect(http.StatusSeeOther, "/account/update")
	}
	if err := c.Validate(&req); err != nil {
		middleware.Notify(c, "error", err.Error())
		return c.Redirect(http.StatusSeeOther, "/account/update")
	}

	identity := middleware.IdentityFrom(c)
	ctx := c.Request().Context()
	if err := h.accounts.UpdatePassword(ctx, identity.AccountID, req.Password); err != nil {
		return err
	}
	revoked, err := h.issuer.RevokeAll(ctx, identity.AccountID)
	if err != nil {
		return err
	}
	metrics.SessionsActive.Sub(float64(revoked))
	h.clearIdentityCookies(c)

	middleware.Notify(c, "success", "Password updated. Please log in again.")
	return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

func (h *AccountHandler) clearIdentityCookies(c echo.Context) {
	middleware.ClearCookie(c, middleware.SessionCookie, h.secure)
	middleware.ClearCookie(c, middleware.BearerCookie, h.secure)
}

func (h *AccountHandler) record(event domain.AuthEvent) {
	if h.audit != nil {
		h.audit.Record(event)
	}
}
