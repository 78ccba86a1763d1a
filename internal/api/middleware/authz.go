package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cvmotors/dealership-system/internal/api/metrics"
	"github.com/cvmotors/dealership-system/internal/core/domain"
)

// LoginPath is the single canonical redirect target on auth failure.
const LoginPath = "/account/login"

const (
	FlashLoginRequired = "Please log in to access this page."
	FlashAccessDenied  = "Access denied."
)

// RequireRole gates a route on the resolved identity. Anonymous requests
// and insufficient roles both redirect to the login page with a one-shot
// notice; a bare 403 page never appears, the UX stays login-centric.
func RequireRole(allowed ...domain.Role) echo.MiddlewareFunc {
	set := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		set[domain.NormalizeRole(string(role))] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := IdentityFrom(c)
			if !identity.Authenticated {
				metrics.AccessDeniedTotal.WithLabelValues("anonymous").Inc()
				Notify(c, "notice", FlashLoginRequired)
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}
			if _, ok := set[domain.NormalizeRole(string(identity.Role))]; !ok {
				metrics.AccessDeniedTotal.WithLabelValues("forbidden_role").Inc()
				Notify(c, "notice", FlashAccessDenied)
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}
			return next(c)
		}
	}
}

// RequireLogin admits any authenticated identity regardless of role.
func RequireLogin() echo.MiddlewareFunc {
	return RequireRole(domain.RoleClient, domain.RoleEmployee, domain.RoleAdmin)
}

// RequireStaff admits employees and admins only; clients never pass.
func RequireStaff() echo.MiddlewareFunc {
	return RequireRole(domain.RoleEmployee, domain.RoleAdmin)
}
