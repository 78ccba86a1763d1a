package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cvmotors/dealership-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
//
// Auth-flow errors rarely reach this point: the identity middleware and the
// account handlers convert them into redirects plus flash notices first.
// What arrives here is the unexpected remainder.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized, "invalid token"
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusUnauthorized, "session expired"
	case errors.Is(err, domain.ErrForbiddenRole):
		return http.StatusForbidden, "access denied"
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, "account not found"
	case errors.Is(err, domain.ErrVehicleNotFound):
		return http.StatusNotFound, "vehicle not found"
	case errors.Is(err, domain.ErrClassificationNotFound):
		return http.StatusNotFound, "classification not found"
	case errors.Is(err, domain.ErrDuplicateClassification):
		return http.StatusConflict, "classification already exists"
	case errors.Is(err, domain.ErrDuplicateFavorite):
		return http.StatusConflict, "already in favorites"
	}

	// Unexpected error: log the real cause, return a generic message. A
	// store failure must never leak partial authorization state.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
