package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/cvmotors/dealership-system/internal/api/middleware"
)

// renderContext is the envelope every page endpoint returns: the fields the
// template layer needs on all pages, plus the page's own data. Flash is the
// drained one-shot notices; building a renderContext is the single
// drain-per-response point.
type renderContext struct {
	Title           string              `json:"title"`
	IsAuthenticated bool                `json:"is_authenticated"`
	Role            string              `json:"role,omitempty"`
	FirstName       string              `json:"first_name,omitempty"`
	Flash           map[string][]string `json:"flash"`
	Data            any                 `json:"data,omitempty"`
}

func renderCtx(c echo.Context, title string, data any) renderContext {
	identity := middleware.IdentityFrom(c)
	return renderContext{
		Title:           title,
		IsAuthenticated: identity.Authenticated,
		Role:            string(identity.Role),
		FirstName:       identity.FirstName,
		Flash:           middleware.DrainFlash(c),
		Data:            data,
	}
}
