package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cvmotors/dealership-system/internal/api/middleware"
	"github.com/cvmotors/dealership-system/internal/core/domain"
	"github.com/cvmotors/dealership-system/internal/core/ports"
)

const favoritesPath = "/favorites"

// FavoriteHandler serves the logged-in user's vehicle bookmarks.
type FavoriteHandler struct {
	favorites ports.FavoriteService
}

func NewFavoriteHandler(favorites ports.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

// List delivers the favorites page for the logged-in user.
func (h *FavoriteHandler) List(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	entries, err := h.favorites.List(c.Request().Context(), identity.AccountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, renderCtx(c, "My Favorites", map[string]any{
		"favorites": entries,
	}))
}

// Add bookmarks a vehicle for the logged-in user.
func (h *FavoriteHandler) Add(c echo.Context) error {
	var req addFavoriteRequest
	if err := c.Bind(&req); err != nil {
		middleware.Notify(c, "error", "No vehicle selected.")
		return c.Redirect(http.StatusSeeOther, favoritesPath)
	}
	if err := c.Validate(&req); err != nil {
		middleware.Notify(c, "error", "No vehicle selected.")
		return c.Redirect(http.StatusSeeOther, favoritesPath)
	}

	identity := middleware.IdentityFrom(c)
	err := h.favorites.Add(c.Request().Context(), identity.AccountID, req.VehicleID)
	switch {
	case err == nil:
		middleware.Notify(c, "success", "Vehicle added to favorites.")
	case errors.Is(err, domain.ErrDuplicateFavorite):
		middleware.Notify(c, "info", "You already added this vehicle to favorites.")
	case errors.Is(err, domain.ErrVehicleNotFound):
		middleware.Notify(c, "error", "Inventory item not found.")
	default:
		return err
	}
	return c.Redirect(http.StatusSeeOther, favoritesPath)
}

// Remove drops a vehicle from the user's favorites. A delete that matched
// nothing is reported as such, not as a removal.
func (h *FavoriteHandler) Remove(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	removed, err := h.favorites.Remove(c.Request().Context(), identity.AccountID, c.Param("vehicleID"))
	if err != nil {
		return err
	}
	if removed {
		middleware.Notify(c, "success", "Vehicle removed from favorites.")
	} else {
		middleware.Notify(c, "info", "That vehicle was not in your favorites.")
	}
	return c.Redirect(http.StatusSeeOther, favoritesPath)
}
