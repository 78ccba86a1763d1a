package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cvmotors/dealership-system/internal/api/middleware"
	"github.com/cvmotors/dealership-system/internal/core/domain"
	"github.com/cvmotors/dealership-system/internal/core/ports"
)

const managementPath = "/inv/management"

// InventoryHandler serves public vehicle browsing and the staff-only
// administration pages.
type InventoryHandler struct {
	inventory ports.InventoryService
}

func NewInventoryHandler(inventory ports.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// Home delivers the landing page render context with the classification
// list for the navigation bar.
func (h *InventoryHandler) Home(c echo.Context) error {
	classifications, err := h.inventory.Classifications(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, renderCtx(c, "Home", map[string]any{
		"classifications": classifications,
	}))
}

// Classifications lists all vehicle classifications.
func (h *InventoryHandler) Classifications(c echo.Context) error {
	classifications, err := h.inventory.Classifications(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, classifications)
}

// ByClassification delivers the classification browse page.
func (h *InventoryHandler) ByClassification(c echo.Context) error {
	vehicles, name, err := h.inventory.VehiclesByClassification(c.Request().Context(), c.Param("classificationId"))
	if err != nil {
		if errors.Is(err, domain.ErrClassificationNotFound) {
			middleware.Notify(c, "info", "No inventory found for this classification.")
			return c.Redirect(http.StatusSeeOther, "/")
		}
		return err
	}
	return c.JSON(http.StatusOK, renderCtx(c, name+" vehicles", map[string]any{
		"vehicles": vehicles,
	}))
}

// Detail delivers a single vehicle's page.
func (h *InventoryHandler) Detail(c echo.Context) error {
	vehicle, err := h.inventory.VehicleDetail(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			middleware.Notify(c, "info", "Inventory item not found.")
			return c.Redirect(http.StatusSeeOther, "/")
		}
		return err
	}
	title := vehicle.Make + " " + vehicle.Model
	return c.JSON(http.StatusOK, renderCtx(c, title, vehicle))
}

// Management delivers the staff inventory management page.
func (h *InventoryHandler) Management(c echo.Context) error {
	classifications, err := h.inventory.Classifications(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, renderCtx(c, "Inventory Management", map[string]any{
		"classifications": classifications,
	}))
}

// AddClassification creates a new classification (staff only).
func (h *InventoryHandler) AddClassification(c echo.Context) error {
	var req addClassificationRequest
	if err := c.Bind(&req); err != nil {
		middleware.Notify(c, "error", "Invalid classification data.")
		return c.Redirect(http.StatusSeeOther, managementPath)
	}
	if err := c.Validate(&req); err != nil {
		middleware.Notify(c, "error", err.Error())
		return c.Redirect(http.StatusSeeOther, managementPath)
	}

	if _, err := h.inventory.AddClassification(c.Request().Context(), req.Name); err != nil {
		if errors.Is(err, domain.ErrDuplicateClassification) {
			middleware.Notify(c, "error", "That classification already exists.")
			return c.Redirect(http.StatusSeeOther, managementPath)
		}
		return err
	}

	middleware.Notify(c, "success", "New classification added successfully!")
	return c.Redirect(http.StatusSeeOther, managementPath)
}

// AddVehicle creates a new inventory item (staff only).
func (h *InventoryHandler) AddVehicle(c echo.Context) error {
	var req vehicleRequest
	if err := c.Bind(&req); err != nil {
		middleware.Notify(c, "error", "Please fill in all required fields.")
		return c.Redirect(http.StatusSeeOther, managementPath)
	}
	if err := c.Validate(&req); err != nil {
		middleware.Notify(c, "error", err.Error())
		return c.Redirect(http.StatusSeeOther, managementPath)
	}

	if _, err := h.inventory.AddVehicle(c.Request().Context(), vehicleInput(req)); err != nil {
		if errors.Is(err, domain.ErrClassificationNotFound) {
			middleware.Notify(c, "error", "Unknown classification.")
			return c.Redirect(http.StatusSeeOther, managementPath)
		}
		return err
	}

	middleware.Notify(c, "success", "New inventory item added successfully!")
	return c.Redirect(http.StatusSeeOther, managementPath)
}

// UpdateVehicle edits an existing inventory item (staff only).
func (h *InventoryHandler) UpdateVehicle(c echo.Context) error {
	var req vehicleRequest
	if err := c.Bind(&req); err != nil {
		middleware.Notify(c, "error", "Please fill in all required fields.")
		return c.Redirect(http.StatusSeeOther, managementPath)
	}
	if err := c.Validate(&req); err != nil {
		middleware.Notify(c, "error", err.Error())
		return c.Redirect(http.StatusSeeOther, managementPath)
	}

	if _, err := h.inventory.UpdateVehicle(c.Request().Context(), c.Param("id"), vehicleInput(req)); err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			middleware.Notify(c, "error", "Inventory item not found.")
			return c.Redirect(http.StatusSeeOther, managementPath)
		}
		return err
	}

	middleware.Notify(c, "success", "Inventory item updated.")
	return c.Redirect(http.StatusSeeOther, managementPath)
}

func vehicleInput(req vehicleRequest) ports.AddVehicleInput {
	return ports.AddVehicleInput{
		Make:             req.Make,
		Model:            req.Model,
		Year:             req.Year,
		Description:      req.Description,
		Image:            req.Image,
		Thumbnail:        req.Thumbnail,
		Price:            req.Price,
		Miles:            req.Miles,
		Color:            req.Color,
		ClassificationID: req.ClassificationID,
	}
}
