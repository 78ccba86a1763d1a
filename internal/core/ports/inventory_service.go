package ports

import (
	"context"

	"github.com/cvmotors/dealership-system/internal/core/domain"
)

type AddVehicleInput struct {
	Make             string
	Model            string
	Year             int
	Description      string
	Image            string
	Thumbnail        string
	Price            float64
	Miles            int
	Color            string
	ClassificationID string
}

type InventoryService interface {
	Classifications(ctx context.Context) ([]domain.Classification, error)
	AddClassification(ctx context.Context, name string) (*domain.Classification, error)
	VehiclesByClassification(ctx context.Context, classificationID string) ([]domain.Vehicle, string, error)
	VehicleDetail(ctx context.Context, id string) (*domain.Vehicle, error)
	AddVehicle(ctx context.Context, input AddVehicleInput) (*domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, id string, input AddVehicleInput) (*domain.Vehicle, error)
}

type FavoriteService interface {
	Add(ctx context.Context, accountID, vehicleID string) error
	// Remove reports whether a bookmark was actually removed.
	Remove(ctx context.Context, accountID, vehicleID string) (bool, error)
	List(ctx context.Context, accountID string) ([]domain.FavoriteEntry, error)
}
