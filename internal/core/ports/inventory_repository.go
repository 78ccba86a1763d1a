package ports

import (
	"context"

	"github.com/cvmotors/dealership-system/internal/core/domain"
)

// InventoryRepository persists classifications and vehicles.
type InventoryRepository interface {
	ListClassifications(ctx context.Context) ([]domain.Classification, error)
	FindClassification(ctx context.Context, id string) (*domain.Classification, error)
	InsertClassification(ctx context.Context, name string) (*domain.Classification, error)
	ListByClassification(ctx context.Context, classificationID string) ([]domain.Vehicle, error)
	FindVehicle(ctx context.Context, id string) (*domain.Vehicle, error)
	InsertVehicle(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error)
}

// FavoriteRepository persists account/vehicle bookmarks.
type FavoriteRepository interface {
	Add(ctx context.Context, fav *domain.Favorite) error
	// Remove reports whether a bookmark existed for the pair.
	Remove(ctx context.Context, accountID, vehicleID string) (bool, error)
	ListByAccount(ctx context.Context, accountID string) ([]domain.FavoriteEntry, error)
}
