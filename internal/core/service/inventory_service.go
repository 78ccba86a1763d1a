package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cvmotors/dealership-system/internal/core/domain"
	"github.com/cvmotors/dealership-system/internal/core/ports"
)

// InventoryService covers the browsing and staff-administration operations
// on classifications and vehicles.
type InventoryService struct {
	repo   ports.InventoryRepository
	logger zerolog.Logger
}

func NewInventoryService(repo ports.InventoryRepository, logger zerolog.Logger) *InventoryService {
	return &InventoryService{repo: repo, logger: logger}
}

func (s *InventoryService) Classifications(ctx context.Context) ([]domain.Classification, error) {
	return s.repo.ListClassifications(ctx)
}

func (s *InventoryService) AddClassification(ctx context.Context, name string) (*domain.Classification, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrClassificationNotFound
	}
	return s.repo.InsertClassification(ctx, name)
}

// VehiclesByClassification returns the vehicles plus the classification
// name for the page title ("SUV vehicles").
func (s *InventoryService) VehiclesByClassification(ctx context.Context, classificationID string) ([]domain.Vehicle, string, error) {
	classification, err := s.repo.FindClassification(ctx, classificationID)
	if err != nil {
		return nil, "", err
	}
	vehicles, err := s.repo.ListByClassification(ctx, classificationID)
	if err != nil {
		return nil, "", err
	}
	return vehicles, classification.Name, nil
}

func (s *InventoryService) VehicleDetail(ctx context.Context, id string) (*domain.Vehicle, error) {
	return s.repo.FindVehicle(ctx, id)
}

func (s *InventoryService) AddVehicle(ctx context.Context, input ports.AddVehicleInput) (*domain.Vehicle, error) {
	if _, err := s.repo.FindClassification(ctx, input.ClassificationID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	vehicle := &domain.Vehicle{
		Make:             strings.TrimSpace(input.Make),
		Model:            strings.TrimSpace(input.Model),
		Year:             input.Year,
		Description:      input.Description,
		Image:            input.Image,
		Thumbnail:        input.Thumbnail,
		Price:            input.Price,
		Miles:            input.Miles,
		Color:            input.Color,
		ClassificationID: input.ClassificationID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	created, err := s.repo.InsertVehicle(ctx, vehicle)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("vehicle_id", created.ID).Str("make", created.Make).Str("model", created.Model).Msg("vehicle added")
	return created, nil
}

func (s *InventoryService) UpdateVehicle(ctx context.Context, id string, input ports.AddVehicleInput) (*domain.Vehicle, error) {
	existing, err := s.repo.FindVehicle(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Make = strings.TrimSpace(input.Make)
	existing.Model = strings.TrimSpace(input.Model)
	existing.Year = input.Year
	existing.Description = input.Description
	existing.Image = input.Image
	existing.Thumbnail = input.Thumbnail
	existing.Price = input.Price
	existing.Miles = input.Miles
	existing.Color = input.Color
	if input.ClassificationID != "" {
		existing.ClassificationID = input.ClassificationID
	}
	existing.UpdatedAt = time.Now().UTC()

	return s.repo.UpdateVehicle(ctx, existing)
}

// FavoriteSvc manages per-account vehicle bookmarks.
type FavoriteSvc struct {
	favorites ports.FavoriteRepository
	inventory ports.InventoryRepository
}

func NewFavoriteService(favorites ports.FavoriteRepository, inventory ports.InventoryRepository) *FavoriteSvc {
	return &FavoriteSvc{favorites: favorites, inventory: inventory}
}

func (s *FavoriteSvc) Add(ctx context.Context, accountID, vehicleID string) error {
	if _, err := s.inventory.FindVehicle(ctx, vehicleID); err != nil {
		return err
	}
	return s.favorites.Add(ctx, &domain.Favorite{
		AccountID: accountID,
		VehicleID: vehicleID,
		AddedAt:   time.Now().UTC(),
	})
}

func (s *FavoriteSvc) Remove(ctx context.Context, accountID, vehicleID string) (bool, error) {
	return s.favorites.Remove(ctx, accountID, vehicleID)
}

func (s *FavoriteSvc) List(ctx context.Context, accountID string) ([]domain.FavoriteEntry, error) {
	return s.favorites.ListByAccount(ctx, accountID)
}
