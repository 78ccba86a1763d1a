package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cvmotors/dealership-system/internal/core/domain"
)

const (
	classificationCollection = "classifications"
	vehicleCollection        = "vehicles"
)

type InventoryRepository struct {
	classifications *mongo.Collection
	vehicles        *mongo.Collection
}

func NewInventoryRepository(db *mongo.Database) *InventoryRepository {
	return &InventoryRepository{
		classifications: db.Collection(classificationCollection),
		vehicles:        db.Collection(vehicleCollection),
	}
}

func (r *InventoryRepository) ListClassifications(ctx context.Context) ([]domain.Classification, error) {
	cur, err := r.classifications.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list classifications: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Classification
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode classifications: %w", err)
	}
	return out, nil
}

func (r *InventoryRepository) FindClassification(ctx context.Context, id string) (*domain.Classification, error) {
	if id == "" {
		return nil, domain.ErrClassificationNotFound
	}

	var c domain.Classification
	if err := r.classifications.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrClassificationNotFound
		}
		return nil, fmt.Errorf("find classification: %w", err)
	}
	return &c, nil
}

func (r *InventoryRepository) InsertClassification(ctx context.Context, name string) (*domain.Classification, error) {
	c := domain.Classification{ID: primitive.NewObjectID().Hex(), Name: name}
	if _, err := r.classifications.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateClassification
		}
		return nil, fmt.Errorf("insert classification: %w", err)
	}
	return &c, nil
}

func (r *InventoryRepository) ListByClassification(ctx context.Context, classificationID string) ([]domain.Vehicle, error) {
	cur, err := r.vehicles.Find(ctx,
		bson.M{"classification_id": classificationID},
		options.Find().SetSort(bson.D{{Key: "make", Value: 1}, {Key: "model", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Vehicle
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode vehicles: %w", err)
	}
	return out, nil
}

func (r *InventoryRepository) FindVehicle(ctx context.Context, id string) (*domain.Vehicle, error) {
	if id == "" {
		return nil, domain.ErrVehicleNotFound
	}

	var v domain.Vehicle
	if err := r.vehicles.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("find vehicle: %w", err)
	}
	return &v, nil
}

func (r *InventoryRepository) InsertVehicle(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	created := *vehicle
	created.ID = primitive.NewObjectID().Hex()
	if _, err := r.vehicles.InsertOne(ctx, created); err != nil {
		return nil, fmt.Errorf("insert vehicle: %w", err)
	}
	return &created, nil
}

func (r *InventoryRepository) UpdateVehicle(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	update := bson.M{"$set": bson.M{
		"make":              vehicle.Make,
		"model":             vehicle.Model,
		"year":              vehicle.Year,
		"description":       vehicle.Description,
		"image":             vehicle.Image,
		"thumbnail":         vehicle.Thumbnail,
		"price":             vehicle.Price,
		"miles":             vehicle.Miles,
		"color":             vehicle.Color,
		"classification_id": vehicle.ClassificationID,
		"updated_at":        vehicle.UpdatedAt,
	}}
	res, err := r.vehicles.UpdateOne(ctx, bson.M{"_id": vehicle.ID}, update)
	if err != nil {
		return nil, fmt.Errorf("update vehicle: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrVehicleNotFound
	}
	return vehicle, nil
}
