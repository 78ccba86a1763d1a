package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cvmotors/dealership-system/internal/core/domain"
)

const favoriteCollection = "favorites"

type FavoriteRepository struct {
	favorites *mongo.Collection
}

func NewFavoriteRepository(db *mongo.Database) *FavoriteRepository {
	return &FavoriteRepository{favorites: db.Collection(favoriteCollection)}
}

func (r *FavoriteRepository) Add(ctx context.Context, fav *domain.Favorite) error {
	_, err := r.favorites.InsertOne(ctx, fav)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateFavorite
		}
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, accountID, vehicleID string) (bool, error) {
	res, err := r.favorites.DeleteOne(ctx, bson.M{"account_id": accountID, "vehicle_id": vehicleID})
	if err != nil {
		return false, fmt.Errorf("remove favorite: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// ListByAccount joins favorites with the vehicle summaries via a lookup
// pipeline, ordered by make then model (the listing order of the site).
func (r *FavoriteRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.FavoriteEntry, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"account_id": accountID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         vehicleCollection,
			"localField":   "vehicle_id",
			"foreignField": "_id",
			"as":           "vehicle",
		}}},
		{{Key: "$unwind", Value: "$vehicle"}},
		{{Key: "$project", Value: bson.M{
			"vehicle_id": 1,
			"make":       "$vehicle.make",
			"model":      "$vehicle.model",
			"year":       "$vehicle.year",
			"price":      "$vehicle.price",
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "make", Value: 1}, {Key: "model", Value: 1}}}},
	}

	cur, err := r.favorites.Aggregate(ctx, pipeline, options.Aggregate())
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.FavoriteEntry
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}
	return out, nil
}
