package domain

import (
	"errors"
	"time"
)

var ErrVehicleNotFound = errors.New("vehicle not found")
var ErrClassificationNotFound = errors.New("classification not found")
var ErrDuplicateClassification = errors.New("classification already exists")
var ErrDuplicateFavorite = errors.New("vehicle already in favorites")

// Classification groups vehicles for browsing (SUV, Sedan, Truck, ...).
type Classification struct {
	ID   string `json:"id" bson:"_id,omitempty"`
	Name string `json:"name" bson:"name"`
}

// Vehicle is a single inventory item offered by the dealership.
type Vehicle struct {
	ID               string    `json:"id" bson:"_id,omitempty"`
	Make             string    `json:"make" bson:"make"`
	Model            string    `json:"model" bson:"model"`
	Year             int       `json:"year" bson:"year"`
	Description      string    `json:"description" bson:"description"`
	Image            string    `json:"image" bson:"image"`
	Thumbnail        string    `json:"thumbnail" bson:"thumbnail"`
	Price            float64   `json:"price" bson:"price"`
	Miles            int       `json:"miles" bson:"miles"`
	Color            string    `json:"color" bson:"color"`
	ClassificationID string    `json:"classification_id" bson:"classification_id"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at"`
}

// Favorite links an account to a vehicle it bookmarked.
type Favorite struct {
	AccountID string    `json:"account_id" bson:"account_id"`
	VehicleID string    `json:"vehicle_id" bson:"vehicle_id"`
	AddedAt   time.Time `json:"added_at" bson:"added_at"`
}

// FavoriteEntry is a favorite joined with the vehicle summary for listings.
type FavoriteEntry struct {
	VehicleID string  `json:"vehicle_id" bson:"vehicle_id"`
	Make      string  `json:"make" bson:"make"`
	Model     string  `json:"model" bson:"model"`
	Year      int     `json:"year" bson:"year"`
	Price     float64 `json:"price" bson:"price"`
}
