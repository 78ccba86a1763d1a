package handler

// --- Request types for the inventory routes ---

type addClassificationRequest struct {
	Name string `json:"name" form:"name" validate:"required,alphanum"`
}

type vehicleRequest struct {
	Make             string  `json:"make"              form:"make"              validate:"required"`
	Model            string  `json:"model"             form:"model"             validate:"required"`
	Year             int     `json:"year"              form:"year"              validate:"required,gte=1900"`
	Description      string  `json:"description"       form:"description"       validate:"required"`
	Image            string  `json:"image"             form:"image"`
	Thumbnail        string  `json:"thumbnail"         form:"thumbnail"`
	Price            float64 `json:"price"             form:"price"             validate:"required,gt=0"`
	Miles            int     `json:"miles"             form:"miles"             validate:"gte=0"`
	Color            string  `json:"color"             form:"color"`
	ClassificationID string  `json:"classification_id" form:"classification_id" validate:"required"`
}

type addFavoriteRequest struct {
	VehicleID string `json:"vehicle_id" form:"vehicle_id" validate:"required"`
}
