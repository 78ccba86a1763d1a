package handler

// --- Request types for the account routes ---

type registerRequest struct {
	FirstName string `json:"first_name" form:"first_name" validate:"required"`
	LastName  string `json:"last_name"  form:"last_name"  validate:"required"`
	Email     string `json:"email"      form:"email"      validate:"required,email"`
	Password  string `json:"password"   form:"password"   validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type updateProfileRequest struct {
	FirstName string `json:"first_name" form:"first_name" validate:"required"`
	LastName  string `json:"last_name"  form:"last_name"  validate:"required"`
	Email     string `json:"email"      form:"email"      validate:"required,email"`
}

type updatePasswordRequest struct {
	Password string `json:"password" form:"password" validate:"required,min=8"`
}
