package ports

import (
	"context"

	"github.com/cvmotors/dealership-system/internal/core/domain"
)

type AccountService interface {
	Register(ctx context.Context, firstName, lastName, email, password string) (*domain.Account, error)
	Authenticate(ctx context.Context, email, password string) (*domain.Account, error)
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, id, firstName, lastName, email string) (*domain.Account, error)
	UpdatePassword(ctx context.Context, id, password string) error
}
