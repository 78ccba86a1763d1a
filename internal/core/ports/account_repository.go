package ports

import (
	"context"

	"github.com/cvmotors/dealership-system/internal/core/domain"
)

// AccountRepository defines the persistence contract for accounts.
// "Not found" is signalled with domain.ErrAccountNotFound, never by a nil
// account plus nil error; genuine I/O failures come back wrapped.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	Insert(ctx context.Context, account *domain.Account) (*domain.Account, error)
	UpdateProfile(ctx context.Context, id, firstName, lastName, email string) (*domain.Account, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}
