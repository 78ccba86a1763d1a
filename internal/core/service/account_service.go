package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/cvmotors/dealership-system/internal/core/domain"
	"github.com/cvmotors/dealership-system/internal/core/ports"
)

// dummyHash is a bcrypt hash of an unguessable throwaway value. When a login
// names an unknown email we still run one bcrypt comparison against it, so
// "unknown email" and "wrong password" are indistinguishable by timing and
// both surface as the same ErrInvalidCredentials.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AccountService implements registration, credential verification and
// profile maintenance on top of an AccountRepository.
type AccountService struct {
	repo       ports.AccountRepository
	audit      ports.AuditRecorder
	bcryptCost int
	logger     zerolog.Logger
}

func NewAccountService(repo ports.AccountRepository, audit ports.AuditRecorder, bcryptCost int, logger zerolog.Logger) *AccountService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AccountService{repo: repo, audit: audit, bcryptCost: bcryptCost, logger: logger}
}

// Register creates a new client account. The email uniqueness check is the
// store's unique index, not a pre-read, so a register/register race cannot
// slip past it.
func (s *AccountService) Register(ctx context.Context, firstName, lastName, email, password string) (*domain.Account, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	email = NormalizeEmail(email)
	if firstName == "" || lastName == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &domain.Account{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleClient,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Insert(ctx, account)
	if err != nil {
		return nil, err
	}

	s.record(domain.AuthEvent{Kind: domain.AuditRegistered, AccountID: created.ID, Email: created.Email, At: now})
	return created.Snapshot(), nil
}

// Authenticate verifies an (email, password) pair. Unknown email and wrong
// password both return ErrInvalidCredentials; nothing else leaks out.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*domain.Account, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			s.record(domain.AuthEvent{Kind: domain.AuditLoginFailure, Email: email, At: time.Now().UTC()})
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		s.record(domain.AuthEvent{Kind: domain.AuditLoginFailure, AccountID: account.ID, Email: email, At: time.Now().UTC()})
		return nil, domain.ErrInvalidCredentials
	}

	s.record(domain.AuthEvent{Kind: domain.AuditLoginSuccess, AccountID: account.ID, Email: email, At: time.Now().UTC()})
	return account.Snapshot(), nil
}

func (s *AccountService) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return account.Snapshot(), nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, id, firstName, lastName, email string) (*domain.Account, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	email = NormalizeEmail(email)
	if firstName == "" || lastName == "" || email == "" {
		return nil, domain.ErrInvalidCredentials
	}

	updated, err := s.repo.UpdateProfile(ctx, id, firstName, lastName, email)
	if err != nil {
		return nil, err
	}
	return updated.Snapshot(), nil
}

func (s *AccountService) UpdatePassword(ctx context.Context, id, password string) error {
	if password == "" {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePasswordHash(ctx, id, string(hash)); err != nil {
		return err
	}

	s.record(domain.AuthEvent{Kind: domain.AuditPasswordChange, AccountID: id, At: time.Now().UTC()})
	return nil
}

func (s *AccountService) record(event domain.AuthEvent) {
	if s.audit != nil {
		s.audit.Record(event)
	}
}

// NormalizeEmail lower-cases and trims an email so lookups and the unique
// index agree on one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
