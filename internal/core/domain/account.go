package domain

import (
	"errors"
	"strings"
	"time"
)

// Role is the authorization level attached to an account.
type Role string

const (
	RoleClient   Role = "client"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// NormalizeRole absorbs inconsistent casing and whitespace at the data
// layer ("Employee" vs "employee "). Unknown values normalize to RoleClient.
func NormalizeRole(raw string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleEmployee:
		return RoleEmployee
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleClient
	}
}

// IsStaff reports whether the role passes the employee/admin tier.
func (r Role) IsStaff() bool {
	n := NormalizeRole(string(r))
	return n == RoleEmployee || n == RoleAdmin
}

var ErrAccountNotFound = errors.New("account not found")
var ErrDuplicateEmail = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")

// Account models a registered user of the dealership site.
type Account struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Snapshot strips the credential material from an account so it can cross
// the store boundary into handlers and render contexts.
func (a *Account) Snapshot() *Account {
	if a == nil {
		return nil
	}
	clone := *a
	clone.PasswordHash = ""
	return &clone
}
