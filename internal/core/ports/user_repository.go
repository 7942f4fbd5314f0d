package ports

import (
	"context"
	"time"

	"github.com/cafeice/shop-api/internal/core/domain"
)

// UserPatch lists the fields UpdateByID should overwrite. Nil fields are left
// untouched.
type UserPatch struct {
	FirstName     *string
	LastName      *string
	Email         *string
	PasswordHash  *string
	Phone         *string
	Address       *string
	Role          *domain.Role
	EmailVerified *bool
	Active        *bool
	LastLogin     *time.Time
}

// UserRepository is the durable owner of user records.
//
// Lookups return (nil, nil) when nothing matches. Insert and UpdateByID return
// domain.ErrEmailExists when the email is already taken by another record.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	// UpdateByID applies patch and returns the updated record.
	UpdateByID(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}
