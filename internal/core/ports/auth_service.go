package ports

import (
	"context"

	"github.com/cafeice/shop-api/internal/core/domain"
)

// RegisterInput carries the data needed to create an account.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
	Address   string
	// Role is honoured only on the privileged creation path.
	Role domain.Role
}

// ProfileChanges lists the self-service profile fields. Nil means unchanged.
// There is deliberately no role field.
type ProfileChanges struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	Phone     *string
	Address   *string
}

// AuthResult is a sanitized identity paired with a freshly issued token.
type AuthResult struct {
	User  *domain.User
	Token string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	// CreateUser is the privileged creation path, available to founders and admins.
	CreateUser(ctx context.Context, actor *domain.User, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, changes ProfileChanges) (*domain.User, error)
}
