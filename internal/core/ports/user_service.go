package ports

import (
	"context"

	"github.com/cafeice/shop-api/internal/core/domain"
)

// UserService covers staff administration of existing accounts.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	SetRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
	SetActive(ctx context.Context, actor *domain.User, id string, active bool) (*domain.User, error)
}
