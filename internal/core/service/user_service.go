package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cafeice/shop-api/internal/core/domain"
	"github.com/cafeice/shop-api/internal/core/ports"
)

// UserService manages existing accounts on behalf of founders and admins.
// Changes take effect on the next request: the request authenticator always
// evaluates the stored role, while issued tokens keep their original claims.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]*domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Sanitized())
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user.Sanitized(), nil
}

// SetRole changes an account's tier. Founder is reserved for the bootstrap
// account and cannot be granted here.
func (s *UserService) SetRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	if role == domain.RoleFounder {
		return nil, domain.ErrForbidden
	}
	return s.patch(ctx, id, ports.UserPatch{Role: &role}, "role changed")
}

// SetActive flips the activity flag. Inactive accounts are rejected by the
// request authenticator even while their tokens are unexpired. Founder
// accounts can only be changed by a founder.
func (s *UserService) SetActive(ctx context.Context, actor *domain.User, id string, active bool) (*domain.User, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	target, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if target == nil {
		return nil, domain.ErrUserNotFound
	}
	if target.Role == domain.RoleFounder && actor.Role != domain.RoleFounder {
		s.logger.Warn().
			Str("actor_id", actor.ID).
			Str("user_id", target.ID).
			Msg("founder status change refused")
		return nil, domain.ErrForbidden
	}
	return s.patch(ctx, id, ports.UserPatch{Active: &active}, "activity changed")
}

func (s *UserService) patch(ctx context.Context, id string, patch ports.UserPatch, msg string) (*domain.User, error) {
	updated, err := s.repo.UpdateByID(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrUserNotFound
	}
	s.logger.Info().
		Str("user_id", updated.ID).
		Str("role", string(updated.Role)).
		Bool("active", updated.Active).
		Msg(msg)
	return updated.Sanitized(), nil
}
