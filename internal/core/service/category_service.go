package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cafeice/shop-api/internal/core/domain"
	"github.com/cafeice/shop-api/internal/core/ports"
)

type CategoryService struct {
	repo   ports.CategoryRepository
	cache  ports.CategoryCache
	logger zerolog.Logger
}

// NewCategoryService wires the repository and an optional list cache.
func NewCategoryService(repo ports.CategoryRepository, cache ports.CategoryCache, logger zerolog.Logger) *CategoryService {
	return &CategoryService{repo: repo, cache: cache, logger: logger}
}

func (s *CategoryService) Create(ctx context.Context, in ports.CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || !domain.ValidSlug(in.Slug) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Category{
		Name:        name,
		Slug:        in.Slug,
		Description: in.Description,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.invalidate(ctx)
	s.logger.Info().Str("category_id", created.ID).Str("slug", created.Slug).Msg("category created")
	return created, nil
}

// List serves from the cache when possible. Cache failures only cost a
// round trip to the repository.
func (s *CategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Msg("category cache read failed")
		case ok:
			return cached, nil
		}
	}

	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, categories); err != nil {
			s.logger.Warn().Err(err).Msg("category cache write failed")
		}
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*domain.Category, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if c == nil {
		return nil, domain.ErrCategoryNotFound
	}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, patch ports.CategoryPatch) (*domain.Category, error) {
	if patch.Slug != nil && !domain.ValidSlug(*patch.Slug) {
		return nil, domain.ErrInvalidInput
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, domain.ErrInvalidInput
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrCategoryNotFound
	}

	s.invalidate(ctx)
	return updated, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if !deleted {
		return domain.ErrCategoryNotFound
	}

	s.invalidate(ctx)
	s.logger.Info().Str("category_id", id).Msg("category deleted")
	return nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("category cache invalidation failed")
	}
}
