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

type AnnouncementService struct {
	repo   ports.AnnouncementRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewAnnouncementService(repo ports.AnnouncementRepository, logger zerolog.Logger) *AnnouncementService {
	return &AnnouncementService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *AnnouncementService) Create(ctx context.Context, in ports.AnnouncementInput) (*domain.Announcement, error) {
	now := s.now()
	if strings.TrimSpace(in.Title) == "" || !in.ExpiresAt.After(now) {
		return nil, domain.ErrInvalidInput
	}

	created, err := s.repo.Create(ctx, &domain.Announcement{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		ExpiresAt:   in.ExpiresAt.UTC(),
		CreatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}

	s.logger.Info().Str("announcement_id", created.ID).Time("expires", created.ExpiresAt).Msg("announcement published")
	return created, nil
}

// ListActive hides expired announcements. Removal of expired documents is
// left to the store's TTL index.
func (s *AnnouncementService) ListActive(ctx context.Context) ([]*domain.Announcement, error) {
	items, err := s.repo.ListActive(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return items, nil
}

func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	if !deleted {
		return domain.ErrAnnouncementNotFound
	}
	return nil
}
