package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/cafeice/shop-api/internal/core/domain"
	"github.com/cafeice/shop-api/internal/core/ports"
)

// MemoryService runs the guest book. Anyone may leave an entry; it is only
// listed publicly once a founder or admin approves it.
type MemoryService struct {
	repo   ports.MemoryRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewMemoryService(repo ports.MemoryRepository, logger zerolog.Logger) *MemoryService {
	return &MemoryService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryService) Submit(ctx context.Context, in ports.MemoryInput) (*domain.Memory, error) {
	name := strings.TrimSpace(in.Name)
	text := strings.TrimSpace(in.Text)
	if name == "" || text == "" {
		return nil, fmt.Errorf("%w: name and text are required", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(text) > domain.MaxMemoryText {
		return nil, fmt.Errorf("%w: text longer than %d characters", domain.ErrInvalidInput, domain.MaxMemoryText)
	}

	now := s.now()
	created, err := s.repo.Create(ctx, &domain.Memory{
		Name:      name,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("create memory: %w", err)
	}

	s.logger.Info().Str("memory_id", created.ID).Msg("memory submitted")
	return created, nil
}

func (s *MemoryService) ListApproved(ctx context.Context) ([]*domain.Memory, error) {
	return s.list(ctx, true)
}

func (s *MemoryService) ListAll(ctx context.Context) ([]*domain.Memory, error) {
	return s.list(ctx, false)
}

func (s *MemoryService) list(ctx context.Context, approvedOnly bool) ([]*domain.Memory, error) {
	items, err := s.repo.List(ctx, approvedOnly)
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	return items, nil
}

// ToggleApproval publishes a pending entry or hides a published one.
func (s *MemoryService) ToggleApproval(ctx context.Context, id string) (*domain.Memory, error) {
	updated, err := s.repo.ToggleApproved(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("toggle memory: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrMemoryNotFound
	}
	s.logger.Info().Str("memory_id", updated.ID).Bool("approved", updated.Approved).Msg("memory approval changed")
	return updated, nil
}

func (s *MemoryService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	if !deleted {
		return domain.ErrMemoryNotFound
	}
	return nil
}
