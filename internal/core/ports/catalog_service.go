package ports

import (
	"context"
	"time"

	"github.com/cafeice/shop-api/internal/core/domain"
)

// CategoryInput carries the fields for creating a category.
type CategoryInput struct {
	Name        string
	Slug        string
	Description string
}

type CategoryService interface {
	Create(ctx context.Context, input CategoryInput) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Get(ctx context.Context, id string) (*domain.Category, error)
	Update(ctx context.Context, id string, patch CategoryPatch) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}

// ProductInput carries the fields for creating a product.
type ProductInput struct {
	Name       string
	Details    string
	Price      float64
	CategoryID string
}

// ListProductsInput carries all parameters for the list endpoint.
type ListProductsInput struct {
	Search     string
	CategoryID string
	MinPrice   *float64
	MaxPrice   *float64
	Page       int
	Limit      int
}

// ListProductsResult is returned by ListProducts.
type ListProductsResult struct {
	Items      []*domain.Product
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

type ProductService interface {
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	List(ctx context.Context, input ListProductsInput) (*ListProductsResult, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, id string, patch ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// AnnouncementInput carries the fields for publishing an announcement.
type AnnouncementInput struct {
	Title       string
	Description string
	ExpiresAt   time.Time
}

type AnnouncementService interface {
	Create(ctx context.Context, input AnnouncementInput) (*domain.Announcement, error)
	ListActive(ctx context.Context) ([]*domain.Announcement, error)
	Delete(ctx context.Context, id string) error
}

// MemoryInput carries a visitor's guest-book entry.
type MemoryInput struct {
	Name string
	Text string
}

type MemoryService interface {
	Submit(ctx context.Context, input MemoryInput) (*domain.Memory, error)
	ListApproved(ctx context.Context) ([]*domain.Memory, error)
	ListAll(ctx context.Context) ([]*domain.Memory, error)
	ToggleApproval(ctx context.Context, id string) (*domain.Memory, error)
	Delete(ctx context.Context, id string) error
}
