package ports

import (
	"context"
	"time"

	"github.com/cafeice/shop-api/internal/core/domain"
)

// CategoryPatch lists category fields to overwrite. Nil means unchanged.
type CategoryPatch struct {
	Name        *string
	Slug        *string
	Description *string
	Active      *bool
}

// CategoryRepository persists categories. Lookups return (nil, nil) when
// nothing matches; slug collisions surface as domain.ErrSlugExists.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) (*domain.Category, error)
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, id string, patch CategoryPatch) (*domain.Category, error)
	// Delete reports whether a document was removed.
	Delete(ctx context.Context, id string) (bool, error)
}

// CategoryCache holds the rendered category list between writes.
type CategoryCache interface {
	// Get returns the cached list and whether it was present.
	Get(ctx context.Context) ([]*domain.Category, bool, error)
	Set(ctx context.Context, categories []*domain.Category) error
	Invalidate(ctx context.Context) error
}

// ListProductsFilter carries all query parameters for listing products.
type ListProductsFilter struct {
	Search     string   // optional: case-insensitive partial match on name
	CategoryID string   // optional
	MinPrice   *float64 // optional
	MaxPrice   *float64 // optional
	Page       int      // 1-based
	Limit      int
}

// ProductPatch lists product fields to overwrite. Nil means unchanged.
type ProductPatch struct {
	Name       *string
	Details    *string
	Price      *float64
	CategoryID *string
}

// ProductRepository persists products. Lookups return (nil, nil) when nothing matches.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// List returns a page of products matching filter and the total count.
	List(ctx context.Context, filter ListProductsFilter) ([]*domain.Product, int64, error)
	Update(ctx context.Context, id string, patch ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// AnnouncementRepository persists announcements.
type AnnouncementRepository interface {
	Create(ctx context.Context, a *domain.Announcement) (*domain.Announcement, error)
	// ListActive returns announcements whose expiry lies after now, newest first.
	ListActive(ctx context.Context, now time.Time) ([]*domain.Announcement, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// MemoryRepository persists guest-book entries.
type MemoryRepository interface {
	Create(ctx context.Context, m *domain.Memory) (*domain.Memory, error)
	// List returns entries newest first, only approved ones when approvedOnly is set.
	List(ctx context.Context, approvedOnly bool) ([]*domain.Memory, error)
	// ToggleApproved flips the approval flag and returns the updated entry,
	// or (nil, nil) when id matches nothing.
	ToggleApproved(ctx context.Context, id string) (*domain.Memory, error)
	Delete(ctx context.Context, id string) (bool, error)
}
