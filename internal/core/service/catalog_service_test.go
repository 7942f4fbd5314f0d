package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cafeice/shop-api/internal/core/domain"
	"github.com/cafeice/shop-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubCategoryRepo struct {
	byID      map[string]*domain.Category
	seq       int
	listCalls int
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{byID: make(map[string]*domain.Category)}
}

func (r *stubCategoryRepo) Create(_ context.Context, c *domain.Category) (*domain.Category, error) {
	for _, existing := range r.byID {
		if existing.Slug == c.Slug {
			return nil, domain.ErrSlugExists
		}
	}
	r.seq++
	clone := *c
	clone.ID = "c" + strconv.Itoa(r.seq)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id string) (*domain.Category, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	clone := *c
	return &clone, nil
}

func (r *stubCategoryRepo) List(_ context.Context) ([]*domain.Category, error) {
	r.listCalls++
	out := make([]*domain.Category, 0, len(r.byID))
	for _, c := range r.byID {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, id string, p ports.CategoryPatch) (*domain.Category, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Slug != nil {
		c.Slug = *p.Slug
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Active != nil {
		c.Active = *p.Active
	}
	clone := *c
	return &clone, nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

type stubCategoryCache struct {
	items       []*domain.Category
	present     bool
	getErr      error
	invalidated int
}

func (c *stubCategoryCache) Get(_ context.Context) ([]*domain.Category, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	return c.items, c.present, nil
}

func (c *stubCategoryCache) Set(_ context.Context, items []*domain.Category) error {
	c.items, c.present = items, true
	return nil
}

func (c *stubCategoryCache) Invalidate(_ context.Context) error {
	c.items, c.present = nil, false
	c.invalidated++
	return nil
}

type stubProductRepo struct {
	byID map[string]*domain.Product
	seq  int
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{byID: make(map[string]*domain.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.seq++
	clone := *p
	clone.ID = "p" + strconv.Itoa(r.seq)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

// List applies the same filters the real Mongo repo would use.
func (r *stubProductRepo) List(_ context.Context, f ports.ListProductsFilter) ([]*domain.Product, int64, error) {
	var matched []*domain.Product
	for i := 1; i <= r.seq; i++ {
		p, ok := r.byID["p"+strconv.Itoa(i)]
		if !ok {
			continue
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			continue
		}
		clone := *p
		matched = append(matched, &clone)
	}

	total := int64(len(matched))
	skip := (f.Page - 1) * f.Limit
	if skip >= len(matched) {
		return []*domain.Product{}, total, nil
	}
	end := skip + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubProductRepo) Update(_ context.Context, id string, p ports.ProductPatch) (*domain.Product, error) {
	existing, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	if p.Name != nil {
		existing.Name = *p.Name
	}
	if p.Details != nil {
		existing.Details = *p.Details
	}
	if p.Price != nil {
		existing.Price = *p.Price
	}
	if p.CategoryID != nil {
		existing.CategoryID = *p.CategoryID
	}
	clone := *existing
	return &clone, nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

type stubAnnouncementRepo struct {
	items []*domain.Announcement
}

func (r *stubAnnouncementRepo) Create(_ context.Context, a *domain.Announcement) (*domain.Announcement, error) {
	clone := *a
	clone.ID = "a" + strconv.Itoa(len(r.items)+1)
	r.items = append(r.items, &clone)
	out := clone
	return &out, nil
}

func (r *stubAnnouncementRepo) ListActive(_ context.Context, now time.Time) ([]*domain.Announcement, error) {
	var out []*domain.Announcement
	for _, a := range r.items {
		if !a.Expired(now) {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubAnnouncementRepo) Delete(_ context.Context, id string) (bool, error) {
	for i, a := range r.items {
		if a.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func floatPtr(f float64) *float64 { return &f }

// ---------------------------------------------------------------------------
// Categories
// ---------------------------------------------------------------------------

func TestCategoryService_CreateValidatesSlug(t *testing.T) {
	svc := NewCategoryService(newStubCategoryRepo(), nil, zerolog.Nop())

	if _, err := svc.Create(context.Background(), ports.CategoryInput{Name: "Hot drinks", Slug: "Hot Drinks"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	c, err := svc.Create(context.Background(), ports.CategoryInput{Name: "Hot drinks", Slug: "hot-drinks"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !c.Active {
		t.Fatalf("new categories start active")
	}
	if _, err := svc.Create(context.Background(), ports.CategoryInput{Name: "Dup", Slug: "hot-drinks"}); !errors.Is(err, domain.ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}
}

func TestCategoryService_ListUsesCacheAndWritesInvalidate(t *testing.T) {
	repo := newStubCategoryRepo()
	cache := &stubCategoryCache{}
	svc := NewCategoryService(repo, cache, zerolog.Nop())

	created, _ := svc.Create(context.Background(), ports.CategoryInput{Name: "Pastries", Slug: "pastries"})
	if cache.invalidated != 1 {
		t.Fatalf("create must invalidate the cache")
	}

	for i := 0; i < 3; i++ {
		items, err := svc.List(context.Background())
		if err != nil || len(items) != 1 {
			t.Fatalf("list: %v %d", err, len(items))
		}
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected one repository read, got %d", repo.listCalls)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	items, _ := svc.List(context.Background())
	if len(items) != 0 || repo.listCalls != 2 {
		t.Fatalf("expected fresh read after delete: items=%d calls=%d", len(items), repo.listCalls)
	}
}

func TestCategoryService_ListSurvivesCacheFailure(t *testing.T) {
	repo := newStubCategoryRepo()
	cache := &stubCategoryCache{getErr: errors.New("redis down")}
	svc := NewCategoryService(repo, cache, zerolog.Nop())
	_, _ = svc.Create(context.Background(), ports.CategoryInput{Name: "Desserts", Slug: "desserts"})

	items, err := svc.List(context.Background())
	if err != nil || len(items) != 1 {
		t.Fatalf("expected repository fallback, got %v %d", err, len(items))
	}
}

func TestCategoryService_NotFound(t *testing.T) {
	svc := NewCategoryService(newStubCategoryRepo(), nil, zerolog.Nop())

	if _, err := svc.Get(context.Background(), "x"); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("get: expected ErrCategoryNotFound, got %v", err)
	}
	name := "x"
	if _, err := svc.Update(context.Background(), "x", ports.CategoryPatch{Name: &name}); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("update: expected ErrCategoryNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), "x"); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("delete: expected ErrCategoryNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

func newProductFixture(t *testing.T) (*ProductService, string) {
	t.Helper()
	cats := newStubCategoryRepo()
	c, _ := cats.Create(context.Background(), &domain.Category{Name: "Cold drinks", Slug: "cold-drinks"})
	return NewProductService(newStubProductRepo(), cats, zerolog.Nop()), c.ID
}

func TestProductService_CreateRequiresCategory(t *testing.T) {
	svc, catID := newProductFixture(t)

	if _, err := svc.Create(context.Background(), ports.ProductInput{Name: "Iced latte", Price: 4.5, CategoryID: "nope"}); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
	if _, err := svc.Create(context.Background(), ports.ProductInput{Name: "Iced latte", Price: -1, CategoryID: catID}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	p, err := svc.Create(context.Background(), ports.ProductInput{Name: " Iced latte ", Price: 4.5, CategoryID: catID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Name != "Iced latte" {
		t.Fatalf("expected trimmed name, got %q", p.Name)
	}
}

func TestProductService_ListPaginatesAndFilters(t *testing.T) {
	svc, catID := newProductFixture(t)
	for i := 1; i <= 25; i++ {
		name := "Cold brew " + strconv.Itoa(i)
		if i%5 == 0 {
			name = "Lemonade " + strconv.Itoa(i)
		}
		if _, err := svc.Create(context.Background(), ports.ProductInput{Name: name, Price: float64(i), CategoryID: catID}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	res, err := svc.List(context.Background(), ports.ListProductsInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Page != 1 || res.Limit != 10 || res.Total != 25 || res.TotalPages != 3 || len(res.Items) != 10 {
		t.Fatalf("unexpected defaults: page=%d limit=%d total=%d pages=%d items=%d", res.Page, res.Limit, res.Total, res.TotalPages, len(res.Items))
	}

	res, _ = svc.List(context.Background(), ports.ListProductsInput{Page: 3, Limit: 10})
	if len(res.Items) != 5 {
		t.Fatalf("expected 5 items on last page, got %d", len(res.Items))
	}

	res, _ = svc.List(context.Background(), ports.ListProductsInput{Limit: 1000})
	if res.Limit != 100 {
		t.Fatalf("expected limit capped at 100, got %d", res.Limit)
	}

	res, _ = svc.List(context.Background(), ports.ListProductsInput{Search: "lemon", MinPrice: floatPtr(10), MaxPrice: floatPtr(20)})
	if res.Total != 3 {
		t.Fatalf("expected 3 lemonades priced 10..20, got %d", res.Total)
	}

	if _, err := svc.List(context.Background(), ports.ListProductsInput{MinPrice: floatPtr(5), MaxPrice: floatPtr(1)}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for inverted range, got %v", err)
	}
}

func TestProductService_ListRejectsHugePage(t *testing.T) {
	svc, _ := newProductFixture(t)

	for _, page := range []int{maxPage + 1, math.MaxInt} {
		if _, err := svc.List(context.Background(), ports.ListProductsInput{Page: page, Limit: 100}); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("page %d: expected ErrInvalidInput, got %v", page, err)
		}
	}

	res, err := svc.List(context.Background(), ports.ListProductsInput{Page: maxPage, Limit: 100})
	if err != nil {
		t.Fatalf("page %d: %v", maxPage, err)
	}
	if len(res.Items) != 0 || res.Page != maxPage {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestProductService_UpdateAndDelete(t *testing.T) {
	svc, catID := newProductFixture(t)
	p, _ := svc.Create(context.Background(), ports.ProductInput{Name: "Espresso", Price: 2, CategoryID: catID})

	price := 2.5
	updated, err := svc.Update(context.Background(), p.ID, ports.ProductPatch{Price: &price})
	if err != nil || updated.Price != 2.5 {
		t.Fatalf("update: %v %+v", err, updated)
	}

	bad := "missing"
	if _, err := svc.Update(context.Background(), p.ID, ports.ProductPatch{CategoryID: &bad}); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}

	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), p.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Announcements
// ---------------------------------------------------------------------------

func TestAnnouncementService_ListsOnlyActive(t *testing.T) {
	repo := &stubAnnouncementRepo{}
	svc := NewAnnouncementService(repo, zerolog.Nop())
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	if _, err := svc.Create(context.Background(), ports.AnnouncementInput{Title: "Past", ExpiresAt: now.Add(-time.Minute)}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for past expiry, got %v", err)
	}
	if _, err := svc.Create(context.Background(), ports.AnnouncementInput{Title: "Short", ExpiresAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(context.Background(), ports.AnnouncementInput{Title: "Long", ExpiresAt: now.Add(48 * time.Hour)}); err != nil {
		t.Fatalf("create: %v", err)
	}

	now = now.Add(2 * time.Hour)
	items, err := svc.ListActive(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Long" {
		t.Fatalf("expected only the long announcement, got %+v", items)
	}

	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, domain.ErrAnnouncementNotFound) {
		t.Fatalf("expected ErrAnnouncementNotFound, got %v", err)
	}
}
