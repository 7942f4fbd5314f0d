package domain

import (
	"regexp"
	"time"
)

// slugPattern is the accepted shape for category slugs, e.g. "hot-drinks".
var slugPattern = regexp.MustCompile(`^[a-z]+(-[a-z]+)*$`)

// ValidSlug reports whether s is a well-formed category slug.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// Category groups products on the menu.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Product is a sellable menu item.
type Product struct {
	ID         string    `json:"id"`
	Name       string    `json:"product_name"`
	Details    string    `json:"product_details"`
	Price      float64   `json:"price"`
	CategoryID string    `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Announcement is a notice shown until it expires.
type Announcement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ExpiresAt   time.Time `json:"expires"`
	CreatedAt   time.Time `json:"created_at"`
}

// Expired reports whether a has expired at now.
func (a *Announcement) Expired(now time.Time) bool {
	return !now.Before(a.ExpiresAt)
}

// MaxMemoryText bounds the length of a guest-book entry, in characters.
const MaxMemoryText = 200

// Memory is a guest-book entry left by a visitor. It stays hidden from the
// public list until staff approve it.
type Memory struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	Approved  bool      `json:"is_approved"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
