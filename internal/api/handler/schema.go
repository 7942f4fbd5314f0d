package handler

import (
	"time"

	"github.com/cafeice/shop-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	FirstName string `json:"first_name"             validate:"required,max=64"`
	LastName  string `json:"last_name"              validate:"required,max=64"`
	Email     string `json:"email"                  validate:"required,email"`
	Password  string `json:"password"               validate:"required,strong_password"`
	Phone     string `json:"phone_number,omitempty" validate:"omitempty,phone"`
	Address   string `json:"address,omitempty"      validate:"omitempty,max=256"`
	// Role is read but ignored on self-registration.
	Role string `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty"   validate:"omitempty,min=1,max=64"`
	LastName  *string `json:"last_name,omitempty"    validate:"omitempty,min=1,max=64"`
	Email     *string `json:"email,omitempty"        validate:"omitempty,email"`
	Password  *string `json:"password,omitempty"     validate:"omitempty,strong_password"`
	Phone     *string `json:"phone_number,omitempty" validate:"omitempty,phone"`
	Address   *string `json:"address,omitempty"      validate:"omitempty,max=256"`
	// Role is only accepted so it can be rejected.
	Role *string `json:"role,omitempty" swaggerignore:"true"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

// --- Users ---

type createUserRequest struct {
	FirstName string `json:"first_name"             validate:"required,max=64"`
	LastName  string `json:"last_name"              validate:"required,max=64"`
	Email     string `json:"email"                  validate:"required,email"`
	Password  string `json:"password"               validate:"required,strong_password"`
	Phone     string `json:"phone_number,omitempty" validate:"omitempty,phone"`
	Address   string `json:"address,omitempty"      validate:"omitempty,max=256"`
	Role      string `json:"role,omitempty"         validate:"omitempty,oneof=founder admin staff user"`
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=founder admin staff user"`
}

type setStatusRequest struct {
	Active *bool `json:"is_active" validate:"required"`
}

// --- Catalog ---

type createCategoryRequest struct {
	Name        string `json:"name"                  validate:"required,max=64"`
	Slug        string `json:"slug"                  validate:"required,slug,max=64"`
	Description string `json:"description,omitempty" validate:"omitempty,max=512"`
}

type updateCategoryRequest struct {
	Name        *string `json:"name,omitempty"        validate:"omitempty,min=1,max=64"`
	Slug        *string `json:"slug,omitempty"        validate:"omitempty,slug,max=64"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=512"`
	Active      *bool   `json:"is_active,omitempty"`
}

type createProductRequest struct {
	Name       string  `json:"product_name"    validate:"required,max=128"`
	Details    string  `json:"product_details" validate:"required,max=1024"`
	Price      float64 `json:"price"           validate:"gte=0"`
	CategoryID string  `json:"category_id"     validate:"required"`
}

type updateProductRequest struct {
	Name       *string  `json:"product_name,omitempty"    validate:"omitempty,min=1,max=128"`
	Details    *string  `json:"product_details,omitempty" validate:"omitempty,max=1024"`
	Price      *float64 `json:"price,omitempty"           validate:"omitempty,gte=0"`
	CategoryID *string  `json:"category_id,omitempty"     validate:"omitempty,min=1"`
}

type listProductsResponse struct {
	Items      []*domain.Product `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

type createAnnouncementRequest struct {
	Title       string    `json:"title"       validate:"required,max=128"`
	Description string    `json:"description" validate:"required,max=2048"`
	ExpiresAt   time.Time `json:"expires"     validate:"required"`
}

type createMemoryRequest struct {
	Name string `json:"name" validate:"required,max=64"`
	Text string `json:"text" validate:"required,max=200"`
}
