package domain

import "errors"

// Authentication and authorization failures.
var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("access forbidden")
	// ErrInvalidToken never leaves the auth boundary as-is; callers map it
	// to ErrUnauthorized.
	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidRole  = errors.New("invalid role")
)

// Collaborator failures.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrMemoryNotFound       = errors.New("memory not found")
	ErrSlugExists           = errors.New("category slug already exists")
	ErrInvalidInput         = errors.New("invalid input")
)
