package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cafeice/shop-api/internal/api/metrics"
	"github.com/cafeice/shop-api/internal/core/domain"
	"github.com/cafeice/shop-api/internal/core/ports"
)

// identityKey is the echo.Context key holding the resolved *domain.User.
const identityKey = "identity"

// IdentityLookup is the slice of the credential store the authenticator needs.
type IdentityLookup interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Authenticator is the per-request gate in front of every protected handler.
type Authenticator struct {
	tokens ports.TokenVerifier
	users  IdentityLookup
	log    zerolog.Logger
}

func NewAuthenticator(tokens ports.TokenVerifier, users IdentityLookup, log zerolog.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, log: log}
}

// Resolve turns an Authorization header into the acting identity and checks
// it against required. An empty required set marks a public operation, in
// which case a missing header yields (nil, nil).
//
// The policy is evaluated against the role currently stored for the
// account, not the role embedded in the token.
func (a *Authenticator) Resolve(ctx context.Context, authHeader string, required domain.RoleSet) (*domain.User, error) {
	if authHeader == "" {
		if len(required) == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: missing authorization header", domain.ErrUnauthorized)
	}

	raw, ok := bearerToken(authHeader)
	if !ok {
		return nil, fmt.Errorf("%w: invalid authorization header", domain.ErrUnauthorized)
	}

	claims, err := a.tokens.Verify(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	user, err := a.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	if user == nil || !user.Active {
		return nil, fmt.Errorf("%w: unknown or inactive account", domain.ErrUnauthorized)
	}

	if !domain.Allow(user.Role, required) {
		return nil, domain.ErrForbidden
	}
	return user, nil
}

// Guard returns middleware that requires a valid token and applies the
// access policy with required. On success the identity is available through
// Identity(c) and domain.UserFromContext.
func (a *Authenticator) Guard(required ...domain.Role) echo.MiddlewareFunc {
	set := domain.NewRoleSet(required...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			header := req.Header.Get(echo.HeaderAuthorization)

			user, err := a.Resolve(req.Context(), header, set)
			if err == nil && user == nil {
				// Guard always demands a token; public routes are left unguarded.
				err = fmt.Errorf("%w: missing authorization header", domain.ErrUnauthorized)
			}
			if err != nil {
				a.record(c, err)
				return err
			}
			metrics.AccessDecisionsTotal.WithLabelValues(metrics.ResultAllowed).Inc()

			user = user.Sanitized()
			c.Set(identityKey, user)
			c.SetRequest(req.WithContext(domain.WithUser(req.Context(), user)))
			return next(c)
		}
	}
}

func (a *Authenticator) record(c echo.Context, err error) {
	result := metrics.ResultError
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		result = metrics.ResultUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		result = metrics.ResultForbidden
	}
	metrics.AccessDecisionsTotal.WithLabelValues(result).Inc()

	a.log.Debug().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("result", result).
		Msg("request rejected")
}

// Identity returns the account attached by Guard, or nil on public routes.
func Identity(c echo.Context) *domain.User {
	u, _ := c.Get(identityKey).(*domain.User)
	return u
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
