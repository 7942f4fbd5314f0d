package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/cafeice/shop-api/internal/api/metrics"
	"github.com/cafeice/shop-api/internal/core/domain"
)

// currentUser returns the identity attached by the Guard middleware. A
// missing identity means the route was mounted without a guard; treat it as
// unauthenticated rather than anonymous.
func currentUser(c echo.Context) (*domain.User, error) {
	u, ok := domain.UserFromContext(c.Request().Context())
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return u, nil
}

// registrationResult maps a registration error to its metric label.
func registrationResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, domain.ErrEmailExists):
		return metrics.ResultConflict
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidRole), errors.Is(err, domain.ErrForbidden):
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}
