package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/cafeice/shop-api/internal/core/domain"
)

// DefaultTokenTTL is used when the configured lifetime is not positive.
const DefaultTokenTTL = 8 * time.Hour

// accessClaims is the wire form of domain.TokenClaims.
type accessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies HS256 access tokens with a single secret.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// JWTOption customises a JWTManager.
type JWTOption func(*JWTManager)

// WithClock overrides the time source used for iat, exp and expiry checks.
func WithClock(now func() time.Time) JWTOption {
	return func(m *JWTManager) { m.now = now }
}

func NewJWTManager(secret string, ttl time.Duration, opts ...JWTOption) *JWTManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	m := &JWTManager{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the lifetime given to every issued token.
func (m *JWTManager) TTL() time.Duration { return m.ttl }

// Issue signs claims. IssuedAt and ExpiresAt are always set from the clock;
// the caller's values are ignored.
func (m *JWTManager) Issue(claims domain.TokenClaims) (string, error) {
	now := m.now().UTC()
	c := accessClaims{
		Email: claims.Email,
		Role:  string(claims.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry. A token is rejected from
// the instant now reaches its exp claim.
func (m *JWTManager) Verify(token string) (*domain.TokenClaims, error) {
	var c accessClaims
	parsed, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid || c.Subject == "" {
		return nil, domain.ErrInvalidToken
	}

	out := &domain.TokenClaims{
		ID:        c.ID,
		Subject:   c.Subject,
		Email:     c.Email,
		Role:      domain.Role(c.Role),
		ExpiresAt: c.ExpiresAt.Time,
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	return out, nil
}
