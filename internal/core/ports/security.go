package ports

import "github.com/cafeice/shop-api/internal/core/domain"

// PasswordHasher turns plaintext secrets into salted one-way hashes.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches hash. Malformed hashes never match.
	Verify(plaintext, hash string) bool
}

// TokenIssuer mints signed bearer tokens.
type TokenIssuer interface {
	Issue(claims domain.TokenClaims) (string, error)
}

// TokenVerifier checks signature and expiry of a bearer token. It returns
// domain.ErrInvalidToken on any failure and never consults storage.
type TokenVerifier interface {
	Verify(token string) (*domain.TokenClaims, error)
}

// TokenManager issues and verifies tokens with the same key.
type TokenManager interface {
	TokenIssuer
	TokenVerifier
}
