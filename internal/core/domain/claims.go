package domain

import (
	"context"
	"time"
)

// TokenClaims is the decoded payload of a bearer token. It reflects the
// account as it was when the token was issued.
type TokenClaims struct {
	ID        string
	Subject   string
	Email     string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ClaimsFor builds the claim set bound to u. Timing fields are filled in by
// the issuer.
func ClaimsFor(u *User) TokenClaims {
	return TokenClaims{
		Subject: u.ID,
		Email:   u.Email,
		Role:    u.Role,
	}
}

type userCtxKey struct{}

// WithUser returns a copy of ctx carrying the resolved identity.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext returns the identity attached by WithUser, if any.
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userCtxKey{}).(*User)
	return u, ok && u != nil
}
