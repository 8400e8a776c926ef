// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, credential generation, hashing
// and validation, HTTP response writing, JWT token generation and
// validation, and identifier generation.
package utils

import (
	"context"

	"github.com/MKhiriev/care-coord/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// ClaimsCtxKey is the key under which the authenticate middleware stores the
// verified [models.Claims] of the caller.
var ClaimsCtxKey = contextKey("claims")

// TokenCtxKey is the key under which the raw bearer token is stored, so
// logout can revoke it.
var TokenCtxKey = contextKey("token")

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims models.Claims) context.Context {
	return context.WithValue(ctx, ClaimsCtxKey, claims)
}

// GetClaimsFromContext retrieves the caller's claims from the context.
//
// Returns ok == false when the value is missing or has an unexpected type.
func GetClaimsFromContext(ctx context.Context) (models.Claims, bool) {
	claims, ok := ctx.Value(ClaimsCtxKey).(models.Claims)
	return claims, ok
}

// GetUserIDFromContext retrieves the caller's user identifier.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	claims, ok := GetClaimsFromContext(ctx)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}

// WithToken returns a copy of ctx carrying the parsed access token.
func WithToken(ctx context.Context, token models.Token) context.Context {
	return context.WithValue(ctx, TokenCtxKey, token)
}

// GetTokenFromContext retrieves the parsed access token of the caller.
func GetTokenFromContext(ctx context.Context) (models.Token, bool) {
	token, ok := ctx.Value(TokenCtxKey).(models.Token)
	return token, ok
}
