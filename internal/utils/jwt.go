package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/care-coord/models"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidJWTParams is returned by [GenerateJWTToken] when the issuer,
// duration or sign key is missing.
var ErrInvalidJWTParams = errors.New("invalid params for generating JWT Token")

// GenerateJWTToken signs claims with HMAC-SHA256.
//
// The registered claims are filled in here:
//   - Issuer    (iss): issuer
//   - Subject   (sub): claims.UserID as a decimal string
//   - IssuedAt  (iat): now
//   - ExpiresAt (exp): now + tokenDuration
//   - ID        (jti): a fresh UUID, used for server-side revocation
//
// Example usage:
//
//	token, err := utils.GenerateJWTToken(claims, "care-coord", 24*time.Hour, key, time.Now())
func GenerateJWTToken(claims models.Claims, issuer string, tokenDuration time.Duration, signKey string, now time.Time) (models.Token, error) {
	if issuer == "" || tokenDuration <= 0 || signKey == "" {
		return models.Token{}, ErrInvalidJWTParams
	}

	claims.WorkerType = ""
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   strconv.FormatInt(claims.UserID, 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        NewID(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return models.Token{Claims: claims, SignedString: tokenString}, nil
}

// ValidateAndParseJWTToken validates tokenString and extracts its claims.
//
// Validation includes:
//   - signature verification with signKey (HS256 only)
//   - issuer (iss) check against tokenIssuer
//   - expiration (exp) check against now; exp is required
//   - subject (sub) consistency with the userId claim
func ValidateAndParseJWTToken(tokenString, signKey, tokenIssuer string, now time.Time) (models.Token, error) {
	claims := &models.Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(signKey), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	userID, err := claims.GetUserID()
	if err != nil {
		return models.Token{}, err
	}
	if userID != claims.UserID {
		return models.Token{}, errors.New("subject does not match userId claim")
	}

	return models.Token{Claims: *claims, SignedString: tokenString}, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. The scheme is matched case-insensitively.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Fields(authorizationHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
