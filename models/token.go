package models

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of an access token. The JSON names match the ones the
// web client already decodes.
type Claims struct {
	UserID             int64  `json:"userId"`
	Email              string `json:"email"`
	Role               Role   `json:"role"`
	MustChangePassword bool   `json:"mustChangePassword"`

	// WorkerType is attached by the worker-type gate after it derived the type
	// from Role. It is never part of the signed payload.
	WorkerType WorkerType `json:"-"`

	jwt.RegisteredClaims
}

// Token wraps a signed access token together with its decoded claims.
type Token struct {
	Claims

	// SignedString is the compact JWS form sent to the client.
	SignedString string `json:"-"`
}

// GetUserID parses the "sub" claim as the user identifier.
func (c *Claims) GetUserID() (int64, error) {
	sub, err := c.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("error extracting UserID from token: %w", err)
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting UserID from token to int64: %w", err)
	}

	return userID, nil
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}
