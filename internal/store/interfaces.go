package store

import (
	"context"
	"time"

	"github.com/MKhiriev/care-coord/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists staff accounts in the "users" table.
//
// Emails passed to and returned from the repository are expected to be
// normalised (trimmed, lower-cased) by the caller. Records are never removed;
// [UserRepository.Deactivate] only clears the is_active flag.
type UserRepository interface {
	// CreateUser inserts user and returns the stored row. The email must not
	// be used by any other row, active or not.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindActiveUserByEmail returns the active user with the given email.
	FindActiveUserByEmail(ctx context.Context, email string) (models.User, error)

	// FindUserByEmail returns the user with the given email regardless of
	// its active flag.
	FindUserByEmail(ctx context.Context, email string) (models.User, error)

	// FindActiveUserByID returns the active user with the given id.
	FindActiveUserByID(ctx context.Context, id int64) (models.User, error)

	// ListActiveUsers returns every active user ordered by last and first name.
	ListActiveUsers(ctx context.Context) ([]models.User, error)

	// UpdateUser applies the non-nil fields of update to an active user.
	UpdateUser(ctx context.Context, update models.UserUpdate) (models.User, error)

	// UpdatePassword replaces the password hash of an active user and sets
	// its must_change_password flag.
	UpdatePassword(ctx context.Context, id int64, passwordHash string, mustChangePassword bool) error

	// UpdateLastLogin records a successful login.
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error

	// Deactivate soft-deletes an active user.
	Deactivate(ctx context.Context, id int64) error
}

// TokenDenylist remembers revoked access tokens by their "jti" claim until
// they would have expired anyway. It also keeps a per-user cutoff: tokens of
// that user issued at or before the cutoff are revoked as well.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)

	// RevokeUserTokens stores the cutoff for userID for ttl.
	RevokeUserTokens(ctx context.Context, userID int64, cutoff time.Time, ttl time.Duration) error
	// UserTokensRevokedAt reports the stored cutoff, if any.
	UserTokensRevokedAt(ctx context.Context, userID int64) (time.Time, bool, error)
}

// ErrorClassificator maps a driver-specific error onto an
// [ErrorClassification].
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
