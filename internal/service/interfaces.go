package service

import (
	"context"

	"github.com/MKhiriev/care-coord/internal/config"
	"github.com/MKhiriev/care-coord/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock -exclude_interfaces=UserServiceWrapper

// AuthService authenticates staff and manages their access tokens.
type AuthService interface {
	// Login verifies email and password of an active user, records the login
	// and issues a token. Any mismatch yields [ErrInvalidCredentials].
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResult, error)

	// IssueToken signs a token for user.
	IssueToken(ctx context.Context, user models.User) (models.Token, error)

	// ParseToken verifies signature, issuer and expiry of raw and checks the
	// denylist. Any failure yields [ErrInvalidToken].
	ParseToken(ctx context.Context, raw string) (models.Token, error)

	// Logout revokes token until its expiry when a denylist is configured.
	Logout(ctx context.Context, token models.Token) error

	// ChangePassword replaces the caller's password after verifying the
	// current one and returns a fresh token with mustChangePassword cleared.
	ChangePassword(ctx context.Context, userID int64, req models.ChangePasswordRequest) (models.Token, error)
}

// UserService manages the lifecycle of staff accounts. Actor is the caller
// performing the operation, used for auditing and self-protection rules.
type UserService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
	CreateWorker(ctx context.Context, actor models.Claims, req models.CreateWorkerRequest) (models.CreatedWorker, error)
	UpdateWorker(ctx context.Context, actor models.Claims, id int64, req models.UpdateWorkerRequest) (models.User, error)
	ResetPassword(ctx context.Context, actor models.Claims, id int64) (models.PasswordReset, error)
	Deactivate(ctx context.Context, actor models.Claims, id int64) error

	// SeedAdmin creates the bootstrap administrator unless a user with the
	// same email already exists. created reports whether a row was inserted.
	SeedAdmin(ctx context.Context, admin config.BootstrapAdmin) (user models.User, created bool, err error)
}

// AppInfoService exposes build metadata of the running binary.
type AppInfoService interface {
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
	GetAppVersion(ctx context.Context) string
}

// UserServiceWrapper defines middleware composition for UserService.
// Implementations wrap an existing UserService to add behavior such as
// validation.
type UserServiceWrapper interface {
	Wrap(UserService) UserService // returns a decorated UserService applying additional behavior
}
