package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/care-coord/internal/adapter"
	"github.com/MKhiriev/care-coord/internal/config"
	"github.com/MKhiriev/care-coord/internal/logger"
	"github.com/MKhiriev/care-coord/internal/store"
	"github.com/MKhiriev/care-coord/internal/utils"
	"github.com/MKhiriev/care-coord/internal/validators"
	"github.com/MKhiriev/care-coord/models"
)

// authService is the concrete implementation of AuthService.
// It verifies credentials against bcrypt hashes stored by the UserRepository
// and signs HS256 tokens with the operator supplied key.
type authService struct {
	// userRepository is the data-access layer used to look up and update users.
	userRepository store.UserRepository

	// denylist remembers revoked tokens. Nil disables server-side logout.
	denylist store.TokenDenylist

	// publisher receives password change events.
	publisher adapter.EventPublisher

	// validator checks change-password requests.
	validator validators.Validator

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	bcryptCost int

	// now is the service clock used for token expiry and last_login.
	now func() time.Time

	dummyHashOnce sync.Once
	dummyHash     string

	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given UserRepository
// and populated with security parameters from cfg. denylist may be nil.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(userRepository store.UserRepository, denylist store.TokenDenylist, publisher adapter.EventPublisher, cfg config.App, logger *logger.Logger) AuthService {
	if publisher == nil {
		publisher = adapter.NewNopPublisher()
	}

	return &authService{
		userRepository: userRepository,
		denylist:       denylist,
		publisher:      publisher,
		validator:      validators.NewWorkerValidator(),
		tokenSignKey:   cfg.TokenSignKey,
		tokenIssuer:    cfg.TokenIssuer,
		tokenDuration:  cfg.TokenDuration,
		bcryptCost:     cfg.BcryptCost,
		now:            time.Now,
		logger:         logger,
	}
}

// Login authenticates an active user by email and password.
//
// Returns the token together with the user view or:
//   - ErrMissingCredentials if email or password is empty.
//   - ErrInvalidCredentials if no active user has the email or the password
//     does not match. Both cases cost one bcrypt comparison.
func (a *authService) Login(ctx context.Context, req models.LoginRequest) (models.LoginResult, error) {
	log := logger.FromContext(ctx)

	email := models.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return models.LoginResult{}, ErrMissingCredentials
	}

	user, err := a.userRepository.FindActiveUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			log.Err(err).Str("func", "authService.Login").Msg("user search by email failed")
			return models.LoginResult{}, fmt.Errorf("user search by email failed: %w", err)
		}
		utils.VerifyPassword(a.getDummyHash(), req.Password)
		log.Info().Str("email", email).Msg("login attempt for unknown or inactive user")
		return models.LoginResult{}, ErrInvalidCredentials
	}

	if !utils.VerifyPassword(user.PasswordHash, req.Password) {
		log.Info().Int64("user_id", user.ID).Msg("wrong password")
		return models.LoginResult{}, ErrInvalidCredentials
	}

	loginAt := a.now().UTC()
	if err = a.userRepository.UpdateLastLogin(ctx, user.ID, loginAt); err != nil {
		log.Err(err).Int64("user_id", user.ID).Msg("failed to record last login")
		return models.LoginResult{}, fmt.Errorf("failed to record last login: %w", err)
	}
	user.LastLogin = &loginAt

	token, err := a.IssueToken(ctx, user)
	if err != nil {
		return models.LoginResult{}, err
	}

	return models.LoginResult{Token: token.String(), User: user.View()}, nil
}

// IssueToken signs a token carrying the user's id, email, role and
// must-change-password flag.
func (a *authService) IssueToken(ctx context.Context, user models.User) (models.Token, error) {
	claims := models.Claims{
		UserID:             user.ID,
		Email:              user.Email,
		Role:               user.Role,
		MustChangePassword: user.MustChangePassword,
	}

	token, err := utils.GenerateJWTToken(claims, a.tokenIssuer, a.tokenDuration, a.tokenSignKey, a.now())
	if err != nil {
		logger.FromContext(ctx).Err(err).Int64("user_id", user.ID).Msg("token creation failed")
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw JWT string.
//
// Any validation failure (expired, wrong issuer, malformed, revoked, issued
// before the user's tokens were revoked) is normalised to ErrInvalidToken so that callers do not need to inspect
// low-level JWT errors. A denylist that cannot be reached is reported as is.
func (a *authService) ParseToken(ctx context.Context, raw string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(raw, a.tokenSignKey, a.tokenIssuer, a.now())
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Msg("token rejected")
		return models.Token{}, ErrInvalidToken
	}

	if a.denylist == nil {
		return token, nil
	}

	if token.ID != "" {
		revoked, err := a.denylist.IsRevoked(ctx, token.ID)
		if err != nil {
			logger.FromContext(ctx).Err(err).Msg("denylist lookup failed")
			return models.Token{}, err
		}
		if revoked {
			return models.Token{}, ErrInvalidToken
		}
	}

	cutoff, found, err := a.denylist.UserTokensRevokedAt(ctx, token.UserID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Int64("user_id", token.UserID).Msg("user revocation lookup failed")
		return models.Token{}, err
	}
	if found && (token.IssuedAt == nil || !token.IssuedAt.After(cutoff)) {
		logger.FromContext(ctx).Debug().Int64("user_id", token.UserID).Msg("token issued before user revocation")
		return models.Token{}, ErrInvalidToken
	}

	return token, nil
}

// Logout revokes the token until it would have expired. Without a denylist
// it only logs the event and the client is expected to discard the token.
func (a *authService) Logout(ctx context.Context, token models.Token) error {
	log := logger.FromContext(ctx)

	if a.denylist == nil {
		log.Debug().Int64("user_id", token.UserID).Msg("logout without denylist")
		return nil
	}

	var ttl time.Duration
	if token.ExpiresAt != nil {
		ttl = token.ExpiresAt.Sub(a.now())
	}

	if err := a.denylist.Revoke(ctx, token.ID, ttl); err != nil {
		log.Err(err).Int64("user_id", token.UserID).Msg("token revocation failed")
		return err
	}

	log.Info().Int64("user_id", token.UserID).Msg("token revoked")
	return nil
}

// ChangePassword verifies the current password and stores the new one.
//
// Returns a fresh token with MustChangePassword cleared or:
//   - *validators.ValidationError when fields are missing or the new
//     password is weak.
//   - ErrUserNotFound if the caller is no longer an active user.
//   - ErrWrongCurrentPassword if the current password does not verify.
func (a *authService) ChangePassword(ctx context.Context, userID int64, req models.ChangePasswordRequest) (models.Token, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, req); err != nil {
		return models.Token{}, err
	}

	user, err := a.userRepository.FindActiveUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.Token{}, ErrUserNotFound
		}
		log.Err(err).Int64("user_id", userID).Msg("user search by id failed")
		return models.Token{}, fmt.Errorf("user search by id failed: %w", err)
	}

	if !utils.VerifyPassword(user.PasswordHash, req.CurrentPassword) {
		log.Info().Int64("user_id", userID).Msg("wrong current password")
		return models.Token{}, ErrWrongCurrentPassword
	}

	hash, err := utils.HashPassword(req.NewPassword, a.bcryptCost)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("password hashing failed")
		return models.Token{}, err
	}

	if err = a.userRepository.UpdatePassword(ctx, userID, hash, false); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.Token{}, ErrUserNotFound
		}
		log.Err(err).Int64("user_id", userID).Msg("password update failed")
		return models.Token{}, fmt.Errorf("password update failed: %w", err)
	}

	publishEvent(ctx, a.publisher, newUserEvent(models.EventPasswordChanged, user, userID, a.now()))

	user.PasswordHash = hash
	user.MustChangePassword = false
	return a.IssueToken(ctx, user)
}

// getDummyHash lazily hashes a random value with the configured cost so that
// rejecting an unknown email takes as long as rejecting a wrong password.
func (a *authService) getDummyHash() string {
	a.dummyHashOnce.Do(func() {
		hash, err := utils.HashPassword(utils.NewID(), a.bcryptCost)
		if err != nil {
			a.logger.Err(err).Msg("failed to prepare dummy hash")
			return
		}
		a.dummyHash = hash
	})
	return a.dummyHash
}
