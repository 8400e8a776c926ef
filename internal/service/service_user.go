package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/care-coord/internal/adapter"
	"github.com/MKhiriev/care-coord/internal/config"
	"github.com/MKhiriev/care-coord/internal/logger"
	"github.com/MKhiriev/care-coord/internal/store"
	"github.com/MKhiriev/care-coord/internal/utils"
	"github.com/MKhiriev/care-coord/internal/validators"
	"github.com/MKhiriev/care-coord/models"
)

// userService is the concrete implementation of UserService.
// Input shape is checked by the validation wrapper; this layer enforces the
// rules that need stored state.
type userService struct {
	userRepository store.UserRepository
	publisher      adapter.EventPublisher

	// denylist revokes the outstanding tokens of a reset or deactivated
	// user. Nil leaves those tokens valid until they expire.
	denylist store.TokenDenylist

	bcryptCost    int
	tokenDuration time.Duration
	now           func() time.Time

	logger *logger.Logger
}

// NewUserService constructs a UserService. Use [NewUserValidationService] to
// wrap it with request validation. denylist may be nil.
func NewUserService(userRepository store.UserRepository, denylist store.TokenDenylist, publisher adapter.EventPublisher, cfg config.App, logger *logger.Logger) UserService {
	if publisher == nil {
		publisher = adapter.NewNopPublisher()
	}

	return &userService{
		userRepository: userRepository,
		publisher:      publisher,
		denylist:       denylist,
		bcryptCost:     cfg.BcryptCost,
		tokenDuration:  cfg.TokenDuration,
		now:            time.Now,
		logger:         logger,
	}
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepository.ListActiveUsers(ctx)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "userService.ListUsers").Msg("listing users failed")
		return nil, fmt.Errorf("listing users failed: %w", err)
	}

	return users, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (models.User, error) {
	user, err := s.userRepository.FindActiveUserByID(ctx, id)
	if err != nil {
		return models.User{}, s.mapRepositoryError(ctx, err, "user search by id failed")
	}

	return user, nil
}

// CreateWorker stores a new active user. When the request asks for it (or
// carries no password) a password is generated, returned once in the result
// and the user must change it on first login.
func (s *userService) CreateWorker(ctx context.Context, actor models.Claims, req models.CreateWorkerRequest) (models.CreatedWorker, error) {
	log := logger.FromContext(ctx)

	role, ok := models.ParseRole(req.Role)
	if !ok {
		return models.CreatedWorker{}, validators.NewValidationError(validators.MsgInvalidRole)
	}

	var (
		password  = req.Password
		generated = req.ShouldGeneratePassword()
		err       error
	)
	if generated {
		password, err = utils.GenerateSecurePassword(utils.DefaultPasswordLength)
		if err != nil {
			log.Err(err).Msg("password generation failed")
			return models.CreatedWorker{}, err
		}
	}

	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return models.CreatedWorker{}, err
	}

	user, err := s.userRepository.CreateUser(ctx, models.User{
		Email:              models.NormalizeEmail(req.Email),
		PasswordHash:       hash,
		FirstName:          strings.TrimSpace(req.FirstName),
		LastName:           strings.TrimSpace(req.LastName),
		Phone:              optionalString(req.Phone),
		Role:               role,
		MustChangePassword: generated,
		IsActive:           true,
	})
	if err != nil {
		return models.CreatedWorker{}, s.mapRepositoryError(ctx, err, "user creation failed")
	}

	log.Info().Int64("user_id", user.ID).Int64("actor_id", actor.UserID).Str("role", string(role)).Msg("worker created")
	publishEvent(ctx, s.publisher, newUserEvent(models.EventWorkerCreated, user, actor.UserID, s.now()))

	result := models.CreatedWorker{UserView: user.View()}
	if generated {
		result.GeneratedPassword = password
	}
	return result, nil
}

// UpdateWorker applies a partial update. A worker type sent without a role is
// checked against the user's current role.
func (s *userService) UpdateWorker(ctx context.Context, actor models.Claims, id int64, req models.UpdateWorkerRequest) (models.User, error) {
	update := models.UserUpdate{ID: id}

	if req.Role != nil {
		role, ok := models.ParseRole(*req.Role)
		if !ok {
			return models.User{}, validators.NewValidationError(validators.MsgInvalidRole)
		}
		update.Role = &role
	}

	if req.WorkerType != nil && req.Role == nil {
		workerType, ok := models.ParseWorkerType(*req.WorkerType)
		if !ok {
			return models.User{}, validators.NewValidationError(validators.MsgInvalidWorkerType)
		}

		current, err := s.GetUser(ctx, id)
		if err != nil {
			return models.User{}, err
		}
		if actual, _ := models.WorkerTypeOf(current.Role); actual != workerType {
			return models.User{}, validators.NewValidationError(validators.RoleMismatchMessage(workerType))
		}
	}

	if req.Email != nil {
		email := models.NormalizeEmail(*req.Email)
		update.Email = &email
	}
	if req.FirstName != nil {
		firstName := strings.TrimSpace(*req.FirstName)
		update.FirstName = &firstName
	}
	if req.LastName != nil {
		lastName := strings.TrimSpace(*req.LastName)
		update.LastName = &lastName
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		update.Phone = &phone
	}

	if update.IsEmpty() {
		return s.GetUser(ctx, id)
	}

	user, err := s.userRepository.UpdateUser(ctx, update)
	if err != nil {
		return models.User{}, s.mapRepositoryError(ctx, err, "user update failed")
	}

	logger.FromContext(ctx).Info().Int64("user_id", id).Int64("actor_id", actor.UserID).Msg("worker updated")
	return user, nil
}

// ResetPassword replaces the password of an active user with a generated one
// and forces a change on next login. Tokens issued to the user so far are
// revoked. The new password is returned once.
func (s *userService) ResetPassword(ctx context.Context, actor models.Claims, id int64) (models.PasswordReset, error) {
	log := logger.FromContext(ctx)

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return models.PasswordReset{}, err
	}

	password, err := utils.GenerateSecurePassword(utils.DefaultPasswordLength)
	if err != nil {
		log.Err(err).Msg("password generation failed")
		return models.PasswordReset{}, err
	}

	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return models.PasswordReset{}, err
	}

	if err = s.userRepository.UpdatePassword(ctx, id, hash, true); err != nil {
		return models.PasswordReset{}, s.mapRepositoryError(ctx, err, "password reset failed")
	}

	if err = s.revokeUserTokens(ctx, id); err != nil {
		return models.PasswordReset{}, err
	}

	log.Info().Int64("user_id", id).Int64("actor_id", actor.UserID).Msg("password reset")
	publishEvent(ctx, s.publisher, newUserEvent(models.EventPasswordReset, user, actor.UserID, s.now()))

	return models.PasswordReset{
		UserID:             user.ID,
		Email:              user.Email,
		NewPassword:        password,
		MustChangePassword: true,
	}, nil
}

// Deactivate soft-deletes an active user and revokes the user's tokens.
// Callers cannot deactivate themselves.
func (s *userService) Deactivate(ctx context.Context, actor models.Claims, id int64) error {
	if actor.UserID == id {
		return ErrSelfDeactivation
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	if err = s.userRepository.Deactivate(ctx, id); err != nil {
		return s.mapRepositoryError(ctx, err, "user deactivation failed")
	}

	if err = s.revokeUserTokens(ctx, id); err != nil {
		return err
	}

	logger.FromContext(ctx).Info().Int64("user_id", id).Int64("actor_id", actor.UserID).Msg("user deactivated")
	publishEvent(ctx, s.publisher, newUserEvent(models.EventUserDeactivated, user, actor.UserID, s.now()))

	return nil
}

// SeedAdmin inserts the bootstrap administrator unless the email is taken.
// A weak bootstrap password is accepted with a warning since the operator
// chose it explicitly.
func (s *userService) SeedAdmin(ctx context.Context, admin config.BootstrapAdmin) (models.User, bool, error) {
	log := logger.FromContext(ctx)

	email := models.NormalizeEmail(admin.Email)
	if email == "" || admin.Password == "" {
		return models.User{}, false, ErrMissingCredentials
	}
	if !validators.IsValidEmail(email) {
		return models.User{}, false, validators.NewValidationError(validators.MsgInvalidEmail)
	}

	existing, err := s.userRepository.FindUserByEmail(ctx, email)
	if err == nil {
		log.Info().Int64("user_id", existing.ID).Msg("bootstrap admin already exists")
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return models.User{}, false, s.mapRepositoryError(ctx, err, "bootstrap admin lookup failed")
	}

	if result := utils.ValidatePassword(admin.Password); !result.IsValid {
		log.Warn().Strs("rules", result.Errors).Msg("bootstrap admin password is weak")
	}

	hash, err := utils.HashPassword(admin.Password, s.bcryptCost)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return models.User{}, false, err
	}

	user, err := s.userRepository.CreateUser(ctx, models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    orDefault(admin.FirstName, config.DefaultAdminFirstName),
		LastName:     orDefault(admin.LastName, config.DefaultAdminLastName),
		Role:         models.RoleAdmin,
		IsActive:     true,
	})
	if errors.Is(err, store.ErrEmailAlreadyExists) {
		existing, err = s.userRepository.FindUserByEmail(ctx, email)
		if err != nil {
			return models.User{}, false, s.mapRepositoryError(ctx, err, "bootstrap admin lookup failed")
		}
		return existing, false, nil
	}
	if err != nil {
		return models.User{}, false, s.mapRepositoryError(ctx, err, "bootstrap admin creation failed")
	}

	log.Info().Int64("user_id", user.ID).Msg("bootstrap admin created")
	return user, true, nil
}

// revokeUserTokens invalidates every token issued to the user up to now. The
// cutoff outlives the longest token that could predate it.
func (s *userService) revokeUserTokens(ctx context.Context, id int64) error {
	if s.denylist == nil {
		logger.FromContext(ctx).Warn().Int64("user_id", id).Msg("no token denylist, existing tokens stay valid until expiry")
		return nil
	}

	if err := s.denylist.RevokeUserTokens(ctx, id, s.now(), s.tokenDuration); err != nil {
		logger.FromContext(ctx).Err(err).Int64("user_id", id).Msg("user token revocation failed")
		return err
	}

	return nil
}

// mapRepositoryError translates store sentinels into service sentinels and
// logs anything unexpected.
func (s *userService) mapRepositoryError(ctx context.Context, err error, msg string) error {
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, store.ErrEmailAlreadyExists):
		return ErrEmailAlreadyExists
	default:
		logger.FromContext(ctx).Err(err).Msg(msg)
		return fmt.Errorf("%s: %w", msg, err)
	}
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
