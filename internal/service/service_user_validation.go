package service

import (
	"context"

	"github.com/MKhiriev/care-coord/internal/config"
	"github.com/MKhiriev/care-coord/internal/validators"
	"github.com/MKhiriev/care-coord/models"
)

// userValidationService decorates a UserService with request validation.
// Only CreateWorker and UpdateWorker carry client input; the remaining
// methods are passed through.
type userValidationService struct {
	inner     UserService
	validator validators.Validator
}

// userValidationServiceWrapper builds userValidationService decorators.
type userValidationServiceWrapper struct {
	validator validators.Validator
}

// NewUserValidationService returns a [UserServiceWrapper] that validates
// requests with [validators.NewWorkerValidator] before delegating.
func NewUserValidationService() UserServiceWrapper {
	return &userValidationServiceWrapper{validator: validators.NewWorkerValidator()}
}

func (w *userValidationServiceWrapper) Wrap(inner UserService) UserService {
	return &userValidationService{inner: inner, validator: w.validator}
}

func (v *userValidationService) ListUsers(ctx context.Context) ([]models.User, error) {
	return v.inner.ListUsers(ctx)
}

func (v *userValidationService) GetUser(ctx context.Context, id int64) (models.User, error) {
	return v.inner.GetUser(ctx, id)
}

func (v *userValidationService) CreateWorker(ctx context.Context, actor models.Claims, req models.CreateWorkerRequest) (models.CreatedWorker, error) {
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.CreatedWorker{}, err
	}
	return v.inner.CreateWorker(ctx, actor, req)
}

func (v *userValidationService) UpdateWorker(ctx context.Context, actor models.Claims, id int64, req models.UpdateWorkerRequest) (models.User, error) {
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.User{}, err
	}
	return v.inner.UpdateWorker(ctx, actor, id, req)
}

func (v *userValidationService) ResetPassword(ctx context.Context, actor models.Claims, id int64) (models.PasswordReset, error) {
	return v.inner.ResetPassword(ctx, actor, id)
}

func (v *userValidationService) Deactivate(ctx context.Context, actor models.Claims, id int64) error {
	return v.inner.Deactivate(ctx, actor, id)
}

func (v *userValidationService) SeedAdmin(ctx context.Context, admin config.BootstrapAdmin) (models.User, bool, error) {
	return v.inner.SeedAdmin(ctx, admin)
}
