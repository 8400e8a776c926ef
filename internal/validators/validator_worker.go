package validators

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/care-coord/internal/utils"
	"github.com/MKhiriev/care-coord/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	FieldFirstName  = "first_name"
	FieldLastName   = "last_name"
	FieldEmail      = "email"
	FieldRole       = "role"
	FieldWorkerType = "worker_type"
	FieldPassword   = "password"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether email has the shape local@domain.tld.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// RoleMismatchMessage is reported when a role does not belong to the declared
// worker type, e.g. "Invalid role for ground worker. Allowed roles: carer,
// senior_carer, trainee".
func RoleMismatchMessage(workerType models.WorkerType) string {
	return fmt.Sprintf("Invalid role for %s. Allowed roles: %s",
		workerType.Label(), models.JoinRoles(models.RolesOf(workerType)))
}

// WorkerValidator validates user lifecycle requests.
type WorkerValidator struct{}

// NewWorkerValidator returns a [Validator] for [models.CreateWorkerRequest],
// [models.UpdateWorkerRequest] and [models.ChangePasswordRequest].
func NewWorkerValidator() Validator {
	return &WorkerValidator{}
}

// Validate implements [Validator]. Every failure is a *[ValidationError].
func (v *WorkerValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.CreateWorkerRequest:
		return v.validateCreateWorker(ctx, value, fields...)
	case *models.CreateWorkerRequest:
		return v.validateCreateWorker(ctx, *value, fields...)

	case models.UpdateWorkerRequest:
		return v.validateUpdateWorker(ctx, value)
	case *models.UpdateWorkerRequest:
		return v.validateUpdateWorker(ctx, *value)

	case models.ChangePasswordRequest:
		return v.validateChangePassword(ctx, value)
	case *models.ChangePasswordRequest:
		return v.validateChangePassword(ctx, *value)

	default:
		return ErrUnsupportedType
	}
}

func (v *WorkerValidator) validateCreateWorker(_ context.Context, req models.CreateWorkerRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldFirstName, FieldLastName, FieldEmail, FieldRole, FieldWorkerType, FieldPassword}
	}

	required := map[string]string{
		FieldFirstName:  req.FirstName,
		FieldLastName:   req.LastName,
		FieldEmail:      req.Email,
		FieldRole:       req.Role,
		FieldWorkerType: req.WorkerType,
	}
	var missing []string
	for _, f := range fields {
		if value, ok := required[f]; ok && strings.TrimSpace(value) == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return NewValidationError(MsgMissingFields, missing...)
	}

	var (
		role          models.Role
		workerType    models.WorkerType
		hasRole       bool
		hasWorkerType bool
	)
	for _, f := range fields {
		switch f {
		case FieldEmail:
			if !IsValidEmail(models.NormalizeEmail(req.Email)) {
				return NewValidationError(MsgInvalidEmail)
			}
		case FieldRole:
			if role, hasRole = models.ParseRole(req.Role); !hasRole {
				return NewValidationError(MsgInvalidRole)
			}
		case FieldWorkerType:
			if workerType, hasWorkerType = models.ParseWorkerType(req.WorkerType); !hasWorkerType {
				return NewValidationError(MsgInvalidWorkerType)
			}
		}
	}

	if hasRole && hasWorkerType {
		if err := checkRoleMatchesWorkerType(role, workerType); err != nil {
			return err
		}
	}

	if slices.Contains(fields, FieldPassword) {
		return validateSuppliedPassword(req)
	}

	return nil
}

func validateSuppliedPassword(req models.CreateWorkerRequest) error {
	if req.ShouldGeneratePassword() {
		return nil
	}
	if req.Password == "" {
		return NewValidationError(MsgPasswordRequired)
	}
	if result := utils.ValidatePassword(req.Password); !result.IsValid {
		return NewValidationError(MsgWeakPassword, result.Errors...)
	}
	return nil
}

func checkRoleMatchesWorkerType(role models.Role, workerType models.WorkerType) error {
	actual, err := models.WorkerTypeOf(role)
	if err != nil {
		return NewValidationError(MsgInvalidRole)
	}
	if actual != workerType {
		return NewValidationError(RoleMismatchMessage(workerType))
	}
	return nil
}

func (v *WorkerValidator) validateUpdateWorker(_ context.Context, req models.UpdateWorkerRequest) error {
	if req.IsEmpty() {
		return NewValidationError(MsgNoFieldsToUpdate)
	}

	var empty []string
	if req.FirstName != nil && strings.TrimSpace(*req.FirstName) == "" {
		empty = append(empty, FieldFirstName)
	}
	if req.LastName != nil && strings.TrimSpace(*req.LastName) == "" {
		empty = append(empty, FieldLastName)
	}
	if len(empty) > 0 {
		return NewValidationError(MsgEmptyField, empty...)
	}

	if req.Email != nil && !IsValidEmail(models.NormalizeEmail(*req.Email)) {
		return NewValidationError(MsgInvalidEmail)
	}

	var (
		role       models.Role
		workerType models.WorkerType
		ok         bool
	)
	if req.Role != nil {
		if role, ok = models.ParseRole(*req.Role); !ok {
			return NewValidationError(MsgInvalidRole)
		}
	}
	if req.WorkerType != nil {
		if workerType, ok = models.ParseWorkerType(*req.WorkerType); !ok {
			return NewValidationError(MsgInvalidWorkerType)
		}
	}
	if req.Role != nil && req.WorkerType != nil {
		return checkRoleMatchesWorkerType(role, workerType)
	}

	return nil
}

// validateChangePassword reports a too short new password on its own; the
// remaining strength rules are only reported once the length is acceptable.
func (v *WorkerValidator) validateChangePassword(_ context.Context, req models.ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return NewValidationError(MsgPasswordChangeFields)
	}

	if utf8.RuneCountInString(req.NewPassword) < utils.MinPasswordLength {
		return NewValidationError(MsgWeakPassword, utils.MsgPasswordTooShort)
	}

	if result := utils.ValidatePassword(req.NewPassword); !result.IsValid {
		return NewValidationError(MsgWeakPassword, result.Errors...)
	}

	return nil
}
