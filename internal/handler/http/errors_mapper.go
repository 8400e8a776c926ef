package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/care-coord/internal/logger"
	"github.com/MKhiriev/care-coord/internal/service"
	"github.com/MKhiriev/care-coord/internal/utils"
	"github.com/MKhiriev/care-coord/internal/validators"
)

var errorStatusMap = map[error]int{
	service.ErrMissingCredentials:   http.StatusBadRequest,
	service.ErrSelfDeactivation:     http.StatusBadRequest,
	service.ErrInvalidCredentials:   http.StatusUnauthorized,
	service.ErrWrongCurrentPassword: http.StatusUnauthorized,
	service.ErrInvalidToken:         http.StatusForbidden,
	service.ErrUserNotFound:         http.StatusNotFound,
	service.ErrEmailAlreadyExists:   http.StatusConflict,
}

var errorMessageMap = map[error]string{
	service.ErrMissingCredentials:   "Email and password are required",
	service.ErrSelfDeactivation:     "You cannot deactivate your own account",
	service.ErrInvalidCredentials:   "Invalid credentials",
	service.ErrWrongCurrentPassword: "Current password is incorrect",
	service.ErrInvalidToken:         MsgInvalidToken,
	service.ErrUserNotFound:         "User not found",
	service.ErrEmailAlreadyExists:   "A user with this email already exists",
}

func statusFromError(err error) int {
	var validationErr *validators.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest
	}

	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

func messageFromError(err error) string {
	for target, message := range errorMessageMap {
		if errors.Is(err, target) {
			return message
		}
	}
	return MsgInternalServerError
}

// writeServiceError renders err as the error envelope. Validation errors
// carry their details; unexpected errors are logged and reported with an
// opaque message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *validators.ValidationError
	if errors.As(err, &validationErr) {
		utils.WriteError(w, http.StatusBadRequest, validationErr.Message, validationErr.Details...)
		return
	}

	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		logger.FromRequest(r).Err(err).Str("uri", r.RequestURI).Msg("unexpected error")
	}

	utils.WriteError(w, status, messageFromError(err))
}
