package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/care-coord/internal/service"
	"github.com/MKhiriev/care-coord/internal/validators"
	"github.com/stretchr/testify/assert"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing credentials", service.ErrMissingCredentials, http.StatusBadRequest},
		{"self deactivation", service.ErrSelfDeactivation, http.StatusBadRequest},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"wrong current password", service.ErrWrongCurrentPassword, http.StatusUnauthorized},
		{"invalid token", service.ErrInvalidToken, http.StatusForbidden},
		{"user not found", service.ErrUserNotFound, http.StatusNotFound},
		{"email exists", service.ErrEmailAlreadyExists, http.StatusConflict},
		{"wrapped not found", fmt.Errorf("get user: %w", service.ErrUserNotFound), http.StatusNotFound},
		{"validation", validators.NewValidationError(validators.MsgInvalidRole), http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("create: %w", validators.NewValidationError(validators.MsgInvalidEmail)), http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}

func TestMessageFromError(t *testing.T) {
	assert.Equal(t, "Invalid credentials", messageFromError(service.ErrInvalidCredentials))
	assert.Equal(t, "User not found", messageFromError(fmt.Errorf("x: %w", service.ErrUserNotFound)))
	assert.Equal(t, MsgInternalServerError, messageFromError(errors.New("pq: relation users does not exist")))
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "validation error with details",
			err:        validators.NewValidationError(validators.MsgWeakPassword, "Password must be at least 8 characters long"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"success":false,"error":"Password does not meet requirements","details":["Password must be at least 8 characters long"]}`,
		},
		{
			name:       "mapped sentinel",
			err:        service.ErrEmailAlreadyExists,
			wantStatus: http.StatusConflict,
			wantBody:   `{"success":false,"error":"A user with this email already exists"}`,
		},
		{
			name:       "internal details are hidden",
			err:        errors.New("Error 1146: Table 'carecoord.users' doesn't exist"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"success":false,"error":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeServiceError(rr, httptest.NewRequest(http.MethodGet, "/users", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
		})
	}
}
