package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserView_CoercesNulls(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	u := User{
		ID:           7,
		Email:        "jane@carecompany.com",
		PasswordHash: "$2a$12$secret",
		FirstName:    "Jane",
		LastName:     "Doe",
		Role:         RoleSeniorCarer,
		IsActive:     true,
		CreatedAt:    created,
	}

	view := u.View()

	assert.Equal(t, "", view.Phone)
	assert.Equal(t, "", view.LastLogin)
	assert.Equal(t, "", view.UpdatedAt)
	assert.Equal(t, "2026-01-02T03:04:05Z", view.CreatedAt)
	assert.Equal(t, WorkerTypeGround, view.WorkerType)

	phone := "+44 7700 900000"
	login := created.Add(time.Hour)
	u.Phone = &phone
	u.LastLogin = &login

	view = u.View()
	assert.Equal(t, phone, view.Phone)
	assert.Equal(t, "2026-01-02T04:04:05Z", view.LastLogin)
}
