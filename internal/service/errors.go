package service

import "errors"

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrTokenCreationFailed = errors.New("token creation failed")

	ErrUserNotFound         = errors.New("user not found")
	ErrEmailAlreadyExists   = errors.New("a user with this email already exists")
	ErrWrongCurrentPassword = errors.New("current password is incorrect")
	ErrSelfDeactivation     = errors.New("you cannot deactivate your own account")
)
