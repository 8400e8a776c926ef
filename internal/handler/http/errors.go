// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors used by the authentication middleware when parsing the
// "Authorization" HTTP header. Callers can match against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is present but is not of the form "Bearer <token>".
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrNoClaimsInContext is returned by the role and worker type gates when
	// they run without a preceding authenticate middleware.
	ErrNoClaimsInContext = errors.New("no claims in request context")
)

// Client-facing messages written by the middleware and handlers.
const (
	MsgAccessTokenRequired    = "Access token required"
	MsgInvalidToken           = "Invalid or expired token"
	MsgAuthenticationRequired = "Authentication required"
	MsgInvalidUserRole        = "Invalid user role"
	MsgPasswordChangeRequired = "Password change required"
	MsgInternalServerError    = "Internal server error"
	MsgInvalidJSON            = "Invalid JSON body"
	MsgInvalidUserID          = "Invalid user id"
	MsgRouteNotFound          = "Route not found"
	MsgTooManyRequests        = "Too many login attempts, try again later"

	MsgLoggedOut       = "Logged out successfully"
	MsgPasswordChanged = "Password changed successfully"
	MsgUserDeactivated = "User deactivated successfully"
	MsgPasswordReset   = "Password reset successfully"
	MsgWorkerCreated   = "Worker created successfully"
)
