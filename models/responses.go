package models

// Response is the envelope shared by every API response.
type Response struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Message string   `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
	Details []string `json:"details,omitempty"`
}

// RouteNotFound is returned for unknown routes and unsupported methods.
type RouteNotFound struct {
	Error   string `json:"error"`
	Method  string `json:"method"`
	URL     string `json:"url"`
	Message string `json:"message"`
}

// LoginResult is the payload of a successful login.
type LoginResult struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// TokenResult carries a freshly issued token.
type TokenResult struct {
	Token string `json:"token"`
}

// CreatedWorker is the payload of a successful worker creation.
// GeneratedPassword is present only when the server generated the password;
// it is returned exactly once and never stored in plain text.
type CreatedWorker struct {
	UserView
	GeneratedPassword string `json:"generated_password,omitempty"`
}

// PasswordReset is the payload of a successful administrative reset.
type PasswordReset struct {
	UserID             int64  `json:"user_id"`
	Email              string `json:"email"`
	NewPassword        string `json:"new_password"`
	MustChangePassword bool   `json:"must_change_password"`
}

// PasswordValidation is the outcome of checking a password against the
// strength rules.
type PasswordValidation struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// HealthStatus is the payload of GET /health.
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
