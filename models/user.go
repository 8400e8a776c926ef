package models

import (
	"strings"
	"time"
)

// User represents a staff account used for authentication and authorization.
// Sensitive fields must never leave the server; use [User.View] to build
// an API representation.
type User struct {
	// ID is the immutable identifier assigned by the database.
	ID int64 `db:"id"`

	// Email is the unique login identifier, stored trimmed and lower-cased.
	Email string `db:"email"`

	// PasswordHash is the bcrypt hash of the password (salt embedded).
	// It is never serialized.
	PasswordHash string `db:"password_hash"`

	FirstName string  `db:"first_name"`
	LastName  string  `db:"last_name"`
	Phone     *string `db:"phone"`

	// Role is one of the six canonical roles; see [WorkerTypeOf].
	Role Role `db:"role"`

	// MustChangePassword is set after an administrative reset and cleared by
	// a successful self-service password change.
	MustChangePassword bool `db:"must_change_password"`

	// IsActive is the soft-delete flag. Inactive users cannot log in and are
	// excluded from listings.
	IsActive bool `db:"is_active"`

	LastLogin *time.Time `db:"last_login"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// UserView is the JSON shape of a user returned by the API. Nullable columns
// are rendered as empty strings.
type UserView struct {
	ID                 int64      `json:"id"`
	Email              string     `json:"email"`
	FirstName          string     `json:"first_name"`
	LastName           string     `json:"last_name"`
	Phone              string     `json:"phone"`
	Role               Role       `json:"role"`
	WorkerType         WorkerType `json:"worker_type"`
	MustChangePassword bool       `json:"must_change_password"`
	IsActive           bool       `json:"is_active"`
	LastLogin          string     `json:"last_login"`
	CreatedAt          string     `json:"created_at"`
	UpdatedAt          string     `json:"updated_at"`
}

// View converts u into its API representation.
func (u User) View() UserView {
	view := UserView{
		ID:                 u.ID,
		Email:              u.Email,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Role:               u.Role,
		MustChangePassword: u.MustChangePassword,
		IsActive:           u.IsActive,
		CreatedAt:          formatTime(u.CreatedAt),
		UpdatedAt:          formatTime(u.UpdatedAt),
	}
	if workerType, err := WorkerTypeOf(u.Role); err == nil {
		view.WorkerType = workerType
	}
	if u.Phone != nil {
		view.Phone = *u.Phone
	}
	if u.LastLogin != nil {
		view.LastLogin = formatTime(*u.LastLogin)
	}
	return view
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// UserUpdate describes a partial update of a user. Only non-nil fields are
// written.
type UserUpdate struct {
	ID        int64
	Email     *string
	FirstName *string
	LastName  *string
	Phone     *string
	Role      *Role
}

// IsEmpty reports whether the update carries no field changes.
func (u UserUpdate) IsEmpty() bool {
	return u.Email == nil && u.FirstName == nil && u.LastName == nil && u.Phone == nil && u.Role == nil
}

// NormalizeEmail trims and lower-cases an email address. Every write and
// lookup goes through it, so matching does not depend on store collation.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
