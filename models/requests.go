package models

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the body of PUT /auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// CreateWorkerRequest is the body of POST /users.
//
// Role is free text ("Senior Carer", "care worker", "admin") and is mapped to
// a canonical [Role] by the user service. When AutoGeneratePassword is nil it
// defaults to true if no Password was supplied.
type CreateWorkerRequest struct {
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	Email                string `json:"email"`
	Phone                string `json:"phone"`
	Role                 string `json:"role"`
	WorkerType           string `json:"worker_type"`
	Password             string `json:"password"`
	AutoGeneratePassword *bool  `json:"auto_generate_password"`
}

// ShouldGeneratePassword reports whether the server generates the initial
// password: explicitly requested, or implied by an empty Password.
func (r CreateWorkerRequest) ShouldGeneratePassword() bool {
	if r.AutoGeneratePassword != nil {
		return *r.AutoGeneratePassword
	}
	return r.Password == ""
}

// UpdateWorkerRequest is the body of PUT /users/{id}. Absent fields are left
// unchanged.
type UpdateWorkerRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Role       *string `json:"role"`
	WorkerType *string `json:"worker_type"`
}

// IsEmpty reports whether the request changes nothing.
func (r UpdateWorkerRequest) IsEmpty() bool {
	return r.FirstName == nil && r.LastName == nil && r.Email == nil &&
		r.Phone == nil && r.Role == nil && r.WorkerType == nil
}
