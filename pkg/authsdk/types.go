package authsdk

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error" example:"Invalid username or password."`
}

// MessageResponse is returned by the password recovery endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// ============================================================================
// Registration & Login
// ============================================================================

// RegisterRequest creates an account. Username is the user's email address.
type RegisterRequest struct {
	Username string `json:"username" example:"a@x.com"`
	Password string `json:"password" example:"Passw0rd!"`
	FullName string `json:"fullName" example:"A B"`
}

// RegisterResponse describes the created account.
type RegisterResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

// LoginRequest exchanges credentials for a token.
type LoginRequest struct {
	Username string `json:"username" example:"a@x.com"`
	Password string `json:"password" example:"Passw0rd!"`
}

// UserView is the public view of an account.
type UserView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Role     string `json:"role" example:"user"`
	Status   string `json:"status" example:"active"`
}

// LoginResponse carries the signed token and the account it was issued for.
type LoginResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// ============================================================================
// Password Recovery
// ============================================================================

// ForgotPasswordRequest asks for a reset code to be emailed.
type ForgotPasswordRequest struct {
	Email string `json:"email" example:"a@x.com"`
}

// ResetPasswordRequest sets a new password using an emailed code.
type ResetPasswordRequest struct {
	Email       string `json:"email" example:"a@x.com"`
	Code        string `json:"code" example:"004217"`
	NewPassword string `json:"newPassword" example:"NewPass1!"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	// Status is "ok" or "unavailable".
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	Version string `json:"version,omitempty"`

	// Checks holds dependency results, only set by /readyz.
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
}
