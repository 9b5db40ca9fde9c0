// Package auth handles signup, login, session token issuance and the session
// middleware protecting authenticated routes.
package auth

// SignupRequest is the payload for POST /auth/signup.
type SignupRequest struct {
	Email        string `json:"email" validate:"required" example:"user@example.com"`
	ProfilePhoto string `json:"profilePhoto" example:"https://example.com/me.png"`
	Password     string `json:"password" validate:"required,min=6" example:"strongpassword123"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required" example:"user@example.com"`
	Password string `json:"password" validate:"required" example:"strongpassword123"`
}
