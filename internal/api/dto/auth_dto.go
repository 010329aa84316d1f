package dto

import (
	"time"

	"github.com/spec-kit/student-portal/internal/domain"
)

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewAuthResponse renders a session.
func NewAuthResponse(session *domain.Session) AuthResponse {
	return AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt}
}

// LoginRequest accepts either an email address or a username as identifier.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// PasswordResetRequest payload for initiating reset.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirmRequest payload for confirming reset.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,strong_password"`
}

// PasswordChangeRequest payload for authenticated password changes.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strong_password"`
}

// ExistsResponse answers availability checks.
type ExistsResponse struct {
	Exists bool `json:"exists"`
}
