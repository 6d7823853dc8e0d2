package auth

import (
	"time"

	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/users"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/auth/session"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token paired with an expired access token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenResponse contains the tokens and session produced by login or refresh.
type TokenResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresAt    time.Time       `json:"expires_at"`
	Session      session.Session `json:"session"`
	User         *users.UserDTO  `json:"user,omitempty"`
}
