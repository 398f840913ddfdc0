package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/CAHEKA/servisRest/pkg/db/models"
)

// RegisterRequest contains the payload for creating an account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest contains the credentials presented at login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token being exchanged.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UserDTO is the API shape of an account.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// LoginResponse returns the minted token pair alongside the account.
type LoginResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	User         UserDTO `json:"user"`
}

// RefreshResponse returns the rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func toUserDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Username:    user.Username,
		LastLoginAt: user.LastLoginAt,
	}
}
