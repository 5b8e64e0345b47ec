package dto

import (
	"fmt"
	"strings"

	"github.com/Andiyp/nauticalapp/internal/user/model"
)

type RegisterRequest struct {
	Email            string         `json:"email"`
	Password         string         `json:"password"`
	IsSkipper        bool           `json:"is_skipper"`
	SkipperFirstName string         `json:"skipper_first_name,omitempty"`
	SkipperLastName  string         `json:"skipper_last_name,omitempty"`
	BoatName         string         `json:"boat_name"`
	BoatType         model.BoatType `json:"boat_type"`
	Phone            string         `json:"phone"`
}

func (r RegisterRequest) Validate() error {
	if !strings.Contains(r.Email, "@") {
		return fmt.Errorf("invalid email")
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if strings.TrimSpace(r.BoatName) == "" {
		return fmt.Errorf("boat name is required")
	}
	if !r.BoatType.Valid() {
		return fmt.Errorf("boat type must be sail or motor")
	}
	if strings.TrimSpace(r.Phone) == "" {
		return fmt.Errorf("phone is required")
	}
	if r.IsSkipper {
		if strings.TrimSpace(r.SkipperFirstName) == "" || strings.TrimSpace(r.SkipperLastName) == "" {
			return fmt.Errorf("skipper first and last name are required when a skipper is registered")
		}
	}
	return nil
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
