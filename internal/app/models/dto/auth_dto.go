package dto

import (
	"time"

	"github.com/siprista/backend/internal/app/models"
)

// LoginRequest represents login credentials together with the claimed role
type LoginRequest struct {
	Email    string `json:"email" validate:"required" example:"admin@siprista.com"`
	Password string `json:"password" validate:"required" example:"demo123"`
	Role     string `json:"role" validate:"required" example:"ADMIN"`
}

// LoginResponse is returned on successful login
type LoginResponse struct {
	Message   string         `json:"message" example:"Login berhasil"`
	User      models.Account `json:"user"`
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
}
