package dto

import (
	"time"

	"stockgap/internal/domain/auth"
)

// --- Request DTOs ---

// RegisterRequest for analyst registration.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"fullName,omitempty"`
}

// LoginRequest for analyst login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --- Response DTOs ---

// UserResponse represents an analyst account in API responses.
type UserResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"fullName,omitempty"`
	IsActive  bool       `json:"isActive"`
	IsAdmin   bool       `json:"isAdmin"`
	LastLogin *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// FromUser creates UserResponse from domain user.
func FromUser(u *auth.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		FullName:  u.FullName,
		IsActive:  u.IsActive,
		IsAdmin:   u.IsAdmin,
		LastLogin: u.LastLoginAt,
		CreatedAt: u.CreatedAt,
	}
}

// LoginResponse carries the issued token and its owner.
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        UserResponse `json:"user"`
}

// FromLoginResult creates LoginResponse from domain result.
func FromLoginResult(r *auth.LoginResult) LoginResponse {
	return LoginResponse{
		AccessToken: r.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   r.ExpiresAt,
		User:        FromUser(r.User),
	}
}
