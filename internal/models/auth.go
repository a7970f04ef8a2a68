package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles recognised by the admin surface.
const (
	RoleAdmin = "ADMIN"
)

// LoginRequest holds credentials for authenticating an admin.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
}

// JWTClaims carries identity claims embedded in access tokens.
type JWTClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
