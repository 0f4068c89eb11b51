package auth

import (
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
)

// Claims representa la información extraída del token.
type Claims struct {
	UserID      string
	Email       string
	DisplayName string
	// TokenID identifica la sesión (jti) para poder revocarla.
	TokenID string
}

// User es la identidad pública de una sesión.
type User struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

// Session es lo que devuelve un sign-in exitoso.
type Session struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
