package local

import (
	"context"
	"errors"
	"time"
)

var (
	ErrDuplicateUser      = errors.New("user record already exists")
	ErrUserRecordNotFound = errors.New("user record not found")
)

const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
	ProviderApple    = "apple"
)

// UserRecord es el usuario persistido (memory o localkv "demo_users").
type UserRecord struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName,omitempty"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Provider     string    `json:"provider"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserStore: búsqueda por email case-insensitive.
type UserStore interface {
	Create(ctx context.Context, u UserRecord) error
	GetByEmail(ctx context.Context, email string) (UserRecord, error)
}
