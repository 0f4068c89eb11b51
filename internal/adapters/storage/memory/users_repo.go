package memory

import (
	"context"
	"strings"
	"sync"

	"pet-passport/internal/adapters/auth/local"
)

type userRepo struct {
	mu      sync.RWMutex
	byEmail map[string]local.UserRecord
}

func NewUserRepo() local.UserStore {
	return &userRepo{byEmail: make(map[string]local.UserRecord)}
}

func (r *userRepo) Create(ctx context.Context, u local.UserRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, exists := r.byEmail[key]; exists {
		return local.ErrDuplicateUser
	}
	r.byEmail[key] = u
	return nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (local.UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return local.UserRecord{}, local.ErrUserRecordNotFound
	}
	return u, nil
}
