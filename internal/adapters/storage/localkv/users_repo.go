package localkv

import (
	"context"
	"strings"

	"pet-passport/internal/adapters/auth/local"
)

// UsersRepo guarda los usuarios del IdP local en la key demo_users.
type UsersRepo struct {
	kv *Store
}

func NewUsersRepo(kv *Store) *UsersRepo {
	return &UsersRepo{kv: kv}
}

func (r *UsersRepo) Create(ctx context.Context, u local.UserRecord) error {
	r.kv.mu.Lock()
	defer r.kv.mu.Unlock()

	var all []local.UserRecord
	if err := r.kv.loadJSON(ctx, UsersKey, &all); err != nil {
		return err
	}
	for _, x := range all {
		if strings.EqualFold(x.Email, u.Email) {
			return local.ErrDuplicateUser
		}
	}
	return r.kv.saveJSON(ctx, UsersKey, append(all, u))
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (local.UserRecord, error) {
	var all []local.UserRecord
	if err := r.kv.loadJSON(ctx, UsersKey, &all); err != nil {
		return local.UserRecord{}, err
	}
	for _, u := range all {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return local.UserRecord{}, local.ErrUserRecordNotFound
}
