package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pet-passport/internal/adapters/auth/local"

	"github.com/jackc/pgx/v5/pgconn"
)

// UsersRepo guarda los usuarios del IdP local. El email es único sin distinguir mayúsculas.
type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Create(ctx context.Context, u local.UserRecord) error {
	const q = `
		INSERT INTO users (uid, email, display_name, password_hash, provider, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, q,
		u.UID, strings.TrimSpace(u.Email), u.DisplayName, u.PasswordHash, u.Provider, u.CreatedAt.UTC(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return local.ErrDuplicateUser
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (local.UserRecord, error) {
	const q = `
		SELECT uid, email, display_name, password_hash, provider, created_at
		FROM users
		WHERE lower(email) = lower($1)
	`
	var u local.UserRecord
	err := r.db.QueryRowContext(ctx, q, strings.TrimSpace(email)).Scan(
		&u.UID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.Provider, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return local.UserRecord{}, local.ErrUserRecordNotFound
	}
	if err != nil {
		return local.UserRecord{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}
