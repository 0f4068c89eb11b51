package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"pet-passport/internal/domain/pets"

	"github.com/jackc/pgx/v5/pgconn"
)

// DefaultMaxDocumentBytes replica el límite de 1 MiB por documento del document store hosteado.
const DefaultMaxDocumentBytes = 1 << 20

// PetsRepo guarda cada mascota como un documento JSONB keyed por pet_id.
type PetsRepo struct {
	db     *sql.DB
	maxDoc int
}

func NewPetsRepo(db *sql.DB, maxDocumentBytes int) *PetsRepo {
	if maxDocumentBytes <= 0 {
		maxDocumentBytes = DefaultMaxDocumentBytes
	}
	return &PetsRepo{db: db, maxDoc: maxDocumentBytes}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	doc, err := r.encode(p)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pets (pet_id, owner_id, doc, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		p.PetID,
		p.OwnerID,
		string(doc),
		p.Version,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return mapError(err)
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet, expectedVersion int64) error {
	doc, err := r.encode(p)
	if err != nil {
		return err
	}

	// owner_id y created_at no se tocan: son inmutables.
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			doc = $2,
			version = $3,
			updated_at = $4
		WHERE pet_id = $1
			AND ($5::bigint <= 0 OR version = $5::bigint)
	`,
		p.PetID,
		string(doc),
		p.Version,
		p.UpdatedAt,
		expectedVersion,
	)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if n > 0 {
		return nil
	}
	if expectedVersion <= 0 {
		return pets.ErrNotFound
	}

	// 0 filas con versión esperada: distinguir id inexistente de versión vieja.
	var stored int64
	err = r.db.QueryRowContext(ctx, `SELECT version FROM pets WHERE pet_id = $1`, p.PetID).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return pets.ErrNotFound
	}
	if err != nil {
		return mapError(err)
	}
	return fmt.Errorf("%w: expected version %d, stored %d", pets.ErrConflict, expectedVersion, stored)
}

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE pet_id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}

	var doc []byte
	err := r.db.QueryRowContext(ctx, `SELECT doc FROM pets WHERE pet_id = $1`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, mapError(err)
	}
	return decode(doc)
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	ownerID = strings.TrimSpace(ownerID)
	out := make([]pets.Pet, 0)
	if ownerID == "" {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT doc
		FROM pets
		WHERE owner_id = $1
		ORDER BY created_at ASC, pet_id ASC
	`, ownerID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, mapError(err)
		}
		p, err := decode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *PetsRepo) encode(p pets.Pet) ([]byte, error) {
	doc, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("%w: encode pet: %v", pets.ErrStorage, err)
	}
	if len(doc) > r.maxDoc {
		return nil, fmt.Errorf("%w: document is %d bytes, limit %d", pets.ErrQuotaExceeded, len(doc), r.maxDoc)
	}
	return doc, nil
}

func decode(doc []byte) (pets.Pet, error) {
	var p pets.Pet
	if err := json.Unmarshal(doc, &p); err != nil {
		return pets.Pet{}, fmt.Errorf("%w: decode pet: %v", pets.ErrStorage, err)
	}
	return p, nil
}

// mapError traduce errores de Postgres a la taxonomía del dominio.
// Clases 53 (insufficient resources) y 54 (program limit exceeded) => cuota.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "53"), strings.HasPrefix(pgErr.Code, "54"):
			return fmt.Errorf("%w: %s (%s)", pets.ErrQuotaExceeded, pgErr.Message, pgErr.Code)
		case pgErr.Code == "23505":
			return fmt.Errorf("%w: pet already exists", pets.ErrStorage)
		}
	}
	return fmt.Errorf("%w: %v", pets.ErrStorage, err)
}
