package localkv

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pet-passport/internal/adapters/auth/local"
	"pet-passport/internal/domain/pets"
	"pet-passport/internal/domain/pets/petstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, quota int64) *Store {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s, err := NewStore(context.Background(), db, quota)
	require.NoError(t, err)
	return s
}

func TestPetsRepo_Contract(t *testing.T) {
	petstest.Run(t, func(t *testing.T) pets.Repository {
		return NewPetsRepo(newTestStore(t, 0))
	})
}

func TestPetsRepo_QuotaExceeded(t *testing.T) {
	ctx := context.Background()
	repo := NewPetsRepo(newTestStore(t, 4096))

	p := petstest.Sample("u1", "Fido", time.Now())
	require.NoError(t, repo.Create(ctx, p))

	// payload inline grande, como una foto sin comprimir
	big := petstest.Sample("u1", "Luna", time.Now())
	big.Profile.Photos = []string{"data:image/jpeg;base64," + strings.Repeat("A", 8192)}
	err := repo.Create(ctx, big)
	assert.ErrorIs(t, err, pets.ErrQuotaExceeded)

	// el estado previo queda intacto
	lst, err := repo.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, lst, 1)
}

func TestPetsRepo_StoresInlinePayloadVerbatim(t *testing.T) {
	ctx := context.Background()
	repo := NewPetsRepo(newTestStore(t, 0))

	p := petstest.Sample("u1", "Fido", time.Now())
	p.Profile.Photos = []string{"data:image/jpeg;base64,aGVsbG8="}
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, p.PetID)
	require.NoError(t, err)
	assert.Equal(t, []string{"data:image/jpeg;base64,aGVsbG8="}, got.Profile.Photos)
}

func TestUsersRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewUsersRepo(newTestStore(t, 0))

	require.NoError(t, repo.Create(ctx, local.UserRecord{UID: "u1", Email: "Ana@example.com"}))
	assert.ErrorIs(t, repo.Create(ctx, local.UserRecord{UID: "u2", Email: "ana@example.com"}), local.ErrDuplicateUser)

	got, err := repo.GetByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UID)

	_, err = repo.GetByEmail(ctx, "bob@example.com")
	assert.ErrorIs(t, err, local.ErrUserRecordNotFound)
}

func TestOpen_FileSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "petpass.db")

	db, err := Open(path)
	require.NoError(t, err)
	s, err := NewStore(ctx, db, 0)
	require.NoError(t, err)
	p := petstest.Sample("u1", "Fido", time.Now())
	require.NoError(t, NewPetsRepo(s).Create(ctx, p))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	s, err = NewStore(ctx, db, 0)
	require.NoError(t, err)

	got, err := NewPetsRepo(s).GetByID(ctx, p.PetID)
	require.NoError(t, err)
	assert.Equal(t, "Fido", got.Profile.Name)

	used, err := s.Usage(ctx)
	require.NoError(t, err)
	assert.Positive(t, used)
}
