package pets

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/jpeg"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"pet-passport/internal/domain/images"
	"pet-passport/internal/platform/metrics"
	"pet-passport/internal/ports/blobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	mu      sync.Mutex
	byID    map[string]Pet
	failErr error
	// beforeUpdate corre con el lock tomado, antes del chequeo de versión.
	beforeUpdate func(stored *Pet)
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Pet{}}
}

func (r *testRepo) Create(ctx context.Context, p Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	r.byID[p.PetID] = p.Clone()
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	return p.Clone(), nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerID string) ([]Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Pet, 0)
	for _, p := range r.byID {
		if p.OwnerID == ownerID {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, p Pet, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	stored, ok := r.byID[p.PetID]
	if !ok {
		return ErrNotFound
	}
	if r.beforeUpdate != nil {
		r.beforeUpdate(&stored)
		r.byID[p.PetID] = stored
	}
	if expectedVersion > 0 && stored.Version != expectedVersion {
		return ErrConflict
	}
	r.byID[p.PetID] = p.Clone()
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// -------------------------
// Test blob store
// -------------------------

type testBlobs struct {
	mu       sync.Mutex
	objects  map[string][]byte
	purged   []string
	quota    bool
	purgeErr error
}

func newTestBlobs() *testBlobs {
	return &testBlobs{objects: map[string][]byte{}}
}

func (b *testBlobs) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.quota {
		return "", blobs.ErrQuotaExceeded
	}
	b.objects[key] = data
	return "https://blobs.test/" + key, nil
}

func (b *testBlobs) DeletePrefix(ctx context.Context, prefix string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.purged = append(b.purged, prefix)
	if b.purgeErr != nil {
		return b.purgeErr
	}
	for k := range b.objects {
		if strings.HasPrefix(k, prefix) {
			delete(b.objects, k)
		}
	}
	return nil
}

var inlineJPEG = func() string {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2)), nil); err != nil {
		panic(err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}()

func fidoInput() CreateInput {
	return CreateInput{
		Owner:   Owner{Name: "Ana", Email: "ana@example.com"},
		Profile: Profile{Name: "Fido", Species: "Dog", Breed: "Mix", DOB: "2020-01-01", Color: "Brown", Weight: "12kg"},
		Health:  Health{Allergies: TextList{"chicken", " pollen", ""}},
		Fun:     Fun{Bio: "Good boy"},
	}
}

func newTestService(repo Repository, opts ...Option) *Service {
	s := NewService(repo, opts...)
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	s.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t0 = t0.Add(time.Second)
		return t0
	}
	return s
}

func TestCreate_NormalizesAndAssignsMetadata(t *testing.T) {
	repo := newTestRepo()
	s := newTestService(repo)

	p, err := s.Create(context.Background(), "u1", fidoInput())
	require.NoError(t, err)

	assert.NotEmpty(t, p.PetID)
	assert.Equal(t, "u1", p.OwnerID)
	assert.Equal(t, int64(1), p.Version)
	assert.Equal(t, PrivacyPublic, p.Privacy)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
	assert.Equal(t, TextList{"chicken", "pollen"}, p.Health.Allergies)

	stored, err := repo.GetByID(context.Background(), p.PetID)
	require.NoError(t, err)
	assert.Equal(t, p.Profile.Name, stored.Profile.Name)
}

func TestCreate_RejectsInvalidInput(t *testing.T) {
	s := newTestService(newTestRepo())

	_, err := s.Create(context.Background(), "", fidoInput())
	assert.ErrorIs(t, err, ErrInvalidInput)

	in := fidoInput()
	in.Profile.Name = "  "
	_, err = s.Create(context.Background(), "u1", in)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreate_StorageFailuresAreWrapped(t *testing.T) {
	repo := newTestRepo()
	repo.failErr = errors.New("disk on fire")
	s := newTestService(repo, WithMetrics(metrics.New()))

	_, err := s.Create(context.Background(), "u1", fidoInput())
	assert.ErrorIs(t, err, ErrStorage)

	repo.failErr = ErrQuotaExceeded
	_, err = s.Create(context.Background(), "u1", fidoInput())
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.NotErrorIs(t, err, ErrStorage)
}

func TestCreate_PromotesInlineImages(t *testing.T) {
	store := newTestBlobs()
	s := newTestService(newTestRepo(), WithPromoter(images.NewPromoter(store)))

	in := fidoInput()
	in.Owner.PhotoURL = inlineJPEG
	in.Profile.Photos = []string{inlineJPEG, "https://cdn.test/keep.jpg"}
	in.Health.Vaccinations = []Vaccination{{Name: "Rabies", Date: "2024-01-01", Certificate: inlineJPEG}}
	in.Travel.RabiesCertificate = inlineJPEG

	p, err := s.Create(context.Background(), "u1", in)
	require.NoError(t, err)

	prefix := "https://blobs.test/pets/" + p.PetID + "/"
	assert.Equal(t, prefix+"owner.jpg", p.Owner.PhotoURL)
	require.Len(t, p.Profile.Photos, 2)
	assert.Equal(t, "https://cdn.test/keep.jpg", p.Profile.Photos[0])
	assert.True(t, strings.HasPrefix(p.Profile.Photos[1], prefix+"photos/"))
	assert.Equal(t, p.Profile.Photos[0], p.Profile.PhotoURL)
	assert.Equal(t, prefix+"vaccinations/certificate_0.jpg", p.Health.Vaccinations[0].Certificate)
	assert.Equal(t, prefix+"rabies_certificate.jpg", p.Travel.RabiesCertificate)
	assert.Len(t, store.objects, 4)
}

func TestCreate_RejectsNonImageInlinePayload(t *testing.T) {
	store := newTestBlobs()
	repo := newTestRepo()
	s := newTestService(repo, WithPromoter(images.NewPromoter(store)))

	in := fidoInput()
	in.Profile.Photos = []string{"data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte("<script>alert(1)</script>"))}
	_, err := s.Create(context.Background(), "u1", in)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, store.objects)
	assert.Empty(t, repo.byID)
}

func TestCreate_BlobQuota(t *testing.T) {
	store := newTestBlobs()
	store.quota = true
	repo := newTestRepo()
	s := newTestService(repo, WithPromoter(images.NewPromoter(store)))

	in := fidoInput()
	in.Owner.PhotoURL = inlineJPEG
	_, err := s.Create(context.Background(), "u1", in)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Empty(t, repo.byID)
}

func TestUpdate_ShallowMergeAndVersion(t *testing.T) {
	s := newTestService(newTestRepo())
	ctx := context.Background()

	p, err := s.Create(ctx, "u1", fidoInput())
	require.NoError(t, err)

	up, err := s.Update(ctx, p.PetID, "u1", Patch{Fun: &Fun{Nicknames: TextList{"Fi", "Fi "}}})
	require.NoError(t, err)

	assert.Equal(t, int64(2), up.Version)
	assert.True(t, up.UpdatedAt.After(p.UpdatedAt))
	assert.Equal(t, p.CreatedAt, up.CreatedAt)
	assert.Equal(t, TextList{"Fi"}, up.Fun.Nicknames)
	assert.Empty(t, up.Fun.Bio) // el objeto fun se reemplaza entero
	assert.Equal(t, p.Health.Allergies, up.Health.Allergies)

	got, err := s.GetByID(ctx, p.PetID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
}

func TestUpdate_OwnershipAndConflicts(t *testing.T) {
	s := newTestService(newTestRepo())
	ctx := context.Background()

	p, err := s.Create(ctx, "u1", fidoInput())
	require.NoError(t, err)

	_, err = s.Update(ctx, p.PetID, "intruder", Patch{Fun: &Fun{}})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = s.Update(ctx, "missing", "u1", Patch{Fun: &Fun{}})
	assert.ErrorIs(t, err, ErrNotFound)

	stale := int64(7)
	_, err = s.Update(ctx, p.PetID, "u1", Patch{Fun: &Fun{}, ExpectedVersion: &stale})
	assert.ErrorIs(t, err, ErrConflict)

	current := int64(1)
	_, err = s.Update(ctx, p.PetID, "u1", Patch{Fun: &Fun{}, ExpectedVersion: &current})
	assert.NoError(t, err)

	bad := Privacy("friends")
	_, err = s.Update(ctx, p.PetID, "u1", Patch{Privacy: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdate_ExpectedVersionCheckedAtWrite(t *testing.T) {
	repo := newTestRepo()
	s := newTestService(repo, WithMetrics(metrics.New()))
	ctx := context.Background()

	p, err := s.Create(ctx, "u1", fidoInput())
	require.NoError(t, err)

	// Otro request escribe entre la lectura del servicio y su escritura.
	repo.beforeUpdate = func(stored *Pet) {
		stored.Version++
		stored.Fun.Bio = "other writer"
	}
	v1 := int64(1)
	_, err = s.Update(ctx, p.PetID, "u1", Patch{Fun: &Fun{Bio: "mine"}, ExpectedVersion: &v1})
	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrStorage)

	repo.beforeUpdate = nil
	got, err := s.GetByID(ctx, p.PetID)
	require.NoError(t, err)
	assert.Equal(t, "other writer", got.Fun.Bio)
	assert.Equal(t, int64(2), got.Version)
}

func TestUpdate_ConcurrentSameVersionOnlyOneWins(t *testing.T) {
	s := newTestService(newTestRepo())
	ctx := context.Background()

	p, err := s.Create(ctx, "u1", fidoInput())
	require.NoError(t, err)

	const writers = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		blocked int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := p.Version
			_, err := s.Update(ctx, p.PetID, "u1", Patch{Fun: &Fun{Bio: "concurrent"}, ExpectedVersion: &v})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, ErrConflict) {
				blocked++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, writers-1, blocked)

	got, err := s.GetByID(ctx, p.PetID)
	require.NoError(t, err)
	assert.Equal(t, p.Version+1, got.Version)
}

func TestPhotos_CapAndRemove(t *testing.T) {
	s := newTestService(newTestRepo())
	ctx := context.Background()

	p, err := s.Create(ctx, "u1", fidoInput())
	require.NoError(t, err)

	for _, u := range []string{"https://x/1.jpg", "https://x/2.jpg", "https://x/3.jpg"} {
		p, err = s.AddPhoto(ctx, p.PetID, "u1", u)
		require.NoError(t, err)
	}
	assert.Equal(t, "https://x/1.jpg", p.Profile.PhotoURL)

	_, err = s.AddPhoto(ctx, p.PetID, "u1", "https://x/4.jpg")
	assert.ErrorIs(t, err, images.ErrPhotoLimit)

	got, err := s.GetByID(ctx, p.PetID)
	require.NoError(t, err)
	assert.Len(t, got.Profile.Photos, 3)

	p, err = s.RemovePhoto(ctx, p.PetID, "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://x/2.jpg", "https://x/3.jpg"}, p.Profile.Photos)
	assert.Equal(t, "https://x/2.jpg", p.Profile.PhotoURL)

	_, err = s.RemovePhoto(ctx, p.PetID, "u1", 5)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddDocuments(t *testing.T) {
	s := newTestService(newTestRepo())
	ctx := context.Background()

	p, err := s.Create(ctx, "u1", fidoInput())
	require.NoError(t, err)

	p, err = s.AddDocuments(ctx, p.PetID, "u1", images.CategoryPrescriptions, []string{"https://x/rx.jpg"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://x/rx.jpg"}, p.Health.Prescriptions)

	_, err = s.AddDocuments(ctx, p.PetID, "u1", "xrays", []string{"https://x/a.jpg"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.AddDocuments(ctx, p.PetID, "u1", images.CategoryCertifications, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDelete_PurgesBlobsBestEffort(t *testing.T) {
	store := newTestBlobs()
	repo := newTestRepo()
	s := newTestService(repo, WithPromoter(images.NewPromoter(store)))
	ctx := context.Background()

	p, err := s.Create(ctx, "u1", fidoInput())
	require.NoError(t, err)

	assert.ErrorIs(t, s.Delete(ctx, p.PetID, "intruder"), ErrForbidden)

	store.purgeErr = errors.New("bucket unavailable")
	require.NoError(t, s.Delete(ctx, p.PetID, "u1"))
	assert.Equal(t, []string{"pets/" + p.PetID + "/"}, store.purged)

	_, err = s.GetByID(ctx, p.PetID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, p.PetID, "u1"), ErrNotFound)
}

func TestView(t *testing.T) {
	s := newTestService(newTestRepo())
	ctx := context.Background()

	p, err := s.Create(ctx, "u1", fidoInput())
	require.NoError(t, err)

	v, err := s.View(ctx, p.PetID, "u1")
	require.NoError(t, err)
	assert.Equal(t, ViewFull, v.Mode)

	v, err = s.View(ctx, p.PetID, "")
	require.NoError(t, err)
	assert.Equal(t, ViewPublic, v.Mode)

	_, err = s.SetPrivacy(ctx, p.PetID, "u1", PrivacyPrivate)
	require.NoError(t, err)
	v, err = s.View(ctx, p.PetID, "u2")
	require.NoError(t, err)
	assert.Equal(t, ViewDenied, v.Mode)

	_, err = s.View(ctx, "missing", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShare_OwnerOnly(t *testing.T) {
	s := newTestService(newTestRepo())
	ctx := context.Background()

	p, err := s.Create(ctx, "u1", fidoInput())
	require.NoError(t, err)

	link, err := s.Share(ctx, p.PetID, "u1", "https://petpass.app")
	require.NoError(t, err)
	assert.Equal(t, "https://petpass.app/pets/"+p.PetID, link.URL)

	_, err = s.Share(ctx, p.PetID, "u2", "https://petpass.app")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListByOwner(t *testing.T) {
	s := newTestService(newTestRepo())
	ctx := context.Background()

	a, err := s.Create(ctx, "u1", fidoInput())
	require.NoError(t, err)
	b, err := s.Create(ctx, "u1", fidoInput())
	require.NoError(t, err)
	_, err = s.Create(ctx, "u2", fidoInput())
	require.NoError(t, err)

	lst, err := s.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lst, 2)
	assert.Equal(t, a.PetID, lst[0].PetID)
	assert.Equal(t, b.PetID, lst[1].PetID)

	empty, err := s.ListByOwner(ctx, " ")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
