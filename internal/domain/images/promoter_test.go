package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/jpeg"
	"sort"
	"sync"
	"testing"
	"time"

	"pet-passport/internal/ports/blobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	putErr  error
	purged  []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *fakeStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return "", s.putErr
	}
	s.objects[key] = data
	s.types[key] = contentType
	return "https://blobs.test/" + key, nil
}

func (s *fakeStore) DeletePrefix(ctx context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purged = append(s.purged, prefix)
	return nil
}

func (s *fakeStore) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.objects))
	for k := range s.objects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var tinyJPEG = func() []byte {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2)), nil); err != nil {
		panic(err)
	}
	return buf.Bytes()
}()

var inlineJPEG = "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(tinyJPEG)

func newTestPromoter(store blobs.Store) *Promoter {
	p := NewPromoter(store)
	p.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return p
}

func TestPromoteSingle(t *testing.T) {
	store := newFakeStore()
	p := newTestPromoter(store)

	url, promoted, err := p.PromoteSingle(context.Background(), "p1", "profile", inlineJPEG)
	require.NoError(t, err)
	assert.True(t, promoted)
	assert.Equal(t, "https://blobs.test/pets/p1/profile.jpg", url)
	assert.Equal(t, tinyJPEG, store.objects["pets/p1/profile.jpg"])

	url, promoted, err = p.PromoteSingle(context.Background(), "p1", "profile", url)
	require.NoError(t, err)
	assert.False(t, promoted)
	assert.Equal(t, "https://blobs.test/pets/p1/profile.jpg", url)
}

func TestPromoteSingle_StoresSniffedImageTypeOnly(t *testing.T) {
	store := newFakeStore()
	p := newTestPromoter(store)

	_, _, err := p.PromoteSingle(context.Background(), "p1", "profile", inlineJPEG)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", store.types["pets/p1/profile.jpg"])

	html := base64.StdEncoding.EncodeToString([]byte("<html><body onload=alert(1)></body></html>"))
	for _, ref := range []string{"data:text/html;base64," + html, "data:image/jpeg;base64," + html} {
		_, _, err = p.PromoteSingle(context.Background(), "p2", "owner", ref)
		assert.ErrorIs(t, err, ErrInvalidInline)
	}
	assert.Equal(t, []string{"pets/p1/profile.jpg"}, store.keys())
}

func TestPromoteList_KeepsRemoteAndAppendsUploaded(t *testing.T) {
	store := newFakeStore()
	p := newTestPromoter(store)

	refs := []string{inlineJPEG, "https://old/1.jpg", inlineJPEG}
	out, n, err := p.PromoteList(context.Background(), "p1", CategoryVaccinations, refs)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{
		"https://old/1.jpg",
		"https://blobs.test/pets/p1/vaccinations/1700000000000_0.jpg",
		"https://blobs.test/pets/p1/vaccinations/1700000000000_2.jpg",
	}, out)
	assert.Equal(t, []string{
		"pets/p1/vaccinations/1700000000000_0.jpg",
		"pets/p1/vaccinations/1700000000000_2.jpg",
	}, store.keys())
}

func TestPromoteList_QuotaSurfacesAsQuotaExceeded(t *testing.T) {
	store := newFakeStore()
	store.putErr = errors.Join(blobs.ErrQuotaExceeded, errors.New("bucket full"))
	p := newTestPromoter(store)

	_, _, err := p.PromoteList(context.Background(), "p1", CategoryPrescriptions, []string{inlineJPEG})
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestPurge(t *testing.T) {
	store := newFakeStore()
	p := newTestPromoter(store)

	require.NoError(t, p.Purge(context.Background(), "p1"))
	assert.Equal(t, []string{"pets/p1/"}, store.purged)
	assert.Error(t, p.Purge(context.Background(), " "))
}
