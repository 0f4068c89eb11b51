package memory

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutServeDelete(t *testing.T) {
	ctx := context.Background()
	s := NewStore("/blobs/")

	url, err := s.Put(ctx, "pets/p1/profile.jpg", []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "/blobs/pets/p1/profile.jpg", url)
	_, err = s.Put(ctx, "pets/p1/photos/1_0.jpg", []byte("x"), "image/jpeg")
	require.NoError(t, err)
	_, err = s.Put(ctx, "pets/p2/profile.jpg", []byte("y"), "image/jpeg")
	require.NoError(t, err)

	srv := httptest.NewServer(http.StripPrefix("/blobs", s.Handler()))
	defer srv.Close()

	res, err := http.Get(srv.URL + "/blobs/pets/p1/profile.jpg")
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "image/jpeg", res.Header.Get("Content-Type"))
	assert.Equal(t, "jpeg", string(body))

	require.NoError(t, s.DeletePrefix(ctx, "pets/p1/"))
	keys := s.Keys("pets/")
	sort.Strings(keys)
	assert.Equal(t, []string{"pets/p2/profile.jpg"}, keys)

	res, err = http.Get(srv.URL + "/blobs/pets/p1/profile.jpg")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestStore_PutHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewStore("/blobs").Put(ctx, "k", []byte("x"), "image/jpeg")
	assert.ErrorIs(t, err, context.Canceled)
}
