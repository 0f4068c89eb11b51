package gcs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"pet-passport/internal/ports/blobs"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t, "https://storage.googleapis.com/petpass", publicBaseURL(Config{Bucket: "petpass"}))
	assert.Equal(t, "https://cdn.example", publicBaseURL(Config{Bucket: "petpass", PublicBaseURL: "https://cdn.example/"}))
}

func TestMapError(t *testing.T) {
	tooLarge := &googleapi.Error{Code: http.StatusRequestEntityTooLarge}
	assert.ErrorIs(t, mapError(tooLarge), blobs.ErrQuotaExceeded)

	quota := fmt.Errorf("write: %w", &googleapi.Error{
		Code:   http.StatusTooManyRequests,
		Errors: []googleapi.ErrorItem{{Reason: "quotaExceeded"}},
	})
	assert.ErrorIs(t, mapError(quota), blobs.ErrQuotaExceeded)

	assert.NotErrorIs(t, mapError(&googleapi.Error{Code: http.StatusForbidden}), blobs.ErrQuotaExceeded)
	assert.NotErrorIs(t, mapError(errors.New("eof")), blobs.ErrQuotaExceeded)
}
