package gcs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"pet-passport/internal/ports/blobs"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type Config struct {
	Bucket          string
	CredentialsFile string // vacío => Application Default Credentials
	// PublicBaseURL vacío => https://storage.googleapis.com/{bucket}
	PublicBaseURL string
}

// Store implementa blobs.Store sobre Google Cloud Storage
// (los buckets de Firebase Storage también son buckets GCS).
type Store struct {
	client     *storage.Client
	bucket     string
	publicBase string
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	c, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &Store{
		client:     c,
		bucket:     cfg.Bucket,
		publicBase: publicBaseURL(cfg),
	}, nil
}

func publicBaseURL(cfg Config) string {
	if base := strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/"); base != "" {
		return base
	}
	return "https://storage.googleapis.com/" + cfg.Bucket
}

func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", mapError(err)
	}
	if err := w.Close(); err != nil {
		return "", mapError(err)
	}
	return s.publicBase + "/" + key, nil
}

func (s *Store) DeletePrefix(ctx context.Context, prefix string) error {
	bkt := s.client.Bucket(s.bucket)
	it := bkt.Objects(ctx, &storage.Query{Prefix: prefix})

	var errs []error
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("list %s: %w", prefix, err)
		}
		if err := bkt.Object(attrs.Name).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			errs = append(errs, fmt.Errorf("delete %s: %w", attrs.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Store) Close() error {
	return s.client.Close()
}

// mapError: 413 y 429 con reason de cuota => blobs.ErrQuotaExceeded.
func mapError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Code == http.StatusRequestEntityTooLarge || isQuotaReason(gerr) {
			return fmt.Errorf("%w: %v", blobs.ErrQuotaExceeded, err)
		}
	}
	return fmt.Errorf("gcs put: %w", err)
}

func isQuotaReason(gerr *googleapi.Error) bool {
	for _, e := range gerr.Errors {
		if strings.Contains(strings.ToLower(e.Reason), "quota") {
			return true
		}
	}
	return false
}
