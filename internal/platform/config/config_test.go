package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "pet-passport", cfg.AppName)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StorageMemory, cfg.Storage.Backend)
	assert.Equal(t, BlobNone, cfg.Blob.Backend)
	assert.Equal(t, AuthDev, cfg.Auth.Mode)
	assert.Equal(t, int64(5<<20), cfg.Storage.QuotaBytes)
	assert.Equal(t, int64(1<<20), cfg.Storage.MaxDocumentBytes)
	assert.Equal(t, 800, cfg.Image.MaxWidth)
	assert.Equal(t, int64(40_000_000), cfg.Image.MaxPixels)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "Postgres")
	t.Setenv("DB_DSN", "postgres://u:p@localhost:5432/petpass")
	t.Setenv("BLOB_BACKEND", "minio")
	t.Setenv("S3_ACCESS_KEY", "ak")
	t.Setenv("S3_SECRET_KEY", "sk")
	t.Setenv("AUTH_MODE", "local")
	t.Setenv("AUTH_JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("HTTP_PUBLIC_ORIGIN", "https://petpass.example/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, cfg.Storage.Backend)
	assert.Equal(t, BlobMinio, cfg.Blob.Backend)
	assert.Equal(t, AuthLocal, cfg.Auth.Mode)
	assert.Equal(t, "https://petpass.example", cfg.Server.PublicOrigin)
}

func TestValidate_RejectsInconsistentCombinations(t *testing.T) {
	cases := []struct {
		name string
		mut  func(c *Properties)
	}{
		{"postgres without dsn", func(c *Properties) { c.Storage.Backend = StoragePostgres }},
		{"local with blobs", func(c *Properties) {
			c.Storage.Backend = StorageLocal
			c.Blob.Backend = BlobMemory
		}},
		{"unknown storage", func(c *Properties) { c.Storage.Backend = "mongo" }},
		{"minio without keys", func(c *Properties) { c.Blob.Backend = BlobMinio }},
		{"gcs without bucket", func(c *Properties) { c.Blob.Backend = BlobGCS }},
		{"local auth short secret", func(c *Properties) {
			c.Auth.Mode = AuthLocal
			c.Auth.JWTSecret = "short"
		}},
		{"idp without url", func(c *Properties) { c.Auth.Mode = AuthIDP }},
		{"zero width", func(c *Properties) { c.Image.MaxWidth = 0 }},
		{"zero pixels", func(c *Properties) { c.Image.MaxPixels = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tc.mut(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
