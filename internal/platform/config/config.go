package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageLocal    = "local"

	BlobNone   = "none"
	BlobMemory = "memory"
	BlobMinio  = "minio"
	BlobGCS    = "gcs"

	AuthDev   = "dev"
	AuthLocal = "local"
	AuthIDP   = "idp"
)

type (
	Properties struct {
		AppName   string `env:"APP_NAME" envDefault:"pet-passport"`
		LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
		LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

		// DB_DSN sin prefijo, igual que en los despliegues existentes.
		DBDSN string `env:"DB_DSN"`

		Server  HTTPServerProperties `envPrefix:"HTTP_"`
		Storage StorageProperties    `envPrefix:"STORAGE_"`
		Blob    BlobProperties       `envPrefix:"BLOB_"`
		S3      S3Properties         `envPrefix:"S3_"`
		GCS     GCSProperties        `envPrefix:"GCS_"`
		Auth    AuthProperties       `envPrefix:"AUTH_"`
		IDP     IDPProperties        `envPrefix:"IDP_"`
		Image   ImageProperties      `envPrefix:"IMAGE_"`
	}

	HTTPServerProperties struct {
		Port         string        `env:"PORT" envDefault:"8080"`
		ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
		WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
		// Origin canónico para links compartibles (https://petpass.app). Vacío = derivar del request.
		PublicOrigin string `env:"PUBLIC_ORIGIN"`
	}

	StorageProperties struct {
		Backend          string `env:"BACKEND" envDefault:"memory"`
		SQLitePath       string `env:"SQLITE_PATH" envDefault:"./data/petpass.db"`
		QuotaBytes       int64  `env:"QUOTA_BYTES" envDefault:"5242880"`
		MaxDocumentBytes int64  `env:"MAX_DOCUMENT_BYTES" envDefault:"1048576"`
	}

	BlobProperties struct {
		Backend       string `env:"BACKEND" envDefault:"none"`
		PublicBaseURL string `env:"PUBLIC_BASE_URL"`
	}

	S3Properties struct {
		Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
		AccessKey string `env:"ACCESS_KEY"`
		SecretKey string `env:"SECRET_KEY"`
		Bucket    string `env:"BUCKET" envDefault:"petpass"`
		UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
	}

	GCSProperties struct {
		Bucket          string `env:"BUCKET"`
		CredentialsFile string `env:"CREDENTIALS_FILE"`
	}

	AuthProperties struct {
		Mode      string        `env:"MODE" envDefault:"dev"`
		JWTSecret string        `env:"JWT_SECRET"`
		TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	}

	IDPProperties struct {
		BaseURL      string        `env:"BASE_URL"`
		APIKey       string        `env:"API_KEY"`
		APIKeyHeader string        `env:"API_KEY_HEADER" envDefault:"X-Api-Key"`
		Timeout      time.Duration `env:"TIMEOUT" envDefault:"5s"`
	}

	ImageProperties struct {
		MaxWidth int `env:"MAX_WIDTH" envDefault:"800"`
		// MaxPixels es ancho*alto máximo aceptado antes de decodificar.
		MaxPixels      int64 `env:"MAX_PIXELS" envDefault:"40000000"`
		MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
	}
)

// Load lee la configuración del entorno y la valida.
func Load() (*Properties, error) {
	cfg := &Properties{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("read config error: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Properties) normalize() {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	c.Blob.Backend = strings.ToLower(strings.TrimSpace(c.Blob.Backend))
	c.Auth.Mode = strings.ToLower(strings.TrimSpace(c.Auth.Mode))
	c.Server.PublicOrigin = strings.TrimRight(strings.TrimSpace(c.Server.PublicOrigin), "/")
	if c.Blob.Backend == "" {
		c.Blob.Backend = BlobNone
	}
}

// Validate rechaza combinaciones inconsistentes antes de levantar adapters.
func (c *Properties) Validate() error {
	var errs []error

	switch c.Storage.Backend {
	case StorageMemory:
	case StoragePostgres:
		if strings.TrimSpace(c.DBDSN) == "" {
			errs = append(errs, errors.New("DB_DSN required for postgres storage"))
		}
	case StorageLocal:
		if strings.TrimSpace(c.Storage.SQLitePath) == "" {
			errs = append(errs, errors.New("STORAGE_SQLITE_PATH required for local storage"))
		}
		if c.Blob.Backend != BlobNone {
			errs = append(errs, errors.New("local storage keeps images inline; BLOB_BACKEND must be none"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported STORAGE_BACKEND: %s", c.Storage.Backend))
	}

	switch c.Blob.Backend {
	case BlobNone, BlobMemory:
	case BlobMinio:
		if c.S3.AccessKey == "" || c.S3.SecretKey == "" {
			errs = append(errs, errors.New("S3_ACCESS_KEY and S3_SECRET_KEY required for minio blobs"))
		}
	case BlobGCS:
		if strings.TrimSpace(c.GCS.Bucket) == "" {
			errs = append(errs, errors.New("GCS_BUCKET required for gcs blobs"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported BLOB_BACKEND: %s", c.Blob.Backend))
	}

	switch c.Auth.Mode {
	case AuthDev:
	case AuthLocal:
		if len(c.Auth.JWTSecret) < 16 {
			errs = append(errs, errors.New("AUTH_JWT_SECRET must be at least 16 bytes for local auth"))
		}
	case AuthIDP:
		if c.IDP.BaseURL == "" || c.IDP.APIKey == "" {
			errs = append(errs, errors.New("IDP_BASE_URL and IDP_API_KEY required for idp auth"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported AUTH_MODE: %s", c.Auth.Mode))
	}

	if c.Image.MaxWidth <= 0 {
		errs = append(errs, errors.New("IMAGE_MAX_WIDTH must be positive"))
	}
	if c.Image.MaxPixels <= 0 {
		errs = append(errs, errors.New("IMAGE_MAX_PIXELS must be positive"))
	}

	return errors.Join(errs...)
}
