package blobs

import (
	"context"
	"errors"
)

// ErrQuotaExceeded: el bucket rechazó el objeto por límite de espacio o tamaño.
var ErrQuotaExceeded = errors.New("blob storage quota exceeded")

// Store guarda objetos por key y devuelve una URL estable para leerlos.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	DeletePrefix(ctx context.Context, prefix string) error
}
