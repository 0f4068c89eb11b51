package pets

import "context"

// AnyVersion desactiva el chequeo de versión en Repository.Update.
const AnyVersion int64 = 0

// Repository es el contrato común de los backends (memory, postgres, localkv).
// GetByID, Update y Delete devuelven ErrNotFound si el id no existe.
// Update con expectedVersion > 0 sólo escribe si la versión guardada coincide;
// si no, devuelve ErrConflict. AnyVersion escribe sin condición.
// Fallas de cuota se devuelven envolviendo ErrQuotaExceeded; el resto envolviendo ErrStorage.
type Repository interface {
	Create(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Pet, error)
	Update(ctx context.Context, p Pet, expectedVersion int64) error
	Delete(ctx context.Context, id string) error
}
