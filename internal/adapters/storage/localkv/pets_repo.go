package localkv

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"pet-passport/internal/domain/pets"
)

// PetsRepo guarda todas las mascotas, imágenes inline incluidas, en la key demo_pets.
type PetsRepo struct {
	kv *Store
}

func NewPetsRepo(kv *Store) *PetsRepo {
	return &PetsRepo{kv: kv}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	return r.mutate(ctx, func(all []pets.Pet) ([]pets.Pet, error) {
		for _, x := range all {
			if x.PetID == p.PetID {
				return nil, fmt.Errorf("%w: pet already exists", pets.ErrStorage)
			}
		}
		return append(all, p), nil
	})
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet, expectedVersion int64) error {
	return r.mutate(ctx, func(all []pets.Pet) ([]pets.Pet, error) {
		for i := range all {
			if all[i].PetID == p.PetID {
				if expectedVersion > 0 && all[i].Version != expectedVersion {
					return nil, fmt.Errorf("%w: expected version %d, stored %d", pets.ErrConflict, expectedVersion, all[i].Version)
				}
				all[i] = p
				return all, nil
			}
		}
		return nil, pets.ErrNotFound
	})
}

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	return r.mutate(ctx, func(all []pets.Pet) ([]pets.Pet, error) {
		for i := range all {
			if all[i].PetID == id {
				return append(all[:i], all[i+1:]...), nil
			}
		}
		return nil, pets.ErrNotFound
	})
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	all, err := r.load(ctx)
	if err != nil {
		return pets.Pet{}, err
	}
	for _, p := range all {
		if p.PetID == id {
			return p, nil
		}
	}
	return pets.Pet{}, pets.ErrNotFound
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]pets.Pet, 0)
	for _, p := range all {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *PetsRepo) load(ctx context.Context) ([]pets.Pet, error) {
	var all []pets.Pet
	if err := r.kv.loadJSON(ctx, PetsKey, &all); err != nil {
		return nil, fmt.Errorf("%w: %v", pets.ErrStorage, err)
	}
	return all, nil
}

func (r *PetsRepo) mutate(ctx context.Context, fn func([]pets.Pet) ([]pets.Pet, error)) error {
	r.kv.mu.Lock()
	defer r.kv.mu.Unlock()

	all, err := r.load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(all)
	if err != nil {
		return err
	}
	if err := r.kv.saveJSON(ctx, PetsKey, next); err != nil {
		if errors.Is(err, ErrQuotaExceeded) {
			return fmt.Errorf("%w: %v", pets.ErrQuotaExceeded, err)
		}
		return fmt.Errorf("%w: %v", pets.ErrStorage, err)
	}
	return nil
}
