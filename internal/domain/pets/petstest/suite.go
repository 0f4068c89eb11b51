package petstest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"pet-passport/internal/domain/pets"

	"github.com/google/uuid"
)

// Run ejercita el contrato de pets.Repository. makeRepo debe devolver un repo limpio y aislado.
func Run(t *testing.T, makeRepo func(t *testing.T) pets.Repository) {
	t.Helper()

	r := makeRepo(t)
	ctx := context.Background()

	ownerID := "u-" + uuid.NewString()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	p1 := Sample(ownerID, "Fido", base)
	p2 := Sample(ownerID, "Luna", base.Add(time.Minute))
	other := Sample("u-"+uuid.NewString(), "Rex", base)

	// Create + GetByID
	for _, p := range []pets.Pet{p2, p1, other} {
		if err := r.Create(ctx, p); err != nil {
			t.Fatalf("Create %s: %v", p.Profile.Name, err)
		}
	}
	got, err := r.GetByID(ctx, p1.PetID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Profile.Name != "Fido" || got.OwnerID != ownerID || got.Version != 1 {
		t.Fatalf("GetByID: unexpected record %+v", got)
	}
	if !got.CreatedAt.Equal(p1.CreatedAt) || !got.UpdatedAt.Equal(p1.UpdatedAt) {
		t.Fatalf("GetByID: timestamps changed: %v %v", got.CreatedAt, got.UpdatedAt)
	}
	if len(got.Health.Allergies) != 2 || got.Health.Allergies[1] != "pollen" {
		t.Fatalf("GetByID: lists not preserved: %v", got.Health.Allergies)
	}

	// ListByOwner: solo del dueño, por createdAt asc
	lst, err := r.ListByOwner(ctx, ownerID)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(lst) != 2 || lst[0].PetID != p1.PetID || lst[1].PetID != p2.PetID {
		t.Fatalf("ListByOwner: got %d records, want [Fido Luna]", len(lst))
	}
	if empty, err := r.ListByOwner(ctx, "u-nobody"); err != nil || len(empty) != 0 {
		t.Fatalf("ListByOwner(unknown): n=%d err=%v", len(empty), err)
	}

	// Update
	upd := got
	upd.Profile.Weight = "13kg"
	upd.Privacy = pets.PrivacyPrivate
	upd.Version = 2
	upd.UpdatedAt = base.Add(time.Hour)
	if err := r.Update(ctx, upd, 1); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err = r.GetByID(ctx, p1.PetID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if got.Profile.Weight != "13kg" || got.Privacy != pets.PrivacyPrivate || got.Version != 2 {
		t.Fatalf("Update not applied: %+v", got)
	}

	missing := Sample(ownerID, "Ghost", base)
	if err := r.Update(ctx, missing, pets.AnyVersion); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("Update(missing): want ErrNotFound, got %v", err)
	}
	if err := r.Update(ctx, missing, 1); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("Update(missing, v1): want ErrNotFound, got %v", err)
	}

	// Versión vieja: conflicto y el registro queda intacto.
	stale := got
	stale.Profile.Weight = "99kg"
	stale.Version = 3
	if err := r.Update(ctx, stale, 1); !errors.Is(err, pets.ErrConflict) {
		t.Fatalf("Update(stale): want ErrConflict, got %v", err)
	}
	got, err = r.GetByID(ctx, p1.PetID)
	if err != nil {
		t.Fatalf("GetByID after stale update: %v", err)
	}
	if got.Profile.Weight != "13kg" || got.Version != 2 {
		t.Fatalf("stale update was applied: %+v", got)
	}

	runConcurrentUpdates(t, r, got)

	// Delete
	if err := r.Delete(ctx, p1.PetID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := r.GetByID(ctx, p1.PetID); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("GetByID after delete: want ErrNotFound, got %v", err)
	}
	if err := r.Delete(ctx, p1.PetID); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("Delete twice: want ErrNotFound, got %v", err)
	}
	lst, err = r.ListByOwner(ctx, ownerID)
	if err != nil || len(lst) != 1 || lst[0].PetID != p2.PetID {
		t.Fatalf("ListByOwner after delete: n=%d err=%v", len(lst), err)
	}
}

// runConcurrentUpdates lanza varias escrituras con la misma versión esperada:
// exactamente una gana y el resto recibe ErrConflict.
func runConcurrentUpdates(t *testing.T, r pets.Repository, current pets.Pet) {
	t.Helper()
	ctx := context.Background()

	const writers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		winners   []string
		conflicts int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			next := current.Clone()
			next.Version = current.Version + 1
			next.Fun.Bio = fmt.Sprintf("writer-%d", i)
			err := r.Update(ctx, next, current.Version)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners = append(winners, next.Fun.Bio)
			case errors.Is(err, pets.ErrConflict):
				conflicts++
			default:
				t.Errorf("concurrent Update: unexpected error %v", err)
			}
		}(i)
	}
	wg.Wait()

	if len(winners) != 1 || conflicts != writers-1 {
		t.Fatalf("concurrent Update: winners=%v conflicts=%d", winners, conflicts)
	}
	got, err := r.GetByID(ctx, current.PetID)
	if err != nil {
		t.Fatalf("GetByID after concurrent update: %v", err)
	}
	if got.Version != current.Version+1 || got.Fun.Bio != winners[0] {
		t.Fatalf("concurrent Update: stored version=%d bio=%q, winner %q", got.Version, got.Fun.Bio, winners[0])
	}
}

// Sample arma una mascota válida y normalizada para tests.
func Sample(ownerID, name string, at time.Time) pets.Pet {
	p := pets.Pet{
		PetID:   uuid.NewString(),
		OwnerID: ownerID,
		Owner:   pets.Owner{Name: "Ana", Email: "ana@example.com", Phone: "555-0100"},
		Profile: pets.Profile{
			Name:    name,
			Species: "Dog",
			Breed:   "Mix",
			DOB:     "2020-01-01",
			Color:   "Brown",
			Weight:  "12kg",
		},
		Health: pets.Health{
			Vet:       "Dr. Vet",
			Allergies: pets.TextList{"chicken", "pollen"},
		},
		Fun:       pets.Fun{Bio: "Good dog"},
		Travel:    pets.Travel{CountryOfOrigin: "AR"},
		Version:   1,
		CreatedAt: at,
		UpdatedAt: at,
	}
	pets.Normalize(&p)
	return p
}
