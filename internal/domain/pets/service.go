package pets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-passport/internal/domain/images"
	"pet-passport/internal/platform/logger"
	"pet-passport/internal/platform/metrics"

	"github.com/google/uuid"
)

type Service struct {
	repo     Repository
	promoter ImagePromoter // nil => backend local, las imágenes quedan inline
	log      logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

type Option func(*Service)

func WithPromoter(p ImagePromoter) Option {
	return func(s *Service) { s.promoter = p }
}

func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		log:  logger.NewNop(),
		now:  time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

type CreateInput struct {
	Owner   Owner
	Profile Profile
	Health  Health
	Fun     Fun
	Travel  Travel
	Privacy Privacy
}

func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Pet, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return Pet{}, &ValidationError{Fields: []string{"ownerId is required"}}
	}

	p := Pet{
		OwnerID: ownerID,
		Owner:   in.Owner,
		Profile: in.Profile,
		Health:  in.Health,
		Fun:     in.Fun,
		Travel:  in.Travel,
		Privacy: in.Privacy,
	}
	Normalize(&p)
	if err := ValidateForCreate(p.Owner, p.Profile, p.Privacy); err != nil {
		return Pet{}, err
	}

	now := s.now()
	p.PetID = uuid.NewString()
	p.Version = 1
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.promote(ctx, &p); err != nil {
		return Pet{}, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, s.storageFailure("create", p.PetID, err)
	}

	s.metrics.IncPetsCreated()
	s.log.Info("pet created", map[string]any{"pet_id": p.PetID, "owner_id": ownerID})
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	if strings.TrimSpace(id) == "" {
		return Pet{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Pet, error) {
	if strings.TrimSpace(ownerID) == "" {
		return []Pet{}, nil
	}
	return s.repo.ListByOwner(ctx, ownerID)
}

// Update aplica un patch del dueño. Last write wins salvo que venga ExpectedVersion.
func (s *Service) Update(ctx context.Context, id, actorID string, patch Patch) (Pet, error) {
	current, err := s.ownedPet(ctx, id, actorID)
	if err != nil {
		return Pet{}, err
	}
	expected := AnyVersion
	if patch.ExpectedVersion != nil {
		expected = *patch.ExpectedVersion
		if expected != current.Version {
			return Pet{}, fmt.Errorf("%w: expected version %d, stored %d", ErrConflict, expected, current.Version)
		}
	}

	patch = patch.normalized()
	if err := validatePatch(patch); err != nil {
		return Pet{}, err
	}

	updated := Merge(current, patch, s.now())
	Normalize(&updated)

	if err := s.promote(ctx, &updated); err != nil {
		return Pet{}, err
	}

	if err := s.repo.Update(ctx, updated, expected); err != nil {
		return Pet{}, s.storageFailure("update", id, err)
	}

	s.metrics.IncPetsUpdated()
	s.log.Debug("pet updated", map[string]any{"pet_id": id, "version": updated.Version})
	return updated, nil
}

// Delete borra el registro y después, best-effort, sus blobs.
func (s *Service) Delete(ctx context.Context, id, actorID string) error {
	if _, err := s.ownedPet(ctx, id, actorID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.storageFailure("delete", id, err)
	}
	s.metrics.IncPetsDeleted()

	if s.promoter != nil {
		if err := s.promoter.Purge(ctx, id); err != nil {
			s.log.Warn("pet blobs not purged", map[string]any{"pet_id": id, "error": err.Error()})
		}
	}

	s.log.Info("pet deleted", map[string]any{"pet_id": id})
	return nil
}

func (s *Service) SetPrivacy(ctx context.Context, id, actorID string, privacy Privacy) (Pet, error) {
	return s.Update(ctx, id, actorID, Patch{Privacy: &privacy})
}

// AddPhoto agrega una foto al perfil. Con 3 fotos devuelve images.ErrPhotoLimit sin tocar nada.
func (s *Service) AddPhoto(ctx context.Context, id, actorID, ref string) (Pet, error) {
	current, err := s.ownedPet(ctx, id, actorID)
	if err != nil {
		return Pet{}, err
	}
	photos, err := images.AddPhoto(current.Profile.Photos, ref)
	if err != nil {
		return Pet{}, err
	}
	profile := current.Profile
	profile.Photos = photos
	return s.Update(ctx, id, actorID, Patch{Profile: &profile})
}

func (s *Service) RemovePhoto(ctx context.Context, id, actorID string, index int) (Pet, error) {
	current, err := s.ownedPet(ctx, id, actorID)
	if err != nil {
		return Pet{}, err
	}
	photos, ok := images.RemovePhoto(current.Profile.Photos, index)
	if !ok {
		return Pet{}, &ValidationError{Fields: []string{fmt.Sprintf("photo index %d out of range", index)}}
	}
	profile := current.Profile
	profile.Photos = photos
	profile.PhotoURL = ""
	return s.Update(ctx, id, actorID, Patch{Profile: &profile})
}

func (s *Service) SetOwnerPhoto(ctx context.Context, id, actorID, ref string) (Pet, error) {
	current, err := s.ownedPet(ctx, id, actorID)
	if err != nil {
		return Pet{}, err
	}
	owner := current.Owner
	owner.PhotoURL = ref
	return s.Update(ctx, id, actorID, Patch{Owner: &owner})
}

// AddDocuments agrega imágenes a vaccinations, prescriptions o certifications (sin tope).
func (s *Service) AddDocuments(ctx context.Context, id, actorID, category string, refs []string) (Pet, error) {
	if len(refs) == 0 {
		return Pet{}, &ValidationError{Fields: []string{"at least one image is required"}}
	}
	current, err := s.ownedPet(ctx, id, actorID)
	if err != nil {
		return Pet{}, err
	}

	health := current.Health
	switch category {
	case images.CategoryVaccinations:
		health.VaccinationImages = appendRefs(health.VaccinationImages, refs)
	case images.CategoryPrescriptions:
		health.Prescriptions = appendRefs(health.Prescriptions, refs)
	case images.CategoryCertifications:
		health.Certifications = appendRefs(health.Certifications, refs)
	default:
		return Pet{}, &ValidationError{Fields: []string{"unknown document category " + category}}
	}
	return s.Update(ctx, id, actorID, Patch{Health: &health})
}

// View aplica la política de visibilidad. viewerID vacío = visitante anónimo.
func (s *Service) View(ctx context.Context, id, viewerID string) (View, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return View{}, err
	}
	isOwner := viewerID != "" && viewerID == p.OwnerID
	return Render(p, isOwner), nil
}

// Share devuelve el link público y su QR. Solo el dueño.
func (s *Service) Share(ctx context.Context, id, actorID, origin string) (ShareLink, error) {
	p, err := s.ownedPet(ctx, id, actorID)
	if err != nil {
		return ShareLink{}, err
	}
	return NewShareLink(origin, p.PetID)
}

func (s *Service) ownedPet(ctx context.Context, id, actorID string) (Pet, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	if strings.TrimSpace(actorID) == "" || p.OwnerID != actorID {
		return Pet{}, ErrForbidden
	}
	return p, nil
}

func (s *Service) promote(ctx context.Context, p *Pet) error {
	if s.promoter == nil {
		return nil
	}
	n, err := promoteImages(ctx, s.promoter, p)
	s.metrics.AddImagesPromoted(n)
	if err != nil {
		if errors.Is(err, images.ErrQuotaExceeded) {
			s.metrics.IncStorageFailure("quota")
			return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
		}
		if errors.Is(err, images.ErrInvalidInline) {
			return &ValidationError{Fields: []string{err.Error()}}
		}
		s.metrics.IncStorageFailure("storage")
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// storageFailure clasifica el error del repo para métricas/logs. No cambia el error.
func (s *Service) storageFailure(op, petID string, err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict):
		return err
	case errors.Is(err, ErrQuotaExceeded):
		s.metrics.IncStorageFailure("quota")
	default:
		s.metrics.IncStorageFailure("storage")
		if !errors.Is(err, ErrStorage) {
			err = fmt.Errorf("%w: %v", ErrStorage, err)
		}
	}
	s.log.Error("pet "+op+" failed", map[string]any{"pet_id": petID, "error": err.Error()})
	return err
}

func appendRefs(existing, refs []string) []string {
	out := make([]string, 0, len(existing)+len(refs))
	out = append(out, existing...)
	return append(out, refs...)
}
