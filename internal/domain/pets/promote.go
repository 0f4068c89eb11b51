package pets

import (
	"context"
	"fmt"

	"pet-passport/internal/domain/images"
)

// ImagePromoter mueve imágenes inline a blob storage (backend remoto).
type ImagePromoter interface {
	PromoteSingle(ctx context.Context, petID, name, ref string) (string, bool, error)
	PromoteList(ctx context.Context, petID, category string, refs []string) ([]string, int, error)
	Purge(ctx context.Context, petID string) error
}

// promoteImages reemplaza cada payload inline del registro por su URL remota.
// Devuelve la cantidad de imágenes subidas.
func promoteImages(ctx context.Context, pr ImagePromoter, p *Pet) (int, error) {
	total := 0

	single := func(name string, ref *string) error {
		url, ok, err := pr.PromoteSingle(ctx, p.PetID, name, *ref)
		if err != nil {
			return err
		}
		if ok {
			*ref = url
			total++
		}
		return nil
	}
	list := func(category string, refs *[]string) error {
		if !hasInline(*refs) {
			return nil
		}
		out, n, err := pr.PromoteList(ctx, p.PetID, category, *refs)
		if err != nil {
			return err
		}
		*refs = out
		total += n
		return nil
	}

	if err := single("owner", &p.Owner.PhotoURL); err != nil {
		return total, err
	}

	if err := list(images.CategoryPhotos, &p.Profile.Photos); err != nil {
		return total, err
	}
	if len(p.Profile.Photos) > 0 {
		p.Profile.PhotoURL = p.Profile.Photos[0]
	} else if err := single("profile", &p.Profile.PhotoURL); err != nil {
		return total, err
	}

	if err := list(images.CategoryVaccinations, &p.Health.VaccinationImages); err != nil {
		return total, err
	}
	if err := list(images.CategoryPrescriptions, &p.Health.Prescriptions); err != nil {
		return total, err
	}
	if err := list(images.CategoryCertifications, &p.Health.Certifications); err != nil {
		return total, err
	}
	for i := range p.Health.Vaccinations {
		name := fmt.Sprintf("%s/certificate_%d", images.CategoryVaccinations, i)
		if err := single(name, &p.Health.Vaccinations[i].Certificate); err != nil {
			return total, err
		}
	}

	if err := single("rabies_certificate", &p.Travel.RabiesCertificate); err != nil {
		return total, err
	}
	if err := single("health_certificate", &p.Travel.HealthCertificate); err != nil {
		return total, err
	}

	return total, nil
}

func hasInline(refs []string) bool {
	for _, r := range refs {
		if images.IsInline(r) {
			return true
		}
	}
	return false
}
