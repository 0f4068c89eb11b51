package images

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-passport/internal/ports/blobs"
)

// Categorías de documentos con layout pets/{id}/{category}/{ts}_{i}.jpg
const (
	CategoryPhotos         = "photos"
	CategoryVaccinations   = "vaccinations"
	CategoryPrescriptions  = "prescriptions"
	CategoryCertifications = "certifications"
)

var ErrQuotaExceeded = errors.New("image storage quota exceeded")

// Promoter sube payloads inline a blob storage y devuelve la URL que los reemplaza.
// No deduplica: subir dos veces los mismos bytes genera dos objetos.
type Promoter struct {
	store blobs.Store
	now   func() time.Time
}

func NewPromoter(store blobs.Store) *Promoter {
	return &Promoter{store: store, now: time.Now}
}

// PetPrefix es la raíz de todos los blobs de una mascota.
func PetPrefix(petID string) string {
	return "pets/" + petID + "/"
}

func SingleKey(petID, name string) string {
	return PetPrefix(petID) + name + ".jpg"
}

func ListKey(petID, category string, ts time.Time, index int) string {
	return fmt.Sprintf("%s%s/%d_%d.jpg", PetPrefix(petID), category, ts.UnixMilli(), index)
}

// PromoteSingle sube ref a pets/{id}/{name}.jpg. Refs no inline se devuelven tal cual.
func (p *Promoter) PromoteSingle(ctx context.Context, petID, name, ref string) (string, bool, error) {
	if !IsInline(ref) {
		return ref, false, nil
	}
	url, err := p.put(ctx, SingleKey(petID, name), ref)
	if err != nil {
		return "", false, err
	}
	return url, true, nil
}

// PromoteList mantiene las refs remotas existentes y les agrega al final las
// URLs de los payloads inline recién subidos. Devuelve cuántos se subieron.
func (p *Promoter) PromoteList(ctx context.Context, petID, category string, refs []string) ([]string, int, error) {
	ts := p.now()

	kept := make([]string, 0, len(refs))
	uploaded := make([]string, 0)
	for i, ref := range refs {
		if !IsInline(ref) {
			kept = append(kept, ref)
			continue
		}
		url, err := p.put(ctx, ListKey(petID, category, ts, i), ref)
		if err != nil {
			return nil, 0, err
		}
		uploaded = append(uploaded, url)
	}
	return append(kept, uploaded...), len(uploaded), nil
}

// Purge borra todo lo subido para la mascota.
func (p *Promoter) Purge(ctx context.Context, petID string) error {
	if strings.TrimSpace(petID) == "" {
		return errors.New("pet id required")
	}
	return p.store.DeletePrefix(ctx, PetPrefix(petID))
}

func (p *Promoter) put(ctx context.Context, key, ref string) (string, error) {
	data, contentType, err := DecodeInline(ref)
	if err != nil {
		return "", err
	}
	url, err := p.store.Put(ctx, key, data, contentType)
	if err != nil {
		if errors.Is(err, blobs.ErrQuotaExceeded) {
			return "", fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return url, nil
}
