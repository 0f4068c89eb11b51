package pets

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"pet-passport/internal/domain/images"
)

const dateLayout = "2006-01-02"

// SplitList parte texto separado por comas: trim por segmento, descarta vacíos y
// repetidos (gana la primera aparición), preserva el orden.
func SplitList(csv string) []string {
	return NormalizeList(strings.Split(csv, ","))
}

// NormalizeList aplica la misma regla que SplitList a una lista ya partida. Es idempotente.
func NormalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}

func JoinList(items []string) string {
	return strings.Join(items, ", ")
}

// Normalize deja el registro en forma canónica antes de persistir.
func Normalize(p *Pet) {
	normalizeOwner(&p.Owner)
	normalizeProfile(&p.Profile)
	normalizeHealth(&p.Health)
	normalizeFun(&p.Fun)
	normalizeTravel(&p.Travel)

	p.Privacy = Privacy(strings.ToLower(strings.TrimSpace(string(p.Privacy))))
	if p.Privacy == "" {
		p.Privacy = PrivacyPublic
	}
}

func normalizeOwner(o *Owner) {
	o.Name = strings.TrimSpace(o.Name)
	o.Email = strings.TrimSpace(o.Email)
	o.Phone = strings.TrimSpace(o.Phone)
	o.Address = strings.TrimSpace(o.Address)
	o.PhotoURL = strings.TrimSpace(o.PhotoURL)
}

func normalizeProfile(pr *Profile) {
	pr.Name = strings.TrimSpace(pr.Name)
	pr.Species = strings.TrimSpace(pr.Species)
	pr.Breed = strings.TrimSpace(pr.Breed)
	pr.DOB = strings.TrimSpace(pr.DOB)
	pr.Color = strings.TrimSpace(pr.Color)
	pr.Weight = strings.TrimSpace(pr.Weight)
	pr.Microchip = strings.TrimSpace(pr.Microchip)
	pr.PhotoURL = strings.TrimSpace(pr.PhotoURL)
	pr.QRURL = strings.TrimSpace(pr.QRURL)
	pr.Photos = dropEmpty(pr.Photos)
	derivePhotoURL(pr)
}

// derivePhotoURL: la foto principal es siempre la primera de photos, si hay.
func derivePhotoURL(pr *Profile) {
	if len(pr.Photos) > 0 {
		pr.PhotoURL = pr.Photos[0]
	}
}

func normalizeHealth(h *Health) {
	h.Vet = strings.TrimSpace(h.Vet)
	h.Clinic = strings.TrimSpace(h.Clinic)
	h.Contact = strings.TrimSpace(h.Contact)
	h.Allergies = NormalizeList(h.Allergies)
	h.Medications = NormalizeList(h.Medications)
	h.ChronicIssues = NormalizeList(h.ChronicIssues)
	h.HealthIssues = NormalizeList(h.HealthIssues)
	h.FoodBrand = strings.TrimSpace(h.FoodBrand)
	h.TreatBrand = strings.TrimSpace(h.TreatBrand)
	h.VitaminBrand = strings.TrimSpace(h.VitaminBrand)
	h.FeedingSchedule = strings.TrimSpace(h.FeedingSchedule)
	h.VaccinationImages = dropEmpty(h.VaccinationImages)
	h.Prescriptions = dropEmpty(h.Prescriptions)
	h.Certifications = dropEmpty(h.Certifications)

	if h.Vaccinations == nil {
		h.Vaccinations = []Vaccination{}
	}
	for i := range h.Vaccinations {
		v := &h.Vaccinations[i]
		v.Name = strings.TrimSpace(v.Name)
		v.Date = strings.TrimSpace(v.Date)
		v.Expiry = strings.TrimSpace(v.Expiry)
		v.Certificate = strings.TrimSpace(v.Certificate)
	}
}

func normalizeFun(f *Fun) {
	f.Nicknames = NormalizeList(f.Nicknames)
	f.Bio = strings.TrimSpace(f.Bio)
	f.Favorites.Food = strings.TrimSpace(f.Favorites.Food)
	f.Favorites.Toy = strings.TrimSpace(f.Favorites.Toy)
	f.Quirks = strings.TrimSpace(f.Quirks)
	f.Instagram = strings.TrimSpace(f.Instagram)
	f.TikTok = strings.TrimSpace(f.TikTok)
}

func normalizeTravel(t *Travel) {
	t.PassportNumber = strings.TrimSpace(t.PassportNumber)
	t.CountryOfOrigin = strings.TrimSpace(t.CountryOfOrigin)
	t.TravelHistory = NormalizeList(t.TravelHistory)
	t.RabiesCertificate = strings.TrimSpace(t.RabiesCertificate)
	t.HealthCertificate = strings.TrimSpace(t.HealthCertificate)
}

// dropEmpty quita refs vacías sin deduplicar: dos subidas iguales son dos imágenes.
func dropEmpty(refs []string) []string {
	if refs == nil {
		return nil
	}
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// ValidationError lista todos los campos inválidos. errors.Is(err, ErrInvalidInput) == true.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidInput.Error(), strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

type fieldErrors []string

func (f *fieldErrors) required(name, v string) {
	if v == "" {
		*f = append(*f, name+" is required")
	}
}

func (f *fieldErrors) add(format string, args ...any) {
	*f = append(*f, fmt.Sprintf(format, args...))
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// ValidateForCreate chequea lo mínimo para crear un pasaporte. Espera datos ya normalizados.
func ValidateForCreate(owner Owner, profile Profile, privacy Privacy) error {
	var fe fieldErrors
	validateOwner(&fe, owner)
	validateProfile(&fe, profile)
	validatePrivacy(&fe, privacy)
	return fe.err()
}

func validateOwner(fe *fieldErrors, o Owner) {
	fe.required("owner.name", o.Name)
	fe.required("owner.email", o.Email)
	if o.Email != "" {
		if _, err := mail.ParseAddress(o.Email); err != nil {
			fe.add("owner.email is not a valid address")
		}
	}
}

func validateProfile(fe *fieldErrors, pr Profile) {
	fe.required("profile.name", pr.Name)
	fe.required("profile.species", pr.Species)
	fe.required("profile.breed", pr.Breed)
	fe.required("profile.dob", pr.DOB)
	fe.required("profile.color", pr.Color)
	fe.required("profile.weight", pr.Weight)
	if pr.DOB != "" {
		if _, err := time.Parse(dateLayout, pr.DOB); err != nil {
			fe.add("profile.dob must be YYYY-MM-DD")
		}
	}
	if len(pr.Photos) > images.MaxPetPhotos {
		fe.add("profile.photos allows at most %d entries", images.MaxPetPhotos)
	}
}

func validatePrivacy(fe *fieldErrors, p Privacy) {
	if !p.Valid() {
		fe.add("privacy must be one of public, private, invite-only")
	}
}

// validatePatch valida solo los objetos presentes en el patch.
func validatePatch(p Patch) error {
	var fe fieldErrors
	if p.Owner != nil {
		validateOwner(&fe, *p.Owner)
	}
	if p.Profile != nil {
		validateProfile(&fe, *p.Profile)
	}
	if p.Privacy != nil {
		validatePrivacy(&fe, *p.Privacy)
	}
	return fe.err()
}
