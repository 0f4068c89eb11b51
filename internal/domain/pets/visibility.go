package pets

// ViewMode es el resultado de la política de visibilidad.
type ViewMode string

const (
	ViewFull   ViewMode = "full"
	ViewPublic ViewMode = "public"
	ViewDenied ViewMode = "denied"
)

// PublicBioMaxRunes: largo máximo del bio en la vista pública (sin contar "...").
const PublicBioMaxRunes = 150

// View: según Mode, viene Full o Public (Denied no trae datos).
type View struct {
	Mode   ViewMode
	Full   *Pet
	Public *PublicView
}

// PublicView es lo único que ve un visitante de una mascota pública.
// Sin salud, contacto ni detalle de viajes.
type PublicView struct {
	PetID   string        `json:"petId"`
	Privacy Privacy       `json:"privacy"`
	Owner   PublicOwner   `json:"owner"`
	Profile PublicProfile `json:"profile"`
	Bio     string        `json:"bio,omitempty"`
}

type PublicOwner struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

type PublicProfile struct {
	Name     string `json:"name"`
	Species  string `json:"species"`
	Breed    string `json:"breed"`
	Color    string `json:"color"`
	DOB      string `json:"dob"`
	Weight   string `json:"weight"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

// Render decide qué puede ver el viewer. Pura, sin I/O.
// invite-only se trata igual que private: no hay acceso por invitación.
func Render(p Pet, viewerIsOwner bool) View {
	if viewerIsOwner {
		full := p.Clone()
		return View{Mode: ViewFull, Full: &full}
	}
	if p.Privacy != PrivacyPublic {
		return View{Mode: ViewDenied}
	}

	return View{
		Mode: ViewPublic,
		Public: &PublicView{
			PetID:   p.PetID,
			Privacy: p.Privacy,
			Owner: PublicOwner{
				Name:     p.Owner.Name,
				PhotoURL: p.Owner.PhotoURL,
			},
			Profile: PublicProfile{
				Name:     p.Profile.Name,
				Species:  p.Profile.Species,
				Breed:    p.Profile.Breed,
				Color:    p.Profile.Color,
				DOB:      p.Profile.DOB,
				Weight:   p.Profile.Weight,
				PhotoURL: p.Profile.PhotoURL,
			},
			Bio: truncateBio(p.Fun.Bio),
		},
	}
}

func truncateBio(bio string) string {
	r := []rune(bio)
	if len(r) <= PublicBioMaxRunes {
		return bio
	}
	return string(r[:PublicBioMaxRunes]) + "..."
}
