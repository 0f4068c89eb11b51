package pets

import (
	"encoding/json"
	"time"
)

// Privacy controla qué ve un visitante que no es el dueño.
// @Enum public, private, invite-only
type Privacy string

const (
	PrivacyPublic     Privacy = "public"
	PrivacyPrivate    Privacy = "private"
	PrivacyInviteOnly Privacy = "invite-only"
)

func (p Privacy) Valid() bool {
	switch p {
	case PrivacyPublic, PrivacyPrivate, PrivacyInviteOnly:
		return true
	}
	return false
}

// Pet es el pasaporte completo. Los tags JSON son el layout persistido en ambos backends.
type Pet struct {
	PetID   string `json:"petId"`
	OwnerID string `json:"ownerId"`

	Owner   Owner   `json:"owner"`
	Profile Profile `json:"profile"`
	Health  Health  `json:"health"`
	Fun     Fun     `json:"fun"`
	Travel  Travel  `json:"travel"`

	Privacy Privacy `json:"privacy"`
	Version int64   `json:"version"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Owner struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

type Profile struct {
	Name      string   `json:"name"`
	Species   string   `json:"species"`
	Breed     string   `json:"breed"`
	DOB       string   `json:"dob"` // YYYY-MM-DD
	Color     string   `json:"color"`
	Weight    string   `json:"weight"`
	Microchip string   `json:"microchip,omitempty"`
	PhotoURL  string   `json:"photoUrl,omitempty"`
	Photos    []string `json:"photos,omitempty"`
	QRURL     string   `json:"qrUrl,omitempty"`
}

type Health struct {
	Vet          string        `json:"vet"`
	Clinic       string        `json:"clinic"`
	Contact      string        `json:"contact"`
	Allergies    TextList      `json:"allergies"`
	Medications  TextList      `json:"medications"`
	Vaccinations []Vaccination `json:"vaccinations"`

	ChronicIssues   TextList `json:"chronicIssues,omitempty"`
	FoodBrand       string   `json:"foodBrand,omitempty"`
	TreatBrand      string   `json:"treatBrand,omitempty"`
	VitaminBrand    string   `json:"vitaminBrand,omitempty"`
	FeedingSchedule string   `json:"feedingSchedule,omitempty"`
	HealthIssues    TextList `json:"healthIssues,omitempty"`

	// Imágenes: data URL inline o URL remota.
	VaccinationImages []string `json:"vaccinationImages,omitempty"`
	Prescriptions     []string `json:"prescriptions,omitempty"`
	Certifications    []string `json:"certifications,omitempty"`
}

type Vaccination struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	Expiry      string `json:"expiry"`
	Certificate string `json:"certificate,omitempty"`
}

type Fun struct {
	Nicknames TextList  `json:"nicknames"`
	Bio       string    `json:"bio"`
	Favorites Favorites `json:"favorites"`
	Quirks    string    `json:"quirks,omitempty"`
	Instagram string    `json:"instagram,omitempty"`
	TikTok    string    `json:"tiktok,omitempty"`
}

type Favorites struct {
	Food string `json:"food,omitempty"`
	Toy  string `json:"toy,omitempty"`
}

type Travel struct {
	PassportNumber    string   `json:"passportNumber,omitempty"`
	CountryOfOrigin   string   `json:"countryOfOrigin"`
	TravelHistory     TextList `json:"travelHistory"`
	RabiesCertificate string   `json:"rabiesCertificate,omitempty"`
	HealthCertificate string   `json:"healthCertificate,omitempty"`
}

// TextList es una lista de texto libre. En JSON acepta array o string separado por comas
// (así lo mandan los formularios).
type TextList []string

func (l *TextList) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*l = nil
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = SplitList(s)
		return nil
	}
	var items []string
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// Clone copia en profundidad los slices para que los repos in-memory no compartan estado con el caller.
func (p Pet) Clone() Pet {
	out := p
	out.Profile.Photos = cloneStrings(p.Profile.Photos)
	out.Health.Allergies = cloneStrings(p.Health.Allergies)
	out.Health.Medications = cloneStrings(p.Health.Medications)
	out.Health.ChronicIssues = cloneStrings(p.Health.ChronicIssues)
	out.Health.HealthIssues = cloneStrings(p.Health.HealthIssues)
	out.Health.VaccinationImages = cloneStrings(p.Health.VaccinationImages)
	out.Health.Prescriptions = cloneStrings(p.Health.Prescriptions)
	out.Health.Certifications = cloneStrings(p.Health.Certifications)
	if p.Health.Vaccinations != nil {
		out.Health.Vaccinations = append([]Vaccination{}, p.Health.Vaccinations...)
	}
	out.Fun.Nicknames = cloneStrings(p.Fun.Nicknames)
	out.Travel.TravelHistory = cloneStrings(p.Travel.TravelHistory)
	return out
}

func cloneStrings[S ~[]string](s S) S {
	if s == nil {
		return nil
	}
	return append(S{}, s...)
}
