package pets

import (
	"strings"
	"time"
)

// Patch es una actualización parcial. nil = no tocar; un objeto presente reemplaza
// al guardado completo (merge superficial a nivel raíz).
type Patch struct {
	Owner   *Owner   `json:"owner,omitempty"`
	Profile *Profile `json:"profile,omitempty"`
	Health  *Health  `json:"health,omitempty"`
	Fun     *Fun     `json:"fun,omitempty"`
	Travel  *Travel  `json:"travel,omitempty"`
	Privacy *Privacy `json:"privacy,omitempty"`

	// Opcional. Si viene y no coincide con la versión guardada => ErrConflict.
	ExpectedVersion *int64 `json:"expectedVersion,omitempty"`
}

func (p Patch) IsEmpty() bool {
	return p.Owner == nil && p.Profile == nil && p.Health == nil &&
		p.Fun == nil && p.Travel == nil && p.Privacy == nil
}

// Merge aplica el patch sobre current. PetID, OwnerID y CreatedAt no cambian;
// UpdatedAt avanza siempre (aunque el reloj no lo haga) y Version suma uno.
func Merge(current Pet, p Patch, now time.Time) Pet {
	out := current

	if p.Owner != nil {
		out.Owner = *p.Owner
	}
	if p.Profile != nil {
		out.Profile = *p.Profile
	}
	if p.Health != nil {
		out.Health = *p.Health
	}
	if p.Fun != nil {
		out.Fun = *p.Fun
	}
	if p.Travel != nil {
		out.Travel = *p.Travel
	}
	if p.Privacy != nil {
		out.Privacy = *p.Privacy
	}

	if !now.After(current.UpdatedAt) {
		now = current.UpdatedAt.Add(time.Millisecond)
	}
	out.UpdatedAt = now
	out.Version = current.Version + 1
	return out.Clone()
}

// normalized devuelve una copia del patch con cada objeto presente normalizado.
func (p Patch) normalized() Patch {
	out := p
	if p.Owner != nil {
		o := *p.Owner
		normalizeOwner(&o)
		out.Owner = &o
	}
	if p.Profile != nil {
		pr := *p.Profile
		normalizeProfile(&pr)
		out.Profile = &pr
	}
	if p.Health != nil {
		h := *p.Health
		normalizeHealth(&h)
		out.Health = &h
	}
	if p.Fun != nil {
		f := *p.Fun
		normalizeFun(&f)
		out.Fun = &f
	}
	if p.Travel != nil {
		t := *p.Travel
		normalizeTravel(&t)
		out.Travel = &t
	}
	if p.Privacy != nil {
		v := Privacy(strings.ToLower(strings.TrimSpace(string(*p.Privacy))))
		out.Privacy = &v
	}
	return out
}
