package pets

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitList("a, b,,c , "))
	assert.Equal(t, []string{}, SplitList(""))
	assert.Equal(t, []string{"a", "b"}, SplitList(" a ,b, a"))
}

func TestSplitList_Idempotent(t *testing.T) {
	first := SplitList("a, b,,c , ")
	again := SplitList(strings.Join(first, ","))
	assert.Equal(t, first, again)
	assert.Equal(t, first, SplitList(JoinList(first)))
	assert.Equal(t, first, NormalizeList(first))
}

func TestTextList_AcceptsStringOrArray(t *testing.T) {
	var h Health
	require.NoError(t, json.Unmarshal([]byte(`{"allergies":"chicken, pollen,,","medications":[" a ","b"]}`), &h))
	assert.Equal(t, TextList{"chicken", "pollen"}, h.Allergies)
	assert.Equal(t, TextList{" a ", "b"}, h.Medications)

	assert.Error(t, json.Unmarshal([]byte(`{"allergies":42}`), &h))
}

func TestNormalize(t *testing.T) {
	p := Pet{
		Owner:   Owner{Name: " Ana ", Email: " ana@example.com "},
		Profile: Profile{Name: " Fido ", Photos: []string{"", " u1 ", "u2"}},
		Health:  Health{Allergies: TextList{" x", "x ", ""}},
		Fun:     Fun{Nicknames: TextList{"Fi", " Fi"}},
		Travel:  Travel{TravelHistory: nil},
	}
	Normalize(&p)

	assert.Equal(t, "Ana", p.Owner.Name)
	assert.Equal(t, "ana@example.com", p.Owner.Email)
	assert.Equal(t, "Fido", p.Profile.Name)
	assert.Equal(t, []string{"u1", "u2"}, p.Profile.Photos)
	assert.Equal(t, "u1", p.Profile.PhotoURL)
	assert.Equal(t, TextList{"x"}, p.Health.Allergies)
	assert.Equal(t, TextList{"Fi"}, p.Fun.Nicknames)
	assert.NotNil(t, p.Travel.TravelHistory)
	assert.Empty(t, p.Travel.TravelHistory)
	assert.NotNil(t, p.Health.Vaccinations)
	assert.Equal(t, PrivacyPublic, p.Privacy)
}

func TestNormalize_KeepsExplicitPhotoURLWithoutPhotos(t *testing.T) {
	p := Pet{Profile: Profile{PhotoURL: "https://x/p.jpg"}, Privacy: "PRIVATE"}
	Normalize(&p)
	assert.Equal(t, "https://x/p.jpg", p.Profile.PhotoURL)
	assert.Equal(t, PrivacyPrivate, p.Privacy)
}

func validOwnerProfile() (Owner, Profile) {
	return Owner{Name: "Ana", Email: "ana@example.com"},
		Profile{Name: "Fido", Species: "Dog", Breed: "Mix", DOB: "2020-01-01", Color: "Brown", Weight: "12kg"}
}

func TestValidateForCreate(t *testing.T) {
	o, pr := validOwnerProfile()
	assert.NoError(t, ValidateForCreate(o, pr, PrivacyPublic))

	err := ValidateForCreate(Owner{Email: "nope"}, Profile{DOB: "01/01/2020"}, "secret")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "owner.name is required")
	assert.Contains(t, ve.Fields, "owner.email is not a valid address")
	assert.Contains(t, ve.Fields, "profile.species is required")
	assert.Contains(t, ve.Fields, "profile.dob must be YYYY-MM-DD")
	assert.Contains(t, ve.Fields, "privacy must be one of public, private, invite-only")
	assert.NotContains(t, ve.Fields, "profile.dob is required")
}

func TestValidateForCreate_PhotoCap(t *testing.T) {
	o, pr := validOwnerProfile()
	pr.Photos = []string{"a", "b", "c", "d"}
	assert.ErrorIs(t, ValidateForCreate(o, pr, PrivacyPublic), ErrInvalidInput)
}
