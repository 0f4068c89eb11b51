package images

import "errors"

// MaxPetPhotos es el tope de fotos del perfil.
const MaxPetPhotos = 3

var ErrPhotoLimit = errors.New("photo limit reached")

// AddPhoto agrega ref al final. Si ya hay MaxPetPhotos devuelve ErrPhotoLimit
// y la lista original sin tocar.
func AddPhoto(photos []string, ref string) ([]string, error) {
	if len(photos) >= MaxPetPhotos {
		return photos, ErrPhotoLimit
	}
	out := make([]string, 0, len(photos)+1)
	out = append(out, photos...)
	return append(out, ref), nil
}

// RemovePhoto quita la foto en index; fuera de rango devuelve la lista igual y false.
func RemovePhoto(photos []string, index int) ([]string, bool) {
	if index < 0 || index >= len(photos) {
		return photos, false
	}
	out := make([]string, 0, len(photos)-1)
	out = append(out, photos[:index]...)
	return append(out, photos[index+1:]...), true
}
