package pets

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"pet-passport/internal/domain/images"
	"pet-passport/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// HTTPConfig son los límites de upload y el origin para links compartibles.
type HTTPConfig struct {
	MaxImageWidth  int
	MaxImagePixels int64
	MaxUploadBytes int64
	// MaxJSONBytes acota los bodies JSON; 0 => 2 * MaxUploadBytes (data URLs en base64).
	MaxJSONBytes int64
	// PublicOrigin vacío => se deriva del request.
	PublicOrigin string
}

func RegisterRoutes(r chi.Router, svc *Service, cfg HTTPConfig) {
	if cfg.MaxImageWidth <= 0 {
		cfg.MaxImageWidth = images.DefaultMaxWidth
	}
	if cfg.MaxImagePixels <= 0 {
		cfg.MaxImagePixels = images.DefaultMaxPixels
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	if cfg.MaxJSONBytes <= 0 {
		cfg.MaxJSONBytes = 2 * cfg.MaxUploadBytes
	}

	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc, cfg))
		pr.Get("/", listPetsHandler(svc))

		pr.Route("/{petID}", func(ir chi.Router) {
			// Público o dueño, según privacy
			ir.Get("/", getPetHandler(svc))
			ir.Get("/qr.png", qrHandler(svc, cfg))

			// Solo dueño
			ir.Patch("/", updatePetHandler(svc, cfg))
			ir.Delete("/", deletePetHandler(svc))
			ir.Put("/privacy", setPrivacyHandler(svc, cfg))
			ir.Post("/photos", addPhotoHandler(svc, cfg))
			ir.Delete("/photos/{index}", removePhotoHandler(svc))
			ir.Post("/owner/photo", ownerPhotoHandler(svc, cfg))
			ir.Post("/documents/{category}", addDocumentsHandler(svc, cfg))
			ir.Get("/share", shareHandler(svc, cfg))
		})
	})
}

type createPetRequest struct {
	Owner   Owner   `json:"owner"`
	Profile Profile `json:"profile"`
	Health  Health  `json:"health"`
	Fun     Fun     `json:"fun"`
	Travel  Travel  `json:"travel"`
	Privacy Privacy `json:"privacy"`
}

type privacyRequest struct {
	Privacy Privacy `json:"privacy"`
}

// createPetHandler godoc
// @Summary Crear pasaporte de mascota
// @Description Crea el pasaporte del usuario autenticado. Listas (allergies, nicknames, ...) aceptan array o texto separado por comas. Imágenes inline (data URL) se suben a blob storage si el backend es remoto.
// @Tags pets
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token"
// @Param payload body createPetRequest true "Pasaporte; privacy por defecto public"
// @Success 201 {object} Pet
// @Failure 400 {string} string "invalid input: lista de campos"
// @Failure 401 {string} string "unauthorized"
// @Failure 413 {string} string "request body too large"
// @Failure 507 {string} string "storage quota exceeded"
// @Router /pets [post]
func createPetHandler(svc *Service, cfg HTTPConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req createPetRequest
		if !decodeJSON(w, r, cfg, &req, false) {
			return
		}

		p, err := svc.Create(r.Context(), uid, CreateInput(req))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := requireUser(w, r)
		if !ok {
			return
		}

		items, err := svc.ListByOwner(r.Context(), uid)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// getPetHandler godoc
// @Summary Ver mascota
// @Description El dueño ve el registro completo. Un visitante ve la vista pública si privacy=public; si no, 403.
// @Tags pets
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} PublicView "vista pública (visitante) o Pet completo (dueño)"
// @Failure 403 {string} string "this pet is private"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.View(r.Context(), chi.URLParam(r, "petID"), middleware.CurrentUserID(r.Context()))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		switch v.Mode {
		case ViewFull:
			writeJSON(w, http.StatusOK, v.Full)
		case ViewPublic:
			writeJSON(w, http.StatusOK, v.Public)
		default:
			http.Error(w, "this pet is private", http.StatusForbidden)
		}
	}
}

// updatePetHandler godoc
// @Summary Actualizar mascota (parcial)
// @Description Cada objeto presente (owner, profile, health, fun, travel) reemplaza al guardado. expectedVersion opcional para detectar ediciones concurrentes.
// @Tags pets
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body Patch true "Campos a cambiar"
// @Success 200 {object} Pet
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Failure 409 {string} string "pet was modified by another request"
// @Failure 413 {string} string "request body too large"
// @Router /pets/{petID} [patch]
func updatePetHandler(svc *Service, cfg HTTPConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := requireUser(w, r)
		if !ok {
			return
		}

		var patch Patch
		if !decodeJSON(w, r, cfg, &patch, true) {
			return
		}
		if patch.IsEmpty() {
			http.Error(w, "empty patch", http.StatusBadRequest)
			return
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "petID"), uid, patch)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := requireUser(w, r)
		if !ok {
			return
		}
		if err := svc.Delete(r.Context(), chi.URLParam(r, "petID"), uid); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func setPrivacyHandler(svc *Service, cfg HTTPConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req privacyRequest
		if !decodeJSON(w, r, cfg, &req, false) {
			return
		}

		p, err := svc.SetPrivacy(r.Context(), chi.URLParam(r, "petID"), uid, req.Privacy)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// addPhotoHandler godoc
// @Summary Agregar foto de perfil
// @Description Multipart con campo "image". Se achica a IMAGE_MAX_WIDTH y se guarda como JPEG. Máximo 3 fotos.
// @Tags pets
// @Accept mpfd
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param image formData file true "Imagen (jpeg, png, gif, webp, bmp)"
// @Success 200 {object} Pet
// @Failure 400 {string} string "invalid image"
// @Failure 409 {string} string "photo limit reached"
// @Failure 413 {string} string "image too large"
// @Router /pets/{petID}/photos [post]
func addPhotoHandler(svc *Service, cfg HTTPConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := requireUser(w, r)
		if !ok {
			return
		}

		refs, ok := readImages(w, r, cfg, "image")
		if !ok {
			return
		}

		p, err := svc.AddPhoto(r.Context(), chi.URLParam(r, "petID"), uid, refs[0])
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func removePhotoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := requireUser(w, r)
		if !ok {
			return
		}

		idx, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			http.Error(w, "index must be a number", http.StatusBadRequest)
			return
		}

		p, err := svc.RemovePhoto(r.Context(), chi.URLParam(r, "petID"), uid, idx)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func ownerPhotoHandler(svc *Service, cfg HTTPConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := requireUser(w, r)
		if !ok {
			return
		}

		refs, ok := readImages(w, r, cfg, "image")
		if !ok {
			return
		}

		p, err := svc.SetOwnerPhoto(r.Context(), chi.URLParam(r, "petID"), uid, refs[0])
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func addDocumentsHandler(svc *Service, cfg HTTPConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := requireUser(w, r)
		if !ok {
			return
		}

		refs, ok := readImages(w, r, cfg, "images")
		if !ok {
			return
		}

		p, err := svc.AddDocuments(r.Context(), chi.URLParam(r, "petID"), uid, chi.URLParam(r, "category"), refs)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func shareHandler(svc *Service, cfg HTTPConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := requireUser(w, r)
		if !ok {
			return
		}

		link, err := svc.Share(r.Context(), chi.URLParam(r, "petID"), uid, requestOrigin(r, cfg))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, link)
	}
}

// qrHandler sirve el QR del link público. Mismas reglas que GET /pets/{id}.
func qrHandler(svc *Service, cfg HTTPConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := chi.URLParam(r, "petID")
		v, err := svc.View(r.Context(), petID, middleware.CurrentUserID(r.Context()))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if v.Mode == ViewDenied {
			http.Error(w, "this pet is private", http.StatusForbidden)
			return
		}

		size := DefaultQRSize
		if s, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil && s >= 64 && s <= 1024 {
			size = s
		}

		png, err := QRCodePNG(ShareURL(requestOrigin(r, cfg), petID), size)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "private, max-age=300")
		_, _ = w.Write(png)
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid := middleware.CurrentUserID(r.Context())
	if uid == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return uid, true
}

// decodeJSON lee el body con tope cfg.MaxJSONBytes. Si falla ya escribió la respuesta.
func decodeJSON(w http.ResponseWriter, r *http.Request, cfg HTTPConfig, dst any, strict bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxJSONBytes)

	dec := json.NewDecoder(r.Body)
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}
	return true
}

// readImages lee uno o más archivos del campo multipart y los pasa por DownscaleAndEncode.
// Si falla ya escribió la respuesta.
func readImages(w http.ResponseWriter, r *http.Request, cfg HTTPConfig, field string) ([]string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "image too large", http.StatusRequestEntityTooLarge)
			return nil, false
		}
		http.Error(w, "multipart form required", http.StatusBadRequest)
		return nil, false
	}

	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		http.Error(w, "missing file field "+field, http.StatusBadRequest)
		return nil, false
	}

	refs := make([]string, 0, len(files))
	for _, fh := range files {
		raw, err := readPart(fh)
		if err != nil {
			http.Error(w, "cannot read upload", http.StatusBadRequest)
			return nil, false
		}
		ref, err := images.DownscaleAndEncode(raw, cfg.MaxImageWidth, cfg.MaxImagePixels)
		if err != nil {
			http.Error(w, "invalid image: "+fh.Filename, http.StatusBadRequest)
			return nil, false
		}
		refs = append(refs, ref)
	}
	return refs, true
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func requestOrigin(r *http.Request, cfg HTTPConfig) string {
	if cfg.PublicOrigin != "" {
		return cfg.PublicOrigin
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); p != "" {
		scheme = p
	}
	return scheme + "://" + r.Host
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	case errors.Is(err, ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, images.ErrPhotoLimit):
		http.Error(w, "photo limit reached: a pet can have at most 3 photos", http.StatusConflict)
	case errors.Is(err, ErrQuotaExceeded):
		http.Error(w, "storage quota exceeded: use smaller images or delete some pets", http.StatusInsufficientStorage)
	default:
		http.Error(w, "storage failure, please try again", http.StatusInternalServerError)
	}
}

// writeJSON está duplicado en handlers de distintos módulos (pets/identity)
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
