package router

import (
	"net/http"

	_ "pet-passport/docs"

	mem "pet-passport/internal/adapters/storage/memory"
	"pet-passport/internal/domain/identity"
	"pet-passport/internal/domain/pets"
	"pet-passport/internal/middleware"
	"pet-passport/internal/platform/logger"
	"pet-passport/internal/platform/metrics"
	"pet-passport/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// BlobPath es donde se monta BlobHandler (blob store en memoria).
const BlobPath = "/blobs"

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	AuthProvider auth.Provider     // nil => sin /auth/signup, /auth/signin, ...

	// Opcional: si no viene, in-memory.
	PetsRepo pets.Repository
	// Opcional: nil => las imágenes quedan inline en el registro.
	Promoter    pets.ImagePromoter
	BlobHandler http.Handler

	Logger  logger.Logger
	Metrics *metrics.Metrics
	HTTP    pets.HTTPConfig
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(middleware.Recover(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	if opts.BlobHandler != nil {
		r.Handle(BlobPath+"/*", http.StripPrefix(BlobPath, opts.BlobHandler))
	}

	petRepo := opts.PetsRepo
	if petRepo == nil {
		petRepo = mem.NewPetRepo()
	}

	svcOpts := []pets.Option{
		pets.WithLogger(log),
		pets.WithMetrics(opts.Metrics),
	}
	if opts.Promoter != nil {
		svcOpts = append(svcOpts, pets.WithPromoter(opts.Promoter))
	}
	petsSvc := pets.NewService(petRepo, svcOpts...)

	// Rutas por módulo
	identity.RegisterRoutes(r, opts.AuthProvider, log)
	pets.RegisterRoutes(r, petsSvc, opts.HTTP)

	return r
}
