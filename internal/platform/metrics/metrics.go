package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los contadores del servicio.
// Cada instancia tiene su propio registry para poder crear varios routers (tests) sin colisiones.
type Metrics struct {
	registry *prometheus.Registry

	PetsCreated     prometheus.Counter
	PetsUpdated     prometheus.Counter
	PetsDeleted     prometheus.Counter
	ImagesPromoted  prometheus.Counter
	StorageFailures *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		PetsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "petpass_pets_created_total",
			Help: "Total number of pet records created",
		}),
		PetsUpdated: f.NewCounter(prometheus.CounterOpts{
			Name: "petpass_pets_updated_total",
			Help: "Total number of partial updates applied to pet records",
		}),
		PetsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "petpass_pets_deleted_total",
			Help: "Total number of pet records deleted",
		}),
		ImagesPromoted: f.NewCounter(prometheus.CounterOpts{
			Name: "petpass_images_promoted_total",
			Help: "Inline image payloads moved to blob storage",
		}),
		StorageFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "petpass_storage_failures_total",
			Help: "Persistence failures by kind (quota, storage)",
		}, []string{"kind"}),
	}
}

// Handler expone el registry propio en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Los helpers aceptan receiver nil para que los services funcionen sin métricas.

func (m *Metrics) IncPetsCreated() {
	if m != nil {
		m.PetsCreated.Inc()
	}
}

func (m *Metrics) IncPetsUpdated() {
	if m != nil {
		m.PetsUpdated.Inc()
	}
}

func (m *Metrics) IncPetsDeleted() {
	if m != nil {
		m.PetsDeleted.Inc()
	}
}

func (m *Metrics) AddImagesPromoted(n int) {
	if m != nil && n > 0 {
		m.ImagesPromoted.Add(float64(n))
	}
}

func (m *Metrics) IncStorageFailure(kind string) {
	if m != nil {
		m.StorageFailures.WithLabelValues(kind).Inc()
	}
}
