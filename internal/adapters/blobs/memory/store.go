package memory

import (
	"context"
	"net/http"
	"strings"
	"sync"
)

type object struct {
	data        []byte
	contentType string
}

// Store guarda blobs en memoria y los sirve por HTTP (dev/tests).
type Store struct {
	baseURL string

	mu      sync.RWMutex
	objects map[string]object
}

// NewStore: baseURL es el prefijo público bajo el que el router monta Handler (p.ej. "/blobs").
func NewStore(baseURL string) *Store {
	return &Store{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]object),
	}
}

func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[key] = object{data: append([]byte(nil), data...), contentType: contentType}
	return s.baseURL + "/" + key, nil
}

func (s *Store) DeletePrefix(ctx context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k := range s.objects {
		if strings.HasPrefix(k, prefix) {
			delete(s.objects, k)
		}
	}
	return nil
}

// Keys lista las keys con el prefijo dado.
func (s *Store) Keys(prefix string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0)
	for k := range s.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out
}

// Handler sirve GET {baseURL}/{key}. Montar con http.StripPrefix(baseURL, ...).
func (s *Store) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, "/")

		s.mu.RLock()
		obj, ok := s.objects[key]
		s.mu.RUnlock()
		if !ok {
			http.NotFound(w, r)
			return
		}

		if obj.contentType != "" {
			w.Header().Set("Content-Type", obj.contentType)
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		_, _ = w.Write(obj.data)
	})
}
