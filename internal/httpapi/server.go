package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"modelrt/internal/manager"
	"modelrt/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ListModels() []types.ModelSource
	Status() types.StatusResponse
	Ready() bool
	SanityCheck() manager.SanityReport
	InvalidateModel(name string) int
	Switch(name string)
	HandTransforms(model, entity string) (types.HandsResponse, error)
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, types.ModelsResponse{Models: svc.ListModels()})
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Status())
	})

	r.Get("/backends", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Status().Backends)
	})

	r.Get("/sanity", func(w http.ResponseWriter, r *http.Request) {
		rep := svc.SanityCheck()
		status := http.StatusOK
		if !rep.VersionOK {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, rep)
	})

	// Drop cached instances of a model, e.g. after its files changed.
	r.Post("/models/{name}/invalidate", func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if !knownModel(svc, name) {
			writeError(w, manager.ErrModelNotFound(name))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"model": name, "disposed": svc.InvalidateModel(name)})
	})

	r.Post("/models/{name}/switch", func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if !knownModel(svc, name) {
			writeError(w, manager.ErrModelNotFound(name))
			return
		}
		svc.Switch(name)
		w.WriteHeader(http.StatusAccepted)
	})

	r.Get("/models/{name}/entities/{entity}/hands", func(w http.ResponseWriter, r *http.Request) {
		hands, err := svc.HandTransforms(chi.URLParam(r, "name"), chi.URLParam(r, "entity"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, hands)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("no models"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}

func knownModel(svc Service, name string) bool {
	for _, m := range svc.ListModels() {
		if m.Name == name {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger().Error().Err(err).Msg("encode response")
	}
}
