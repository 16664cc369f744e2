package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/danpasecinic/kiln"
)

func NewRouter(c *kiln.Container, logger *slog.Logger) http.Handler {
	h := &handlers{container: c}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.health)
	r.Route("/services", func(r chi.Router) {
		r.Get("/", h.services)
		r.Get("/{id}", h.service)
	})
	r.Get("/stats", h.stats)
	r.Get("/graph", h.graph)

	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

type handlers struct {
	container *kiln.Container
}

type healthEntry struct {
	ID        string  `json:"id"`
	Status    string  `json:"status"`
	Error     string  `json:"error,omitempty"`
	LatencyMS float64 `json:"latency_ms"`
}

type healthResponse struct {
	Status   string        `json:"status"`
	Services []healthEntry `json:"services"`
}

// health answers 503 when any non-scoped service is down. Scoped services
// cannot resolve outside a scope and are listed without affecting status.
func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: string(kiln.HealthStatusUp)}

	for _, report := range h.container.Health(r.Context()) {
		entry := healthEntry{
			ID:        report.ID,
			Status:    string(report.Status),
			LatencyMS: float64(report.Latency) / float64(time.Millisecond),
		}
		if report.Error != nil {
			entry.Error = report.Error.Error()
		}
		resp.Services = append(resp.Services, entry)

		if info, ok := h.container.Registration(report.ID); ok && info.Lifetime == kiln.Scoped {
			continue
		}
		if !report.Healthy() {
			resp.Status = string(kiln.HealthStatusDown)
		}
	}

	code := http.StatusOK
	if resp.Status != string(kiln.HealthStatusUp) {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

type serviceResponse struct {
	ID           string        `json:"id"`
	Lifetime     kiln.Lifetime `json:"lifetime"`
	Dependencies []string      `json:"dependencies"`
	Description  string        `json:"description,omitempty"`
	Category     string        `json:"category,omitempty"`
	Tags         []string      `json:"tags,omitempty"`
	Version      string        `json:"version,omitempty"`
	Author       string        `json:"author,omitempty"`
	Instantiated bool          `json:"instantiated"`
	RegisteredAt time.Time     `json:"registered_at"`
}

func toServiceResponse(info kiln.RegistrationInfo) serviceResponse {
	deps := info.Dependencies
	if deps == nil {
		deps = []string{}
	}
	return serviceResponse{
		ID:           info.ID,
		Lifetime:     info.Lifetime,
		Dependencies: deps,
		Description:  info.Metadata.Description,
		Category:     info.Metadata.Category,
		Tags:         info.Metadata.Tags,
		Version:      info.Metadata.Version,
		Author:       info.Metadata.Author,
		Instantiated: info.Instantiated,
		RegisteredAt: info.RegisteredAt,
	}
}

// services lists registrations, optionally narrowed by ?category= or ?tag=.
func (h *handlers) services(w http.ResponseWriter, r *http.Request) {
	var ids []string
	switch {
	case r.URL.Query().Get("category") != "":
		ids = h.container.ServicesByCategory(r.URL.Query().Get("category"))
	case r.URL.Query().Get("tag") != "":
		ids = h.container.ServicesByTag(r.URL.Query().Get("tag"))
	default:
		ids = h.container.RegisteredServices()
	}

	out := make([]serviceResponse, 0, len(ids))
	for _, id := range ids {
		if info, ok := h.container.Registration(id); ok {
			out = append(out, toServiceResponse(info))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) service(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	info, ok := h.container.Registration(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "service " + id + " is not registered"})
		return
	}
	writeJSON(w, http.StatusOK, toServiceResponse(info))
}

func (h *handlers) stats(w http.ResponseWriter, _ *http.Request) {
	stats := h.container.Statistics()
	writeJSON(w, http.StatusOK, map[string]any{
		"total":       stats.Total,
		"by_lifetime": stats.ByLifetime,
		"by_category": stats.ByCategory,
		"singletons":  stats.Singletons,
		"scopes":      stats.Scopes,
	})
}

// graph renders the dependency graph as text, or as DOT with ?format=dot.
func (h *handlers) graph(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "dot" {
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		h.container.FprintGraphDOT(w)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	h.container.FprintGraph(w)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
