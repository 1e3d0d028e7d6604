// Package api provides HTTP router setup.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/casedeck/casedeck/internal/config"
	"github.com/casedeck/casedeck/internal/deckcache"
	"github.com/casedeck/casedeck/internal/generator"
	"github.com/casedeck/casedeck/internal/templates"
)

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(cfg *config.Config, gen *generator.Generator, cache *deckcache.Cache, registry *templates.Registry) http.Handler {
	r := chi.NewRouter()

	handler := NewHandler(gen, cache, registry, cfg.Generation)

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check (not rate limited)
		r.Get("/health", handler.HealthCheck)

		r.Group(func(r chi.Router) {
			r.Use(RateLimitMiddleware(cfg.RateLimits.RequestsPerMinute))

			r.Post("/analyze", handler.Analyze)

			r.Get("/templates", handler.ListTemplates)
			r.Post("/templates/suggest", handler.SuggestTemplate)

			r.Post("/generate", handler.Generate)
			r.Post("/refine", handler.Refine)

			r.Post("/citations/lookup", handler.LookupCitation)

			r.Delete("/cache", handler.ClearCache)
		})
	})

	return r
}
