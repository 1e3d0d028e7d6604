// Package api provides HTTP API handlers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/casedeck/casedeck/internal/analyzer"
	"github.com/casedeck/casedeck/internal/config"
	"github.com/casedeck/casedeck/internal/deckcache"
	"github.com/casedeck/casedeck/internal/generator"
	"github.com/casedeck/casedeck/internal/models"
	"github.com/casedeck/casedeck/internal/templates"
)

// Handler contains all HTTP handlers. genCfg supplies the operator-side
// defaults for generation options a request leaves unset.
type Handler struct {
	gen      *generator.Generator
	cache    *deckcache.Cache
	registry *templates.Registry
	genCfg   config.GenerationConfig
}

// NewHandler creates a new handler.
func NewHandler(gen *generator.Generator, cache *deckcache.Cache, registry *templates.Registry, genCfg config.GenerationConfig) *Handler {
	return &Handler{gen: gen, cache: cache, registry: registry, genCfg: genCfg}
}

// HealthCheck returns the service health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"version":   "1.0.0",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Analyze profiles a case description.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "Text is required", "")
		return
	}

	profile := analyzer.Analyze(req.Text)
	suggested := h.registry.Suggest(profile, req.Text)

	writeJSON(w, http.StatusOK, map[string]any{
		"profile":            profile,
		"suggested_template": suggested,
	})
}

// ListTemplates returns the template catalog.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"templates": h.registry.List(),
	})
}

// SuggestTemplate recommends a template for a case description.
func (h *Handler) SuggestTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeError(w, http.StatusBadRequest, "Text is required", "")
		return
	}

	profile := analyzer.Analyze(req.Text)
	suggested := h.registry.Suggest(profile, req.Text)

	resp := map[string]any{"template": suggested}
	if suggested != "" {
		if match, err := h.registry.ValidateMatch(suggested, profile); err == nil {
			resp["match"] = match
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// GenerateRequest is the request body for deck generation.
type GenerateRequest struct {
	Text              string              `json:"text"`
	DesiredSlideCount int                 `json:"desired_slide_count,omitempty"`
	Template          models.TemplateType `json:"template,omitempty"`
	UseCache          *bool               `json:"use_cache,omitempty"`
	Temperature       float32             `json:"temperature,omitempty"`
	Model             string              `json:"model,omitempty"`
	MaxTokens         int                 `json:"max_tokens,omitempty"`
}

// Generate produces a slide deck from a case description.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	// The request body wins; unset fields fall back to the configuration.
	useCache := req.UseCache
	if useCache == nil {
		v := h.genCfg.UseCache
		useCache = &v
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = h.genCfg.Temperature
	}

	deck, err := h.gen.Generate(r.Context(), req.Text, generator.Options{
		DesiredSlideCount: req.DesiredSlideCount,
		Template:          req.Template,
		UseCache:          useCache,
		Temperature:       temperature,
		Model:             req.Model,
		MaxTokens:         req.MaxTokens,
	})
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, deck)
}

// RefineRequest is the request body for deck refinement.
type RefineRequest struct {
	Deck           *models.SlideDeck `json:"deck"`
	Instructions   string            `json:"instructions"`
	PreserveSlides []int             `json:"preserve_slides,omitempty"`
	TargetSlides   []int             `json:"target_slides,omitempty"`
	Temperature    float32           `json:"temperature,omitempty"`
	Model          string            `json:"model,omitempty"`
	MaxTokens      int               `json:"max_tokens,omitempty"`
}

// Refine reworks part of an existing deck.
func (h *Handler) Refine(w http.ResponseWriter, r *http.Request) {
	var req RefineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = h.genCfg.Temperature
	}

	deck, err := h.gen.Refine(r.Context(), req.Deck, req.Instructions, generator.RefineOptions{
		PreserveSlides: req.PreserveSlides,
		TargetSlides:   req.TargetSlides,
		Temperature:    temperature,
		Model:          req.Model,
		MaxTokens:      req.MaxTokens,
	})
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deck)
}

// LookupCitation resolves a case reference.
func (h *Handler) LookupCitation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
		writeError(w, http.StatusBadRequest, "Query is required", "")
		return
	}

	result, err := h.gen.LookupCitation(r.Context(), req.Query)
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ClearCache removes all cached decks.
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	count, err := h.cache.Clear(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to clear cache")
		writeError(w, http.StatusInternalServerError, "Failed to clear cache", "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"removed": count})
}

// writePipelineError maps typed pipeline errors onto HTTP statuses. The
// stable kind travels in the body for telemetry.
func writePipelineError(w http.ResponseWriter, err error) {
	var nf *templates.ErrNotFound
	if errors.As(err, &nf) {
		writeError(w, http.StatusNotFound, nf.Error(), "")
		return
	}

	kind := models.KindOf(err)
	switch kind {
	case models.KindInputTooShort, models.KindInputTooLong, models.KindInvalidSlideCount,
		models.KindEmptyInstructions, models.KindInvalidExistingDeck:
		writeError(w, http.StatusBadRequest, err.Error(), string(kind))
	case models.KindBudgetExceeded:
		writeError(w, http.StatusTooManyRequests,
			"Daily AI usage limit reached. Try again tomorrow.", string(kind))
	case models.KindRateLimited:
		writeError(w, http.StatusTooManyRequests, "The AI provider is rate limiting requests", string(kind))
	case models.KindTransportFailure, models.KindSchemaViolation, models.KindNoSlidesGenerated:
		log.Error().Err(err).Msg("Generation failed upstream")
		writeError(w, http.StatusBadGateway, "Generation failed", string(kind))
	case models.KindMisconfigured:
		log.Error().Err(err).Msg("Gateway misconfigured")
		writeError(w, http.StatusInternalServerError, "Service misconfigured", string(kind))
	default:
		log.Error().Err(err).Msg("Unexpected failure")
		writeError(w, http.StatusInternalServerError, "Internal error", string(kind))
	}
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message, kind string) {
	body := map[string]string{"error": message}
	if kind != "" {
		body["kind"] = kind
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
