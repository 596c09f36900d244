package onboarding

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/swiprhq/swipr/internal/domain"
	"github.com/swiprhq/swipr/internal/modules/auth"
)

// Handler handles onboarding HTTP requests.
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new onboarding handler.
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "onboarding").Logger(),
	}
}

// RegisterRoutes registers onboarding routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/onboarding", func(r chi.Router) {
		r.Post("/submit", h.HandleSubmit)
		r.Get("/data", h.HandleGetData)
		r.Get("/personalization", h.HandlePersonalization)
		r.Put("/preferences", h.HandleUpdatePreferences)
	})
}

// HandleSubmit stores a submission and returns the derived insights.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	var data Submission
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.Submit(userID, data)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to save onboarding")
		h.writeError(w, http.StatusInternalServerError, "failed to save onboarding")
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// HandleGetData returns the stored submission and insights.
func (h *Handler) HandleGetData(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	rec, insights, err := h.service.Get(userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to load onboarding")
		h.writeError(w, http.StatusInternalServerError, "failed to load onboarding")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"record": rec, "insights": insights})
}

// HandlePersonalization returns the frontend configuration.
func (h *Handler) HandlePersonalization(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	config, err := h.service.Personalization(userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to build personalization")
		h.writeError(w, http.StatusInternalServerError, "failed to build personalization")
		return
	}
	h.writeJSON(w, http.StatusOK, config)
}

// HandleUpdatePreferences merges new answers into the stored submission.
func (h *Handler) HandleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	var updates Submission
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, insights, err := h.service.UpdatePreferences(userID, updates)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to update preferences")
		h.writeError(w, http.StatusInternalServerError, "failed to update preferences")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"record": rec, "insights": insights})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
