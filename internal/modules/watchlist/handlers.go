package watchlist

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/swiprhq/swipr/internal/domain"
	"github.com/swiprhq/swipr/internal/modules/auth"
)

// Handler handles watchlist HTTP requests.
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new watchlist handler.
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "watchlist").Logger(),
	}
}

// RegisterRoutes registers watchlist routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/watchlist", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/add", h.HandleAdd)
		r.Delete("/{symbol}", h.HandleRemove)
	})
}

// HandleList returns the watchlist joined with catalogue data.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	items, err := h.service.Enriched(userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to list watchlist")
		h.writeError(w, http.StatusInternalServerError, "failed to list watchlist")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"items": items, "total": len(items)})
}

type addRequest struct {
	Symbol   string          `json:"symbol"`
	Note     string          `json:"note"`
	Priority domain.Priority `json:"priority"`
}

// HandleAdd watches a symbol.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.service.Add(userID, req.Symbol, req.Note, req.Priority)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			h.writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			h.writeError(w, http.StatusNotFound, err.Error())
		default:
			h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to watch symbol")
			h.writeError(w, http.StatusInternalServerError, "failed to watch symbol")
		}
		return
	}
	h.writeJSON(w, http.StatusOK, item)
}

// HandleRemove stops watching a symbol.
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())
	symbol := chi.URLParam(r, "symbol")

	if err := h.service.Remove(userID, symbol); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to remove watchlist item")
		h.writeError(w, http.StatusInternalServerError, "failed to remove watchlist item")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
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
