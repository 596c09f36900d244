package queue

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/swiprhq/swipr/internal/domain"
	"github.com/swiprhq/swipr/internal/modules/auth"
)

// Handler handles queue HTTP requests.
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new queue handler.
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "queue").Logger(),
	}
}

// RegisterRoutes registers queue routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/queue", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/add", h.HandleAdd)
		r.Post("/reorder", h.HandleReorder)
		r.Post("/clear", h.HandleClear)
		r.Get("/stats", h.HandleStats)
		r.Get("/export", h.HandleExport)
		r.Delete("/{symbol}", h.HandleRemove)
	})
}

// HandleList returns the queue joined with catalogue data.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	items, err := h.service.Enriched(userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to list queue")
		h.writeError(w, http.StatusInternalServerError, "failed to list queue")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"items": items, "total": len(items)})
}

type addRequest struct {
	Symbol     string            `json:"symbol"`
	Confidence domain.Confidence `json:"confidence"`
}

// HandleAdd queues a symbol.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Confidence == "" {
		req.Confidence = domain.ConfidenceBullish
	}

	item, err := h.service.Add(userID, req.Symbol, req.Confidence)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			h.writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			h.writeError(w, http.StatusNotFound, err.Error())
		default:
			h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to queue symbol")
			h.writeError(w, http.StatusInternalServerError, "failed to queue symbol")
		}
		return
	}
	h.writeJSON(w, http.StatusOK, item)
}

type reorderRequest struct {
	Symbols []string `json:"symbols"`
}

// HandleReorder applies a caller-supplied ordering.
func (h *Handler) HandleReorder(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items, err := h.service.Reorder(userID, req.Symbols)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to reorder queue")
		h.writeError(w, http.StatusInternalServerError, "failed to reorder queue")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// HandleClear empties the queue.
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	if err := h.service.Clear(userID); err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to clear queue")
		h.writeError(w, http.StatusInternalServerError, "failed to clear queue")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// HandleStats returns queue aggregates.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	stats, err := h.service.StatsFor(userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to compute queue stats")
		h.writeError(w, http.StatusInternalServerError, "failed to compute queue stats")
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

// HandleExport streams the queue as CSV.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	items, err := h.service.Enriched(userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to export queue")
		h.writeError(w, http.StatusInternalServerError, "failed to export queue")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="queue.csv"`)

	cw := csv.NewWriter(w)
	cw.Write([]string{"symbol", "name", "sector", "price", "confidence", "added_at"})
	for _, item := range items {
		cw.Write([]string{
			item.Symbol,
			item.Stock.Name,
			item.Stock.Sector,
			fmt.Sprintf("%.2f", item.Stock.Price),
			string(item.Confidence),
			item.AddedAt.Format(time.RFC3339),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.log.Error().Err(err).Msg("Failed to write CSV export")
	}
}

// HandleRemove deletes one symbol from the queue.
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())
	symbol := chi.URLParam(r, "symbol")

	if err := h.service.Remove(userID, symbol); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to remove queue item")
		h.writeError(w, http.StatusInternalServerError, "failed to remove queue item")
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
