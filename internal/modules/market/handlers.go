package market

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/swiprhq/swipr/internal/domain"
)

// Handler handles market HTTP requests.
type Handler struct {
	catalogue *Catalogue
	log       zerolog.Logger
}

// NewHandler creates a new market handler.
func NewHandler(catalogue *Catalogue, log zerolog.Logger) *Handler {
	return &Handler{
		catalogue: catalogue,
		log:       log.With().Str("handler", "market").Logger(),
	}
}

// RegisterRoutes registers market routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/stocks", func(r chi.Router) {
		r.Get("/", h.HandleListStocks)
		r.Get("/search", h.HandleSearch)
		r.Get("/{symbol}", h.HandleGetStock)
		r.Get("/{symbol}/news", h.HandleGetNews)
		r.Get("/{symbol}/chart", h.HandleGetChart)
	})
	r.Route("/market", func(r chi.Router) {
		r.Get("/sectors", h.HandleSectorPerformance)
		r.Get("/movers", h.HandleMovers)
	})
}

// HandleListStocks returns the catalogue, optionally filtered.
func (h *Handler) HandleListStocks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := Filters{
		Sector:      q.Get("sector"),
		MarketCap:   q.Get("marketCap"),
		Performance: q.Get("performance"),
		PE:          q.Get("pe"),
		Dividend:    q.Get("dividend"),
	}
	h.writeJSON(w, http.StatusOK, h.catalogue.Filtered(filters))
}

// HandleSearch searches the catalogue by symbol or name.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	h.writeJSON(w, http.StatusOK, h.catalogue.Search(query, limit))
}

// HandleGetStock returns one instrument.
func (h *Handler) HandleGetStock(w http.ResponseWriter, r *http.Request) {
	stock, err := h.catalogue.Get(chi.URLParam(r, "symbol"))
	if err != nil {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, stock)
}

// HandleGetNews returns the headlines for one instrument.
func (h *Handler) HandleGetNews(w http.ResponseWriter, r *http.Request) {
	news, err := h.catalogue.News(chi.URLParam(r, "symbol"))
	if err != nil {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, news)
}

// HandleGetChart returns the synthesized price history with indicators.
func (h *Handler) HandleGetChart(w http.ResponseWriter, r *http.Request) {
	chart, err := h.catalogue.ChartFor(chi.URLParam(r, "symbol"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, chart)
}

// HandleSectorPerformance returns aggregated per-sector statistics.
func (h *Handler) HandleSectorPerformance(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.catalogue.SectorPerformance())
}

// HandleMovers returns today's gainers and losers.
func (h *Handler) HandleMovers(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	h.writeJSON(w, http.StatusOK, h.catalogue.Movers(limit))
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
