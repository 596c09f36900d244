package portfolio

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/swiprhq/swipr/internal/domain"
	"github.com/swiprhq/swipr/internal/modules/auth"
)

// Handler handles portfolio HTTP requests.
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new portfolio handler.
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "portfolio").Logger(),
	}
}

// RegisterRoutes registers portfolio routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/portfolio", func(r chi.Router) {
		r.Get("/", h.HandleHoldings)
		r.Post("/optimize", h.HandleOptimize)
		r.Post("/execute", h.HandleExecute)
		r.Get("/analytics", h.HandleAnalytics)
		r.Post("/holdings", h.HandleAddHolding)
		r.Delete("/holdings/{symbol}", h.HandleRemoveHolding)
	})
}

// HandleHoldings returns positions joined with live prices.
func (h *Handler) HandleHoldings(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	views, err := h.service.Holdings(userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to load holdings")
		h.writeError(w, http.StatusInternalServerError, "failed to load holdings")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"holdings": views, "total": len(views)})
}

type optimizeRequest struct {
	Amount           float64              `json:"amount"`
	RiskTolerance    domain.RiskTolerance `json:"riskTolerance"`
	PreferredSectors []string             `json:"preferredSectors"`
}

// HandleOptimize builds an allocation plan.
func (h *Handler) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	plan, err := h.service.Optimize(req.Amount, req.RiskTolerance, req.PreferredSectors)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("Failed to optimize portfolio")
		h.writeError(w, http.StatusInternalServerError, "failed to optimize portfolio")
		return
	}
	h.writeJSON(w, http.StatusOK, plan)
}

type executeRequest struct {
	Plan *AllocationPlan `json:"plan"`
}

// HandleExecute applies an allocation plan to the user's holdings.
func (h *Handler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	applied, err := h.service.Execute(userID, req.Plan)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			h.writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			h.writeError(w, http.StatusNotFound, err.Error())
		default:
			h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to execute plan")
			h.writeError(w, http.StatusInternalServerError, "failed to execute plan")
		}
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"holdings": applied})
}

// HandleAnalytics summarizes the portfolio.
func (h *Handler) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	tolerance := domain.RiskTolerance(r.URL.Query().Get("riskTolerance"))
	if tolerance == "" {
		tolerance = domain.ToleranceModerate
	}

	analytics, err := h.service.AnalyticsFor(userID, tolerance)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to compute analytics")
		h.writeError(w, http.StatusInternalServerError, "failed to compute analytics")
		return
	}
	h.writeJSON(w, http.StatusOK, analytics)
}

type holdingRequest struct {
	Symbol string  `json:"symbol"`
	Shares float64 `json:"shares"`
	Price  float64 `json:"price"`
}

// HandleAddHolding buys or sells shares.
func (h *Handler) HandleAddHolding(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	var req holdingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	holding, err := h.service.AddHolding(userID, req.Symbol, req.Shares, req.Price)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			h.writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			h.writeError(w, http.StatusNotFound, err.Error())
		default:
			h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to update holding")
			h.writeError(w, http.StatusInternalServerError, "failed to update holding")
		}
		return
	}
	h.writeJSON(w, http.StatusOK, holding)
}

// HandleRemoveHolding closes a position.
func (h *Handler) HandleRemoveHolding(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())
	symbol := chi.URLParam(r, "symbol")

	if err := h.service.RemoveHolding(userID, symbol); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to remove holding")
		h.writeError(w, http.StatusInternalServerError, "failed to remove holding")
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
