package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/swiprhq/swipr/internal/domain"
	"github.com/swiprhq/swipr/internal/modules/auth"
)

// Handler handles advisory HTTP requests.
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new advisory handler.
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "agent").Logger(),
	}
}

// RegisterRoutes registers advisory routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/ai-agent", func(r chi.Router) {
		r.Post("/setup", h.HandleSetup)
		r.Get("/profile", h.HandleGetProfile)
		r.Post("/track-swipe", h.HandleTrackSwipe)
		r.Get("/interventions", h.HandleInterventions)
		r.Get("/insights", h.HandleInsights)
		r.Post("/chat", h.HandleChat)
		r.Get("/stream", h.HandleStream)
	})
}

// HandleSetup creates or replaces the user's advisory profile.
func (h *Handler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	var params ProfileParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.service.SetupProfile(userID, params)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to set up profile")
		h.writeError(w, http.StatusInternalServerError, "failed to set up profile")
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

// HandleGetProfile returns the stored advisory profile.
func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	profile, err := h.service.Profile(userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to load profile")
		h.writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

// HandleTrackSwipe folds one swipe into the user's behavior record.
func (h *Handler) HandleTrackSwipe(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	var event SwipeEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.TrackSwipe(userID, event); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to track swipe")
		h.writeError(w, http.StatusInternalServerError, "failed to track swipe")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

// HandleInterventions evaluates the advisory checks for the user.
func (h *Handler) HandleInterventions(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	interventions, err := h.service.Interventions(userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to generate interventions")
		h.writeError(w, http.StatusInternalServerError, "failed to generate interventions")
		return
	}
	if interventions == nil {
		interventions = []Intervention{}
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"interventions": interventions})
}

// HandleInsights returns the derived behavior summary.
func (h *Handler) HandleInsights(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	insights, err := h.service.Insights(userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to derive insights")
		h.writeError(w, http.StatusInternalServerError, "failed to derive insights")
		return
	}
	h.writeJSON(w, http.StatusOK, insights)
}

type chatRequest struct {
	Message string `json:"message"`
}

// HandleChat answers a free-text question from the rule table.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.service.Chat(userID, req.Message)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to answer chat message")
		h.writeError(w, http.StatusInternalServerError, "failed to answer chat message")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"response": reply})
}

// HandleStream upgrades to a websocket and pushes intervention events until
// the client goes away.
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	stream := h.service.Stream()
	if stream == nil {
		h.writeError(w, http.StatusServiceUnavailable, "intervention stream is not enabled")
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Warn().Err(err).Str("user_id", userID).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	events, cancel := stream.Subscribe(userID)
	defer cancel()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-events:
			writeCtx, done := context.WithTimeout(ctx, 5*time.Second)
			err := wsjson.Write(writeCtx, conn, event)
			done()
			if err != nil {
				h.log.Debug().Err(err).Str("user_id", userID).Msg("Websocket write failed, closing stream")
				return
			}
		}
	}
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
