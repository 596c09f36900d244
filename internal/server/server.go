// Package server provides the HTTP server and routing for Swipr.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/swiprhq/swipr/internal/config"
	"github.com/swiprhq/swipr/internal/modules/agent"
	"github.com/swiprhq/swipr/internal/modules/auth"
	"github.com/swiprhq/swipr/internal/modules/market"
	"github.com/swiprhq/swipr/internal/modules/onboarding"
	"github.com/swiprhq/swipr/internal/modules/portfolio"
	"github.com/swiprhq/swipr/internal/modules/queue"
	"github.com/swiprhq/swipr/internal/modules/watchlist"
)

// Deps carries the wired services the server exposes over HTTP.
type Deps struct {
	Config      *config.Config
	AuthService *auth.Service
	Catalogue   *market.Catalogue
	Agent       *agent.Service
	Queue       *queue.Service
	Watchlist   *watchlist.Service
	Portfolio   *portfolio.Service
	Onboarding  *onboarding.Service
}

// Server is the HTTP front of the application.
type Server struct {
	router  *chi.Mux
	server  *http.Server
	log     zerolog.Logger
	cfg     *config.Config
	deps    Deps
	system  *SystemHandlers
	started time.Time
}

// New creates a new HTTP server.
func New(deps Deps, log zerolog.Logger) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		log:     log.With().Str("component", "server").Logger(),
		cfg:     deps.Config,
		deps:    deps,
		started: time.Now(),
	}
	s.system = NewSystemHandlers(deps.Config.DataDir, s.started, log)

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", deps.Config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !s.cfg.DevMode {
		s.router.Use(middleware.Compress(5))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		// Auth endpoints sit outside the token middleware.
		auth.NewHandler(s.deps.AuthService, s.log).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(s.deps.AuthService, s.cfg.DevMode))

			market.NewHandler(s.deps.Catalogue, s.log).RegisterRoutes(r)
			agent.NewHandler(s.deps.Agent, s.log).RegisterRoutes(r)
			queue.NewHandler(s.deps.Queue, s.log).RegisterRoutes(r)
			watchlist.NewHandler(s.deps.Watchlist, s.log).RegisterRoutes(r)
			portfolio.NewHandler(s.deps.Portfolio, s.log).RegisterRoutes(r)
			onboarding.NewHandler(s.deps.Onboarding, s.log).RegisterRoutes(r)

			r.Route("/system", func(r chi.Router) {
				r.Get("/status", s.system.HandleStatus)
				r.Get("/disk", s.system.HandleDiskUsage)
			})
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","uptime":"%s"}`, time.Since(s.started).Round(time.Second))
}

// Start begins serving. Blocks until Shutdown or a listener error.
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
