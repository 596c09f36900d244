// Package main is the entry point for the Swipr advisory backend. It wires
// the stock catalogue, behavioral engine, advisory generator, portfolio
// optimizer and their HTTP surface, then runs until interrupted.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/swiprhq/swipr/internal/config"
	"github.com/swiprhq/swipr/internal/database"
	"github.com/swiprhq/swipr/internal/modules/agent"
	"github.com/swiprhq/swipr/internal/modules/auth"
	"github.com/swiprhq/swipr/internal/modules/market"
	"github.com/swiprhq/swipr/internal/modules/onboarding"
	"github.com/swiprhq/swipr/internal/modules/portfolio"
	"github.com/swiprhq/swipr/internal/modules/queue"
	"github.com/swiprhq/swipr/internal/modules/watchlist"
	"github.com/swiprhq/swipr/internal/scheduler"
	"github.com/swiprhq/swipr/internal/server"
	"github.com/swiprhq/swipr/pkg/logger"
)

// queueEntries adapts the queue service to the advisory generator's view of
// a user's queue.
type queueEntries struct {
	queue *queue.Service
}

func (q queueEntries) Entries(userID string) ([]agent.QueueEntry, error) {
	items, err := q.queue.List(userID)
	if err != nil {
		return nil, err
	}
	entries := make([]agent.QueueEntry, len(items))
	for i, item := range items {
		entries[i] = agent.QueueEntry{Symbol: item.Symbol, Confidence: item.Confidence}
	}
	return entries, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting Swipr")

	db, err := database.New(database.Config{Path: cfg.DatabasePath()})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := database.InitSchema(db.Conn()); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize schema")
	}

	// Market data is a static in-memory catalogue.
	catalogue := market.NewCatalogue(log)

	authService, err := auth.NewService(
		auth.NewRepository(db.Conn(), log),
		time.Duration(cfg.TokenTTLHours)*time.Hour,
		log,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize auth")
	}

	behaviors, err := agent.NewBehaviorStore(agent.NewBehaviorRepository(db.Conn(), log), log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load behavior records")
	}

	queueService := queue.NewService(queue.NewRepository(db.Conn(), log), catalogue, log)
	watchlistService := watchlist.NewService(watchlist.NewRepository(db.Conn(), log), catalogue, log)

	estimator := portfolio.NewRangeEstimator(time.Now().UnixNano())
	optimizer := portfolio.NewOptimizer(catalogue, estimator, log)
	portfolioService := portfolio.NewService(portfolio.NewRepository(db.Conn(), log), catalogue, optimizer, estimator, log)

	onboardingService := onboarding.NewService(onboarding.NewRepository(db.Conn(), log), log)

	stream := agent.NewBroadcaster(log)
	agentService := agent.NewService(
		agent.NewProfileRepository(db.Conn(), log),
		behaviors,
		agent.NewGenerator(catalogue, log),
		queueEntries{queue: queueService},
		stream,
		log,
	)

	sched := scheduler.New(log)
	if err := sched.AddJob("@daily", scheduler.NewStreakJob(behaviors, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register streak job")
	}
	sched.Start()

	srv := server.New(server.Deps{
		Config:      cfg,
		AuthService: authService,
		Catalogue:   catalogue,
		Agent:       agentService,
		Queue:       queueService,
		Watchlist:   watchlistService,
		Portfolio:   portfolioService,
		Onboarding:  onboardingService,
	}, log)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")
	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
