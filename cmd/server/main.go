package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/collectra/backend/internal/aggregator"
	"github.com/collectra/backend/internal/allocation"
	"github.com/collectra/backend/internal/api"
	"github.com/collectra/backend/internal/casefile"
	"github.com/collectra/backend/internal/config"
	"github.com/collectra/backend/internal/idgen"
	"github.com/collectra/backend/internal/intake"
	"github.com/collectra/backend/internal/metrics"
	"github.com/collectra/backend/internal/registry"
	"github.com/collectra/backend/internal/risk"
	"github.com/collectra/backend/internal/sla"
	"github.com/collectra/backend/internal/storage"
	"github.com/collectra/backend/internal/ticker"
	"github.com/collectra/backend/internal/websocket"
	"github.com/collectra/backend/pkg/middleware"
)

func main() {
	// Configure logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("log_level", cfg.LogLevel).
		Msg("starting collectra backend server")

	// Create context for services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Provision the agency roster
	reg := registry.NewAgentRegistry(log.Logger)
	registry.ProvisionDefaultRoster(reg)

	// Core engine
	classifier := risk.NewClassifier(risk.SystemNoise(cfg.NoiseSeed))
	engine := allocation.NewEngine(reg, log.Logger)
	scheduler := sla.NewScheduler()

	service := casefile.NewService(reg, classifier, engine, scheduler, idgen.NewUUID(), log.Logger)
	service.SetContactWindow(casefile.ContactWindow{
		StartHour: cfg.ContactStartHour,
		EndHour:   cfg.ContactEndHour,
	})

	// Archive store (DynamoDB or noop depending on DYNAMO_MODE)
	store, err := storage.NewStore(ctx, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage")
	}
	service.SetArchive(store)

	// Create WebSocket hub
	hub := websocket.NewHub(log.Logger)
	go hub.Run()
	service.SetNotifier(hub)

	// Background loops
	monitor := sla.NewMonitor(service, hub, cfg.SLAPollInterval, log.Logger)
	go monitor.Start(ctx)

	retryLoop := allocation.NewRetryLoop(service, cfg.AllocRetryInterval, log.Logger)
	go retryLoop.Start(ctx)

	aggregatorService := aggregator.NewAggregator(service, reg, hub, cfg.SnapshotInterval, log.Logger)
	go aggregatorService.Start(ctx)

	heartbeat := ticker.NewTicker(hub, 30*time.Second, log.Logger)
	go heartbeat.Start(ctx)

	// Create WebSocket handler
	wsHandler := websocket.NewHandler(hub, cfg, log.Logger)

	// REST handlers
	caseHandler := api.NewCaseHandler(service, log.Logger)
	agentHandler := api.NewAgentHandler(reg, service, store, log.Logger)
	slaHandler := api.NewSLAHandler(service, log.Logger)
	adminHandler := api.NewAdminHandler(service, store, log.Logger)
	intakeReceiver := intake.NewReceiver(service, log.Logger)

	// Create router
	r := chi.NewRouter()

	// Add middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.Get("/health", healthHandler)
	r.Handle("/metrics", metrics.Handler())
	r.Get("/ws", wsHandler.ServeHTTP)

	// Internal routes for upstream originator feeds
	r.Route("/internal", func(r chi.Router) {
		r.Post("/cases/batch", intakeReceiver.HandleBatch)
		r.Get("/cases/stats", intakeReceiver.GetStats)
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/cases", func(r chi.Router) {
			r.Post("/", caseHandler.CreateCase)
			r.Get("/", caseHandler.ListCases)
			r.Route("/{caseId}", func(r chi.Router) {
				r.Get("/", caseHandler.GetCase)
				r.Post("/interactions", caseHandler.LogInteraction)
				r.Post("/documents", caseHandler.LogDocument)
				r.Post("/escalate", caseHandler.Escalate)
				r.Post("/resolve", caseHandler.Resolve)
				r.Post("/reallocate", caseHandler.Reallocate)
			})
		})

		r.Route("/agents", func(r chi.Router) {
			r.Get("/", agentHandler.ListAgents)
			r.Route("/{agentId}", func(r chi.Router) {
				r.Get("/", agentHandler.GetAgent)
				r.Get("/cases", agentHandler.GetAgentCases)
				r.Get("/history", agentHandler.GetHistory)
				r.Get("/resolved", agentHandler.GetResolvedCases)
			})
		})

		r.Get("/sla/status", slaHandler.GetStatus)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/records", adminHandler.GetCaseRecords)
			r.Post("/retry-allocations", adminHandler.RetryAllocations)
			r.Post("/wipe-dynamo", adminHandler.WipeDynamo)
		})
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Msgf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Stop background loops
	cancel()

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","service":"collectra-backend"}`)
}
