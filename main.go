package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/artverse-be/internal/api"
	"github.com/isdelr/artverse-be/internal/api/handlers"
	apimw "github.com/isdelr/artverse-be/internal/api/middleware"
	"github.com/isdelr/artverse-be/internal/auth"
	"github.com/isdelr/artverse-be/internal/broker"
	"github.com/isdelr/artverse-be/internal/config"
	"github.com/isdelr/artverse-be/internal/database"
	"github.com/isdelr/artverse-be/internal/logger"
	"github.com/isdelr/artverse-be/internal/monitoring"
	"github.com/isdelr/artverse-be/internal/services"
	"github.com/isdelr/artverse-be/internal/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Env)

	// Set up database
	db, err := database.New(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up the realtime hub
	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := websocket.NewHub()
	go hub.Run(hubCtx)

	// Domain events are optional; leave the publisher nil when no broker is configured.
	var publisher services.Publisher
	var amqpClient *broker.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = broker.NewClient(broker.Config{URL: cfg.AMQPURL, Queue: cfg.AMQPQueue})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to message broker")
		}
		publisher = amqpClient
	}

	// Set up services
	verifier := auth.NewVerifier(cfg.JWTSecret, cfg.TokenTTL)
	userService := services.NewUserService(db)
	eventService := services.NewEventService(db)
	artworkService := services.NewArtworkService(db, userService, eventService, publisher)
	wishlistService := services.NewWishlistService(db)
	messageService := services.NewDirectMessageService(db, userService, hub, publisher)
	chatService := services.NewChatGroupService(db, userService, hub)

	// Background jobs
	statUpdater := monitoring.NewStatUpdater(db, cfg.StatsInterval)
	go statUpdater.Run()

	var auditor *monitoring.LikeAuditor
	if cfg.LikeAuditSchedule != "" {
		auditor, err = monitoring.NewLikeAuditor(wishlistService, eventService, cfg.LikeAuditSchedule)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to schedule like audit")
		}
		auditor.Run()
	}

	limiter := apimw.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, 10*time.Minute)

	// Set up router
	router := api.NewRouter(api.Dependencies{
		Hub:            hub,
		Verifier:       verifier,
		Users:          userService,
		Artworks:       artworkService,
		Wishlist:       wishlistService,
		Messages:       messageService,
		Chats:          chatService,
		Events:         eventService,
		AllowedOrigins: cfg.AllowedOrigins,
		SecureCookies:  cfg.IsProduction(),
		Realtime: handlers.RealtimeOptions{
			AllowedOrigins:   cfg.AllowedOrigins,
			HandshakeTimeout: cfg.HandshakeTimeout,
			Heartbeat: websocket.Heartbeat{
				PingInterval: cfg.PingInterval,
				PongTimeout:  cfg.PongTimeout,
			},
		},
		RateLimiter: limiter,
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("env", cfg.Env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	statUpdater.Stop()
	if auditor != nil {
		auditor.Stop()
	}
	limiter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	stopHub()

	if amqpClient != nil {
		if err := amqpClient.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close broker connection")
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Info().Msg("Server exiting")
}
