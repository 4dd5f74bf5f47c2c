package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"studybuddy-backend/internal/api"
	"studybuddy-backend/internal/broker"
	"studybuddy-backend/internal/config"
	"studybuddy-backend/internal/consumer"
	"studybuddy-backend/internal/handlers"
	"studybuddy-backend/internal/logging"
	"studybuddy-backend/internal/realtime"
	"studybuddy-backend/internal/services"
	"studybuddy-backend/internal/store/postgres"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Init("info", false)
		logging.Logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(cfg.LogLevel, cfg.LogPretty)
	log := logging.WithComponent("main")
	log.Info().Msg("starting StudyBuddy backend")

	// 2. Initialize Database Connection Pool
	dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer dbCancel()

	dbpool, err := pgxpool.New(dbCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to create database connection pool")
	}
	defer dbpool.Close()

	if err := dbpool.Ping(dbCtx); err != nil {
		log.Fatal().Err(err).Msg("unable to ping database")
	}
	log.Info().Msg("database connection pool established")

	pgStore := postgres.NewPostgresStore(dbpool, logging.WithComponent("store"))

	// 3. Connect to the broker
	bus, err := broker.NewNATSBus(cfg.NATSURL, logging.WithComponent("broker"))
	if err != nil {
		log.Fatal().Err(err).Str("url", cfg.NATSURL).Msg("unable to connect to NATS")
	}
	defer bus.Close()
	log.Info().Str("url", cfg.NATSURL).Msg("connected to NATS")

	// 4. Initialize hub, services, and the AI response consumer
	hub := realtime.NewHub(logging.WithComponent("realtime"))

	authService := services.NewAuthService(pgStore, cfg, logging.WithComponent("auth"))
	roomService := services.NewRoomService(pgStore, logging.WithComponent("rooms"))
	messageService := services.NewMessageService(pgStore, hub, bus, logging.WithComponent("messages"))

	aiConsumer := consumer.NewAIResponseConsumer(pgStore, hub, logging.WithComponent("ai-consumer"))

	// The consumer runs for the process lifetime; replies arriving seconds or
	// minutes after their triggering message are handled the same way.
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()
	if err := bus.SubscribeAIResponses(consumerCtx, aiConsumer.Handle); err != nil {
		log.Fatal().Err(err).Msg("unable to subscribe to AI responses")
	}

	// 5. Initialize handlers and router
	routerDeps := api.RouterDependencies{
		AuthHandler:      handlers.NewAuthHandler(authService, logging.WithComponent("handlers")),
		RoomHandler:      handlers.NewRoomHandler(roomService, logging.WithComponent("handlers")),
		MessageHandler:   handlers.NewMessageHandler(messageService, logging.WithComponent("handlers")),
		WebSocketHandler: realtime.NewWebSocketHandler(hub, logging.WithComponent("realtime")),
		Config:           cfg,
	}
	router := api.NewRouter(routerDeps)

	// 6. Configure and Start HTTP Server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-stopChan
	log.Info().Msg("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server shutdown complete")
}
