package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"chatroom-service/internal/config"
	"chatroom-service/internal/contacts"
	"chatroom-service/internal/handlers"
	"chatroom-service/internal/middleware"
	"chatroom-service/internal/observability"
	"chatroom-service/internal/rabbitmq"
	"chatroom-service/internal/repositories"
	"chatroom-service/internal/rooms"
	"chatroom-service/internal/telemetry"
	"chatroom-service/internal/ws"
)

const serviceName = "chatroom-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := newLogger(cfg)
	log.Logger = logger

	ctx := context.Background()

	shutdownTracing, err := telemetry.InitTracing(ctx, serviceName, cfg.OTLPEndpoint, cfg.Env)
	if err != nil {
		logger.Fatal().Err(err).Msg("tracing init failed")
	}

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	observability.SetPublisher(publisher)
	logger.Info().
		Str("mode", rabbitmq.PublisherMode(publisher)).
		Str("noop_reason", rabbitmq.PublisherNoopReason(publisher)).
		Msg("event publisher ready")
	audit := telemetry.NewAuditEmitter(publisher, cfg.AuditRoutingKey, serviceName, cfg.Env)

	store, err := repositories.Open(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("message store unavailable")
	}
	defer store.Close()

	hub := ws.NewHub()
	roomHandler := handlers.NewRoomHandler(store, rooms.NewRegistry(cfg.MaxUsers), hub, audit, cfg.IsHost)
	contactHandler := handlers.NewContactHandler(contacts.NewRegistry(), audit)
	roomWS := ws.NewRoomWebSocketHandler(hub)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(logger),
		otelgin.Middleware(serviceName),
		observability.HTTPMetricsMiddleware(),
	)

	router.GET("/healthz", handlers.Health(store.Backend()))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/rooms", roomHandler.CreateRoom)
	router.POST("/rooms/join", roomHandler.JoinRoom)
	router.GET("/rooms/:room_id", roomHandler.GetRoom)
	router.POST("/rooms/:room_id/members", roomHandler.JoinMember)
	router.DELETE("/rooms/:room_id/members/:username", roomHandler.LeaveMember)
	router.GET("/rooms/:room_id/messages", roomHandler.ListMessages)
	router.POST("/rooms/:room_id/messages", roomHandler.PostMessage)

	router.GET("/emojis", handlers.ListEmojis)
	router.GET("/emojis/random", handlers.RandomEmoji)

	router.GET("/contacts", contactHandler.ListContacts)
	router.POST("/contacts", contactHandler.AddContact)
	router.POST("/contacts/import", contactHandler.ImportContacts)
	router.GET("/contacts/:name/messages", contactHandler.ContactMessages)
	router.POST("/contacts/:name/messages", contactHandler.SendContactMessage)

	router.GET("/ws/rooms/:room_id", roomWS.Handle)

	handlers.RegisterDebugRoutes(router, audit, cfg.DebugRoutes)

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("store", store.Backend()).
			Bool("host", cfg.IsHost).
			Msg("starting chatroom server")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("tracer shutdown failed")
	}

	logger.Info().Msg("server stopped")
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(level).With().Timestamp().Str("service", serviceName).Logger()
}
