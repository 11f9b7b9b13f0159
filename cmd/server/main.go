// cmd/server is the application entry point. It wires together the
// configuration, storage, assignment engine, and HTTP layers.
package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"eventlodging/config"
	_ "eventlodging/docs"
	"eventlodging/internal/adapters/auth"
	"eventlodging/internal/adapters/email"
	httpdelivery "eventlodging/internal/delivery/http"
	"eventlodging/internal/delivery/http/controllers"
	"eventlodging/internal/delivery/http/middleware"
	"eventlodging/internal/repository/postgres"
	"eventlodging/internal/services"
)

const serviceTimeout = 10 * time.Second

// @title Event Lodging API
// @version 1.0
// @description Room and transport assignment engine for event accommodation.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to postgres")

	eventRepo := postgres.NewEventRepository(db)
	attendeeRepo := postgres.NewAttendeeRepository(db)
	roomRepo := postgres.NewRoomRepository(db)
	busRepo := postgres.NewBusRepository(db)
	userRepo := postgres.NewUserRepository(db)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretKey,
		},
	})
	if err != nil {
		logger.Error("create mailer", "error", err)
		os.Exit(1)
	}
	notifier := email.NewAssignmentNotifier(mailer, logger)

	tokens := auth.NewJWTTokens(cfg.JWTSecret)
	hasher := auth.NewBcryptHasher(12)

	assignmentSvc := services.NewAssignmentService(eventRepo, attendeeRepo, roomRepo, busRepo, notifier, serviceTimeout)
	authSvc := services.NewAuthService(userRepo, hasher, tokens, cfg.TokenExpiry)

	assignmentController := controllers.NewAssignmentController(logger, assignmentSvc)
	authController := controllers.NewAuthController(logger, authSvc)

	mux := httpdelivery.NewRouter(assignmentController, authController, tokens)
	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(logger, handler)
	handler = middleware.RequestID(handler)
	if len(cfg.CORSAllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
