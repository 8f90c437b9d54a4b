package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NazarChaban/RestAPI-app/internal/api"
	"github.com/NazarChaban/RestAPI-app/internal/blobstore"
	"github.com/NazarChaban/RestAPI-app/internal/config"
	"github.com/NazarChaban/RestAPI-app/internal/logger"
	"github.com/NazarChaban/RestAPI-app/internal/mailer"
	"github.com/NazarChaban/RestAPI-app/internal/repository/postgres"
	"github.com/NazarChaban/RestAPI-app/internal/service"
	"github.com/NazarChaban/RestAPI-app/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	slogger := logger.New(cfg.LogLevel, cfg.LogFormat)

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	repos := postgres.NewRepositories(db)

	// Signing key is loaded once here and read-only afterwards.
	tokens := token.NewManager([]byte(cfg.JWTSecret), token.TTL{
		Access:  cfg.AccessTokenTTL,
		Refresh: cfg.RefreshTokenTTL,
		Email:   cfg.EmailTokenTTL,
	})

	mailClient, err := mailer.NewAMQPClient(cfg.AMQP.URL, cfg.AMQP.Queue)
	if err != nil {
		log.Fatalf("failed to connect to message broker: %v", err)
	}
	defer mailClient.Close()

	avatars, err := blobstore.NewS3Store(context.Background(), blobstore.Config{
		Endpoint:        cfg.S3.Endpoint,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
		Bucket:          cfg.S3.Bucket,
		Region:          cfg.S3.Region,
		UseSSL:          cfg.S3.UseSSL,
		PublicBaseURL:   cfg.S3.PublicBaseURL,
	})
	if err != nil {
		log.Fatalf("failed to connect to blob store: %v", err)
	}

	services := service.NewServices(repos, tokens, mailClient, avatars, slogger)
	router := api.NewRouter(services, cfg, slogger)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slogger.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slogger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	slogger.Info("server stopped")
}
