/*
Package main is the entry point for the chat application backend.

It is responsible for loading configuration, initializing the global logging
system, connecting to the database and file storage, setting up the HTTP
server and WebSocket Hub, and gracefully handling operating system interrupt
signals (SIGINT, SIGTERM) to ensure a smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arshGoyalDev/chat-app-backend/internal/app/chat"
	"github.com/arshGoyalDev/chat-app-backend/internal/app/crypto"
	"github.com/arshGoyalDev/chat-app-backend/internal/app/db"
	"github.com/arshGoyalDev/chat-app-backend/internal/app/storage"
	"github.com/arshGoyalDev/chat-app-backend/internal/app/store"
	"github.com/arshGoyalDev/chat-app-backend/internal/configs"
	"github.com/arshGoyalDev/chat-app-backend/internal/handler"
	"github.com/arshGoyalDev/chat-app-backend/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Msg("Configuration loaded successfully")

	// The codec runs a round-trip self-check on construction. A failure here
	// means stored message content could be written undecryptably, so startup
	// aborts.
	codec, err := crypto.NewCodec(cfg.MessageSecretKey)
	if err != nil {
		logx.Fatal(err, "Message codec initialization failed")
	}

	pool, err := db.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Database initialization failed")
	}
	pgStore := store.NewPostgresStore(pool)
	defer pgStore.Close()

	fileStorage, err := storage.NewFileStorage(storage.ServiceConfig{
		S3BucketName:      cfg.S3BucketName,
		S3Endpoint:        cfg.S3Endpoint,
		S3AccessKeyID:     cfg.S3AccessKeyID,
		S3SecretAccessKey: cfg.S3SecretAccessKey,
	})
	if err != nil {
		logx.Fatal(err, "File storage initialization failed")
	}

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := chat.NewHub(codec, pgStore)

	// Setup HTTP server and routes
	router := handler.Router(&handler.AppDeps{
		Hub:         hub,
		Config:      cfg,
		FileStorage: fileStorage,
	})

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Chat server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	hub.Shutdown()

	logx.Info("Server gracefully stopped.")
}
