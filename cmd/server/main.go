// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/handin-dev/handin-backend/api"
	"github.com/handin-dev/handin-backend/config"
	"github.com/handin-dev/handin-backend/internal/logger"
	"github.com/handin-dev/handin-backend/internal/storage"
)

var (
	customLog = logger.NewLogger()
)

func main() {
	customLog.Println("Starting Handin Backend server...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		customLog.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize MongoDB Connection
	db, err := storage.Connect(ctx, cfg)
	if err != nil {
		customLog.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		customLog.Println("Closing database connection...")
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(closeCtx); err != nil {
			customLog.Printf("Error closing database connection: %v", err)
		}
	}()

	// 3. Setup Router (passing dependencies)
	users := storage.NewMongoUserStore(db.DB)
	assignments := storage.NewMongoAssignmentStore(db.DB)
	router := api.SetupRouter(users, assignments, db, cfg)

	// 4. Start Server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		customLog.Printf("Server listening on port %s", cfg.ServerPort)
		serverErr <- srv.ListenAndServe()
	}()

	// Block until a shutdown signal arrives or the listener dies.
	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			customLog.Fatalf("Failed to start server: %v", err)
		}
	case <-ctx.Done():
		customLog.Println("Shutdown signal received, draining connections...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			customLog.Printf("Graceful shutdown failed: %v", err)
		}
	}
}
