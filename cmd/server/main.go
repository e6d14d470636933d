package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/chirp/backend/internal/router"
	"github.com/anonto42/chirp/backend/pkg/config"
	"github.com/anonto42/chirp/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		stdlog.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase storage for uploaded images
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseStorageBucket)
	if err != nil {
		stdlog.Fatalf("Failed to initialize Firebase: %v", err)
	}
	mediaStore, err := firebaseApp.MediaStore()
	if err != nil {
		stdlog.Fatalf("Failed to open media store: %v", err)
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	if cfg.IsProduction() {
		e.Logger.SetLevel(log.INFO)
	} else {
		e.Logger.SetLevel(log.DEBUG)
	}

	// Setup global middleware
	router.SetupMiddleware(e, cfg)

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, cfg, db.Postgres, db.MongoDB, mediaStore); err != nil {
		stdlog.Fatalf("Failed to set up routes: %v", err)
	}

	// Start server
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	stdlog.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Error(err)
	}
}
