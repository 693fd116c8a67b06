package main

import (
	"context"
	"log"
	"strconv"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/3w-social/backend/internal/jobs"
	"github.com/3w-social/backend/internal/middleware"
	"github.com/3w-social/backend/internal/repositories"
	"github.com/3w-social/backend/internal/router"
	"github.com/3w-social/backend/internal/upload"
	"github.com/3w-social/backend/internal/validators"
	"github.com/3w-social/backend/pkg/config"
	"github.com/3w-social/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load environment variables from a .env file if present
	config.LoadEnv()
	cfg := config.Load()

	// Initialize database connection
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := repositories.EnsureUserIndexes(ctx, db.Mongo.Database(cfg.MongoDB)); err != nil {
		log.Fatalf("Failed to create MongoDB indexes: %v", err)
	}
	cancel()

	// Firebase social login is optional; the auth handler falls back to
	// password login when no credentials are configured.
	var firebaseAuth *auth.Client
	if cfg.FirebaseCredentialsPath != "" {
		app, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		firebaseAuth = app.AuthClient
	} else {
		log.Println("FIREBASE_CREDENTIALS_PATH not set, social login disabled.")
	}

	uploads, err := upload.NewSaver(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}

	e := echo.New()
	e.Validator = validators.NewValidator()

	rateLimiter := middleware.NewRateLimiter(parsePerMinute(cfg.RateLimitPerMinute), 20)
	rateLimiter.StartCleanup(10*time.Minute, time.Hour)
	defer rateLimiter.Stop()
	router.SetupMiddleware(e, rateLimiter)

	storyService := router.SetupRoutes(e, router.Deps{
		Mongo:        db.Mongo,
		Cfg:          cfg,
		FirebaseAuth: firebaseAuth,
		Uploads:      uploads,
	})

	sweeper := jobs.NewStorySweeper(storyService, parseSweepInterval(cfg.SweepInterval))
	sweeper.Start()
	defer sweeper.Stop()

	log.Printf("Starting server on port %s in %s mode", cfg.Port, cfg.Env)
	// Plain Printf so the deferred sweeper, limiter and database shutdown
	// still run after the listener stops.
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}

func parsePerMinute(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("Invalid RATE_LIMIT_PER_MINUTE %q, using 300", raw)
		return 300
	}
	return n
}

func parseSweepInterval(raw string) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Invalid STORY_SWEEP_INTERVAL %q, using 1h", raw)
		return time.Hour
	}
	return d
}
