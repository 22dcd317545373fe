package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/rincondelcarmen/hotel-booking/internal/api"
	"github.com/rincondelcarmen/hotel-booking/internal/database"
	"github.com/rincondelcarmen/hotel-booking/internal/logger"
	"github.com/rincondelcarmen/hotel-booking/internal/metrics"
	"github.com/rincondelcarmen/hotel-booking/internal/repository"
	"github.com/rincondelcarmen/hotel-booking/internal/services"
	"github.com/rincondelcarmen/hotel-booking/pkg/config"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize configuration
	cfg, err := config.New()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	appLogger := logger.New(logger.Options{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		Component: "hotel-booking",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the store backend
	backend, err := database.Open(ctx, cfg)
	if err != nil {
		appLogger.Fatal("Failed to open store", err, "driver", cfg.StoreDriver)
	}
	defer backend.Close()

	repos := repository.NewRepositories(backend, repository.KeysFor(cfg.StoreNamespace))

	encode, err := services.PasswordEncoder(cfg)
	if err != nil {
		appLogger.Fatal("Invalid password mode", err)
	}
	report, err := repository.Seed(ctx, repos, encode)
	if err != nil {
		appLogger.Fatal("Failed to seed store", err)
	}
	appLogger.Info("Store ready",
		"driver", cfg.StoreDriver,
		"seeded_users", report.Users,
		"seeded_rooms", report.Rooms,
		"seeded_reservations", report.Reservations)

	if cfg.PasswordMode == config.PasswordPlain {
		appLogger.Warn("Passwords are stored and compared as plain text", "password_mode", cfg.PasswordMode)
	}
	if !cfg.StrictBooking {
		appLogger.Warn("Booking trusts the caller's availability check; concurrent bookings may overlap")
	}

	appMetrics := metrics.New("hotel")

	svc, err := services.NewServices(services.Dependencies{
		Repos:   repos,
		Config:  cfg,
		Logger:  appLogger,
		Metrics: appMetrics,
	})
	if err != nil {
		appLogger.Fatal("Failed to create services", err)
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	if err := api.SetupRoutes(r, api.Dependencies{
		Services:  svc,
		Backend:   backend,
		Config:    cfg,
		Logger:    appLogger,
		Metrics:   appMetrics,
		RateLimit: cfg.RateLimit,
	}); err != nil {
		appLogger.Fatal("Failed to setup API routes", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Failed to start server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Graceful shutdown failed", err)
	}
}
