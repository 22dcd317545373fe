package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rincondelcarmen/hotel-booking/internal/database"
	"github.com/rincondelcarmen/hotel-booking/internal/logger"
	"github.com/rincondelcarmen/hotel-booking/internal/metrics"
	"github.com/rincondelcarmen/hotel-booking/internal/middleware"
	"github.com/rincondelcarmen/hotel-booking/internal/services"
	"github.com/rincondelcarmen/hotel-booking/pkg/config"
)

// Dependencies are what the router needs from the process
type Dependencies struct {
	Services *services.Services
	Backend  database.Backend
	Config   *config.Config
	Logger   logger.Logger
	Metrics  *metrics.Metrics

	// RateLimit is requests per minute per client; zero disables limiting
	RateLimit int
}

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, deps Dependencies) error {
	if deps.Services == nil || deps.Backend == nil || deps.Config == nil {
		return fmt.Errorf("routes require services, backend and config")
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}

	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
	}
	r.Use(middleware.LoggingMiddleware(deps.Logger.With("component", "http")))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(deps.Config))
	if deps.RateLimit > 0 {
		r.Use(middleware.RateLimitingMiddleware(middleware.NewRateLimiter(deps.RateLimit, time.Minute)))
	}

	healthHandler := NewHealthHandler(deps.Backend, deps.Config.StoreDriver)
	r.GET("/healthz", healthHandler.Health)
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	authHandler := NewAuthHandler(deps.Services.Auth)
	roomHandler := NewRoomHandler(deps.Services.Booking, deps.Services.Rooms)
	reservationHandler := NewReservationHandler(deps.Services.Booking, deps.Services.Admin)

	// Every API route sees the caller's session, possibly empty
	api := r.Group("/api/v1")
	api.Use(middleware.InputValidationMiddleware())
	api.Use(middleware.SessionMiddleware(deps.Services.Auth))

	// Public routes
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)

		api.GET("/rooms", roomHandler.ListRooms)
		api.GET("/rooms/:id", roomHandler.GetRoom)
		api.GET("/rooms/:id/quote", roomHandler.Quote)
		api.GET("/availability", roomHandler.Availability)
	}

	// Authenticated routes
	protected := api.Group("")
	protected.Use(middleware.RequireAuth())
	{
		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/reservations", reservationHandler.Book)
		protected.GET("/reservations/mine", reservationHandler.ListMine)
		protected.POST("/reservations/:id/cancel", reservationHandler.Cancel)
	}

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/rooms", roomHandler.ListAllRooms)
		admin.POST("/rooms", roomHandler.CreateRoom)
		admin.PATCH("/rooms/:id", roomHandler.UpdateRoom)
		admin.POST("/rooms/:id/toggle", roomHandler.ToggleRoom)
		admin.GET("/reservations", reservationHandler.ListAll)
		admin.GET("/dashboard", reservationHandler.Dashboard)
	}

	return nil
}
