package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rincondelcarmen/hotel-booking/internal/auth"
	"github.com/rincondelcarmen/hotel-booking/internal/availability"
	"github.com/rincondelcarmen/hotel-booking/internal/logger"
	"github.com/rincondelcarmen/hotel-booking/internal/metrics"
	"github.com/rincondelcarmen/hotel-booking/internal/models"
	"github.com/rincondelcarmen/hotel-booking/internal/repository"
	"github.com/rincondelcarmen/hotel-booking/pkg/config"
)

// Services contains all application services
type Services struct {
	Auth    AuthService
	Booking BookingService
	Rooms   RoomService
	Admin   AdminService
}

// AuthService wraps the session gate with logging and metrics
type AuthService interface {
	// NewSession returns an empty session bound to the user store
	NewSession() *auth.Session
	// Resume returns a session restored from token. On failure the
	// returned session is empty and still usable.
	Resume(ctx context.Context, token string) (*auth.Session, error)
	Login(ctx context.Context, session *auth.Session, req models.LoginRequest) (*models.User, error)
	Register(ctx context.Context, session *auth.Session, draft models.UserDraft) (*models.User, error)
	Logout(session *auth.Session)
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// BookingService is the reservation lifecycle manager
type BookingService interface {
	ListRooms(ctx context.Context) ([]models.Room, error)
	GetRoom(ctx context.Context, id string) (*models.Room, error)
	Search(ctx context.Context, q availability.Query) ([]models.Room, error)
	Quote(ctx context.Context, roomID string, checkIn, checkOut models.Date) (*Quote, error)
	Book(ctx context.Context, identity *models.User, req models.BookingRequest) (*models.Reservation, error)
	Cancel(ctx context.Context, identity *models.User, reservationID string) (*models.Reservation, error)
	ListMine(ctx context.Context, identity *models.User) ([]models.Reservation, error)
}

// RoomService holds the admin room mutations
type RoomService interface {
	ListAll(ctx context.Context, identity *models.User) ([]models.Room, error)
	Create(ctx context.Context, identity *models.User, draft models.RoomDraft) (*models.Room, error)
	Update(ctx context.Context, identity *models.User, id string, update models.RoomUpdate) (*models.Room, error)
	ToggleActive(ctx context.Context, identity *models.User, id string) (*models.Room, error)
}

// AdminService serves the admin overview
type AdminService interface {
	Dashboard(ctx context.Context, identity *models.User) (*Dashboard, error)
	ListReservations(ctx context.Context, identity *models.User) ([]models.Reservation, error)
}

// Quote is the price of a stay before booking
type Quote struct {
	RoomID        string      `json:"roomId"`
	CheckIn       models.Date `json:"checkIn"`
	CheckOut      models.Date `json:"checkOut"`
	Nights        int         `json:"nights"`
	PricePerNight float64     `json:"pricePerNight"`
	TotalPrice    float64     `json:"totalPrice"`
}

// Dashboard summarises the store for administrators
type Dashboard struct {
	TotalReservations     int                  `json:"totalReservations"`
	ConfirmedReservations int                  `json:"confirmedReservations"`
	TotalRooms            int                  `json:"totalRooms"`
	TotalUsers            int                  `json:"totalUsers"`
	TotalRevenue          float64              `json:"totalRevenue"`
	RecentActivity        []models.Reservation `json:"recentActivity"`
}

// Dependencies are the collaborators shared by all services
type Dependencies struct {
	Repos   *repository.Repositories
	Config  *config.Config
	Logger  logger.Logger
	Metrics *metrics.Metrics
	// Clock decides what "today" is for stay validation. Defaults to time.Now.
	Clock func() time.Time
}

// NewServices creates a new Services instance with all dependencies
func NewServices(deps Dependencies) (*Services, error) {
	if deps.Repos == nil || deps.Config == nil {
		return nil, fmt.Errorf("services require repositories and config")
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	passwords, err := auth.NewPasswordMatcher(deps.Config.PasswordMode)
	if err != nil {
		return nil, err
	}
	ttl := deps.Config.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	tokens := auth.NewTokenService(deps.Config.SessionSecret, ttl)

	return &Services{
		Auth:    newAuthService(deps, passwords, tokens),
		Booking: newBookingService(deps),
		Rooms:   newRoomService(deps),
		Admin:   newAdminService(deps),
	}, nil
}

// PasswordEncoder returns the encoder matching the configured password
// mode, for seeding the administrator.
func PasswordEncoder(cfg *config.Config) (repository.PasswordEncoder, error) {
	passwords, err := auth.NewPasswordMatcher(cfg.PasswordMode)
	if err != nil {
		return nil, err
	}
	return passwords.Encode, nil
}
