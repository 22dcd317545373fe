package repository

import (
	"context"

	"github.com/rincondelcarmen/hotel-booking/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Create assigns id and createdAt and forces the guest role. It fails
	// with DUPLICATE_EMAIL when the email is already stored.
	Create(ctx context.Context, draft models.UserDraft) (*models.User, error)
}

// RoomRepository defines the interface for room data access
type RoomRepository interface {
	List(ctx context.Context) ([]models.Room, error)
	ListActive(ctx context.Context) ([]models.Room, error)
	GetByID(ctx context.Context, id string) (*models.Room, error)
	// Create keeps draft.ID when set, otherwise assigns one, and forces active=true.
	Create(ctx context.Context, draft models.RoomDraft) (*models.Room, error)
	Update(ctx context.Context, id string, update models.RoomUpdate) (*models.Room, error)
}

// ReservationRepository defines the interface for reservation data access
type ReservationRepository interface {
	List(ctx context.Context) ([]models.Reservation, error)
	ListByUser(ctx context.Context, userID string) ([]models.Reservation, error)
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	// Create assigns id and createdAt and stores the reservation as confirmed.
	Create(ctx context.Context, draft models.ReservationDraft) (*models.Reservation, error)
	// Cancel moves the reservation to cancelled. Cancelling twice returns
	// the record unchanged.
	Cancel(ctx context.Context, id string) (*models.Reservation, error)
}

// TransactionManager serialises a read-check-write sequence against the
// store. Writes made inside fn are persisted immediately and are not
// rolled back if fn later fails.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(repos *Repositories) error) error
}

// Repositories groups all repository interfaces
type Repositories struct {
	User        UserRepository
	Room        RoomRepository
	Reservation ReservationRepository
	Tx          TransactionManager

	store *store
}
