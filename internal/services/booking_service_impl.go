package services

import (
	"context"
	"strconv"
	"time"

	"github.com/rincondelcarmen/hotel-booking/internal/auth"
	"github.com/rincondelcarmen/hotel-booking/internal/availability"
	"github.com/rincondelcarmen/hotel-booking/internal/errors"
	"github.com/rincondelcarmen/hotel-booking/internal/logger"
	"github.com/rincondelcarmen/hotel-booking/internal/metrics"
	"github.com/rincondelcarmen/hotel-booking/internal/models"
	"github.com/rincondelcarmen/hotel-booking/internal/repository"
)

// bookingServiceImpl implements BookingService
type bookingServiceImpl struct {
	repos   *repository.Repositories
	strict  bool
	now     func() time.Time
	logger  logger.Logger
	metrics *metrics.Metrics
}

// newBookingService creates a new booking service implementation
func newBookingService(deps Dependencies) BookingService {
	return &bookingServiceImpl{
		repos:   deps.Repos,
		strict:  deps.Config.StrictBooking,
		now:     deps.Clock,
		logger:  deps.Logger.With("component", "booking"),
		metrics: deps.Metrics,
	}
}

// ListRooms returns the rooms visible to guests
func (s *bookingServiceImpl) ListRooms(ctx context.Context) ([]models.Room, error) {
	return s.repos.Room.ListActive(ctx)
}

// GetRoom returns an active room. Inactive rooms read as not found.
func (s *bookingServiceImpl) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.repos.Room.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !room.Active {
		return nil, errors.RoomNotFound("room "+id+" is not available", nil).WithOperation("GetRoom")
	}
	return room, nil
}

// Search returns the active rooms that can host the stay, in stored order
func (s *bookingServiceImpl) Search(ctx context.Context, q availability.Query) ([]models.Room, error) {
	if err := s.validateStay(q.CheckIn, q.CheckOut, q.People); err != nil {
		return nil, err
	}

	var result []models.Room
	err := s.repos.Tx.WithTransaction(ctx, func(repos *repository.Repositories) error {
		rooms, err := repos.Room.ListActive(ctx)
		if err != nil {
			return err
		}
		reservations, err := repos.Reservation.List(ctx)
		if err != nil {
			return err
		}
		result = availability.AvailableRooms(rooms, reservations, q)
		return nil
	})
	if err != nil {
		s.metrics.RecordStoreError("search")
		s.logger.Error("Availability search failed", err)
		return nil, err
	}

	s.metrics.RecordSearch(len(result))
	s.logger.Debug("Availability searched",
		"check_in", q.CheckIn.String(), "check_out", q.CheckOut.String(), "people", q.People, "available", len(result))
	return result, nil
}

// Quote prices a stay in a room without booking it
func (s *bookingServiceImpl) Quote(ctx context.Context, roomID string, checkIn, checkOut models.Date) (*Quote, error) {
	if err := s.validateStay(checkIn, checkOut, 1); err != nil {
		return nil, err
	}
	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return &Quote{
		RoomID:        room.ID,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Nights:        availability.Nights(checkIn, checkOut),
		PricePerNight: room.PricePerNight,
		TotalPrice:    availability.TotalPrice(room.PricePerNight, checkIn, checkOut),
	}, nil
}

// Book reserves a room for an authenticated user. In strict mode the
// overlap check is repeated under the store lock right before writing.
func (s *bookingServiceImpl) Book(ctx context.Context, identity *models.User, req models.BookingRequest) (*models.Reservation, error) {
	if err := auth.RequireAuthenticated(identity); err != nil {
		s.metrics.RecordBooking(metrics.ResultRejected)
		return nil, err
	}
	if err := s.validateStay(req.CheckIn, req.CheckOut, req.People); err != nil {
		s.metrics.RecordBooking(metrics.ResultRejected)
		return nil, err
	}

	var reservation *models.Reservation
	err := s.repos.Tx.WithTransaction(ctx, func(repos *repository.Repositories) error {
		room, err := repos.Room.GetByID(ctx, req.RoomID)
		if err != nil {
			return err
		}
		if !room.Active {
			return errors.RoomNotFound("room "+req.RoomID+" is not available", nil).WithOperation("Book")
		}
		if req.People > room.MaxPeople {
			return errors.InvalidInput("room "+room.ID+" cannot host that many guests", nil).WithOperation("Book")
		}

		if s.strict {
			existing, err := repos.Reservation.List(ctx)
			if err != nil {
				return err
			}
			if !availability.IsRoomAvailable(room.ID, req.CheckIn, req.CheckOut, existing) {
				return errors.RoomUnavailable("room "+room.ID+" is already booked for those dates", nil).WithOperation("Book")
			}
		}

		reservation, err = repos.Reservation.Create(ctx, models.ReservationDraft{
			UserID:     identity.ID,
			RoomID:     room.ID,
			RoomName:   room.Name,
			CheckIn:    req.CheckIn,
			CheckOut:   req.CheckOut,
			People:     req.People,
			TotalPrice: availability.TotalPrice(room.PricePerNight, req.CheckIn, req.CheckOut),
		})
		return err
	})
	if err != nil {
		s.recordBookingFailure(err, identity, req)
		return nil, err
	}

	s.metrics.RecordBooking(metrics.ResultConfirmed)
	s.logger.Info("Reservation confirmed",
		"reservation_id", reservation.ID, "user_id", identity.ID, "room_id", reservation.RoomID,
		"check_in", reservation.CheckIn.String(), "check_out", reservation.CheckOut.String(),
		"total_price", reservation.TotalPrice)
	return reservation, nil
}

func (s *bookingServiceImpl) recordBookingFailure(err error, identity *models.User, req models.BookingRequest) {
	switch {
	case errors.Is(err, errors.ErrRoomUnavailable):
		s.metrics.RecordBooking(metrics.ResultUnavailable)
		s.logger.Warn("Booking rejected, dates taken", "user_id", identity.ID, "room_id", req.RoomID)
	case errors.Is(err, errors.ErrDatabase):
		s.metrics.RecordBooking(metrics.ResultFailed)
		s.metrics.RecordStoreError("book")
		s.logger.Error("Failed to store reservation", err, "user_id", identity.ID, "room_id", req.RoomID)
	default:
		s.metrics.RecordBooking(metrics.ResultRejected)
		s.logger.Warn("Booking rejected", "user_id", identity.ID, "room_id", req.RoomID, "code", errors.CodeOf(err))
	}
}

// Cancel cancels a reservation owned by identity, or any reservation
// when identity is an administrator.
func (s *bookingServiceImpl) Cancel(ctx context.Context, identity *models.User, reservationID string) (*models.Reservation, error) {
	if err := auth.RequireAuthenticated(identity); err != nil {
		return nil, err
	}

	var cancelled *models.Reservation
	var changed bool
	err := s.repos.Tx.WithTransaction(ctx, func(repos *repository.Repositories) error {
		existing, err := repos.Reservation.GetByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if existing.UserID != identity.ID && !identity.IsAdmin() {
			return errors.Forbidden("reservation belongs to another user", nil).WithOperation("Cancel")
		}
		changed = existing.IsConfirmed()
		cancelled, err = repos.Reservation.Cancel(ctx, reservationID)
		return err
	})
	if err != nil {
		if errors.Is(err, errors.ErrDatabase) {
			s.metrics.RecordStoreError("cancel")
			s.logger.Error("Failed to cancel reservation", err, "reservation_id", reservationID)
		} else {
			s.logger.Warn("Cancellation rejected", "reservation_id", reservationID, "user_id", identity.ID, "code", errors.CodeOf(err))
		}
		return nil, err
	}

	if changed {
		s.metrics.RecordCancellation()
		s.logger.Info("Reservation cancelled", "reservation_id", reservationID, "user_id", identity.ID, "admin", identity.IsAdmin())
	}
	return cancelled, nil
}

// ListMine returns the reservations of identity, or none when absent
func (s *bookingServiceImpl) ListMine(ctx context.Context, identity *models.User) ([]models.Reservation, error) {
	if identity == nil {
		return []models.Reservation{}, nil
	}
	return s.repos.Reservation.ListByUser(ctx, identity.ID)
}

// MaxStayNights bounds a single stay
const MaxStayNights = 365

// validateStay is the search form check: a stay starting today or later,
// of one to MaxStayNights nights, for at least one guest
func (s *bookingServiceImpl) validateStay(checkIn, checkOut models.Date, people int) error {
	if checkIn.IsZero() || checkOut.IsZero() {
		return errors.InvalidInput("check-in and check-out dates are required", nil)
	}
	if !checkOut.After(checkIn) {
		return errors.InvalidInput("check-out must be after check-in", nil)
	}
	if checkIn.Before(models.NewDate(s.now())) {
		return errors.InvalidInput("check-in cannot be in the past", nil)
	}
	if availability.Nights(checkIn, checkOut) > MaxStayNights {
		return errors.InvalidInput("a stay cannot exceed "+strconv.Itoa(MaxStayNights)+" nights", nil)
	}
	if people < 1 {
		return errors.InvalidInput("at least one guest is required", nil)
	}
	return nil
}
