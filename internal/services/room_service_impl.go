package services

import (
	"context"
	"strings"

	"github.com/rincondelcarmen/hotel-booking/internal/auth"
	"github.com/rincondelcarmen/hotel-booking/internal/errors"
	"github.com/rincondelcarmen/hotel-booking/internal/logger"
	"github.com/rincondelcarmen/hotel-booking/internal/metrics"
	"github.com/rincondelcarmen/hotel-booking/internal/models"
	"github.com/rincondelcarmen/hotel-booking/internal/repository"
)

// Amenities given to a room created without any
var DefaultAmenities = []string{"WiFi", "TV"}

// roomServiceImpl implements RoomService
type roomServiceImpl struct {
	repos   *repository.Repositories
	logger  logger.Logger
	metrics *metrics.Metrics
}

// newRoomService creates a new room service implementation
func newRoomService(deps Dependencies) RoomService {
	return &roomServiceImpl{
		repos:   deps.Repos,
		logger:  deps.Logger.With("component", "rooms"),
		metrics: deps.Metrics,
	}
}

// ListAll returns every room including inactive ones
func (s *roomServiceImpl) ListAll(ctx context.Context, identity *models.User) ([]models.Room, error) {
	if err := auth.RequireAdmin(identity); err != nil {
		return nil, err
	}
	return s.repos.Room.List(ctx)
}

// Create validates draft and stores it as an active room
func (s *roomServiceImpl) Create(ctx context.Context, identity *models.User, draft models.RoomDraft) (*models.Room, error) {
	if err := auth.RequireAdmin(identity); err != nil {
		return nil, err
	}

	draft, err := normalizeRoomDraft(draft)
	if err != nil {
		return nil, err.WithOperation("CreateRoom")
	}

	room, createErr := s.repos.Room.Create(ctx, draft)
	if createErr != nil {
		s.logStoreFailure("create_room", createErr, "room_name", draft.Name)
		return nil, createErr
	}

	s.logger.Info("Room created", "room_id", room.ID, "name", room.Name, "admin_id", identity.ID)
	return room, nil
}

// Update changes the price and/or visibility of a room
func (s *roomServiceImpl) Update(ctx context.Context, identity *models.User, id string, update models.RoomUpdate) (*models.Room, error) {
	if err := auth.RequireAdmin(identity); err != nil {
		return nil, err
	}
	if update.IsEmpty() {
		return nil, errors.InvalidInput("nothing to update", nil).WithOperation("UpdateRoom")
	}
	if update.PricePerNight != nil && *update.PricePerNight <= 0 {
		return nil, errors.InvalidInput("price per night must be greater than zero", nil).WithOperation("UpdateRoom")
	}

	room, err := s.repos.Room.Update(ctx, id, update)
	if err != nil {
		s.logStoreFailure("update_room", err, "room_id", id)
		return nil, err
	}

	s.logger.Info("Room updated", "room_id", room.ID, "price_per_night", room.PricePerNight, "active", room.Active, "admin_id", identity.ID)
	return room, nil
}

// ToggleActive flips the visibility of a room
func (s *roomServiceImpl) ToggleActive(ctx context.Context, identity *models.User, id string) (*models.Room, error) {
	if err := auth.RequireAdmin(identity); err != nil {
		return nil, err
	}

	var room *models.Room
	err := s.repos.Tx.WithTransaction(ctx, func(repos *repository.Repositories) error {
		current, err := repos.Room.GetByID(ctx, id)
		if err != nil {
			return err
		}
		active := !current.Active
		room, err = repos.Room.Update(ctx, id, models.RoomUpdate{Active: &active})
		return err
	})
	if err != nil {
		s.logStoreFailure("toggle_room", err, "room_id", id)
		return nil, err
	}

	s.logger.Info("Room visibility toggled", "room_id", room.ID, "active", room.Active, "admin_id", identity.ID)
	return room, nil
}

func (s *roomServiceImpl) logStoreFailure(operation string, err error, fields ...interface{}) {
	if errors.Is(err, errors.ErrDatabase) {
		s.metrics.RecordStoreError(operation)
		s.logger.Error("Room store operation failed", err, append(fields, "operation", operation)...)
		return
	}
	s.logger.Warn("Room operation rejected", append(fields, "operation", operation, "code", errors.CodeOf(err))...)
}

// normalizeRoomDraft applies the admin form rules to draft
func normalizeRoomDraft(draft models.RoomDraft) (models.RoomDraft, *errors.AppError) {
	draft.Name = strings.TrimSpace(draft.Name)
	draft.Description = strings.TrimSpace(draft.Description)
	draft.Image = strings.TrimSpace(draft.Image)

	switch {
	case draft.Name == "":
		return draft, errors.InvalidInput("room name is required", nil)
	case draft.Beds < 1:
		return draft, errors.InvalidInput("a room needs at least one bed", nil)
	case draft.MaxPeople < 1:
		return draft, errors.InvalidInput("a room must host at least one guest", nil)
	case draft.PricePerNight < 0:
		return draft, errors.InvalidInput("price per night cannot be negative", nil)
	case draft.Image == "":
		return draft, errors.InvalidInput("room image is required", nil)
	}

	amenities := make([]string, 0, len(draft.Amenities))
	for _, a := range draft.Amenities {
		if a = strings.TrimSpace(a); a != "" {
			amenities = append(amenities, a)
		}
	}
	if len(amenities) == 0 {
		amenities = append(amenities, DefaultAmenities...)
	}
	draft.Amenities = amenities
	return draft, nil
}
