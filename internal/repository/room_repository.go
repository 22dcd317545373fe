package repository

import (
	"context"

	"github.com/rincondelcarmen/hotel-booking/internal/errors"
	"github.com/rincondelcarmen/hotel-booking/internal/models"
)

// roomRepository implements RoomRepository
type roomRepository struct {
	s *store
}

func (r *roomRepository) List(ctx context.Context) ([]models.Room, error) {
	defer r.s.lock()()
	return loadTable[models.Room](ctx, r.s, r.s.keys.Rooms)
}

// ListActive keeps stored order
func (r *roomRepository) ListActive(ctx context.Context) ([]models.Room, error) {
	defer r.s.lock()()

	rooms, err := loadTable[models.Room](ctx, r.s, r.s.keys.Rooms)
	if err != nil {
		return nil, err
	}
	active := rooms[:0]
	for _, room := range rooms {
		if room.Active {
			active = append(active, room)
		}
	}
	return active, nil
}

func (r *roomRepository) GetByID(ctx context.Context, id string) (*models.Room, error) {
	defer r.s.lock()()

	rooms, err := loadTable[models.Room](ctx, r.s, r.s.keys.Rooms)
	if err != nil {
		return nil, err
	}
	if i := roomIndex(rooms, id); i >= 0 {
		return &rooms[i], nil
	}
	return nil, errors.RoomNotFound("room not found", nil).WithDetails(id)
}

func (r *roomRepository) Create(ctx context.Context, draft models.RoomDraft) (*models.Room, error) {
	defer r.s.lock()()

	rooms, err := loadTable[models.Room](ctx, r.s, r.s.keys.Rooms)
	if err != nil {
		return nil, err
	}

	id := draft.ID
	if id == "" {
		id = r.s.newID()
	} else if roomIndex(rooms, id) >= 0 {
		return nil, errors.InvalidInput("room id already exists", nil).WithDetails(id)
	}

	room := models.Room{
		ID:            id,
		Name:          draft.Name,
		Description:   draft.Description,
		Beds:          draft.Beds,
		MaxPeople:     draft.MaxPeople,
		PricePerNight: draft.PricePerNight,
		Amenities:     append([]string(nil), draft.Amenities...),
		Image:         draft.Image,
		Active:        true,
	}

	rooms = append(rooms, room)
	if err := saveTable(ctx, r.s, r.s.keys.Rooms, rooms); err != nil {
		return nil, err
	}
	return &room, nil
}

// Update merges the mutable fields. Unknown ids return ROOM_NOT_FOUND and
// write nothing.
func (r *roomRepository) Update(ctx context.Context, id string, update models.RoomUpdate) (*models.Room, error) {
	defer r.s.lock()()

	rooms, err := loadTable[models.Room](ctx, r.s, r.s.keys.Rooms)
	if err != nil {
		return nil, err
	}
	i := roomIndex(rooms, id)
	if i < 0 {
		return nil, errors.RoomNotFound("room not found", nil).WithDetails(id)
	}

	update.Apply(&rooms[i])
	if err := saveTable(ctx, r.s, r.s.keys.Rooms, rooms); err != nil {
		return nil, err
	}
	room := rooms[i]
	return &room, nil
}

func roomIndex(rooms []models.Room, id string) int {
	for i := range rooms {
		if rooms[i].ID == id {
			return i
		}
	}
	return -1
}
