package repository

import (
	"context"

	"github.com/rincondelcarmen/hotel-booking/internal/errors"
	"github.com/rincondelcarmen/hotel-booking/internal/models"
)

// reservationRepository implements ReservationRepository
type reservationRepository struct {
	s *store
}

func (r *reservationRepository) List(ctx context.Context) ([]models.Reservation, error) {
	defer r.s.lock()()
	return loadTable[models.Reservation](ctx, r.s, r.s.keys.Reservations)
}

func (r *reservationRepository) ListByUser(ctx context.Context, userID string) ([]models.Reservation, error) {
	defer r.s.lock()()

	all, err := loadTable[models.Reservation](ctx, r.s, r.s.keys.Reservations)
	if err != nil {
		return nil, err
	}
	mine := []models.Reservation{}
	for _, res := range all {
		if res.UserID == userID {
			mine = append(mine, res)
		}
	}
	return mine, nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	defer r.s.lock()()

	all, err := loadTable[models.Reservation](ctx, r.s, r.s.keys.Reservations)
	if err != nil {
		return nil, err
	}
	if i := reservationIndex(all, id); i >= 0 {
		return &all[i], nil
	}
	return nil, errors.NotFound("reservation not found", nil).WithDetails(id)
}

func (r *reservationRepository) Create(ctx context.Context, draft models.ReservationDraft) (*models.Reservation, error) {
	defer r.s.lock()()

	all, err := loadTable[models.Reservation](ctx, r.s, r.s.keys.Reservations)
	if err != nil {
		return nil, err
	}

	res := models.Reservation{
		ID:         r.s.newID(),
		UserID:     draft.UserID,
		RoomID:     draft.RoomID,
		RoomName:   draft.RoomName,
		CheckIn:    draft.CheckIn,
		CheckOut:   draft.CheckOut,
		People:     draft.People,
		TotalPrice: draft.TotalPrice,
		Status:     models.StatusConfirmed,
		CreatedAt:  r.s.now().UTC(),
	}

	all = append(all, res)
	if err := saveTable(ctx, r.s, r.s.keys.Reservations, all); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *reservationRepository) Cancel(ctx context.Context, id string) (*models.Reservation, error) {
	defer r.s.lock()()

	all, err := loadTable[models.Reservation](ctx, r.s, r.s.keys.Reservations)
	if err != nil {
		return nil, err
	}
	i := reservationIndex(all, id)
	if i < 0 {
		return nil, errors.NotFound("reservation not found", nil).WithDetails(id)
	}

	if all[i].Status != models.StatusCancelled {
		all[i].Status = models.StatusCancelled
		if err := saveTable(ctx, r.s, r.s.keys.Reservations, all); err != nil {
			return nil, err
		}
	}
	res := all[i]
	return &res, nil
}

func reservationIndex(all []models.Reservation, id string) int {
	for i := range all {
		if all[i].ID == id {
			return i
		}
	}
	return -1
}
