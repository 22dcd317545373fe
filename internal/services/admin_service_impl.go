package services

import (
	"context"

	"github.com/rincondelcarmen/hotel-booking/internal/auth"
	"github.com/rincondelcarmen/hotel-booking/internal/logger"
	"github.com/rincondelcarmen/hotel-booking/internal/models"
	"github.com/rincondelcarmen/hotel-booking/internal/repository"
)

const recentActivityLimit = 5

// adminServiceImpl implements AdminService
type adminServiceImpl struct {
	repos  *repository.Repositories
	logger logger.Logger
}

// newAdminService creates a new admin service implementation
func newAdminService(deps Dependencies) AdminService {
	return &adminServiceImpl{
		repos:  deps.Repos,
		logger: deps.Logger.With("component", "admin"),
	}
}

// Dashboard computes totals over one consistent snapshot of the store
func (s *adminServiceImpl) Dashboard(ctx context.Context, identity *models.User) (*Dashboard, error) {
	if err := auth.RequireAdmin(identity); err != nil {
		return nil, err
	}

	var d Dashboard
	err := s.repos.Tx.WithTransaction(ctx, func(repos *repository.Repositories) error {
		reservations, err := repos.Reservation.List(ctx)
		if err != nil {
			return err
		}
		rooms, err := repos.Room.List(ctx)
		if err != nil {
			return err
		}
		users, err := repos.User.List(ctx)
		if err != nil {
			return err
		}

		d.TotalReservations = len(reservations)
		d.TotalRooms = len(rooms)
		d.TotalUsers = len(users)
		for _, res := range reservations {
			if res.IsConfirmed() {
				d.ConfirmedReservations++
				d.TotalRevenue += res.TotalPrice
			}
		}
		d.RecentActivity = recentReservations(reservations, recentActivityLimit)
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to build dashboard", err)
		return nil, err
	}
	return &d, nil
}

// ListReservations returns every reservation in stored order
func (s *adminServiceImpl) ListReservations(ctx context.Context, identity *models.User) ([]models.Reservation, error) {
	if err := auth.RequireAdmin(identity); err != nil {
		return nil, err
	}
	return s.repos.Reservation.List(ctx)
}

// recentReservations returns the last n reservations, newest first
func recentReservations(all []models.Reservation, n int) []models.Reservation {
	out := make([]models.Reservation, 0, n)
	for i := len(all) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, all[i])
	}
	return out
}
