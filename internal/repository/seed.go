package repository

import (
	"context"
	"fmt"

	"github.com/rincondelcarmen/hotel-booking/internal/models"
)

// Seeded administrator credentials
const (
	SeedAdminEmail    = "admin@rincondelcarmen.com"
	SeedAdminPassword = "admin123"
)

// PasswordEncoder turns a plain password into its stored form
type PasswordEncoder func(plain string) (string, error)

// SeedReport tells which tables were written by Seed
type SeedReport struct {
	Users        bool
	Rooms        bool
	Reservations bool
}

// Seed writes the default admin, the three sample rooms and an empty
// reservations table, each only when its key has never been written.
// Existing tables are never touched, even when empty.
func Seed(ctx context.Context, repos *Repositories, encode PasswordEncoder) (SeedReport, error) {
	var report SeedReport

	s := repos.store
	if s == nil {
		return report, fmt.Errorf("seed requires repositories built by NewRepositories")
	}
	defer s.lock()()

	present := func(key string) (bool, error) {
		_, ok, err := s.backend.Get(ctx, key)
		return ok, err
	}

	has, err := present(s.keys.Users)
	if err != nil {
		return report, err
	}
	if !has {
		password := SeedAdminPassword
		if encode != nil {
			if password, err = encode(SeedAdminPassword); err != nil {
				return report, err
			}
		}
		admin := models.User{
			ID:          "1",
			DocumentID:  "admin123",
			FullName:    "Administrador",
			Nationality: "Colombia",
			Email:       SeedAdminEmail,
			Phone:       "+57 300 123 4567",
			Password:    password,
			Role:        models.RoleAdmin,
			CreatedAt:   s.now().UTC(),
		}
		if err := saveTable(ctx, s, s.keys.Users, []models.User{admin}); err != nil {
			return report, err
		}
		report.Users = true
	}

	if has, err = present(s.keys.Rooms); err != nil {
		return report, err
	}
	if !has {
		if err := saveTable(ctx, s, s.keys.Rooms, DefaultRooms()); err != nil {
			return report, err
		}
		report.Rooms = true
	}

	if has, err = present(s.keys.Reservations); err != nil {
		return report, err
	}
	if !has {
		if err := saveTable(ctx, s, s.keys.Reservations, []models.Reservation{}); err != nil {
			return report, err
		}
		report.Reservations = true
	}

	return report, nil
}

// DefaultRooms returns the sample rooms written on first run
func DefaultRooms() []models.Room {
	return []models.Room{
		{
			ID:            "1",
			Name:          "Suite Presidencial",
			Description:   "Nuestra suite más lujosa con vista panorámica",
			Beds:          1,
			MaxPeople:     2,
			PricePerNight: 450000,
			Amenities:     []string{"WiFi", "Minibar", "Jacuzzi", `TV 55"`, "Balcón", "Room Service"},
			Image:         "../imgs/suit_presidencial.jpg",
			Active:        true,
		},
		{
			ID:            "2",
			Name:          "Habitación Deluxe",
			Description:   "Habitación espaciosa con todas las comodidades",
			Beds:          1,
			MaxPeople:     2,
			PricePerNight: 280000,
			Amenities:     []string{"WiFi", "Minibar", `TV 43"`, "Aire Acondicionado"},
			Image:         "../imgs/otraHabitacion.jpg",
			Active:        true,
		},
		{
			ID:            "3",
			Name:          "Habitación Familiar",
			Description:   "Perfecta para familias, con dos camas dobles",
			Beds:          2,
			MaxPeople:     4,
			PricePerNight: 350000,
			Amenities:     []string{"WiFi", `TV 43"`, "Aire Acondicionado", "Cafetera"},
			Image:         "../imgs/habitacionFamiliar.jpeg",
			Active:        true,
		},
	}
}
