// Package availability decides which rooms can host a stay. Everything
// here is pure: callers load rooms and reservations and pass them in.
//
// Stays are half-open intervals [checkIn, checkOut). A stay that ends on
// the day another begins does not collide with it.
package availability

import (
	"github.com/rincondelcarmen/hotel-booking/internal/models"
)

// Query is a requested stay. Callers must ensure CheckOut is after CheckIn
// and People is positive; results for reversed ranges are unspecified.
type Query struct {
	CheckIn  models.Date
	CheckOut models.Date
	People   int
}

// Overlaps reports whether [a1, a2) and [b1, b2) share at least one day
func Overlaps(a1, a2, b1, b2 models.Date) bool {
	return a1.Before(b2) && a2.After(b1)
}

// Conflicts returns the confirmed reservations on roomID that collide with
// [checkIn, checkOut). Cancelled reservations never conflict.
func Conflicts(roomID string, checkIn, checkOut models.Date, reservations []models.Reservation) []models.Reservation {
	var hits []models.Reservation
	for _, res := range reservations {
		if res.RoomID != roomID || !res.IsConfirmed() {
			continue
		}
		if Overlaps(checkIn, checkOut, res.CheckIn, res.CheckOut) {
			hits = append(hits, res)
		}
	}
	return hits
}

// IsRoomAvailable reports whether no confirmed reservation on roomID
// overlaps the stay
func IsRoomAvailable(roomID string, checkIn, checkOut models.Date, reservations []models.Reservation) bool {
	return len(Conflicts(roomID, checkIn, checkOut, reservations)) == 0
}

// AvailableRooms filters rooms to the active ones that fit the party and
// are free for the whole stay. Input order is preserved. The result is
// never nil.
func AvailableRooms(rooms []models.Room, reservations []models.Reservation, q Query) []models.Room {
	out := []models.Room{}
	for _, room := range rooms {
		if !room.Active || room.MaxPeople < q.People {
			continue
		}
		if IsRoomAvailable(room.ID, q.CheckIn, q.CheckOut, reservations) {
			out = append(out, room)
		}
	}
	return out
}

// Nights is the whole number of days between checkIn and checkOut
func Nights(checkIn, checkOut models.Date) int {
	return checkIn.DaysUntil(checkOut)
}

// TotalPrice is pricePerNight times the number of nights
func TotalPrice(pricePerNight float64, checkIn, checkOut models.Date) float64 {
	return pricePerNight * float64(Nights(checkIn, checkOut))
}
