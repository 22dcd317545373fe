package models

import "time"

// ReservationStatus is either confirmed or cancelled
type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
)

// Reservation is a stay of one user in one room over [CheckIn, CheckOut).
// RoomName is a snapshot of the room name at booking time.
type Reservation struct {
	ID         string            `json:"id"`
	UserID     string            `json:"userId"`
	RoomID     string            `json:"roomId"`
	RoomName   string            `json:"roomName"`
	CheckIn    Date              `json:"checkIn"`
	CheckOut   Date              `json:"checkOut"`
	People     int               `json:"people"`
	TotalPrice float64           `json:"totalPrice"`
	Status     ReservationStatus `json:"status"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// IsConfirmed returns true while the reservation still holds its room
func (r *Reservation) IsConfirmed() bool {
	return r.Status == StatusConfirmed
}

// ReservationDraft is what the lifecycle manager hands to the store
type ReservationDraft struct {
	UserID     string
	RoomID     string
	RoomName   string
	CheckIn    Date
	CheckOut   Date
	People     int
	TotalPrice float64
}

// BookingRequest is the booking input collected from a caller
type BookingRequest struct {
	RoomID   string `json:"roomId" binding:"required"`
	CheckIn  Date   `json:"checkIn"`
	CheckOut Date   `json:"checkOut"`
	People   int    `json:"people" binding:"required,min=1"`
}
