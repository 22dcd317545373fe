package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rincondelcarmen/hotel-booking/internal/models"
)

func d(s string) models.Date { return models.MustParseDate(s) }

func reservation(roomID, in, out string, status models.ReservationStatus) models.Reservation {
	return models.Reservation{RoomID: roomID, CheckIn: d(in), CheckOut: d(out), Status: status}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		a1, a2, b1, b2 string
		want           bool
	}{
		{"identical", "2024-01-01", "2024-01-03", "2024-01-01", "2024-01-03", true},
		{"partial tail", "2024-01-02", "2024-01-04", "2024-01-01", "2024-01-03", true},
		{"partial head", "2023-12-30", "2024-01-02", "2024-01-01", "2024-01-03", true},
		{"contained", "2024-01-02", "2024-01-03", "2024-01-01", "2024-01-05", true},
		{"containing", "2023-12-01", "2024-02-01", "2024-01-01", "2024-01-05", true},
		{"back to back after", "2024-01-03", "2024-01-05", "2024-01-01", "2024-01-03", false},
		{"back to back before", "2023-12-30", "2024-01-01", "2024-01-01", "2024-01-03", false},
		{"disjoint", "2024-02-01", "2024-02-03", "2024-01-01", "2024-01-03", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(d(tt.a1), d(tt.a2), d(tt.b1), d(tt.b2)))
			assert.Equal(t, tt.want, Overlaps(d(tt.b1), d(tt.b2), d(tt.a1), d(tt.a2)), "overlap is symmetric")
		})
	}
}

func TestAvailableRooms(t *testing.T) {
	rooms := []models.Room{
		{ID: "1", MaxPeople: 2, Active: true},
		{ID: "2", MaxPeople: 2, Active: false},
		{ID: "3", MaxPeople: 4, Active: true},
		{ID: "4", MaxPeople: 1, Active: true},
	}
	reservations := []models.Reservation{
		reservation("1", "2024-01-01", "2024-01-03", models.StatusConfirmed),
		reservation("3", "2024-01-01", "2024-01-03", models.StatusCancelled),
	}

	t.Run("overlap excludes room", func(t *testing.T) {
		got := AvailableRooms(rooms, reservations, Query{CheckIn: d("2024-01-02"), CheckOut: d("2024-01-04"), People: 1})
		assert.Equal(t, []string{"3", "4"}, ids(got))
	})

	t.Run("back to back stay is available", func(t *testing.T) {
		got := AvailableRooms(rooms, reservations, Query{CheckIn: d("2024-01-03"), CheckOut: d("2024-01-05"), People: 1})
		assert.Equal(t, []string{"1", "3", "4"}, ids(got))
	})

	t.Run("capacity filter", func(t *testing.T) {
		got := AvailableRooms(rooms, reservations, Query{CheckIn: d("2024-03-01"), CheckOut: d("2024-03-02"), People: 3})
		assert.Equal(t, []string{"3"}, ids(got))
	})

	t.Run("no match is empty not nil", func(t *testing.T) {
		got := AvailableRooms(rooms, reservations, Query{CheckIn: d("2024-03-01"), CheckOut: d("2024-03-02"), People: 10})
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestConflicts(t *testing.T) {
	reservations := []models.Reservation{
		reservation("1", "2024-01-01", "2024-01-03", models.StatusConfirmed),
		reservation("1", "2024-01-05", "2024-01-07", models.StatusConfirmed),
		reservation("1", "2024-01-02", "2024-01-06", models.StatusCancelled),
		reservation("2", "2024-01-02", "2024-01-06", models.StatusConfirmed),
	}

	hits := Conflicts("1", d("2024-01-02"), d("2024-01-06"), reservations)
	assert.Len(t, hits, 2)
	assert.False(t, IsRoomAvailable("1", d("2024-01-02"), d("2024-01-06"), reservations))
	assert.True(t, IsRoomAvailable("1", d("2024-01-03"), d("2024-01-05"), reservations))
}

func TestPricing(t *testing.T) {
	assert.Equal(t, 2, Nights(d("2024-01-01"), d("2024-01-03")))
	assert.Equal(t, 200000.0, TotalPrice(100000, d("2024-01-01"), d("2024-01-03")))
	assert.Equal(t, 1, Nights(d("2024-02-28"), d("2024-02-29")))
	assert.Equal(t, 2, Nights(d("2024-02-28"), d("2024-03-01")), "leap day counts")
	assert.Equal(t, 146097, Nights(d("2000-01-01"), d("2400-01-01")))
	assert.Equal(t, 14609700.0, TotalPrice(100, d("2000-01-01"), d("2400-01-01")))
}

func ids(rooms []models.Room) []string {
	out := make([]string, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.ID)
	}
	return out
}
