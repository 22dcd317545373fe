package models

// Room is a bookable unit. Inactive rooms stay in the store but are
// hidden from browsing and availability.
type Room struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Beds          int      `json:"beds"`
	MaxPeople     int      `json:"maxPeople"`
	PricePerNight float64  `json:"pricePerNight"`
	Amenities     []string `json:"amenities"`
	Image         string   `json:"image"`
	Active        bool     `json:"active"`
}

// RoomDraft carries the fields of a new room. ID is optional.
type RoomDraft struct {
	ID            string   `json:"id,omitempty"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Beds          int      `json:"beds"`
	MaxPeople     int      `json:"maxPeople"`
	PricePerNight float64  `json:"pricePerNight"`
	Amenities     []string `json:"amenities"`
	Image         string   `json:"image"`
}

// RoomUpdate lists the only room fields that may change after creation.
// Nil fields are left untouched.
type RoomUpdate struct {
	PricePerNight *float64 `json:"pricePerNight,omitempty"`
	Active        *bool    `json:"active,omitempty"`
}

// IsEmpty reports whether the update changes nothing
func (u RoomUpdate) IsEmpty() bool {
	return u.PricePerNight == nil && u.Active == nil
}

// Apply merges the update into room
func (u RoomUpdate) Apply(room *Room) {
	if u.PricePerNight != nil {
		room.PricePerNight = *u.PricePerNight
	}
	if u.Active != nil {
		room.Active = *u.Active
	}
}
