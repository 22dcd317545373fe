package models

import "time"

// UserRole represents available user roles
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleGuest UserRole = "guest"
)

// User represents a registered guest or the seeded administrator.
// Password holds the stored credential exactly as the configured
// password mode wrote it (plain text by default).
type User struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"documentId"`
	FullName    string    `json:"fullName"`
	Nationality string    `json:"nationality"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Password    string    `json:"password"`
	Role        UserRole  `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
}

// IsAdmin returns true if user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Public returns the user without its credential.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		DocumentID:  u.DocumentID,
		FullName:    u.FullName,
		Nationality: u.Nationality,
		Email:       u.Email,
		Phone:       u.Phone,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
	}
}

// PublicUser is the user as exposed outside the store
type PublicUser struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"documentId"`
	FullName    string    `json:"fullName"`
	Nationality string    `json:"nationality"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Role        UserRole  `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserDraft carries registration input. Role is not part of the draft;
// the store always creates guests.
type UserDraft struct {
	DocumentID  string `json:"documentId" binding:"required"`
	FullName    string `json:"fullName" binding:"required"`
	Nationality string `json:"nationality"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone"`
	Password    string `json:"password" binding:"required"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
