package repository

import (
	"context"

	"github.com/rincondelcarmen/hotel-booking/internal/errors"
	"github.com/rincondelcarmen/hotel-booking/internal/models"
)

// userRepository implements UserRepository
type userRepository struct {
	s *store
}

// List returns every user in insertion order
func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	defer r.s.lock()()
	return loadTable[models.User](ctx, r.s, r.s.keys.Users)
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	defer r.s.lock()()

	users, err := loadTable[models.User](ctx, r.s, r.s.keys.Users)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, errors.UserNotFound("user not found", nil).WithDetails(id)
}

// GetByEmail retrieves a user by email. Emails compare exactly.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	defer r.s.lock()()

	users, err := loadTable[models.User](ctx, r.s, r.s.keys.Users)
	if err != nil {
		return nil, err
	}
	if u := findByEmail(users, email); u != nil {
		return u, nil
	}
	return nil, errors.UserNotFound("user with email "+email+" not found", nil)
}

// Create creates a new guest user
func (r *userRepository) Create(ctx context.Context, draft models.UserDraft) (*models.User, error) {
	defer r.s.lock()()

	users, err := loadTable[models.User](ctx, r.s, r.s.keys.Users)
	if err != nil {
		return nil, err
	}
	if findByEmail(users, draft.Email) != nil {
		return nil, errors.DuplicateEmail("email "+draft.Email+" already exists", nil).WithOperation("CreateUser")
	}

	user := models.User{
		ID:          r.s.newID(),
		DocumentID:  draft.DocumentID,
		FullName:    draft.FullName,
		Nationality: draft.Nationality,
		Email:       draft.Email,
		Phone:       draft.Phone,
		Password:    draft.Password,
		Role:        models.RoleGuest,
		CreatedAt:   r.s.now().UTC(),
	}

	users = append(users, user)
	if err := saveTable(ctx, r.s, r.s.keys.Users, users); err != nil {
		return nil, err
	}
	return &user, nil
}

func findByEmail(users []models.User, email string) *models.User {
	for i := range users {
		if users[i].Email == email {
			return &users[i]
		}
	}
	return nil
}
