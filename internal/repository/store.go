package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rincondelcarmen/hotel-booking/internal/database"
	"github.com/rincondelcarmen/hotel-booking/internal/errors"
)

// Keys names the three tables in the backend
type Keys struct {
	Users        string
	Rooms        string
	Reservations string
}

// KeysFor derives the table keys from a namespace such as "hotel_"
func KeysFor(namespace string) Keys {
	return Keys{
		Users:        namespace + "users",
		Rooms:        namespace + "rooms",
		Reservations: namespace + "reservations",
	}
}

// Option customises the store
type Option func(*store)

// WithClock overrides time.Now for createdAt stamps
func WithClock(now func() time.Time) Option {
	return func(s *store) { s.now = now }
}

// WithIDGenerator overrides uuid ids
func WithIDGenerator(next func() string) Option {
	return func(s *store) { s.newID = next }
}

// store is the state shared by the three repositories. One mutex guards
// every table so a transaction sees a consistent snapshot.
type store struct {
	backend database.Backend
	keys    Keys
	now     func() time.Time
	newID   func() string
	mu      *sync.Mutex
	inTx    bool
}

func (s *store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// loadTable decodes the JSON array under key. A key that was never
// written reads as an empty table.
func loadTable[T any](ctx context.Context, s *store, key string) ([]T, error) {
	data, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, errors.DatabaseError("failed to read "+key, err)
	}
	rows := []T{}
	if !ok || len(data) == 0 {
		return rows, nil
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, errors.DatabaseError("failed to decode "+key, err)
	}
	return rows, nil
}

// saveTable writes the whole table back
func saveTable[T any](ctx context.Context, s *store, key string, rows []T) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return errors.DatabaseError("failed to encode "+key, err)
	}
	if err := s.backend.Put(ctx, key, data); err != nil {
		return errors.DatabaseError("failed to write "+key, err)
	}
	return nil
}

// NewRepositories creates a new repository collection over backend
func NewRepositories(backend database.Backend, keys Keys, opts ...Option) *Repositories {
	s := &store{
		backend: backend,
		keys:    keys,
		now:     time.Now,
		newID:   uuid.NewString,
		mu:      &sync.Mutex{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s.repositories()
}

func (s *store) repositories() *Repositories {
	return &Repositories{
		User:        &userRepository{s: s},
		Room:        &roomRepository{s: s},
		Reservation: &reservationRepository{s: s},
		Tx:          &transactionManager{s: s},
		store:       s,
	}
}
