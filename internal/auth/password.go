package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/rincondelcarmen/hotel-booking/pkg/config"
)

const bcryptCost = 12

// PasswordMatcher turns passwords into their stored form and compares
// login attempts against it.
type PasswordMatcher interface {
	Encode(plain string) (string, error)
	Matches(stored, plain string) bool
}

// PlainPasswords stores and compares passwords as plain text. This is the
// reference behaviour of the booking site and offers no protection if the
// store leaks.
type PlainPasswords struct{}

func (PlainPasswords) Encode(plain string) (string, error) { return plain, nil }

func (PlainPasswords) Matches(stored, plain string) bool { return stored == plain }

// BcryptPasswords stores bcrypt hashes
type BcryptPasswords struct {
	Cost int
}

// Encode hashes a plain text password
func (b BcryptPasswords) Encode(plain string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcryptCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// Matches checks if a plain text password matches a hashed password
func (BcryptPasswords) Matches(stored, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
}

// NewPasswordMatcher selects the matcher for a config password mode
func NewPasswordMatcher(mode string) (PasswordMatcher, error) {
	switch mode {
	case "", config.PasswordPlain:
		return PlainPasswords{}, nil
	case config.PasswordBcrypt:
		return BcryptPasswords{}, nil
	default:
		return nil, fmt.Errorf("unknown password mode %q", mode)
	}
}
