package services

import (
	"strings"

	"github.com/rincondelcarmen/hotel-booking/internal/errors"
)

// resultLabel turns an error code into a metric label
func resultLabel(err error) string {
	return strings.ToLower(errors.CodeOf(err))
}
