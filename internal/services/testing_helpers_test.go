package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rincondelcarmen/hotel-booking/internal/availability"
	"github.com/rincondelcarmen/hotel-booking/internal/errors"
)

type availabilityQuery = availability.Query

func assertCode(t *testing.T, code string, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, errors.CodeOf(err))
}
