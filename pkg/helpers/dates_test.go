package helpers_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dquelhas/taskquest/pkg/helpers"
)

func TestParseDate(t *testing.T) {
	d, err := helpers.ParseDate("2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.September, d.Month())
	assert.Equal(t, 1, d.Day())
	assert.Equal(t, time.Local, d.Location())

	_, err = helpers.ParseDate("01/09/2026")
	assert.Error(t, err)
	_, err = helpers.ParseDate("")
	assert.Error(t, err)
}

func TestDateOnly(t *testing.T) {
	at := time.Date(2026, 9, 1, 23, 59, 59, 12345, time.Local)
	got := helpers.DateOnly(at)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local), got)

	// A date-only due date equal to today is not strictly before today.
	due, err := helpers.ParseDate("2026-09-01")
	require.NoError(t, err)
	assert.False(t, due.Before(got))
}
