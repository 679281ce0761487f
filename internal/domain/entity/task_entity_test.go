package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dquelhas/taskquest/internal/domain/entity"
)

func TestParseDifficulty(t *testing.T) {
	for _, s := range []string{"easy", "medium", "hard"} {
		d, err := entity.ParseDifficulty(s)
		require.NoError(t, err)
		assert.Equal(t, entity.Difficulty(s), d)
	}

	_, err := entity.ParseDifficulty("legendary")
	assert.ErrorIs(t, err, entity.ErrInvalidDifficulty)
	_, err = entity.ParseDifficulty("")
	assert.ErrorIs(t, err, entity.ErrInvalidDifficulty)
}

func TestParseRecurrenceDefaultsToNone(t *testing.T) {
	r, err := entity.ParseRecurrence("")
	require.NoError(t, err)
	assert.Equal(t, entity.RecurrenceNone, r)

	for _, s := range []string{"none", "daily", "weekly", "monthly"} {
		r, err := entity.ParseRecurrence(s)
		require.NoError(t, err)
		assert.Equal(t, entity.Recurrence(s), r)
	}

	_, err = entity.ParseRecurrence("yearly")
	assert.ErrorIs(t, err, entity.ErrInvalidRecurrence)
}

func TestPending(t *testing.T) {
	task := entity.Task{}
	assert.True(t, task.Pending())

	task.Completed = true
	assert.False(t, task.Pending())

	task = entity.Task{Expired: true}
	assert.False(t, task.Pending())
}
