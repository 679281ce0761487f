package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dquelhas/taskquest/internal/domain/entity"
	"github.com/dquelhas/taskquest/internal/domain/scoring"
)

func TestRewardAndPenaltyTables(t *testing.T) {
	cases := []struct {
		difficulty entity.Difficulty
		reward     int
		penalty    int
	}{
		{entity.DifficultyEasy, 5, -2},
		{entity.DifficultyMedium, 10, -5},
		{entity.DifficultyHard, 15, -8},
	}
	for _, tc := range cases {
		r, err := scoring.Reward(tc.difficulty)
		require.NoError(t, err)
		assert.Equal(t, tc.reward, r, "reward for %s", tc.difficulty)

		p, err := scoring.Penalty(tc.difficulty)
		require.NoError(t, err)
		assert.Equal(t, tc.penalty, p, "penalty for %s", tc.difficulty)
	}
}

// The shape of the tables is an invariant: rewards are positive and strictly
// increasing, penalties are negative, and each penalty magnitude stays below
// the matching reward.
func TestPolicyShape(t *testing.T) {
	order := []entity.Difficulty{entity.DifficultyEasy, entity.DifficultyMedium, entity.DifficultyHard}

	prevReward := 0
	for _, d := range order {
		r, err := scoring.Reward(d)
		require.NoError(t, err)
		p, err := scoring.Penalty(d)
		require.NoError(t, err)

		assert.Greater(t, r, 0, "%s reward must be positive", d)
		assert.Less(t, p, 0, "%s penalty must be negative", d)
		assert.Greater(t, r, -p, "%s reward must outweigh penalty", d)
		assert.Greater(t, r, prevReward, "%s reward must increase with difficulty", d)
		prevReward = r
	}
}

func TestUnknownDifficultyRejected(t *testing.T) {
	for _, bad := range []entity.Difficulty{"", "trivial", "EASY", "impossible"} {
		_, err := scoring.Reward(bad)
		assert.ErrorIs(t, err, entity.ErrInvalidDifficulty)

		_, err = scoring.Penalty(bad)
		assert.ErrorIs(t, err, entity.ErrInvalidDifficulty)
	}
}
