// Package scoring maps task difficulty to reward and penalty points.
//
// The tables are product constants, not configuration. Their shape is an
// invariant: rewards strictly increase with difficulty and every penalty
// magnitude is smaller than the matching reward.
package scoring

import "github.com/dquelhas/taskquest/internal/domain/entity"

var rewards = map[entity.Difficulty]int{
	entity.DifficultyEasy:   5,
	entity.DifficultyMedium: 10,
	entity.DifficultyHard:   15,
}

var penalties = map[entity.Difficulty]int{
	entity.DifficultyEasy:   -2,
	entity.DifficultyMedium: -5,
	entity.DifficultyHard:   -8,
}

// Reward returns the points granted when a task of the given difficulty
// is completed before its due date.
func Reward(d entity.Difficulty) (int, error) {
	r, ok := rewards[d]
	if !ok {
		return 0, entity.ErrInvalidDifficulty
	}
	return r, nil
}

// Penalty returns the (negative) points applied when a task of the given
// difficulty expires.
func Penalty(d entity.Difficulty) (int, error) {
	p, ok := penalties[d]
	if !ok {
		return 0, entity.ErrInvalidDifficulty
	}
	return p, nil
}
