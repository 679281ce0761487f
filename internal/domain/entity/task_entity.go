package entity

import (
	"errors"
	"time"
)

// Difficulty is a closed enumeration; anything else is rejected at creation.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Recurrence is stored on the task but not acted on by the lifecycle:
// completing or expiring a recurring task never spawns a successor.
type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

var (
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidRecurrence = errors.New("invalid recurrence")
)

// Task is the aggregate root for the task lifecycle.
//
// Completed and Expired are mutually exclusive. Points is 0 while the task
// is pending and is written exactly once, by the conditional update that
// resolves the task.
type Task struct {
	ID         string
	Owner      string
	Text       string
	Difficulty Difficulty
	DueDate    time.Time // date component only
	Recurrence Recurrence
	Completed  bool
	Expired    bool
	Points     int
	CreatedAt  time.Time
}

// Pending reports whether the task can still transition.
func (t *Task) Pending() bool { return !t.Completed && !t.Expired }

func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s), nil
	}
	return "", ErrInvalidDifficulty
}

// ParseRecurrence maps the empty string to RecurrenceNone.
func ParseRecurrence(s string) (Recurrence, error) {
	if s == "" {
		return RecurrenceNone, nil
	}
	switch Recurrence(s) {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return Recurrence(s), nil
	}
	return "", ErrInvalidRecurrence
}
