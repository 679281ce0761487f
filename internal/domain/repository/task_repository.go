package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dquelhas/taskquest/internal/domain/entity"
)

// ErrNotFound is returned by implementations when a row does not exist or
// is not visible to the requesting owner.
var ErrNotFound = errors.New("not found")

// TaskRepository defines the owner-scoped persistence contract for tasks.
//
// MarkCompleted and MarkExpired are conditional writes: the pending-state
// predicate is part of the same atomic update, and a false return means
// the row was no longer pending (or never matched) at write time.
type TaskRepository interface {
	// Insert creates a pending task and fills in ID and CreatedAt.
	Insert(ctx context.Context, t *entity.Task) error

	// ListByOwner returns all of the owner's tasks, newest first.
	ListByOwner(ctx context.Context, owner string) ([]entity.Task, error)

	// FindActiveByID returns the task only when it belongs to owner and is
	// still pending. This is the gate used before any mutation.
	FindActiveByID(ctx context.Context, owner, id string) (*entity.Task, error)

	MarkCompleted(ctx context.Context, owner, id string, points int) (bool, error)
	MarkExpired(ctx context.Context, id string, points int) (bool, error)

	// ListPendingDueBefore returns pending tasks with a due date strictly
	// before the given date. An empty owner scans all users (batch sweep).
	ListPendingDueBefore(ctx context.Context, owner string, before time.Time) ([]entity.Task, error)

	// SumPoints aggregates points over all of the owner's tasks.
	SumPoints(ctx context.Context, owner string) (int, error)
	// SumCompletedPoints aggregates only completed tasks' points. The status
	// endpoint intentionally uses this narrower aggregate.
	SumCompletedPoints(ctx context.Context, owner string) (int, error)
}
