package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dquelhas/taskquest/internal/domain/entity"
	"github.com/dquelhas/taskquest/internal/domain/repository"
)

// rowMissing reports errors that mean the addressed row cannot exist: an
// empty result, or an id that does not even parse as the uuid key type
// (SQLSTATE 22P02). Callers map both to not-found rather than a server
// error, keeping the outcome opaque for malformed and unknown ids alike.
func rowMissing(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Insert(ctx context.Context, t *entity.Task) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (user_id, text, difficulty, due_date, recurrence)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, t.Owner, t.Text, t.Difficulty, t.DueDate, t.Recurrence)

	return row.Scan(&t.ID, &t.CreatedAt)
}

func (r *TaskRepository) ListByOwner(ctx context.Context, owner string) ([]entity.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, text, difficulty, due_date, recurrence, completed, expired, points, created_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *TaskRepository) FindActiveByID(ctx context.Context, owner, id string) (*entity.Task, error) {
	t := &entity.Task{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, text, difficulty, due_date, recurrence, completed, expired, points, created_at
		FROM tasks
		WHERE id = $1 AND user_id = $2 AND completed = false AND expired = false
	`, id, owner)

	if err := scanTask(row, t); err != nil {
		if rowMissing(err) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// MarkCompleted resolves the task with a reward. The pending predicate is
// part of the UPDATE itself, so a concurrent completion or expiration
// leaves exactly one winner; the loser sees zero rows affected.
func (r *TaskRepository) MarkCompleted(ctx context.Context, owner, id string, points int) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE tasks
		SET completed = true, points = $1
		WHERE id = $2 AND user_id = $3 AND completed = false AND expired = false
	`, points, id, owner)
	if err != nil {
		if rowMissing(err) {
			return false, nil
		}
		return false, err
	}
	return res.RowsAffected() == 1, nil
}

// MarkExpired resolves the task with a (negative) penalty, same conditional
// shape as MarkCompleted. No owner filter: sweep candidates were already
// selected with the proper scope and ids are unique across users.
func (r *TaskRepository) MarkExpired(ctx context.Context, id string, points int) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE tasks
		SET expired = true, points = $1
		WHERE id = $2 AND completed = false AND expired = false
	`, points, id)
	if err != nil {
		if rowMissing(err) {
			return false, nil
		}
		return false, err
	}
	return res.RowsAffected() == 1, nil
}

func (r *TaskRepository) ListPendingDueBefore(ctx context.Context, owner string, before time.Time) ([]entity.Task, error) {
	q := `
		SELECT id, user_id, text, difficulty, due_date, recurrence, completed, expired, points, created_at
		FROM tasks
		WHERE completed = false AND expired = false AND due_date < $1`
	args := []any{before}
	if owner != "" {
		q += ` AND user_id = $2`
		args = append(args, owner)
	}
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *TaskRepository) SumPoints(ctx context.Context, owner string) (int, error) {
	var sum int
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(points), 0) FROM tasks WHERE user_id = $1
	`, owner).Scan(&sum)
	return sum, err
}

func (r *TaskRepository) SumCompletedPoints(ctx context.Context, owner string) (int, error) {
	var sum int
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(points), 0) FROM tasks WHERE user_id = $1 AND completed = true
	`, owner).Scan(&sum)
	return sum, err
}

func scanTask(row pgx.Row, t *entity.Task) error {
	return row.Scan(&t.ID, &t.Owner, &t.Text, &t.Difficulty, &t.DueDate, &t.Recurrence,
		&t.Completed, &t.Expired, &t.Points, &t.CreatedAt)
}

func scanTasks(rows pgx.Rows) ([]entity.Task, error) {
	tasks := make([]entity.Task, 0)
	for rows.Next() {
		var t entity.Task
		if err := scanTask(rows, &t); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
