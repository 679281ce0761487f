package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/dquelhas/taskquest/internal/domain/entity"
	"github.com/dquelhas/taskquest/internal/domain/repository"
	"github.com/dquelhas/taskquest/internal/domain/scoring"
	"github.com/dquelhas/taskquest/pkg/helpers"
)

var (
	// ErrTaskNotFound covers a missing task, a foreign-owned task, and a
	// task that is already completed or expired. Callers are deliberately
	// not told which.
	ErrTaskNotFound   = errors.New("task not found or already resolved")
	ErrEmptyText      = errors.New("task text is required")
	ErrInvalidDueDate = errors.New("invalid due date")
)

// TaskService owns the task lifecycle: creation, the expiration sweep, and
// completion. The owner id is always an explicit parameter, resolved by the
// auth middleware at the request boundary.
type TaskService struct {
	Repo         repository.TaskRepository
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESTasksIndex string

	// Now is the clock used for due-date comparisons; tests override it.
	Now func() time.Time
}

func NewTaskService(repo repository.TaskRepository, logger *logrus.Logger, es *elasticsearch.Client, esTasksIndex string) *TaskService {
	return &TaskService{Repo: repo, Logger: logger, ES: es, ESTasksIndex: esTasksIndex, Now: time.Now}
}

func (s *TaskService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type CreateTaskInput struct {
	Text       string
	Difficulty string
	DueDate    string
	Recurrence string
}

// Create inserts a pending task. It never runs the sweep.
func (s *TaskService) Create(ctx context.Context, owner string, in CreateTaskInput) (*entity.Task, error) {
	text := helpers.SanitizeText(in.Text)
	if text == "" {
		return nil, ErrEmptyText
	}
	difficulty, err := entity.ParseDifficulty(in.Difficulty)
	if err != nil {
		return nil, err
	}
	recurrence, err := entity.ParseRecurrence(in.Recurrence)
	if err != nil {
		return nil, err
	}
	dueDate, err := helpers.ParseDate(in.DueDate)
	if err != nil {
		return nil, ErrInvalidDueDate
	}

	t := &entity.Task{
		Owner:      owner,
		Text:       text,
		Difficulty: difficulty,
		DueDate:    dueDate,
		Recurrence: recurrence,
	}
	if err := s.Repo.Insert(ctx, t); err != nil {
		return nil, err
	}
	s.indexTask(ctx, t)
	return t, nil
}

type TaskList struct {
	Tasks       []entity.Task
	TotalPoints int
}

// List runs the owner-scoped sweep, then lists, then sums, in that order, so
// the returned tasks and total both reflect any just-applied expirations.
func (s *TaskService) List(ctx context.Context, owner string) (*TaskList, error) {
	if _, err := s.Sweep(ctx, owner); err != nil {
		return nil, err
	}
	tasks, err := s.Repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	total, err := s.Repo.SumPoints(ctx, owner)
	if err != nil {
		return nil, err
	}
	return &TaskList{Tasks: tasks, TotalPoints: total}, nil
}

// Complete transitions a pending task to completed and returns the reward.
// The pending check is re-run inside the conditional write, so of two
// concurrent completions exactly one wins and the loser gets
// ErrTaskNotFound. Complete never runs the sweep: a task due today is not
// overdue and stays completable.
func (s *TaskService) Complete(ctx context.Context, owner, id string) (int, error) {
	t, err := s.Repo.FindActiveByID(ctx, owner, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrTaskNotFound
		}
		return 0, err
	}
	reward, err := scoring.Reward(t.Difficulty)
	if err != nil {
		return 0, err
	}
	ok, err := s.Repo.MarkCompleted(ctx, owner, id, reward)
	if err != nil {
		return 0, err
	}
	if !ok {
		// Lost the race against another completion or the sweep.
		return 0, ErrTaskNotFound
	}
	return reward, nil
}

// Sweep converts every pending task due strictly before today into an
// expired task carrying its difficulty's penalty. An empty owner sweeps all
// users (the scheduled batch). Each row transition is independently atomic,
// so rerunning the sweep is a no-op: the predicate excludes resolved rows.
//
// A constraint violation on one row (SQLSTATE class 23) is logged and the
// batch continues; anything else is systemic, be it connectivity or a bad
// statement, and aborts the remaining batch.
func (s *TaskService) Sweep(ctx context.Context, owner string) (int, error) {
	today := helpers.DateOnly(s.now())
	due, err := s.Repo.ListPendingDueBefore(ctx, owner, today)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range due {
		t := &due[i]
		penalty, err := scoring.Penalty(t.Difficulty)
		if err != nil {
			// The schema constrains difficulty, so this row is corrupt.
			s.Logger.WithField("task_id", t.ID).WithField("difficulty", t.Difficulty).
				Error("sweep: unknown difficulty, skipping row")
			continue
		}
		ok, err := s.Repo.MarkExpired(ctx, t.ID, penalty)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
				s.Logger.WithError(err).WithField("task_id", t.ID).Warn("sweep: row update failed")
				continue
			}
			return count, err
		}
		if ok {
			count++
		}
	}
	if count > 0 {
		s.Logger.WithFields(logrus.Fields{"expired": count, "owner": owner}).Info("expiration sweep applied")
	}
	return count, nil
}

// indexTask mirrors the task's searchable attributes into Elasticsearch.
// Best effort: search is an optional surface and never blocks the lifecycle.
func (s *TaskService) indexTask(ctx context.Context, t *entity.Task) {
	if s.ES == nil || s.ESTasksIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         t.ID,
		"user_id":    t.Owner,
		"text":       t.Text,
		"difficulty": t.Difficulty,
		"due_date":   t.DueDate.Format(helpers.DateLayout),
		"created_at": t.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESTasksIndex, DocumentID: t.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("task_id", t.ID).Warn("es index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).WithField("task_id", t.ID).Warn("es index response error")
	}
}

// SearchTasks runs an owner-filtered text search over indexed tasks.
// Returns an empty result set when Elasticsearch is not configured.
func (s *TaskService) SearchTasks(ctx context.Context, owner, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESTasksIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"match": map[string]any{"text": q},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id": owner},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESTasksIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
