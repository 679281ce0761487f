package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dquelhas/taskquest/internal/application"
	"github.com/dquelhas/taskquest/internal/domain/entity"
	"github.com/dquelhas/taskquest/internal/domain/repository"
	handlers "github.com/dquelhas/taskquest/internal/interface/http"
	"github.com/dquelhas/taskquest/internal/interface/middleware"
	"github.com/dquelhas/taskquest/pkg/helpers"
	"github.com/dquelhas/taskquest/pkg/response"
	"github.com/dquelhas/taskquest/pkg/validation"
)

// memTaskRepo is a lock-guarded in-memory TaskRepository for endpoint tests.
type memTaskRepo struct {
	mu    sync.Mutex
	seq   int
	tasks map[string]*entity.Task
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: make(map[string]*entity.Task)}
}

func (r *memTaskRepo) Insert(_ context.Context, t *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	t.ID = fmt.Sprintf("task-%d", r.seq)
	t.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local).Add(time.Duration(r.seq) * time.Second)
	clone := *t
	r.tasks[t.ID] = &clone
	return nil
}

func (r *memTaskRepo) ListByOwner(_ context.Context, owner string) ([]entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Task, 0)
	for _, t := range r.tasks {
		if t.Owner == owner {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memTaskRepo) FindActiveByID(_ context.Context, owner, id string) (*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.Owner != owner || !t.Pending() {
		return nil, repository.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *memTaskRepo) MarkCompleted(_ context.Context, owner, id string, points int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.Owner != owner || !t.Pending() {
		return false, nil
	}
	t.Completed = true
	t.Points = points
	return true, nil
}

func (r *memTaskRepo) MarkExpired(_ context.Context, id string, points int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || !t.Pending() {
		return false, nil
	}
	t.Expired = true
	t.Points = points
	return true, nil
}

func (r *memTaskRepo) ListPendingDueBefore(_ context.Context, owner string, before time.Time) ([]entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Task, 0)
	for _, t := range r.tasks {
		if t.Pending() && t.DueDate.Before(before) && (owner == "" || t.Owner == owner) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *memTaskRepo) SumPoints(_ context.Context, owner string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := 0
	for _, t := range r.tasks {
		if t.Owner == owner {
			sum += t.Points
		}
	}
	return sum, nil
}

func (r *memTaskRepo) SumCompletedPoints(_ context.Context, owner string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := 0
	for _, t := range r.tasks {
		if t.Owner == owner && t.Completed {
			sum += t.Points
		}
	}
	return sum, nil
}

var _ repository.TaskRepository = (*memTaskRepo)(nil)

var testToday = time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// newTasksAPI wires the task routes behind a stub auth layer that injects a
// fixed owner, mirroring the production route shape.
func newTasksAPI(repo *memTaskRepo, owner string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validation.Init()

	svc := application.NewTaskService(repo, quietLogger(), nil, "")
	svc.Now = func() time.Time { return testToday }
	h := handlers.NewTaskHandler(svc, quietLogger())

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		response.Error[any](c, http.StatusMethodNotAllowed, "method not allowed", nil)
	})

	authed := r.Group("/api")
	authed.Use(func(c *gin.Context) {
		c.Set(middleware.CtxUserIDKey, owner)
		c.Next()
	})
	authed.GET("/tasks", h.List)
	authed.POST("/tasks", h.Create)
	authed.PUT("/tasks", h.Complete)
	authed.GET("/tasks/search", h.Search)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), "response must always be JSON")
	return w, envelope
}

func dataOf(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()
	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok, "envelope must carry a data object")
	return data
}

func TestCreateAndListTasks(t *testing.T) {
	r := newTasksAPI(newMemTaskRepo(), "user-1")

	w, env := doJSON(t, r, http.MethodPost, "/api/tasks",
		`{"text":"pay bills","difficulty":"medium","dueDate":"2026-09-02"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	created := dataOf(t, env)
	assert.Equal(t, "pay bills", created["text"])
	assert.Equal(t, false, created["completed"])
	assert.Equal(t, float64(0), created["points"])

	w, env = doJSON(t, r, http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := dataOf(t, env)
	assert.Equal(t, float64(0), data["points"])
	tasks, ok := data["tasks"].([]any)
	require.True(t, ok)
	require.Len(t, tasks, 1)
}

func TestCreateTaskMissingFields(t *testing.T) {
	r := newTasksAPI(newMemTaskRepo(), "user-1")

	for _, body := range []string{
		`{"difficulty":"easy","dueDate":"2026-09-02"}`,
		`{"text":"x","dueDate":"2026-09-02"}`,
		`{"text":"x","difficulty":"easy"}`,
		`{"text":"x","difficulty":"brutal","dueDate":"2026-09-02"}`,
		`{"text":"x","difficulty":"easy","dueDate":"02/09/2026"}`,
	} {
		w, env := doJSON(t, r, http.MethodPost, "/api/tasks", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
		assert.Equal(t, false, env["success"])
	}
}

func TestCompleteTaskEndpoint(t *testing.T) {
	repo := newMemTaskRepo()
	r := newTasksAPI(repo, "user-1")

	_, env := doJSON(t, r, http.MethodPost, "/api/tasks",
		`{"text":"pay bills","difficulty":"medium","dueDate":"2026-09-02"}`)
	id := dataOf(t, env)["id"].(string)

	w, env := doJSON(t, r, http.MethodPut, "/api/tasks", `{"id":"`+id+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(10), dataOf(t, env)["pointsAwarded"])

	// Completing again resolves to the same opaque 404.
	w, _ = doJSON(t, r, http.MethodPut, "/api/tasks", `{"id":"`+id+`"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompleteUnknownTaskEndpoint(t *testing.T) {
	r := newTasksAPI(newMemTaskRepo(), "user-1")

	w, _ := doJSON(t, r, http.MethodPut, "/api/tasks", `{"id":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOverdueTaskListedAsExpired(t *testing.T) {
	r := newTasksAPI(newMemTaskRepo(), "user-1")

	_, _ = doJSON(t, r, http.MethodPost, "/api/tasks",
		`{"text":"too late","difficulty":"hard","dueDate":"2026-08-31"}`)

	w, env := doJSON(t, r, http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := dataOf(t, env)
	tasks := data["tasks"].([]any)
	require.Len(t, tasks, 1)
	task := tasks[0].(map[string]any)
	assert.Equal(t, true, task["expired"])
	assert.Equal(t, false, task["completed"])
	assert.Equal(t, float64(-8), task["points"])
	assert.Equal(t, float64(-8), data["points"])
}

func TestMethodNotAllowedOnTasks(t *testing.T) {
	r := newTasksAPI(newMemTaskRepo(), "user-1")

	w, env := doJSON(t, r, http.MethodDelete, "/api/tasks", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, false, env["success"])
}

func TestSearchWithoutIndexReturnsEmpty(t *testing.T) {
	r := newTasksAPI(newMemTaskRepo(), "user-1")

	w, env := doJSON(t, r, http.MethodGet, "/api/tasks/search?q=bills", "")
	require.Equal(t, http.StatusOK, w.Code)
	results, ok := dataOf(t, env)["results"].([]any)
	require.True(t, ok)
	assert.Empty(t, results)
}

func TestTasksRequireAuthentication(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtManager := helpers.NewJWTManager("access", "refresh", time.Hour, time.Hour)

	svc := application.NewTaskService(newMemTaskRepo(), quietLogger(), nil, "")
	h := handlers.NewTaskHandler(svc, quietLogger())

	r := gin.New()
	authed := r.Group("/api")
	authed.Use(middleware.Auth(nil, jwtManager))
	authed.GET("/tasks", h.List)

	// No cookie at all.
	w, env := doJSON(t, r, http.MethodGet, "/api/tasks", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, env["success"])

	// Garbage token.
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "not-a-jwt"})
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
}
