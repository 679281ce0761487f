package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dquelhas/taskquest/internal/application"
	"github.com/dquelhas/taskquest/internal/domain/entity"
	"github.com/dquelhas/taskquest/internal/interface/middleware"
	"github.com/dquelhas/taskquest/pkg/helpers"
	"github.com/dquelhas/taskquest/pkg/response"
	"github.com/dquelhas/taskquest/pkg/validation"
)

type TaskHandler struct {
	Svc    *application.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(svc *application.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

type createTaskRequest struct {
	Text       string `json:"text" binding:"required"`
	Difficulty string `json:"difficulty" binding:"required,oneof=easy medium hard"`
	DueDate    string `json:"dueDate" binding:"required,datetime=2006-01-02"`
	Recurrence string `json:"recurrence" binding:"omitempty,oneof=none daily weekly monthly"`
}

type completeTaskRequest struct {
	ID string `json:"id" binding:"required"`
}

// List handles GET /tasks: sweep, then list, then the all-rows point total.
func (h *TaskHandler) List(c *gin.Context) {
	owner := c.GetString(middleware.CtxUserIDKey)
	res, err := h.Svc.List(c.Request.Context(), owner)
	if err != nil {
		h.Logger.WithError(err).Error("list tasks failed")
		response.Error[any](c, http.StatusInternalServerError, "could not load tasks", nil)
		return
	}
	tasks := make([]gin.H, 0, len(res.Tasks))
	for i := range res.Tasks {
		tasks = append(tasks, taskPayload(&res.Tasks[i]))
	}
	response.Success(c, http.StatusOK, gin.H{
		"tasks":  tasks,
		"points": res.TotalPoints,
	}, "tasks", nil)
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(c *gin.Context) {
	owner := c.GetString(middleware.CtxUserIDKey)
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), owner, application.CreateTaskInput{
		Text:       req.Text,
		Difficulty: req.Difficulty,
		DueDate:    req.DueDate,
		Recurrence: req.Recurrence,
	})
	if err != nil {
		if isValidationErr(err) {
			response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		h.Logger.WithError(err).Error("create task failed")
		response.Error[any](c, http.StatusInternalServerError, "could not create task", nil)
		return
	}
	response.Success(c, http.StatusCreated, taskPayload(t), "task created", nil)
}

// Complete handles PUT /tasks.
func (h *TaskHandler) Complete(c *gin.Context) {
	owner := c.GetString(middleware.CtxUserIDKey)
	var req completeTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	points, err := h.Svc.Complete(c.Request.Context(), owner, req.ID)
	if err != nil {
		if errors.Is(err, application.ErrTaskNotFound) {
			response.Error[any](c, http.StatusNotFound, "task not found or already resolved", nil)
			return
		}
		h.Logger.WithError(err).WithField("task_id", req.ID).Error("complete task failed")
		response.Error[any](c, http.StatusInternalServerError, "could not complete task", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"pointsAwarded": points}, "task completed", nil)
}

// Search handles GET /tasks/search?q=.
func (h *TaskHandler) Search(c *gin.Context) {
	owner := c.GetString(middleware.CtxUserIDKey)
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	results, err := h.Svc.SearchTasks(c.Request.Context(), owner, q, 10)
	if err != nil {
		h.Logger.WithError(err).Error("task search failed")
		response.Error[any](c, http.StatusInternalServerError, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"results": results}, "search results", nil)
}

func taskPayload(t *entity.Task) gin.H {
	return gin.H{
		"id":         t.ID,
		"text":       t.Text,
		"difficulty": t.Difficulty,
		"dueDate":    t.DueDate.Format(helpers.DateLayout),
		"recurrence": t.Recurrence,
		"completed":  t.Completed,
		"expired":    t.Expired,
		"points":     t.Points,
		"createdAt":  t.CreatedAt,
	}
}

func isValidationErr(err error) bool {
	return errors.Is(err, application.ErrEmptyText) ||
		errors.Is(err, application.ErrInvalidDueDate) ||
		errors.Is(err, entity.ErrInvalidDifficulty) ||
		errors.Is(err, entity.ErrInvalidRecurrence)
}
