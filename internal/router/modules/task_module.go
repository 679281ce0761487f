package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dquelhas/taskquest/internal/container"
	handlers "github.com/dquelhas/taskquest/internal/interface/http"
	"github.com/dquelhas/taskquest/internal/interface/middleware"
	"github.com/dquelhas/taskquest/pkg/helpers"
)

// TaskModule wires the task lifecycle routes. Every route requires an
// authenticated caller; the auth middleware resolves the owner id before
// any task logic runs.
//
// GET  /api/tasks        list (sweeps first)
// POST /api/tasks        create
// PUT  /api/tasks        complete
// GET  /api/tasks/search text search
type TaskModule struct {
	Handler *handlers.TaskHandler
	JWT     *helpers.JWTManager
}

func NewTaskModule(h *handlers.TaskHandler, jwt *helpers.JWTManager) *TaskModule {
	return &TaskModule{Handler: h, JWT: jwt}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/tasks", m.Handler.List)
		auth.POST("/tasks", m.Handler.Create)
		auth.PUT("/tasks", m.Handler.Complete)
		auth.GET("/tasks/search", m.Handler.Search)
	}
}
