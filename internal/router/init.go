package router

import (
	"github.com/dquelhas/taskquest/internal/application"
	"github.com/dquelhas/taskquest/internal/container"
	pginfra "github.com/dquelhas/taskquest/internal/infrastructure/postgres"
	handlers "github.com/dquelhas/taskquest/internal/interface/http"
	"github.com/dquelhas/taskquest/internal/router/modules"
)

// InitModules builds the task and user modules from container singletons and
// registers them with the router registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	taskRepo := pginfra.NewTaskRepository(container.GetPGPool())
	userRepo := pginfra.NewUserRepository(container.GetPGPool())

	taskSvc := application.NewTaskService(taskRepo, logger, container.GetES(), cfg.ESTasksIndex)
	userSvc := application.NewUserService(userRepo, taskRepo, container.GetJWT(), container.GetRedis(), logger)

	taskHandler := handlers.NewTaskHandler(taskSvc, logger)
	userHandler := handlers.NewUserHandler(userSvc, logger, cfg.CookieDomain, cfg.CookieSecure)

	r.Add(
		modules.NewTaskModule(taskHandler, container.GetJWT()),
		modules.NewUserModule(userHandler),
	)
}
