// The sweeper is the scheduled counterpart of the inline pre-listing sweep:
// it expires overdue pending tasks for every user and exits, reporting how
// many rows it transitioned. Intended to run from cron; rerunning it is
// harmless because each row transition is conditional on pending state.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/dquelhas/taskquest/config"
	"github.com/dquelhas/taskquest/internal/application"
	pginfra "github.com/dquelhas/taskquest/internal/infrastructure/postgres"
	"github.com/dquelhas/taskquest/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-sweeper", cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	svc := application.NewTaskService(pginfra.NewTaskRepository(pool), logger, nil, "")

	count, err := svc.Sweep(ctx, "")
	if err != nil {
		logger.WithError(err).WithField("expired", count).Fatal("expiration sweep aborted")
	}
	logger.WithField("expired", count).Info("expiration sweep finished")
}
