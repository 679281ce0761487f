package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/dquelhas/taskquest/config"
	"github.com/dquelhas/taskquest/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@taskquest.local"
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash
		RETURNING id
	`, email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email, password)

	today := time.Now()
	tasks := []struct {
		text       string
		difficulty string
		due        time.Time
		recurrence string
	}{
		{"pay bills", "medium", today.AddDate(0, 0, 1), "monthly"},
		{"water the plants", "easy", today.AddDate(0, 0, 2), "weekly"},
		{"finish quarterly report", "hard", today.AddDate(0, 0, 7), "none"},
		{"return library books", "easy", today.AddDate(0, 0, -1), "none"}, // already overdue
	}
	for _, t := range tasks {
		if _, err := db.Exec(`
			INSERT INTO tasks (user_id, text, difficulty, due_date, recurrence)
			VALUES ($1, $2, $3, $4, $5)
		`, id, t.text, t.difficulty, t.due.Format(helpers.DateLayout), t.recurrence); err != nil {
			log.Fatalf("failed to seed task %q: %v", t.text, err)
		}
	}
	fmt.Printf("seeded %d tasks\n", len(tasks))
}
