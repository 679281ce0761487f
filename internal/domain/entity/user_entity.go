package entity

import "time"

// User backs the auth gate only; the task core never touches it beyond
// the resolved owner id. Password holds a bcrypt hash.
type User struct {
	ID        string
	Email     string
	Password  string
	CreatedAt time.Time
}
