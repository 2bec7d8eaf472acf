package models

import "time"

// Court is a playing area. Courts live independently of any tournament.
type Court struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Available   bool      `json:"available" db:"available"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
