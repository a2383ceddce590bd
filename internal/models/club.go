package models

import "time"

// Club is an event-owning actor with its own credentials.
type Club struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Description  *string   `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

// SuperAdmin can manage any event regardless of ownership.
type SuperAdmin struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
