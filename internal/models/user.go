package models

import "time"

// User represents a student account. The role is implicit: every row in the
// users table is a plain "user"; clubs and superadmins live in their own
// tables.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	Phone        *string   `json:"phone,omitempty"`
	Department   *string   `json:"department,omitempty"`
	YearOfStudy  *int      `json:"year_of_study,omitempty"`
	Role         string    `json:"role"`
	// omitzero: the signup path never reads the row back, so the timestamp
	// is only present on responses that fetched it.
	CreatedAt time.Time `json:"created_at,omitzero"`
}
