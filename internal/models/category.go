package models

// Category is a row of the fixed lookup set seeded at bootstrap.
type Category struct {
	ID          int64   `json:"category_id"`
	Name        string  `json:"category_name"`
	Description *string `json:"category_description"`
}
