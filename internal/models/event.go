package models

import "time"

// EventCard is the consolidated event representation. Optional fields are
// pointers so omitted values round-trip as JSON null.
type EventCard struct {
	ID          int64   `json:"event_id"`
	PublicID    string  `json:"public_id"`
	Title       string  `json:"event_title"`
	Date        string  `json:"event_date"` // date-only, YYYY-MM-DD
	Location    string  `json:"event_location"`
	ImageURL    *string `json:"image_url"`
	Description *string `json:"event_description"`
	BrochureURL *string `json:"brochure_url"`
	Schedule    *string `json:"event_schedule"`
	Terms       *string `json:"terms"`
	ClubID      int64   `json:"club_id"`
	CategoryID  int64   `json:"category_id"`

	// Joined for read responses.
	ClubName     *string `json:"club_name,omitempty"`
	CategoryName *string `json:"category_name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
