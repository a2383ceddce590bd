package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eventix/eventix-be/internal/auth"
	"github.com/eventix/eventix-be/internal/models"
)

// EventInput is a validated, coerced event payload. Date must already be
// normalized to date-only form (see NormalizeEventDate).
type EventInput struct {
	Title       string
	Date        string
	Location    string
	ClubID      int64
	CategoryID  int64
	ImageURL    *string
	Description *string
	BrochureURL *string
	Schedule    *string
	Terms       *string
}

// EventServiceProvider defines the interface for event card services.
type EventServiceProvider interface {
	Create(ctx context.Context, claims *auth.Claims, in EventInput) (*models.EventCard, error)
	List(ctx context.Context) ([]models.EventCard, error)
	GetByID(ctx context.Context, id int64) (*models.EventCard, error)
	ListMine(ctx context.Context, claims *auth.Claims) ([]models.EventCard, error)
	Update(ctx context.Context, claims *auth.Claims, id int64, in EventInput) (*models.EventCard, error)
	Delete(ctx context.Context, claims *auth.Claims, id int64) error
}

// EventService provides business logic for event card management.
type EventService struct {
	db *sql.DB
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{db: db}
}

// acceptedDateLayouts are tried in order when normalizing an event date.
var acceptedDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizeEventDate reduces any accepted timestamp form to the date-only
// value stored in event_cards.
func NormalizeEventDate(raw string) (string, error) {
	for _, layout := range acceptedDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", raw)
}

const eventSelect = `
	SELECT e.event_id, e.public_id, e.event_title,
	       DATE_FORMAT(e.event_date, '%Y-%m-%d'),
	       e.event_location, e.image_url, e.event_description,
	       e.brochure_url, e.event_schedule, e.terms,
	       e.club_id, e.category_id, c.club_name, cat.category_name,
	       e.created_at, e.updated_at
	FROM event_cards e
	LEFT JOIN clubs c ON e.club_id = c.club_id
	LEFT JOIN categories cat ON e.category_id = cat.category_id`

func scanEvent(row interface{ Scan(...any) error }) (*models.EventCard, error) {
	var e models.EventCard
	err := row.Scan(
		&e.ID, &e.PublicID, &e.Title, &e.Date, &e.Location,
		&e.ImageURL, &e.Description, &e.BrochureURL, &e.Schedule, &e.Terms,
		&e.ClubID, &e.CategoryID, &e.ClubName, &e.CategoryName,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ownerScoped pins a club actor's writes to its own club id: whatever
// club_id the payload carried, a club creates and keeps events only on its
// own behalf. Other roles pass through unchanged.
func ownerScoped(claims *auth.Claims, in EventInput) EventInput {
	if claims.Role == auth.RoleClub {
		in.ClubID = claims.ActorID
	}
	return in
}

// canMutate reports whether the actor may update or delete the event.
func canMutate(claims *auth.Claims, event *models.EventCard) bool {
	switch claims.Role {
	case auth.RoleSuperAdmin:
		return true
	case auth.RoleClub:
		return event.ClubID == claims.ActorID
	default:
		return false
	}
}

// Create inserts a new event card. A club actor always creates on its own
// behalf, so one club cannot create events for another.
func (s *EventService) Create(ctx context.Context, claims *auth.Claims, in EventInput) (*models.EventCard, error) {
	in = ownerScoped(claims, in)

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO event_cards (
			public_id, event_title, event_date, event_location, image_url,
			event_description, brochure_url, event_schedule, terms,
			club_id, category_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), in.Title, in.Date, in.Location, in.ImageURL,
		in.Description, in.BrochureURL, in.Schedule, in.Terms,
		in.ClubID, in.CategoryID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrInvalidReference
		}
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// List retrieves all event cards, soonest first.
func (s *EventService) List(ctx context.Context) ([]models.EventCard, error) {
	return s.queryEvents(ctx, eventSelect+" ORDER BY e.event_date ASC")
}

// GetByID retrieves a single event card.
func (s *EventService) GetByID(ctx context.Context, id int64) (*models.EventCard, error) {
	event, err := scanEvent(s.db.QueryRowContext(ctx, eventSelect+" WHERE e.event_id = ? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

// ListMine scopes the listing to the authenticated actor: a club sees its
// own events, a superadmin sees everything. Plain users own no events.
func (s *EventService) ListMine(ctx context.Context, claims *auth.Claims) ([]models.EventCard, error) {
	switch claims.Role {
	case auth.RoleSuperAdmin:
		return s.List(ctx)
	case auth.RoleClub:
		return s.queryEvents(ctx, eventSelect+" WHERE e.club_id = ? ORDER BY e.event_date ASC", claims.ActorID)
	default:
		return nil, ErrForbidden
	}
}

// Update mutates an event card after an ownership check: a club may only
// touch rows holding its own club_id, and cannot reassign them to another
// club. Superadmins may mutate anything.
func (s *EventService) Update(ctx context.Context, claims *auth.Claims, id int64, in EventInput) (*models.EventCard, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canMutate(claims, existing) {
		return nil, ErrForbidden
	}
	in = ownerScoped(claims, in)

	_, err = s.db.ExecContext(ctx, `
		UPDATE event_cards SET
			event_title = ?, event_date = ?, event_location = ?, image_url = ?,
			event_description = ?, brochure_url = ?, event_schedule = ?, terms = ?,
			club_id = ?, category_id = ?
		WHERE event_id = ?`,
		in.Title, in.Date, in.Location, in.ImageURL,
		in.Description, in.BrochureURL, in.Schedule, in.Terms,
		in.ClubID, in.CategoryID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrInvalidReference
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete removes an event card under the same ownership rules as Update.
func (s *EventService) Delete(ctx context.Context, claims *auth.Claims, id int64) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canMutate(claims, existing) {
		return ErrForbidden
	}

	_, err = s.db.ExecContext(ctx, "DELETE FROM event_cards WHERE event_id = ?", id)
	return err
}

func (s *EventService) queryEvents(ctx context.Context, query string, args ...any) ([]models.EventCard, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.EventCard{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}
