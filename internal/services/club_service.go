package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/eventix/eventix-be/internal/auth"
	"github.com/eventix/eventix-be/internal/models"
)

// ClubServiceProvider defines the interface for club services.
type ClubServiceProvider interface {
	List(ctx context.Context) ([]models.Club, error)
	Create(ctx context.Context, name, email, password string, description *string) (int64, error)
}

// ClubService provides business logic for club management. Club creation is
// open registration: no authentication guards it.
type ClubService struct {
	db *sql.DB
}

// NewClubService creates a new ClubService.
func NewClubService(db *sql.DB) *ClubService {
	return &ClubService{db: db}
}

// List retrieves all clubs, newest first. Password hashes never leave the
// service.
func (s *ClubService) List(ctx context.Context) ([]models.Club, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT club_id, club_name, club_email, club_description, created_at
		FROM clubs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clubs := []models.Club{}
	for rows.Next() {
		var club models.Club
		if err := rows.Scan(&club.ID, &club.Name, &club.Email, &club.Description, &club.CreatedAt); err != nil {
			return nil, err
		}
		clubs = append(clubs, club)
	}
	return clubs, rows.Err()
}

// Create registers a new club with a hashed password and returns its id.
// The unique keys on club_name and club_email decide duplicate races.
func (s *ClubService) Create(ctx context.Context, name, email, password string, description *string) (int64, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO clubs (club_name, club_email, club_password, club_description)
		VALUES (?, ?, ?, ?)`,
		name, email, hash, description)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailTaken
		}
		return 0, err
	}
	return res.LastInsertId()
}
