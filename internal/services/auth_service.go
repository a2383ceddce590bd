package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/eventix/eventix-be/internal/auth"
	"github.com/eventix/eventix-be/internal/models"
)

// SignupParams carries a validated user signup payload.
type SignupParams struct {
	Name        string
	Email       string
	Password    string
	Phone       *string
	Department  *string
	YearOfStudy *int
}

// LoginResult is the resolved actor plus its bearer token. Exactly one of
// User/Club/SuperAdmin is set, matching Role.
type LoginResult struct {
	Role       string
	User       *models.User
	Club       *models.Club
	SuperAdmin *models.SuperAdmin
	Token      string
}

// AuthServiceProvider defines the interface for signup, login and identity
// lookup.
type AuthServiceProvider interface {
	Signup(ctx context.Context, params SignupParams) (*models.User, string, error)
	Login(ctx context.Context, email, password, as string) (*LoginResult, error)
	Me(ctx context.Context, claims *auth.Claims) (*LoginResult, error)
}

// actorRecord is the common credential shape each actor table resolves to.
type actorRecord struct {
	id           int64
	name         string
	email        string
	passwordHash string
}

// credentialSource is one actor table's email lookup. Login tries sources in
// a defined priority order instead of hardcoding per-table branches.
type credentialSource interface {
	role() string
	findByEmail(ctx context.Context, email string) (*actorRecord, error)
}

// AuthService provides business logic for the three actor kinds.
type AuthService struct {
	db     *sql.DB
	tokens *auth.Tokens

	users  credentialSource
	clubs  credentialSource
	admins credentialSource
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *sql.DB, tokens *auth.Tokens) *AuthService {
	return &AuthService{
		db:     db,
		tokens: tokens,
		users:  &userSource{db: db},
		clubs:  &clubSource{db: db},
		admins: &superAdminSource{db: db},
	}
}

// Signup registers a new user account. The users table's unique email key is
// the arbiter when two signups race: the loser surfaces as ErrEmailTaken.
func (s *AuthService) Signup(ctx context.Context, params SignupParams) (*models.User, string, error) {
	var existing int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM users WHERE email = ? LIMIT 1", params.Email).Scan(&existing)
	if err == nil {
		return nil, "", ErrEmailTaken
	}
	if err != sql.ErrNoRows {
		return nil, "", err
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (name, email, password_hash, phone, department, year_of_study)
		VALUES (?, ?, ?, ?, ?, ?)`,
		params.Name, params.Email, hash, params.Phone, params.Department, params.YearOfStudy)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Sign(id, auth.RoleUser, params.Name, params.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	user := &models.User{
		ID:          id,
		Name:        params.Name,
		Email:       params.Email,
		Phone:       params.Phone,
		Department:  params.Department,
		YearOfStudy: params.YearOfStudy,
		Role:        auth.RoleUser,
	}
	return user, token, nil
}

// sourcesFor returns the credential sources to try, in priority order, for
// an optional "as" discriminator.
func (s *AuthService) sourcesFor(as string) []credentialSource {
	switch as {
	case auth.RoleClub:
		return []credentialSource{s.clubs}
	case auth.RoleUser:
		return []credentialSource{s.users}
	default:
		return []credentialSource{s.admins, s.users}
	}
}

// Login resolves an actor by email and verifies its password. Every failure
// collapses into ErrInvalidCredentials so responses cannot be used for
// account enumeration.
func (s *AuthService) Login(ctx context.Context, email, password, as string) (*LoginResult, error) {
	for _, source := range s.sourcesFor(as) {
		rec, err := source.findByEmail(ctx, email)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		if !auth.VerifyPassword(password, rec.passwordHash) {
			return nil, ErrInvalidCredentials
		}

		token, err := s.tokens.Sign(rec.id, source.role(), rec.name, rec.email)
		if err != nil {
			return nil, fmt.Errorf("failed to generate token: %w", err)
		}
		result, err := s.lookupActor(ctx, source.role(), rec.id)
		if err != nil {
			return nil, err
		}
		result.Token = token
		return result, nil
	}
	return nil, ErrInvalidCredentials
}

// Me re-fetches the canonical actor record for previously issued claims.
// Tokens outlive deletion, so the row may legitimately be gone (ErrNotFound).
func (s *AuthService) Me(ctx context.Context, claims *auth.Claims) (*LoginResult, error) {
	return s.lookupActor(ctx, claims.Role, claims.ActorID)
}

func (s *AuthService) lookupActor(ctx context.Context, role string, id int64) (*LoginResult, error) {
	result := &LoginResult{Role: role}
	switch role {
	case auth.RoleClub:
		var club models.Club
		err := s.db.QueryRowContext(ctx, `
			SELECT club_id, club_name, club_email, club_description, created_at
			FROM clubs WHERE club_id = ? LIMIT 1`, id).
			Scan(&club.ID, &club.Name, &club.Email, &club.Description, &club.CreatedAt)
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		result.Club = &club
	case auth.RoleSuperAdmin:
		var admin models.SuperAdmin
		err := s.db.QueryRowContext(ctx, `
			SELECT admin_id, admin_name, admin_email, created_at
			FROM super_admins WHERE admin_id = ? LIMIT 1`, id).
			Scan(&admin.ID, &admin.Name, &admin.Email, &admin.CreatedAt)
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		result.SuperAdmin = &admin
	default:
		var user models.User
		err := s.db.QueryRowContext(ctx, `
			SELECT id, name, email, phone, department, year_of_study, created_at
			FROM users WHERE id = ? LIMIT 1`, id).
			Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &user.Department, &user.YearOfStudy, &user.CreatedAt)
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		user.Role = auth.RoleUser
		result.User = &user
	}
	return result, nil
}

// userSource resolves credentials against the users table.
type userSource struct{ db *sql.DB }

func (s *userSource) role() string { return auth.RoleUser }

func (s *userSource) findByEmail(ctx context.Context, email string) (*actorRecord, error) {
	var rec actorRecord
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash FROM users WHERE email = ? LIMIT 1", email).
		Scan(&rec.id, &rec.name, &rec.email, &rec.passwordHash)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// clubSource resolves credentials against the clubs table.
type clubSource struct{ db *sql.DB }

func (s *clubSource) role() string { return auth.RoleClub }

func (s *clubSource) findByEmail(ctx context.Context, email string) (*actorRecord, error) {
	var rec actorRecord
	err := s.db.QueryRowContext(ctx,
		"SELECT club_id, club_name, club_email, club_password FROM clubs WHERE club_email = ? LIMIT 1", email).
		Scan(&rec.id, &rec.name, &rec.email, &rec.passwordHash)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// superAdminSource resolves credentials against the super_admins table.
type superAdminSource struct{ db *sql.DB }

func (s *superAdminSource) role() string { return auth.RoleSuperAdmin }

func (s *superAdminSource) findByEmail(ctx context.Context, email string) (*actorRecord, error) {
	var rec actorRecord
	err := s.db.QueryRowContext(ctx,
		"SELECT admin_id, admin_name, admin_email, admin_password FROM super_admins WHERE admin_email = ? LIMIT 1", email).
		Scan(&rec.id, &rec.name, &rec.email, &rec.passwordHash)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
