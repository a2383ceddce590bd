package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/eventix/eventix-be/internal/auth"
	"github.com/eventix/eventix-be/internal/config"
)

// Dev fallback superadmin, created only when no credentials are configured
// and no superadmin exists yet.
const (
	devSuperAdminName     = "Admin"
	devSuperAdminEmail    = "admin@gmail.com"
	devSuperAdminPassword = "admin@123"
)

// Bootstrap provisions accounts and repairs legacy data after migrations
// have run. It is safe to run on every process start against a database in
// any prior version: every step is idempotent, and a failing step is logged
// and skipped rather than aborting startup.
type Bootstrap struct {
	db  *sql.DB
	cfg *config.Config
}

func NewBootstrap(db *sql.DB, cfg *config.Config) *Bootstrap {
	return &Bootstrap{db: db, cfg: cfg}
}

type bootstrapStep struct {
	name string
	run  func(ctx context.Context) error
}

// Run executes all bootstrap steps in order.
func (b *Bootstrap) Run(ctx context.Context) {
	steps := []bootstrapStep{
		{"seed-categories", b.seedCategories},
		{"ensure-superadmin", b.ensureSuperAdmin},
		{"migrate-legacy-actors", b.migrateLegacyActors},
		{"backfill-event-uuids", b.backfillEventUUIDs},
		{"rehash-club-passwords", b.rehashClubPasswords},
	}
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			log.Warn().Err(err).Str("step", step.name).Msg("Bootstrap step failed, continuing")
			continue
		}
		log.Info().Str("step", step.name).Msg("Bootstrap step complete")
	}
}

// seedCategories inserts the fixed category lookup set when the table is
// empty.
func (b *Bootstrap) seedCategories(ctx context.Context) error {
	var count int
	if err := b.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := []struct{ name, description string }{
		{"Tech", "Technical events: hackathons, workshops and coding contests"},
		{"Non-Tech", "Cultural, sports and general interest events"},
	}
	for _, c := range categories {
		_, err := b.db.ExecContext(ctx,
			"INSERT INTO categories (category_name, category_description) VALUES (?, ?)",
			c.name, c.description)
		if err != nil {
			return err
		}
	}
	return nil
}

// ensureSuperAdmin guarantees at least one superadmin account. Environment
// credentials win; otherwise a fixed development account is created once.
func (b *Bootstrap) ensureSuperAdmin(ctx context.Context) error {
	if b.cfg.SuperAdminEmail != "" && b.cfg.SuperAdminPassword != "" {
		hash, err := auth.HashPassword(b.cfg.SuperAdminPassword)
		if err != nil {
			return err
		}
		_, err = b.db.ExecContext(ctx, `
			INSERT INTO super_admins (admin_name, admin_email, admin_password)
			VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE admin_name = VALUES(admin_name), admin_password = VALUES(admin_password)`,
			b.cfg.SuperAdminName, b.cfg.SuperAdminEmail, hash)
		if err != nil {
			return err
		}
		log.Info().Str("email", b.cfg.SuperAdminEmail).Msg("Configured superadmin account")
		return nil
	}

	var count int
	if err := b.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM super_admins").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(devSuperAdminPassword)
	if err != nil {
		return err
	}
	_, err = b.db.ExecContext(ctx,
		"INSERT INTO super_admins (admin_name, admin_email, admin_password) VALUES (?, ?, ?)",
		devSuperAdminName, devSuperAdminEmail, hash)
	if err != nil {
		return err
	}
	log.Info().Str("email", devSuperAdminEmail).Msg("Created default dev superadmin")
	return nil
}

// migrateLegacyActors moves rows out of the users table that predate the
// dedicated super_admins and clubs tables (historical schemas stored a role
// column on users). Each migrated account leaves an audit row in event_logs.
// The role column is dropped once no role'd rows remain.
func (b *Bootstrap) migrateLegacyActors(ctx context.Context) error {
	hasRole, err := b.columnExists(ctx, "users", "role")
	if err != nil {
		return err
	}
	if !hasRole {
		return nil
	}

	rows, err := b.db.QueryContext(ctx,
		"SELECT id, name, email, password_hash, role FROM users WHERE role IN ('superadmin', 'admin', 'club')")
	if err != nil {
		return err
	}
	defer rows.Close()

	type legacyActor struct {
		id                              int64
		name, email, passwordHash, role string
	}
	var actors []legacyActor
	for rows.Next() {
		var a legacyActor
		if err := rows.Scan(&a.id, &a.name, &a.email, &a.passwordHash, &a.role); err != nil {
			return err
		}
		actors = append(actors, a)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, a := range actors {
		var insertErr error
		switch a.role {
		case "club":
			_, insertErr = b.db.ExecContext(ctx, `
				INSERT INTO clubs (club_name, club_email, club_password)
				VALUES (?, ?, ?)
				ON DUPLICATE KEY UPDATE club_id = club_id`,
				a.name, a.email, a.passwordHash)
		default: // superadmin, admin
			_, insertErr = b.db.ExecContext(ctx, `
				INSERT INTO super_admins (admin_name, admin_email, admin_password)
				VALUES (?, ?, ?)
				ON DUPLICATE KEY UPDATE admin_id = admin_id`,
				a.name, a.email, a.passwordHash)
		}
		if insertErr != nil {
			log.Warn().Err(insertErr).Str("email", a.email).Msg("Could not migrate legacy actor, leaving in place")
			continue
		}

		if _, err := b.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", a.id); err != nil {
			log.Warn().Err(err).Str("email", a.email).Msg("Could not remove migrated legacy actor row")
		}
		_, err := b.db.ExecContext(ctx,
			"INSERT INTO event_logs (action_type, description) VALUES (?, ?)",
			"actor_migrated",
			fmt.Sprintf("migrated %s account %s out of users table", a.role, a.email))
		if err != nil {
			log.Warn().Err(err).Str("email", a.email).Msg("Could not write migration audit row")
		}
		log.Info().Str("email", a.email).Str("role", a.role).Msg("Migrated legacy actor")
	}

	var remaining int
	err = b.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE role IN ('superadmin', 'admin', 'club')").Scan(&remaining)
	if err != nil {
		return err
	}
	if remaining == 0 {
		if _, err := b.db.ExecContext(ctx, "ALTER TABLE users DROP COLUMN role"); err != nil {
			return fmt.Errorf("dropping legacy role column: %w", err)
		}
		log.Info().Msg("Dropped legacy role column from users table")
	}
	return nil
}

// backfillEventUUIDs assigns a public id to event rows from databases that
// predate the public_id column being mandatory.
func (b *Bootstrap) backfillEventUUIDs(ctx context.Context) error {
	rows, err := b.db.QueryContext(ctx,
		"SELECT event_id FROM event_cards WHERE public_id IS NULL OR public_id = ''")
	if err != nil {
		return err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range ids {
		_, err := b.db.ExecContext(ctx,
			"UPDATE event_cards SET public_id = ? WHERE event_id = ?",
			uuid.NewString(), id)
		if err != nil {
			return err
		}
	}
	if len(ids) > 0 {
		log.Info().Int("events", len(ids)).Msg("Backfilled event public ids")
	}
	return nil
}

// rehashClubPasswords repairs legacy club rows that were imported with
// plaintext passwords. Bcrypt hashes start with "$2"; anything else gets
// hashed in place.
func (b *Bootstrap) rehashClubPasswords(ctx context.Context) error {
	rows, err := b.db.QueryContext(ctx, "SELECT club_id, club_password FROM clubs")
	if err != nil {
		return err
	}
	defer rows.Close()

	type clubRow struct {
		id       int64
		password string
	}
	var stale []clubRow
	for rows.Next() {
		var c clubRow
		if err := rows.Scan(&c.id, &c.password); err != nil {
			return err
		}
		if c.password != "" && !strings.HasPrefix(c.password, "$2") {
			stale = append(stale, c)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, c := range stale {
		hash, err := auth.HashPassword(c.password)
		if err != nil {
			return err
		}
		_, err = b.db.ExecContext(ctx,
			"UPDATE clubs SET club_password = ? WHERE club_id = ?", hash, c.id)
		if err != nil {
			return err
		}
		log.Info().Int64("club_id", c.id).Msg("Hashed legacy club password")
	}
	return nil
}

// columnExists probes information_schema for a column on a table in the
// configured database.
func (b *Bootstrap) columnExists(ctx context.Context, table, column string) (bool, error) {
	var count int
	err := b.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ? AND column_name = ?`,
		b.cfg.MySQL.Database, table, column).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
