package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventix/eventix-be/internal/config"
)

func newBootstrapMock(t *testing.T, cfg *config.Config) (*Bootstrap, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	if cfg == nil {
		cfg = &config.Config{MySQL: config.MySQLConfig{Database: "eventix"}}
	}
	return NewBootstrap(db, cfg), mock
}

func countRow(n int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func TestSeedCategoriesIsIdempotent(t *testing.T) {
	b, mock := newBootstrapMock(t, nil)
	ctx := context.Background()

	// First run against an empty table seeds the fixed set.
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM categories`).WillReturnRows(countRow(0))
	mock.ExpectExec("INSERT INTO categories").
		WithArgs("Tech", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO categories").
		WithArgs("Non-Tech", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))
	require.NoError(t, b.seedCategories(ctx))

	// Second run sees the seeded rows and inserts nothing.
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM categories`).WillReturnRows(countRow(2))
	require.NoError(t, b.seedCategories(ctx))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSuperAdminDevFallbackCreatedOnce(t *testing.T) {
	b, mock := newBootstrapMock(t, nil)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM super_admins`).WillReturnRows(countRow(0))
	mock.ExpectExec("INSERT INTO super_admins").
		WithArgs("Admin", "admin@gmail.com", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, b.ensureSuperAdmin(ctx))

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM super_admins`).WillReturnRows(countRow(1))
	require.NoError(t, b.ensureSuperAdmin(ctx))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSuperAdminPrefersConfiguredCredentials(t *testing.T) {
	cfg := &config.Config{
		MySQL:              config.MySQLConfig{Database: "eventix"},
		SuperAdminName:     "Ops",
		SuperAdminEmail:    "ops@college.edu",
		SuperAdminPassword: "changed-every-term",
	}
	b, mock := newBootstrapMock(t, cfg)

	// Upsert, no existence probe: configured credentials always win.
	mock.ExpectExec("INSERT INTO super_admins").
		WithArgs("Ops", "ops@college.edu", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, b.ensureSuperAdmin(context.Background()))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateLegacyActorsRunTwice(t *testing.T) {
	b, mock := newBootstrapMock(t, nil)
	ctx := context.Background()

	// First run: the legacy role column exists with one club and one admin.
	mock.ExpectQuery("SELECT COUNT.+information_schema").
		WithArgs("eventix", "users", "role").
		WillReturnRows(countRow(1))
	mock.ExpectQuery("SELECT id, name, email, password_hash, role FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role"}).
			AddRow(7, "Robo Club", "robo@college.edu", "$2a$10$clubhash", "club").
			AddRow(8, "Old Admin", "old@college.edu", "$2a$10$adminhash", "admin"))

	mock.ExpectExec("INSERT INTO clubs").
		WithArgs("Robo Club", "robo@college.edu", "$2a$10$clubhash").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM users").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO event_logs").
		WithArgs("actor_migrated", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectExec("INSERT INTO super_admins").
		WithArgs("Old Admin", "old@college.edu", "$2a$10$adminhash").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM users").
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO event_logs").
		WithArgs("actor_migrated", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))

	// Only after every role'd row is gone does the column get dropped.
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE role IN`).
		WillReturnRows(countRow(0))
	mock.ExpectExec("ALTER TABLE users DROP COLUMN role").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, b.migrateLegacyActors(ctx))

	// Second run: no role column, nothing else happens.
	mock.ExpectQuery("SELECT COUNT.+information_schema").
		WithArgs("eventix", "users", "role").
		WillReturnRows(countRow(0))
	require.NoError(t, b.migrateLegacyActors(ctx))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateLegacyActorsKeepsColumnWhileRowsRemain(t *testing.T) {
	b, mock := newBootstrapMock(t, nil)

	mock.ExpectQuery("SELECT COUNT.+information_schema").
		WithArgs("eventix", "users", "role").
		WillReturnRows(countRow(1))
	mock.ExpectQuery("SELECT id, name, email, password_hash, role FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role"}).
			AddRow(7, "Robo Club", "robo@college.edu", "$2a$10$clubhash", "club"))

	// The insert fails (say, a name collision): the row stays put and the
	// column must survive for the next run.
	mock.ExpectExec("INSERT INTO clubs").
		WithArgs("Robo Club", "robo@college.edu", "$2a$10$clubhash").
		WillReturnError(assert.AnError)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE role IN`).
		WillReturnRows(countRow(1))

	require.NoError(t, b.migrateLegacyActors(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRehashClubPasswordsOnlyTouchesPlaintext(t *testing.T) {
	b, mock := newBootstrapMock(t, nil)
	ctx := context.Background()

	mock.ExpectQuery("SELECT club_id, club_password FROM clubs").
		WillReturnRows(sqlmock.NewRows([]string{"club_id", "club_password"}).
			AddRow(1, "$2a$10$alreadyhashed").
			AddRow(2, "letmein"))
	mock.ExpectExec("UPDATE clubs SET club_password").
		WithArgs(sqlmock.AnyArg(), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, b.rehashClubPasswords(ctx))

	// After the repair every row carries a bcrypt prefix; nothing to update.
	mock.ExpectQuery("SELECT club_id, club_password FROM clubs").
		WillReturnRows(sqlmock.NewRows([]string{"club_id", "club_password"}).
			AddRow(1, "$2a$10$alreadyhashed").
			AddRow(2, "$2a$10$freshlyhashed"))
	require.NoError(t, b.rehashClubPasswords(ctx))

	assert.NoError(t, mock.ExpectationsWereMet())
}
