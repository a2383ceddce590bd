package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "PORT", "FRONTEND_ORIGIN", "JWT_SECRET", "JWT_EXPIRES_IN",
		"MYSQL_HOST", "MYSQL_PORT", "MYSQL_USER", "MYSQL_PASSWORD", "MYSQL_DATABASE",
		"SUPER_ADMIN_NAME", "SUPER_ADMIN_EMAIL", "SUPER_ADMIN_PASSWORD",
		"RATE_LIMIT_AUTH_RPS", "RATE_LIMIT_AUTH_BURST",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, "http://localhost:5173", cfg.FrontendOrigin)
	assert.Equal(t, 168*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "localhost", cfg.MySQL.Host)
	assert.Equal(t, 3306, cfg.MySQL.Port)
	assert.Equal(t, "eventix", cfg.MySQL.Database)
	assert.Equal(t, float64(5), cfg.RateLimitAuthRPS)
	assert.Equal(t, 10, cfg.RateLimitAuthBurst)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_EXPIRES_IN", "24h")
	t.Setenv("MYSQL_DATABASE", "eventix_test")
	t.Setenv("RATE_LIMIT_AUTH_RPS", "2.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "eventix_test", cfg.MySQL.Database)
	assert.Equal(t, 2.5, cfg.RateLimitAuthRPS)
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	m := MySQLConfig{Host: "db.internal", Port: 3307, User: "eventix", Password: "s3cret", Database: "eventix"}

	assert.Equal(t,
		"eventix:s3cret@tcp(db.internal:3307)/eventix?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
		m.DSN("eventix"))

	// Empty name connects without selecting a database.
	assert.Equal(t,
		"eventix:s3cret@tcp(db.internal:3307)/?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
		m.DSN(""))
}
