package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	for _, key := range []string{
		"PORT", "DB_DRIVER", "SYNC_PUSH_TIMEOUT", "SYNC_PULL_CURSOR_LAG",
		"SYNC_PLACEHOLDER_PASSWORD", "SYNC_AUDIT", "AUTO_MIGRATE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3210", cfg.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 60*time.Second, cfg.Sync.PushTimeout)
	assert.Zero(t, cfg.Sync.PullCursorLag)
	assert.Equal(t, DefaultPlaceholderPassword, cfg.Sync.PlaceholderPassword)
	assert.True(t, cfg.Sync.Audit)
	assert.True(t, cfg.AutoMigrate)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SYNC_PUSH_TIMEOUT", "15")
	t.Setenv("SYNC_PULL_CURSOR_LAG", "2s")
	t.Setenv("SYNC_AUDIT", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 15*time.Second, cfg.Sync.PushTimeout)
	assert.Equal(t, 2*time.Second, cfg.Sync.PullCursorLag)
	assert.False(t, cfg.Sync.Audit)
}

func TestLoadRejectsNegativeLag(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SYNC_PUSH_TIMEOUT", "")
	t.Setenv("SYNC_PULL_CURSOR_LAG", "-1s")

	_, err := Load()
	assert.Error(t, err)
}

func TestEmbeddedDatabase(t *testing.T) {
	for _, key := range []string{"PG_HOST", "PG_PASSWORD", "PG_EMBEDDED_PATH", "PG_EMBEDDED_PORT"} {
		t.Setenv(key, "")
	}

	db := LoadDatabase()
	assert.True(t, db.Embedded())
	assert.Equal(t, "./db_data", db.EmbeddedDataPath)
	assert.Equal(t, 5433, db.EmbeddedPort)

	t.Setenv("PG_PASSWORD", "hunter2")
	assert.False(t, LoadDatabase().Embedded())

	t.Setenv("PG_PASSWORD", "")
	t.Setenv("PG_HOST", "db.internal")
	assert.False(t, LoadDatabase().Embedded())
}
