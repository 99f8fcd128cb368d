package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"orderly/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_URL", "SQLITE_PATH", "TEMPLATES_DIR", "ADMIN_USERNAME",
		"ADMIN_PASSWORD", "ADMIN_PASSWORD_HASH", "DRAFT_TTL", "KAFKA_BROKERS", "KAFKA_TOPIC", "BOT_SECRET"} {
		t.Setenv(k, "")
	}

	cfg := config.Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "orders_backup.db", cfg.SQLitePath)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, "admin123", cfg.AdminPassword)
	assert.Equal(t, 30*time.Minute, cfg.DraftTTL)
	assert.Equal(t, "orderly.orders", cfg.KafkaTopic)
	assert.Empty(t, cfg.BotSecret)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/orders")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$12$abc")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("DRAFT_TTL", "5m")
	t.Setenv("LOG_FILE", "")
	t.Setenv("BOT_SECRET", "tg-hook-secret")

	cfg := config.Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "postgres://u:p@db:5432/orders", cfg.DatabaseURL)
	assert.Equal(t, "$2a$12$abc", cfg.AdminPasswordHash)
	assert.Empty(t, cfg.AdminPassword)
	assert.Equal(t, 5*time.Minute, cfg.DraftTTL)
	assert.Empty(t, cfg.LogFile)
	assert.Equal(t, "tg-hook-secret", cfg.BotSecret)
}

func TestLoadBadDraftTTLKeepsDefault(t *testing.T) {
	t.Setenv("DRAFT_TTL", "soon")
	cfg := config.Load()
	assert.Equal(t, 30*time.Minute, cfg.DraftTTL)
}
