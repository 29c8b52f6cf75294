package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MILESTONE_SWEEP_INTERVAL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, defaultDatabaseURL, cfg.DatabaseURL)
	assert.Equal(t, time.Duration(0), cfg.MilestoneSweepInterval)
	assert.Equal(t, 30, cfg.DemandDraftDueDays)
	assert.False(t, cfg.IsProdLike())
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("MILESTONE_SWEEP_INTERVAL", "10m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("DEMAND_DRAFT_DUE_DAYS", "15")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.MilestoneSweepInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 15, cfg.DemandDraftDueDays)
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("NOTIFICATION_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestProdRequiresSecretAndBank(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "a-real-secret")
	t.Setenv("BANK_ACCOUNT_NUMBER", "")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BANK_")

	t.Setenv("BANK_ACCOUNT_NUMBER", "001122334455")
	t.Setenv("BANK_IFSC", "HDFC0000001")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProdLike())
}
