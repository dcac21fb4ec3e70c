package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredVars(t *testing.T) {
	t.Helper()
	t.Setenv("GLPI_API_URL", "https://glpi.example.com/apirest.php")
	t.Setenv("GLPI_API_TOKEN", "api-tok")
	t.Setenv("GLPI_APP_TOKEN", "app-tok")
}

func TestLoad(t *testing.T) {
	t.Run("missing GLPI variables fail fast and are named", func(t *testing.T) {
		t.Setenv("GLPI_API_URL", "")
		t.Setenv("GLPI_API_TOKEN", "")
		t.Setenv("GLPI_APP_TOKEN", "app-tok")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GLPI_API_URL")
		assert.Contains(t, err.Error(), "GLPI_API_TOKEN")
		assert.NotContains(t, err.Error(), "GLPI_APP_TOKEN")
	})

	t.Run("defaults are applied", func(t *testing.T) {
		setRequiredVars(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "glpi-gateway", cfg.App.Name)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, 15, cfg.GLPI.TimeoutSeconds)
		assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
		assert.Equal(t, "info", cfg.Logger.Level)
		assert.True(t, cfg.Postgres.RunMigrations)
	})

	t.Run("trailing slash on base URL is trimmed", func(t *testing.T) {
		setRequiredVars(t)
		t.Setenv("GLPI_API_URL", "https://glpi.example.com/apirest.php/")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "https://glpi.example.com/apirest.php", cfg.GLPI.BaseURL)
	})

	t.Run("invalid REDIS_DB errors", func(t *testing.T) {
		setRequiredVars(t)
		t.Setenv("REDIS_DB", "not-a-number")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestDurationHelpers(t *testing.T) {
	app := AppConfig{RequestTimeoutSeconds: 30, RecentTicketTTLMinutes: 60}
	assert.Equal(t, "30s", app.RequestTimeout().String())
	assert.Equal(t, "1h0m0s", app.RecentTicketTTL().String())

	zero := AppConfig{}
	assert.Equal(t, "0s", zero.RequestTimeout().String())
	assert.Equal(t, "24h0m0s", zero.RecentTicketTTL().String())

	glpi := GLPIConfig{}
	assert.Equal(t, "15s", glpi.Timeout().String())
}
