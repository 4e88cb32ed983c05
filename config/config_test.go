package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("ALLU_REQUESTS_PER_SEC", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5, cfg.Allu.RequestsPerSec)
	assert.Equal(t, 5*time.Minute, cfg.Jobs.LockTTL)
	assert.Equal(t, "0 */1 * * * *", cfg.Jobs.AlluStatusSchedule)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DB_PORT", "6543")
	t.Setenv("STORAGE_USE_SSL", "true")
	t.Setenv("ALLU_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 6543, cfg.Database.Port)
	assert.True(t, cfg.Storage.UseSSL)
	assert.Equal(t, 3*time.Second, cfg.Allu.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-port")
	t.Setenv("SERVER_READ_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func TestValidate(t *testing.T) {
	t.Setenv("ALLU_REQUESTS_PER_SEC", "0")

	_, err := Load()
	assert.EqualError(t, err, "ALLU_REQUESTS_PER_SEC must be positive")
}
