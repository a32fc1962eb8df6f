package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "http://localhost:4000/api", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, ":4000", cfg.Stub.Addr)
	assert.Contains(t, cfg.State.Dir, ".agencydesk")
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("AGENCYDESK_ENV", "production")
	t.Setenv("AGENCYDESK_API_URL", "https://api.example.com/api")
	t.Setenv("AGENCYDESK_API_TIMEOUT", "5s")
	t.Setenv("AGENCYDESK_STATE_DIR", "/tmp/agencydesk-test")
	t.Setenv("AGENCYDESK_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "https://api.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "/tmp/agencydesk-test", cfg.State.Dir)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestTimeoutAcceptsBareSeconds(t *testing.T) {
	t.Setenv("AGENCYDESK_API_TIMEOUT", "45")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.API.Timeout)
}
