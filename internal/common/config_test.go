package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "https://eodhd.com/api", config.Clients.EODHD.BaseURL)
	assert.Equal(t, "TestNet", config.Clients.Algorand.Network)
	assert.Equal(t, 182, config.Risk.LookbackDays)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))

	require.NoError(t, err)
	assert.Equal(t, 8080, config.Server.Port)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "riskfolio.toml")
	content := `
environment = "production"

[server]
port = 9090

[risk]
lookback_days = 365
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, 365, config.Risk.LookbackDays)
	// Untouched sections keep defaults.
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.True(t, config.IsProduction())
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "riskfolio.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0o644))

	_, err := LoadConfig(path)

	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("RISKFOLIO_PORT", "7070")
	t.Setenv("RISKFOLIO_LOG_LEVEL", "debug")
	t.Setenv("EODHD_API_KEY", "env-key")
	t.Setenv("RISKFOLIO_LOOKBACK_DAYS", "90")

	config, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 7070, config.Server.Port)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, "env-key", config.Clients.EODHD.APIKey)
	assert.Equal(t, 90, config.Risk.LookbackDays)
}

func TestRiskConfig_Lookback(t *testing.T) {
	c := RiskConfig{LookbackDays: 30}
	assert.Equal(t, 30*24*time.Hour, c.Lookback())

	// Zero and negative fall back to the default window.
	c = RiskConfig{}
	assert.Equal(t, 182*24*time.Hour, c.Lookback())
}

func TestEODHDConfig_GetTimeout(t *testing.T) {
	c := EODHDConfig{Timeout: "5s"}
	assert.Equal(t, 5*time.Second, c.GetTimeout())

	c = EODHDConfig{Timeout: "bogus"}
	assert.Equal(t, 30*time.Second, c.GetTimeout())
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("TEST_KEY_PRIMARY", "")
	t.Setenv("TEST_KEY_SECONDARY", "from-env")

	got := ResolveAPIKey("test", []string{"TEST_KEY_PRIMARY", "TEST_KEY_SECONDARY"}, "from-file")
	assert.Equal(t, "from-env", got)

	got = ResolveAPIKey("test", []string{"TEST_KEY_PRIMARY"}, "from-file")
	assert.Equal(t, "from-file", got)
}
