package config

import (
	"os"
	"path/filepath"
	"testing"

	"zapdispatch/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `{
		"send_channel": {"url": "http://localhost:9000/send", "timeoutSec": 10},
		"database": {"path": "app.db"},
		"server": {"port": 8080},
		"dispatcher": {
			"scheduledPollIntervalSec": 15,
			"dueDatePollIntervalSec": 45,
			"claimStalenessMin": 10
		},
		"log_level": "debug"
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/send", cfg.SendChannel.URL)
	assert.Equal(t, 10, cfg.SendChannel.TimeoutSec)
	assert.Equal(t, "app.db", cfg.Database.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15, cfg.Dispatcher.ScheduledPollIntervalSec)
	assert.Equal(t, 45, cfg.Dispatcher.DueDatePollIntervalSec)
	assert.Equal(t, 10, cfg.Dispatcher.ClaimStalenessMin)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.Dispatcher.Disabled)
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `{
		"send_channel": {"url": "http://localhost:9000/send"},
		"database": {"path": "app.db"}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultScheduledPollIntervalSec, cfg.Dispatcher.ScheduledPollIntervalSec)
	assert.Equal(t, constants.DefaultDueDatePollIntervalSec, cfg.Dispatcher.DueDatePollIntervalSec)
	assert.Equal(t, constants.DefaultClaimStalenessMin, cfg.Dispatcher.ClaimStalenessMin)
	assert.Equal(t, constants.DefaultDueDateSendDelaySec, cfg.Dispatcher.DueDateSendDelaySec)
	assert.Equal(t, constants.DefaultSendChannelTimeoutSec, cfg.SendChannel.TimeoutSec)
	assert.Equal(t, constants.DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, constants.DefaultMaxAttempts, cfg.Retry.MaxAttempts)
}

func TestLoadConfigMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "missing send channel url",
			content: `{"database": {"path": "app.db"}}`,
			wantErr: ErrMissingSendChannelURL,
		},
		{
			name:    "missing database path",
			content: `{"send_channel": {"url": "http://localhost:9000/send"}}`,
			wantErr: ErrMissingDBPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)

			_, err := LoadConfig(path)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	path := writeConfigFile(t, `{not json`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadConfigRejectsTraversalPath(t *testing.T) {
	_, err := LoadConfig("../../../etc/passwd")
	assert.Error(t, err)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("SEND_CHANNEL_URL", "http://override:9999/send")
	t.Setenv("DB_PATH", "/tmp/override.db")
	t.Setenv("PORT", "9001")

	path := writeConfigFile(t, `{
		"send_channel": {"url": "http://localhost:9000/send"},
		"database": {"path": "app.db"},
		"server": {"port": 8080}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://override:9999/send", cfg.SendChannel.URL)
	assert.Equal(t, "/tmp/override.db", cfg.Database.Path)
	assert.Equal(t, 9001, cfg.Server.Port)
}

func TestLoadConfigIgnoresInvalidPortOverride(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	path := writeConfigFile(t, `{
		"send_channel": {"url": "http://localhost:9000/send"},
		"database": {"path": "app.db"},
		"server": {"port": 8080}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestClampBulkSendDelay(t *testing.T) {
	tests := []struct {
		name string
		sec  int
		want int
	}{
		{"unset uses default", 0, constants.DefaultBulkSendDelaySec},
		{"below minimum", -5, constants.MinBulkSendDelaySec},
		{"at minimum", constants.MinBulkSendDelaySec, constants.MinBulkSendDelaySec},
		{"in range", 10, 10},
		{"at maximum", constants.MaxBulkSendDelaySec, constants.MaxBulkSendDelaySec},
		{"above maximum", 300, constants.MaxBulkSendDelaySec},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampBulkSendDelay(tt.sec))
		})
	}
}
