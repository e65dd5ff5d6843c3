package config

import (
	"encoding/json"
	"fmt"
	"os"

	"zapdispatch/internal/constants"
	"zapdispatch/internal/models"
	"zapdispatch/internal/security"
)

var (
	ErrMissingSendChannelURL = models.ConfigError{Message: "missing send channel URL"}
	ErrMissingDBPath         = models.ConfigError{Message: "missing database path"}
)

func LoadConfig(path string) (*models.Config, error) {
	// Validate config file path to prevent directory traversal
	if err := security.ValidateFilePath(path); err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	file, err := os.ReadFile(path) // #nosec G304 - Path validated above
	if err != nil {
		return nil, err
	}

	var config models.Config
	if err := json.Unmarshal(file, &config); err != nil {
		return nil, err
	}

	applyEnvironmentOverrides(&config)

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validate(c *models.Config) error {
	if c.SendChannel.URL == "" {
		return ErrMissingSendChannelURL
	}
	if c.Database.Path == "" {
		return ErrMissingDBPath
	}

	if c.SendChannel.TimeoutSec <= 0 {
		c.SendChannel.TimeoutSec = constants.DefaultSendChannelTimeoutSec
	}

	if c.Dispatcher.ScheduledPollIntervalSec <= 0 {
		c.Dispatcher.ScheduledPollIntervalSec = constants.DefaultScheduledPollIntervalSec
	}
	if c.Dispatcher.DueDatePollIntervalSec <= 0 {
		c.Dispatcher.DueDatePollIntervalSec = constants.DefaultDueDatePollIntervalSec
	}
	if c.Dispatcher.ClaimStalenessMin <= 0 {
		c.Dispatcher.ClaimStalenessMin = constants.DefaultClaimStalenessMin
	}
	if c.Dispatcher.DueDateSendDelaySec <= 0 {
		c.Dispatcher.DueDateSendDelaySec = constants.DefaultDueDateSendDelaySec
	}

	if c.Server.Port <= 0 {
		c.Server.Port = constants.DefaultServerPort
	}
	if c.Server.ReadTimeoutSec <= 0 {
		c.Server.ReadTimeoutSec = constants.DefaultServerReadTimeoutSec
	}
	if c.Server.WriteTimeoutSec <= 0 {
		c.Server.WriteTimeoutSec = constants.DefaultServerWriteTimeoutSec
	}
	if c.Server.IdleTimeoutSec <= 0 {
		c.Server.IdleTimeoutSec = constants.DefaultServerIdleTimeoutSec
	}
	if c.Server.GracefulShutdownSec <= 0 {
		c.Server.GracefulShutdownSec = constants.DefaultGracefulShutdownSec
	}

	if c.Retry.InitialBackoffMs <= 0 {
		c.Retry.InitialBackoffMs = constants.DefaultRetryBackoffMs
	}
	if c.Retry.MaxBackoffMs <= 0 {
		c.Retry.MaxBackoffMs = constants.DefaultMaxBackoffMs
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = constants.DefaultMaxAttempts
	}

	return nil
}

func applyEnvironmentOverrides(c *models.Config) {
	if url := os.Getenv("SEND_CHANNEL_URL"); url != "" {
		c.SendChannel.URL = url
	}
	if path := os.Getenv("DB_PATH"); path != "" {
		c.Database.Path = path
	}
	if port := os.Getenv("PORT"); port != "" {
		var p int
		if _, err := fmt.Sscanf(port, "%d", &p); err == nil && p > 0 {
			c.Server.Port = p
		}
	}
}

// ClampBulkSendDelay bounds a tenant-configured inter-send delay to the
// allowed range. Out-of-range values are pulled to the nearest bound.
func ClampBulkSendDelay(sec int) int {
	if sec == 0 {
		return constants.DefaultBulkSendDelaySec
	}
	if sec < constants.MinBulkSendDelaySec {
		return constants.MinBulkSendDelaySec
	}
	if sec > constants.MaxBulkSendDelaySec {
		return constants.MaxBulkSendDelaySec
	}
	return sec
}
