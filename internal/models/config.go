package models

import "time"

// Config holds the application configuration
type Config struct {
	Server      ServerConfig      `json:"server"`
	Database    DatabaseConfig    `json:"database"`
	SendChannel SendChannelConfig `json:"send_channel"`
	Dispatcher  DispatcherConfig  `json:"dispatcher"`
	Retry       RetryConfig       `json:"retry"`
	Tracing     TracingConfig     `json:"tracing"`
	LogLevel    string            `json:"log_level"`
}

// ServerConfig holds HTTP server related configurations
type ServerConfig struct {
	Port                int `json:"port"`
	ReadTimeoutSec      int `json:"readTimeoutSec"`
	WriteTimeoutSec     int `json:"writeTimeoutSec"`
	IdleTimeoutSec      int `json:"idleTimeoutSec"`
	GracefulShutdownSec int `json:"gracefulShutdownSec"`
}

// DatabaseConfig holds database related configurations
type DatabaseConfig struct {
	Path string `json:"path"`
}

// SendChannelConfig holds the outbound delivery endpoint configuration
type SendChannelConfig struct {
	URL        string `json:"url"`
	TimeoutSec int    `json:"timeoutSec"`
}

// DispatcherConfig holds dispatcher polling and pacing configurations
type DispatcherConfig struct {
	ScheduledPollIntervalSec int  `json:"scheduledPollIntervalSec"`
	DueDatePollIntervalSec   int  `json:"dueDatePollIntervalSec"`
	ClaimStalenessMin        int  `json:"claimStalenessMin"`
	DueDateSendDelaySec      int  `json:"dueDateSendDelaySec"`
	Disabled                 bool `json:"disabled"`
}

// ClaimStaleness returns the staleness threshold as a duration.
func (d DispatcherConfig) ClaimStaleness() time.Duration {
	return time.Duration(d.ClaimStalenessMin) * time.Minute
}

// RetryConfig holds retry related configurations
type RetryConfig struct {
	InitialBackoffMs int `json:"initialBackoffMs"`
	MaxBackoffMs     int `json:"maxBackoffMs"`
	MaxAttempts      int `json:"maxAttempts"`
}

// TracingConfig holds OpenTelemetry related configurations
type TracingConfig struct {
	ServiceName    string  `json:"service_name"`
	ServiceVersion string  `json:"service_version"`
	Environment    string  `json:"environment"`
	OTLPEndpoint   string  `json:"otlp_endpoint"`
	SampleRate     float64 `json:"sample_rate"`
	Enabled        bool    `json:"enabled"`
	UseStdout      bool    `json:"use_stdout"`
}

type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string {
	return e.Message
}
