package constants

// Default dispatcher configuration values
const (
	DefaultScheduledPollIntervalSec = 30
	DefaultDueDatePollIntervalSec   = 60
	DefaultClaimStalenessMin        = 5
	DefaultDueDateSendDelaySec      = 6
	DefaultBulkSendDelaySec         = 3
	MinBulkSendDelaySec             = 1
	MaxBulkSendDelaySec             = 60
)

// Default retry configuration values
const (
	DefaultRetryBackoffMs        = 1000
	DefaultMaxBackoffMs          = 60000
	DefaultMaxAttempts           = 5
	DefaultDatabaseRetryAttempts = 3
)

// Default timeout values
const (
	DefaultSendChannelTimeoutSec = 30
	DefaultGracefulShutdownSec   = 30
	DefaultServerReadTimeoutSec  = 15
	DefaultServerWriteTimeoutSec = 15
	DefaultServerIdleTimeoutSec  = 60
	DefaultServerPort            = 8084
)

// Event stream settings
const (
	DefaultEventBufferSize = 32
	ServerErrorChannelSize = 1
	EventWriteTimeoutSec   = 5
)
