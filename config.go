package truthlinked

import (
	"github.com/truthlinked/sdk-go/internal/api"
	"github.com/truthlinked/sdk-go/internal/logging"
)

// RetryConfig controls how transient failures are retried.
type RetryConfig = api.RetryConfig

// LoggingConfig controls request logging.
type LoggingConfig = logging.Config

// DefaultRetryConfig returns 3 attempts starting at 1s, capped at 30s.
func DefaultRetryConfig() RetryConfig { return api.DefaultRetryConfig() }

// ProductionRetryConfig returns 3 attempts starting at 500ms, capped at 10s.
func ProductionRetryConfig() RetryConfig { return api.ProductionRetryConfig() }

// AggressiveRetryConfig returns 5 attempts starting at 100ms, capped at 5s.
func AggressiveRetryConfig() RetryConfig { return api.AggressiveRetryConfig() }

// NoRetryConfig returns a single attempt.
func NoRetryConfig() RetryConfig { return api.NoRetryConfig() }

// DefaultLoggingConfig logs everything at debug level with 1 KiB bodies.
func DefaultLoggingConfig() LoggingConfig { return logging.DefaultConfig() }

// ProductionLoggingConfig logs errors and timing only.
func ProductionLoggingConfig() LoggingConfig { return logging.ProductionConfig() }

// DevelopmentLoggingConfig logs everything at info level.
func DevelopmentLoggingConfig() LoggingConfig { return logging.DevelopmentConfig() }

// DisabledLoggingConfig logs nothing.
func DisabledLoggingConfig() LoggingConfig { return logging.DisabledConfig() }
