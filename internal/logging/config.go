package logging

import "log/slog"

// Config controls which request lifecycle events are logged and how much
// detail they carry.
type Config struct {
	// LogRequests enables logging of outgoing requests.
	LogRequests bool
	// LogResponses enables logging of received responses.
	LogResponses bool
	// LogErrors enables logging of failed requests and retries.
	LogErrors bool
	// LogTiming attaches duration_ms to response and error records.
	LogTiming bool
	// MaxBodySize is the largest body, in bytes, that is logged.
	// Larger bodies are replaced by a size placeholder.
	MaxBodySize int
	// SuccessLevel is used for requests and responses with status < 400.
	SuccessLevel slog.Level
	// ErrorLevel is used for failed requests and responses with status >= 400.
	ErrorLevel slog.Level
}

// DefaultConfig logs everything at debug level with bodies up to 1 KiB.
func DefaultConfig() Config {
	return Config{
		LogRequests:  true,
		LogResponses: true,
		LogErrors:    true,
		LogTiming:    true,
		MaxBodySize:  1024,
		SuccessLevel: slog.LevelDebug,
		ErrorLevel:   slog.LevelError,
	}
}

// ProductionConfig logs only errors, with timing and without bodies.
func ProductionConfig() Config {
	return Config{
		LogRequests:  false,
		LogResponses: false,
		LogErrors:    true,
		LogTiming:    true,
		MaxBodySize:  0,
		SuccessLevel: slog.LevelDebug,
		ErrorLevel:   slog.LevelError,
	}
}

// DevelopmentConfig logs everything at info level with bodies up to 4 KiB.
func DevelopmentConfig() Config {
	return Config{
		LogRequests:  true,
		LogResponses: true,
		LogErrors:    true,
		LogTiming:    true,
		MaxBodySize:  4096,
		SuccessLevel: slog.LevelInfo,
		ErrorLevel:   slog.LevelError,
	}
}

// DisabledConfig turns all logging off.
func DisabledConfig() Config {
	return Config{
		SuccessLevel: slog.LevelDebug,
		ErrorLevel:   slog.LevelError,
	}
}

// Enabled reports whether any event type is logged.
func (c Config) Enabled() bool {
	return c.LogRequests || c.LogResponses || c.LogErrors
}
