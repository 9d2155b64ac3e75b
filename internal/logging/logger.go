package logging

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// RequestLogger emits structured records for the request lifecycle.
// Credential-bearing headers and body fields are always redacted. Headers
// and bodies are attached only when the record is logged at debug level.
type RequestLogger struct {
	config Config
	logger *slog.Logger
	scrub  func(string) string
}

// Option configures a RequestLogger.
type Option func(*RequestLogger)

// WithScrubber applies fn to every logged header value, body and error
// text after redaction. The client uses it to remove its own credential
// from anything a server echoes back.
func WithScrubber(fn func(string) string) Option {
	return func(l *RequestLogger) {
		l.scrub = fn
	}
}

// New creates a RequestLogger writing to logger. A nil logger, or a config
// with every event type off, discards every record.
func New(config Config, logger *slog.Logger, opts ...Option) *RequestLogger {
	if logger == nil || !config.Enabled() {
		logger = slog.New(slog.DiscardHandler)
	}
	l := &RequestLogger{config: config, logger: logger}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Config returns the logger's configuration.
func (l *RequestLogger) Config() Config {
	return l.config
}

// LogRequest records an outgoing request.
func (l *RequestLogger) LogRequest(ctx context.Context, method, url string, headers http.Header, body []byte) {
	if !l.config.LogRequests {
		return
	}
	level := l.config.SuccessLevel
	if !l.logger.Enabled(ctx, level) {
		return
	}

	attrs := []slog.Attr{
		slog.String("method", method),
		slog.String("url", url),
	}
	if level == slog.LevelDebug {
		attrs = append(attrs,
			slog.Any("headers", l.headers(headers)),
			slog.String("body", l.clean(RedactBody(body, l.config.MaxBodySize))),
		)
	}
	l.logger.LogAttrs(ctx, level, "sending request", attrs...)
}

// LogResponse records a received response. Statuses of 400 and above are
// logged at the error level.
func (l *RequestLogger) LogResponse(ctx context.Context, status int, headers http.Header, body []byte, duration time.Duration) {
	if !l.config.LogResponses {
		return
	}
	level := l.config.SuccessLevel
	if status >= 400 {
		level = l.config.ErrorLevel
	}
	if !l.logger.Enabled(ctx, level) {
		return
	}

	attrs := []slog.Attr{slog.Int("status", status)}
	if l.config.LogTiming {
		attrs = append(attrs, durationAttr(duration))
	}
	if level == slog.LevelDebug {
		attrs = append(attrs,
			slog.Any("headers", l.headers(headers)),
			slog.String("body", l.clean(RedactBody(body, l.config.MaxBodySize))),
		)
	}
	l.logger.LogAttrs(ctx, level, "received response", attrs...)
}

// LogError records a failed request.
func (l *RequestLogger) LogError(ctx context.Context, method, url string, err error, duration time.Duration) {
	if !l.config.LogErrors || err == nil || !l.logger.Enabled(ctx, l.config.ErrorLevel) {
		return
	}

	attrs := []slog.Attr{
		slog.String("method", method),
		slog.String("url", url),
		slog.String("error", l.clean(err.Error())),
	}
	if l.config.LogTiming {
		attrs = append(attrs, durationAttr(duration))
	}
	l.logger.LogAttrs(ctx, l.config.ErrorLevel, "request failed", attrs...)
}

// LogRetry records a scheduled retry at debug level.
func (l *RequestLogger) LogRetry(ctx context.Context, method, url string, attempt uint, delay time.Duration, err error) {
	if !l.config.LogErrors || !l.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}

	attrs := []slog.Attr{
		slog.String("method", method),
		slog.String("url", url),
		slog.Uint64("attempt", uint64(attempt)),
		slog.Int64("delay_ms", delay.Milliseconds()),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", l.clean(err.Error())))
	}
	l.logger.LogAttrs(ctx, slog.LevelDebug, "retrying request", attrs...)
}

func (l *RequestLogger) clean(s string) string {
	if l.scrub == nil {
		return s
	}
	return l.scrub(s)
}

func (l *RequestLogger) headers(h http.Header) http.Header {
	out := RedactHeaders(h)
	if l.scrub == nil {
		return out
	}
	for _, values := range out {
		for i, v := range values {
			values[i] = l.scrub(v)
		}
	}
	return out
}

func durationAttr(d time.Duration) slog.Attr {
	return slog.Int64("duration_ms", d.Milliseconds())
}
