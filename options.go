package truthlinked

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	defaultBaseURL        = "https://api.truthlinked.org"
	defaultTimeout        = 30 * time.Second
	defaultConnectTimeout = 10 * time.Second
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL        string
	httpClient     *http.Client
	timeout        time.Duration
	connectTimeout time.Duration
	retry          RetryConfig
	logging        LoggingConfig
	logger         *slog.Logger
	headers        http.Header
	userAgent      string
	proxy          string
	pins           []string
	registerer     prometheus.Registerer
	allowHTTP      bool

	// Connection pool
	maxIdleConnsPerHost int
	idleConnTimeout     time.Duration
}

func defaultConfig() *clientConfig {
	return &clientConfig{
		baseURL:        defaultBaseURL,
		timeout:        defaultTimeout,
		connectTimeout: defaultConnectTimeout,
		retry:          ProductionRetryConfig(),
		logging:        ProductionLoggingConfig(),
		headers:        make(http.Header),
		userAgent:      "truthlinked-sdk-go/" + Version,
	}
}

// Option configures the client.
type Option func(*clientConfig)

// WithBaseURL sets the API base URL. It must use https.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client. Timeout, pool, proxy and
// certificate pin options do not apply to it.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the timeout for a single request attempt.
// Default: 30 seconds
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithConnectTimeout sets the timeout for establishing a connection,
// including the TLS handshake.
// Default: 10 seconds
func WithConnectTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.connectTimeout = timeout
	}
}

// WithRetryConfig replaces the retry policy.
func WithRetryConfig(config RetryConfig) Option {
	return func(c *clientConfig) {
		c.retry = config
	}
}

// WithRetries sets the maximum number of attempts, keeping the rest of the
// retry policy.
func WithRetries(maxAttempts uint) Option {
	return func(c *clientConfig) {
		c.retry.MaxAttempts = maxAttempts
	}
}

// WithLoggingConfig replaces the request logging configuration.
func WithLoggingConfig(config LoggingConfig) Option {
	return func(c *clientConfig) {
		c.logging = config
	}
}

// EnableLogging switches to the development logging preset.
func EnableLogging() Option {
	return func(c *clientConfig) {
		c.logging = DevelopmentLoggingConfig()
	}
}

// DisableLogging turns request logging off.
func DisableLogging() Option {
	return func(c *clientConfig) {
		c.logging = DisabledLoggingConfig()
	}
}

// WithLogger sets the slog logger that receives request records. Without
// one, records are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithLogr routes request records to a logr sink.
func WithLogr(logger logr.Logger) Option {
	return func(c *clientConfig) {
		c.logger = slog.New(logr.ToSlogHandler(logger))
	}
}

// WithHeader adds a header sent with every request. Invalid names or
// values are reported by New.
func WithHeader(name, value string) Option {
	return func(c *clientConfig) {
		c.headers.Add(name, value)
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *clientConfig) {
		c.userAgent = userAgent
	}
}

// WithProxy routes requests through the given proxy URL.
func WithProxy(proxyURL string) Option {
	return func(c *clientConfig) {
		c.proxy = proxyURL
	}
}

// WithPoolConfig sets connection pool limits.
// Default: 10 idle connections per host, 90 second idle timeout
func WithPoolConfig(maxIdlePerHost int, idleTimeout time.Duration) Option {
	return func(c *clientConfig) {
		c.maxIdleConnsPerHost = maxIdlePerHost
		c.idleConnTimeout = idleTimeout
	}
}

// WithCertificatePin adds an accepted SHA-256 digest of the server's
// SubjectPublicKeyInfo, as "sha256/<base64>" or bare base64. Once any pin
// is set, connections presenting no matching certificate are refused.
// May be given more than once.
func WithCertificatePin(pin string) Option {
	return func(c *clientConfig) {
		c.pins = append(c.pins, pin)
	}
}

// WithMetrics registers request metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *clientConfig) {
		c.registerer = reg
	}
}

func withAllowHTTP() Option {
	return func(c *clientConfig) {
		c.allowHTTP = true
	}
}

// Production returns options for production use: 30 second timeout,
// 10 second connect timeout, production retries and error-only logging.
func Production() []Option {
	return []Option{
		WithTimeout(30 * time.Second),
		WithConnectTimeout(10 * time.Second),
		WithRetryConfig(ProductionRetryConfig()),
		WithLoggingConfig(ProductionLoggingConfig()),
	}
}

// Development returns options for local development: generous timeouts,
// aggressive retries and verbose logging.
func Development() []Option {
	return []Option{
		WithTimeout(60 * time.Second),
		WithConnectTimeout(5 * time.Second),
		WithRetryConfig(AggressiveRetryConfig()),
		WithLoggingConfig(DevelopmentLoggingConfig()),
	}
}

// Testing returns options for tests: short timeouts, no retries, no
// logging, and plain http:// base URLs permitted.
func Testing() []Option {
	return []Option{
		WithTimeout(5 * time.Second),
		WithConnectTimeout(2 * time.Second),
		WithRetryConfig(NoRetryConfig()),
		WithLoggingConfig(DisabledLoggingConfig()),
		withAllowHTTP(),
	}
}
